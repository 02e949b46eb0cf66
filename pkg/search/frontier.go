package search

import (
	"container/heap"

	"github.com/aretw0/espalier/pkg/domain"
)

type item[O comparable] struct {
	node     domain.Node[O]
	id       int
	depth    int
	priority int
	seq      int
}

type frontier[O comparable] interface {
	push(it item[O])
	pop() item[O]
	len() int
}

func newFrontier[O comparable](s Strategy) frontier[O] {
	switch s {
	case BreadthFirst:
		return &queue[O]{}
	case BestFirst:
		return &bestFirst[O]{}
	default:
		return &stack[O]{}
	}
}

type stack[O comparable] struct{ items []item[O] }

func (s *stack[O]) push(it item[O]) { s.items = append(s.items, it) }
func (s *stack[O]) len() int        { return len(s.items) }

func (s *stack[O]) pop() item[O] {
	it := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return it
}

type queue[O comparable] struct {
	items []item[O]
	head  int
}

func (q *queue[O]) push(it item[O]) { q.items = append(q.items, it) }
func (q *queue[O]) len() int        { return len(q.items) - q.head }

func (q *queue[O]) pop() item[O] {
	it := q.items[q.head]
	q.items[q.head] = item[O]{}
	q.head++
	if q.head > 64 && q.head*2 > len(q.items) {
		q.items = append([]item[O](nil), q.items[q.head:]...)
		q.head = 0
	}
	return it
}

// bestFirst pops the highest priority first, FIFO among equal priorities.
type bestFirst[O comparable] struct{ h itemHeap[O] }

func (b *bestFirst[O]) push(it item[O]) { heap.Push(&b.h, it) }
func (b *bestFirst[O]) pop() item[O]    { return heap.Pop(&b.h).(item[O]) }
func (b *bestFirst[O]) len() int        { return b.h.Len() }

type itemHeap[O comparable] []item[O]

func (h itemHeap[O]) Len() int { return len(h) }

func (h itemHeap[O]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap[O]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap[O]) Push(x any) { *h = append(*h, x.(item[O])) }

func (h *itemHeap[O]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
