package domain

// TermSet is a set of terms keyed by structural equality.
// Iteration follows insertion order. The zero value is not usable; call NewTermSet.
type TermSet[O comparable] struct {
	buckets map[uint64][]int
	items   []*Term[O]
}

// NewTermSet returns a set holding the given terms.
func NewTermSet[O comparable](terms ...*Term[O]) *TermSet[O] {
	s := &TermSet[O]{buckets: make(map[uint64][]int)}
	for _, t := range terms {
		s.Add(t)
	}
	return s
}

// Add inserts t and reports whether it was absent.
func (s *TermSet[O]) Add(t *Term[O]) bool {
	h := t.Hash()
	for _, idx := range s.buckets[h] {
		if s.items[idx].Equal(t) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], len(s.items))
	s.items = append(s.items, t)
	return true
}

// Contains reports membership.
func (s *TermSet[O]) Contains(t *Term[O]) bool {
	for _, idx := range s.buckets[t.Hash()] {
		if s.items[idx].Equal(t) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct terms.
func (s *TermSet[O]) Len() int {
	return len(s.items)
}

// Items returns the terms in insertion order. The slice is a copy.
func (s *TermSet[O]) Items() []*Term[O] {
	out := make([]*Term[O], len(s.items))
	copy(out, s.items)
	return out
}
