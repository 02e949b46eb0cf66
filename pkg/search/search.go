package search

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Config parameterizes a search. The zero value explores depth first,
// without limits and with DefaultPriorities.
type Config[O comparable] struct {
	Strategy   Strategy
	Priorities *Priorities
	Filters    Filters[O]
	// Trace keeps every node and edge of the explored graph in the verdict.
	Trace  bool
	Logger *slog.Logger
}

// Verdict is the outcome of a search.
type Verdict[O comparable] struct {
	// Normal holds the distinct terminal terms, in discovery order.
	Normal []*domain.Term[O]
	// Nodes counts the distinct (term, phase) nodes created.
	Nodes int
	// Filtered counts the candidates dropped by filters, per reason.
	Filtered map[Filtration]int
	// Graph is set when Config.Trace is.
	Graph *Graph[O]
}

// FilteredTotal sums the filtered candidates over every reason.
func (v *Verdict[O]) FilteredTotal() int {
	n := 0
	for _, c := range v.Filtered {
		n += c
	}
	return n
}

// Graph is the explored part of the process.
type Graph[O comparable] struct {
	Nodes []domain.Node[O]
	Edges []Edge
	// Terminal marks the ids of nodes without successors.
	Terminal map[int]bool
}

// Edge links two node ids with the label of the step taken.
type Edge struct {
	From  int
	To    int
	Label string
	Kind  domain.StepKind
}

type nodeKey struct {
	phase int
	hash  uint64
}

type searcher[O comparable] struct {
	cfg        Config[O]
	priorities Priorities
	proc       ports.Process[O]

	nodes   []domain.Node[O]
	index   map[nodeKey][]int
	seq     int
	verdict *Verdict[O]
	normal  *domain.TermSet[O]
}

// Run explores proc from term until every reachable node is expanded or
// filtered, or ctx is done.
func Run[O comparable](ctx context.Context, cfg Config[O], proc ports.Process[O], term *domain.Term[O]) (*Verdict[O], error) {
	s := &searcher[O]{
		cfg:        cfg,
		priorities: DefaultPriorities(),
		proc:       proc,
		index:      make(map[nodeKey][]int),
		verdict:    &Verdict[O]{Filtered: make(map[Filtration]int)},
		normal:     domain.NewTermSet[O](),
	}
	if cfg.Priorities != nil {
		s.priorities = *cfg.Priorities
	}
	if cfg.Trace {
		s.verdict.Graph = &Graph[O]{Terminal: make(map[int]bool)}
	}
	if err := s.run(ctx, term); err != nil {
		return nil, err
	}
	s.verdict.Normal = s.normal.Items()
	s.verdict.Nodes = len(s.nodes)
	return s.verdict, nil
}

func (s *searcher[O]) run(ctx context.Context, term *domain.Term[O]) error {
	front := newFrontier[O](s.cfg.Strategy)
	start := s.proc.Start(ctx, term)
	front.push(item[O]{node: start, id: s.add(start)})

	for front.len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		cur := front.pop()

		steps := s.proc.CollectNextSteps(ctx, cur.node)
		if len(steps) == 0 {
			s.normal.Add(cur.node.Term)
			if g := s.verdict.Graph; g != nil {
				g.Terminal[cur.id] = true
			}
			continue
		}

		children := s.expand(ctx, cur, steps)
		if s.cfg.Strategy == DepthFirst {
			// The first child is popped first.
			slices.Reverse(children)
		}
		for _, child := range children {
			front.push(child)
		}
	}
	return nil
}

// expand materializes the accepted successors of cur, highest priority first.
func (s *searcher[O]) expand(ctx context.Context, cur item[O], steps []domain.Step[O]) []item[O] {
	scored := make([]item[O], 0, len(steps))
	order := make([]int, len(steps))
	scores := make([]int, len(steps))
	for i, st := range steps {
		order[i] = i
		scores[i] = Score(s.priorities, st)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	for _, i := range order {
		step := steps[i]
		if reason, drop := s.cfg.Filters.step(len(s.nodes), cur.depth+1); drop {
			s.verdict.Filtered[reason]++
			continue
		}
		next := s.proc.ProcessNewStep(ctx, cur.node, step)
		if id, seen := s.lookup(next); seen {
			s.edge(cur.id, id, step)
			continue
		}
		if reason, drop := s.cfg.Filters.node(next.Term); drop {
			s.verdict.Filtered[reason]++
			continue
		}
		id := s.add(next)
		s.edge(cur.id, id, step)
		s.seq++
		scored = append(scored, item[O]{
			node:     next,
			id:       id,
			depth:    cur.depth + 1,
			priority: scores[i],
			seq:      s.seq,
		})
		if s.cfg.Logger != nil {
			s.cfg.Logger.Debug("search step", "from", cur.id, "to", id, "step", step.Label())
		}
	}
	return scored
}

func (s *searcher[O]) lookup(n domain.Node[O]) (int, bool) {
	for _, id := range s.index[nodeKey{phase: n.Phase, hash: n.Term.Hash()}] {
		if s.nodes[id].Equal(n) {
			return id, true
		}
	}
	return 0, false
}

func (s *searcher[O]) add(n domain.Node[O]) int {
	id := len(s.nodes)
	s.nodes = append(s.nodes, n)
	key := nodeKey{phase: n.Phase, hash: n.Term.Hash()}
	s.index[key] = append(s.index[key], id)
	if g := s.verdict.Graph; g != nil {
		g.Nodes = append(g.Nodes, n)
	}
	return id
}

func (s *searcher[O]) edge(from, to int, step domain.Step[O]) {
	if g := s.verdict.Graph; g != nil {
		g.Edges = append(g.Edges, Edge{From: from, To: to, Label: step.Label(), Kind: step.Kind})
	}
}
