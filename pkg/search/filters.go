package search

import "github.com/aretw0/espalier/pkg/domain"

// Filtration names the reason a candidate node was dropped.
type Filtration string

const (
	FilteredMaxNodes  Filtration = "max_nodes"
	FilteredMaxDepth  Filtration = "max_depth"
	FilteredPredicate Filtration = "predicate"
)

// Filters bound the exploration. Zero values disable a limit.
type Filters[O comparable] struct {
	// MaxNodes drops every step once that many nodes have been created.
	MaxNodes int
	// MaxDepth drops steps leading deeper than this many steps from the start.
	MaxDepth int
	// MustSatisfy drops new nodes whose term fails the predicate.
	MustSatisfy func(*domain.Term[O]) bool
}

func (f Filters[O]) step(nodes, depth int) (Filtration, bool) {
	if f.MaxNodes > 0 && nodes >= f.MaxNodes {
		return FilteredMaxNodes, true
	}
	if f.MaxDepth > 0 && depth > f.MaxDepth {
		return FilteredMaxDepth, true
	}
	return "", false
}

func (f Filters[O]) node(t *domain.Term[O]) (Filtration, bool) {
	if f.MustSatisfy != nil && !f.MustSatisfy(t) {
		return FilteredPredicate, true
	}
	return "", false
}
