package search

import (
	"fmt"
	"strings"
)

// Strategy selects the order in which pending nodes are explored.
type Strategy int

const (
	DepthFirst Strategy = iota
	BreadthFirst
	BestFirst
)

func (s Strategy) String() string {
	switch s {
	case DepthFirst:
		return "dfs"
	case BreadthFirst:
		return "bfs"
	case BestFirst:
		return "best"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "dfs", "bfs" and "best" (or "hcs").
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dfs", "depth", "depth_first":
		return DepthFirst, nil
	case "bfs", "breadth", "breadth_first":
		return BreadthFirst, nil
	case "best", "hcs", "best_first":
		return BestFirst, nil
	}
	return 0, fmt.Errorf("unknown search strategy %q", s)
}
