package domain

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// MetricSpec tells Measure which metrics an operator contributes to, and
// which metrics also track how deeply they nest inside themselves.
type MetricSpec[O comparable, M cmp.Ordered] struct {
	Of     func(op O) []M
	Nested func(m M) bool
}

// TermMetrics summarizes a term.
type TermMetrics[M cmp.Ordered] struct {
	Counts map[M]int
	Depth  int
	// MaxNested holds, for nested metrics, the largest number of occurrences
	// found along a single root-to-leaf path.
	MaxNested map[M]int
}

// Measure walks t and gathers the metrics described by spec.
func Measure[O comparable, M cmp.Ordered](t *Term[O], spec MetricSpec[O, M]) TermMetrics[M] {
	counts := make(map[M]int)
	nested, depth := measure(t, spec, counts, 1, map[M]int{})
	return TermMetrics[M]{Counts: counts, Depth: depth, MaxNested: nested}
}

func measure[O comparable, M cmp.Ordered](
	t *Term[O],
	spec MetricSpec[O, M],
	counts map[M]int,
	depth int,
	inherited map[M]int,
) (map[M]int, int) {
	current := maps.Clone(inherited)
	for _, m := range spec.Of(t.Operator) {
		counts[m]++
		if spec.Nested != nil && spec.Nested(m) {
			current[m]++
		}
	}
	maxDepth := depth
	best := maps.Clone(current)
	for _, c := range t.Children {
		childNested, childDepth := measure(c, spec, counts, depth+1, current)
		maxDepth = max(maxDepth, childDepth)
		for m, d := range childNested {
			best[m] = max(best[m], d)
		}
	}
	return best, maxDepth
}

// Summary renders the metrics as sorted human-readable lines.
func (m TermMetrics[M]) Summary() []string {
	lines := []string{fmt.Sprintf("term depth : %d", m.Depth)}
	for _, k := range slices.Sorted(maps.Keys(m.Counts)) {
		lines = append(lines, fmt.Sprintf("%v : %d", k, m.Counts[k]))
	}
	for _, k := range slices.Sorted(maps.Keys(m.MaxNested)) {
		lines = append(lines, fmt.Sprintf("%v-max-nested-depth : %d", k, m.MaxNested[k]))
	}
	return lines
}
