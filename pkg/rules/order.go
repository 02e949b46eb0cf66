package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// CompareTerms extends the operator order to terms: operators first, then
// children left to right, the first differing pair deciding.
// It returns a negative number, zero or a positive number.
func CompareTerms[O comparable](ord ports.Ordering[O], a, b *domain.Term[O]) int {
	if c := ord.Compare(a.Operator, b.Operator); c != 0 {
		return c
	}
	n := min(len(a.Children), len(b.Children))
	for i := 0; i < n; i++ {
		if c := CompareTerms(ord, a.Children[i], b.Children[i]); c != 0 {
			return c
		}
	}
	return len(a.Children) - len(b.Children)
}

// IsGreater reports whether s dominates t in the lexicographic path ordering
// induced by the operator order:
//
//   - op(s) > op(t): s dominates every child of t;
//   - op(s) < op(t): some child of s equals or dominates t;
//   - op(s) = op(t): the first child pair where one side dominates decides.
//
// For a total operator order, exactly one of IsGreater(s, t), IsGreater(t, s)
// and s == t holds.
func IsGreater[O comparable](ord ports.Ordering[O], s, t *domain.Term[O]) bool {
	switch c := ord.Compare(s.Operator, t.Operator); {
	case c > 0:
		for _, tj := range t.Children {
			if !IsGreater(ord, s, tj) {
				return false
			}
		}
		return true
	case c < 0:
		for _, si := range s.Children {
			if si.Equal(t) || IsGreater(ord, si, t) {
				return true
			}
		}
		return false
	default:
		n := min(len(s.Children), len(t.Children))
		for i := 0; i < n; i++ {
			if IsGreater(ord, s.Children[i], t.Children[i]) {
				return true
			}
			if IsGreater(ord, t.Children[i], s.Children[i]) {
				return false
			}
		}
		return false
	}
}
