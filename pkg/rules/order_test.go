package rules

import (
	"cmp"
	"slices"
	"strings"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func termUniverse() []*domain.Term[string] {
	set := domain.NewTermSet(T("a"), T("b"))
	for range 2 {
		level := set.Items()
		for _, x := range level {
			set.Add(domain.NewTerm("neg", x))
			for _, y := range level {
				set.Add(domain.NewTerm("and", x, y))
			}
		}
	}
	return set.Items()
}

func boolSig() *testSig {
	return &testSig{
		arity: map[string]int{"and": 2, "neg": 1},
		order: []string{"a", "b", "neg", "and"},
		comm:  map[string]bool{"and": true},
		assoc: map[string]bool{"and": true},
	}
}

func TestIsGreater_Total(t *testing.T) {
	sig := boolSig()
	universe := termUniverse()
	require.Greater(t, len(universe), 50)

	for _, s := range universe {
		for _, u := range universe {
			gt, lt, eq := IsGreater[string](sig, s, u), IsGreater[string](sig, u, s), s.Equal(u)
			n := 0
			for _, b := range []bool{gt, lt, eq} {
				if b {
					n++
				}
			}
			if n != 1 {
				t.Fatalf("ordering not total on %s / %s: gt=%v lt=%v eq=%v", s, u, gt, lt, eq)
			}
		}
	}
}

func TestIsGreater_Cases(t *testing.T) {
	sig := boolSig()
	tests := []struct {
		s, u string
		want bool
	}{
		{s: "b", u: "a", want: true},
		{s: "a", u: "b", want: false},
		// A greater root must dominate every child of the other side.
		{s: "neg(a)", u: "b", want: true},
		{s: "and(a, a)", u: "neg(b)", want: true},
		// A smaller root wins through one of its children.
		{s: "neg(and(a, b))", u: "and(a, b)", want: true},
		{s: "neg(a)", u: "and(a, b)", want: false},
		// Same root: the first child pair that differs decides.
		{s: "and(b, a)", u: "and(a, b)", want: true},
		{s: "and(a, b)", u: "and(a, b)", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.s+" > "+tt.u, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGreater[string](sig, T(tt.s), T(tt.u)))
		})
	}
}

func TestCompareTerms_Antisymmetric(t *testing.T) {
	sig := boolSig()
	universe := termUniverse()
	for _, s := range universe {
		for _, u := range universe {
			c1, c2 := CompareTerms[string](sig, s, u), CompareTerms[string](sig, u, s)
			assert.Equal(t, cmp.Compare(c1, 0), -cmp.Compare(c2, 0))
			assert.Equal(t, c1 == 0, s.Equal(u))
		}
	}
}

func TestReorderCommutative_Fixpoint(t *testing.T) {
	sig := boolSig()
	rule := []domain.Rule[string]{ReorderCommutative[string](sig)}

	term := T("and(and(b, a), neg(and(b, a)))")
	for i := 0; ; i++ {
		require.Less(t, i, 10, "reordering must terminate")
		found := rewrite.FindRewrites(0, rule, term, true)
		if len(found) == 0 {
			break
		}
		term = found[0].Result
	}
	// neg sorts before and, so the negated operand moves to the front.
	assert.Equal(t, T("and(neg(and(a, b)), and(a, b))").String(), term.String())
}

// Interaction-style operators: THEN sequences actions, STOP is a barrier
// that never moves, USIZE(n) are the reorderable leaves.
type seqKind int

const (
	usize seqKind = iota
	stop
	then
)

type seqOp struct {
	kind seqKind
	n    int
}

type seqSig struct{}

func (seqSig) Arity(op seqOp) int {
	if op.kind == then {
		return 2
	}
	return 0
}

func (seqSig) Compare(a, b seqOp) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	return cmp.Compare(a.n, b.n)
}

func (seqSig) Considers(op seqOp) bool { return op.kind == then }

func (seqSig) MayCommute(_ seqOp, left, right *domain.Term[seqOp]) bool {
	return left.Operator.kind != stop && right.Operator.kind != stop
}

func seqChain(items ...int) *domain.Term[seqOp] {
	operands := make([]*domain.Term[seqOp], len(items))
	for i, n := range items {
		if n < 0 {
			operands[i] = domain.Leaf(seqOp{kind: stop})
		} else {
			operands[i] = domain.Leaf(seqOp{kind: usize, n: n})
		}
	}
	return Fold(seqOp{kind: then}, operands)
}

func TestReorderModuloAC_Barriers(t *testing.T) {
	const STOP = -1
	rule := ReorderModuloAC[seqOp](seqSig{})

	in := seqChain(3, 9, 7, STOP, 4, 10, STOP, 2, 1, 6)
	got, ok := rule.Apply(in, in, domain.Root())
	require.True(t, ok)
	assert.True(t, seqChain(3, 7, 9, STOP, 4, 10, STOP, 1, 2, 6).Equal(got), "got %v", got)

	_, ok = rule.Apply(got, got, domain.Root())
	assert.False(t, ok, "an ordered chain is left alone")
}

func TestReorderModuloAC_FromSemantics(t *testing.T) {
	rule, err := Builtin[string](regexSig(), KindReorderModuloAC)
	require.NoError(t, err)

	in := T("alt(alt(c, a), alt(b, seq(a, b)))")
	got, ok := rule.Apply(in, in, domain.Root())
	require.True(t, ok)
	assert.Equal(t, "alt(a, alt(b, alt(c, seq(a, b))))", got.String())

	notAC := T("seq(c, a)")
	_, ok = rule.Apply(notAC, notAC, domain.Root())
	assert.False(t, ok)
}

func permutations[T any](items []T) [][]T {
	if len(items) <= 1 {
		return [][]T{slices.Clone(items)}
	}
	var out [][]T
	for i := range items {
		rest := make([]T, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]T{items[i]}, p...))
		}
	}
	return out
}

// operandSets draws chains of four operands from the universe, keeping the
// terms accepted by keep.
func operandSets(t *testing.T, keep func(*domain.Term[string]) bool) [][]*domain.Term[string] {
	t.Helper()
	var pool []*domain.Term[string]
	for _, u := range termUniverse() {
		if keep(u) {
			pool = append(pool, u)
		}
	}
	require.GreaterOrEqual(t, len(pool), 6)

	var sets [][]*domain.Term[string]
	for i := 0; i+4 <= len(pool) && len(sets) < 6; i += 2 {
		sets = append(sets, slices.Clone(pool[i:i+4]))
	}
	// Repeated operands must end up adjacent.
	sets = append(sets, []*domain.Term[string]{pool[0], pool[3], pool[0], pool[1]})
	return sets
}

func TestBubbleOrder_PermutationStable(t *testing.T) {
	sig := boolSig()
	reorder := ReorderModuloAC[string](NewReorderer[string](sig, nil))
	sets := operandSets(t, func(u *domain.Term[string]) bool { return u.Operator != "and" })

	for _, set := range sets {
		t.Run(Fold("and", set).String(), func(t *testing.T) {
			var want string
			for _, perm := range permutations(set) {
				ops := slices.Clone(perm)
				BubbleOrder[string](sig, "and", ops, AlwaysCommute[string])
				for i := 0; i+1 < len(ops); i++ {
					assert.False(t, IsGreater[string](sig, ops[i], ops[i+1]), "unsorted pair %s, %s", ops[i], ops[i+1])
				}
				got := Fold("and", ops).String()
				if want == "" {
					want = got
				}
				assert.Equal(t, want, got, "permutation %v", perm)

				in := Fold("and", perm)
				out, ok := reorder.Apply(in, in, domain.Root())
				if !ok {
					out = in
				}
				assert.Equal(t, want, out.String(), "rule on permutation %v", perm)
			}
		})
	}
}

func TestReorderCommutativeAC_PermutationStable(t *testing.T) {
	sig := boolSig()
	rule := []domain.Rule[string]{ReorderCommutativeAC[string](sig, nil)}
	sets := operandSets(t, func(u *domain.Term[string]) bool { return !strings.Contains(u.String(), "and") })

	for _, set := range sets {
		t.Run(Fold("and", set).String(), func(t *testing.T) {
			var want string
			for _, perm := range permutations(set) {
				term := Fold("and", perm)
				for i := 0; ; i++ {
					require.Less(t, i, 100, "reordering %v must terminate", perm)
					found := rewrite.FindRewrites(0, rule, term, true)
					if len(found) == 0 {
						break
					}
					term = found[0].Result
				}
				if want == "" {
					want = term.String()
				}
				assert.Equal(t, want, term.String(), "permutation %v", perm)
			}
		})
	}
}
