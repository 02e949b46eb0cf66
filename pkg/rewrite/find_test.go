package rewrite

import (
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(op string) *domain.Term[string] { return domain.Leaf(op) }

func neg(t *domain.Term[string]) *domain.Term[string] { return domain.NewTerm("neg", t) }

func and(a, b *domain.Term[string]) *domain.Term[string] { return domain.NewTerm("and", a, b) }

var doubleNegation = domain.NewRule("double_negation", func(t *domain.Term[string]) (*domain.Term[string], bool) {
	if t.Operator == "neg" && t.Children[0].Operator == "neg" {
		return t.Children[0].Children[0], true
	}
	return nil, false
})

var stripNegation = domain.NewRule("strip_negation", func(t *domain.Term[string]) (*domain.Term[string], bool) {
	if t.Operator == "neg" {
		return t.Children[0], true
	}
	return nil, false
})

var trueToFalse = domain.NewRule("true_to_false", func(t *domain.Term[string]) (*domain.Term[string], bool) {
	if t.Operator == "true" {
		return leaf("false"), true
	}
	return nil, false
})

func positions(rws []domain.Rewrite[string]) []string {
	out := make([]string, len(rws))
	for i, r := range rws {
		out[i] = r.RuleName + "@" + r.Position.String()
	}
	return out
}

func TestFindRewrites_AllPositions(t *testing.T) {
	term := and(neg(neg(leaf("true"))), neg(neg(neg(neg(leaf("false"))))))

	got := FindRewrites(3, []domain.Rule[string]{doubleNegation}, term, false)
	assert.Equal(t, []string{
		"double_negation@0",
		"double_negation@1",
		"double_negation@1_0",
		"double_negation@1_0_0",
	}, positions(got))

	for _, r := range got {
		assert.Equal(t, 3, r.PhaseIndex)
		assert.Equal(t, 0, r.RuleIndex)
	}
	// The whole term is rebuilt around the rewritten subterm.
	assert.Equal(t, "and(true, neg(neg(neg(neg(false)))))", got[0].Result.String())
	assert.Equal(t, "and(neg(neg(true)), neg(neg(false)))", got[2].Result.String())
	// The input is left untouched.
	assert.Equal(t, "and(neg(neg(true)), neg(neg(neg(neg(false)))))", term.String())
}

// Every (rule, position) pair where a rule fires yields exactly one
// candidate, and no other candidate is produced.
func TestFindRewrites_Complete(t *testing.T) {
	rules := []domain.Rule[string]{doubleNegation, stripNegation, trueToFalse}
	term := and(neg(neg(leaf("true"))), and(neg(leaf("true")), neg(neg(neg(leaf("false"))))))

	var want []string
	term.Walk(func(pos domain.Position, sub *domain.Term[string]) bool {
		for _, r := range rules {
			if _, ok := r.Apply(sub, term, pos); ok {
				want = append(want, r.Name()+"@"+pos.String())
			}
		}
		return true
	})

	got := FindRewrites(0, rules, term, false)
	assert.ElementsMatch(t, want, positions(got))
	assert.Len(t, got, 11)

	for _, r := range got {
		sub, ok := term.At(r.Position)
		require.True(t, ok)
		expected, _ := rules[r.RuleIndex].Apply(sub, term, r.Position)
		rebuilt, ok := term.ReplaceAt(r.Position, expected)
		require.True(t, ok)
		assert.True(t, rebuilt.Equal(r.Result), "%s: %s != %s", r.RuleName, rebuilt, r.Result)
	}
}

func TestFindRewrites_KeepOnlyOne(t *testing.T) {
	tests := []struct {
		name  string
		rules []domain.Rule[string]
		term  *domain.Term[string]
		want  string
	}{
		{
			name:  "root wins over the subtree",
			rules: []domain.Rule[string]{doubleNegation},
			term:  neg(neg(neg(neg(leaf("true"))))),
			want:  "double_negation@ε",
		},
		{
			name:  "root wins even for a later rule",
			rules: []domain.Rule[string]{trueToFalse, doubleNegation},
			term:  neg(neg(leaf("true"))),
			want:  "double_negation@ε",
		},
		{
			name:  "lowest rule index at the same position",
			rules: []domain.Rule[string]{stripNegation, doubleNegation},
			term:  neg(neg(leaf("true"))),
			want:  "strip_negation@ε",
		},
		{
			name:  "lowest child index",
			rules: []domain.Rule[string]{doubleNegation},
			term:  and(neg(neg(leaf("a"))), neg(neg(leaf("b")))),
			want:  "double_negation@0",
		},
		{
			name:  "depth first before the next sibling",
			rules: []domain.Rule[string]{trueToFalse},
			term:  and(neg(leaf("true")), leaf("true")),
			want:  "true_to_false@0_0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindRewrites(0, tt.rules, tt.term, true)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, positions(got)[0])
		})
	}

	assert.Empty(t, FindRewrites(0, []domain.Rule[string]{doubleNegation}, leaf("true"), true))
}

func TestFindRewrites_ContextRule(t *testing.T) {
	// Strip a negation only when it sits directly under an "and".
	underAnd := domain.NewContextRule("strip_under_and", func(sub, root *domain.Term[string], pos domain.Position) (*domain.Term[string], bool) {
		if sub.Operator != "neg" {
			return nil, false
		}
		parentPos, ok := pos.Parent()
		if !ok {
			return nil, false
		}
		parent, _ := root.At(parentPos)
		if parent.Operator != "and" {
			return nil, false
		}
		return sub.Children[0], true
	})

	term := neg(and(neg(neg(leaf("a"))), leaf("b")))
	got := FindRewrites(0, []domain.Rule[string]{underAnd}, term, false)
	assert.Equal(t, []string{"strip_under_and@0_0"}, positions(got))
	assert.Equal(t, "neg(and(neg(a), b))", got[0].Result.String())
}
