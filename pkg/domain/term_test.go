package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// neg(neg(true)) under and(true, .)
func sampleTerm() *Term[string] {
	return NewTerm("and",
		Leaf("true"),
		NewTerm("neg", NewTerm("neg", Leaf("false"))),
	)
}

func TestTerm_At(t *testing.T) {
	term := sampleTerm()

	tests := []struct {
		name string
		pos  Position
		want string
		ok   bool
	}{
		{name: "root", pos: Root(), want: "and(true, neg(neg(false)))", ok: true},
		{name: "first child", pos: Position{0}, want: "true", ok: true},
		{name: "second child", pos: Position{1}, want: "neg(neg(false))", ok: true},
		{name: "nested", pos: Position{1, 0}, want: "neg(false)", ok: true},
		{name: "deepest", pos: Position{1, 0, 0}, want: "false", ok: true},
		{name: "out of range", pos: Position{2}, ok: false},
		{name: "below a leaf", pos: Position{0, 0}, ok: false},
		{name: "negative index", pos: Position{-1}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := term.At(tt.pos)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestTerm_ReplaceAt(t *testing.T) {
	term := sampleTerm()

	got, ok := term.ReplaceAt(Position{1, 0}, Leaf("x"))
	require.True(t, ok)
	assert.Equal(t, "and(true, neg(x))", got.String())

	// The input is untouched and the sibling subtree is shared.
	assert.Equal(t, "and(true, neg(neg(false)))", term.String())
	assert.Same(t, term.Children[0], got.Children[0])

	root, ok := term.ReplaceAt(Root(), Leaf("y"))
	require.True(t, ok)
	assert.Equal(t, "y", root.String())

	_, ok = term.ReplaceAt(Position{5}, Leaf("z"))
	assert.False(t, ok)
}

func TestTerm_EqualAndHash(t *testing.T) {
	a := sampleTerm()
	b := sampleTerm()
	c := NewTerm("and", NewTerm("neg", NewTerm("neg", Leaf("false"))), Leaf("true"))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	// Leaves and nullary-looking terms with children differ.
	assert.False(t, Leaf("f").Equal(NewTerm("f", Leaf("x"))))
	assert.NotEqual(t, Leaf("f").Hash(), NewTerm("f", Leaf("x")).Hash())
}

func TestTerm_SizeDepthWalk(t *testing.T) {
	term := sampleTerm()
	assert.Equal(t, 5, term.Size())
	assert.Equal(t, 4, term.Depth())
	assert.Equal(t, 1, Leaf("x").Depth())

	var visited []string
	term.Walk(func(pos Position, sub *Term[string]) bool {
		visited = append(visited, pos.String()+"="+sub.Operator)
		return sub.Operator != "neg" || pos.Depth() < 2
	})
	want := []string{"ε=and", "0=true", "1=neg", "1_0=neg"}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Errorf("Walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestTerm_WithChildDoesNotAlias(t *testing.T) {
	term := sampleTerm()
	replaced := term.WithChild(0, Leaf("false"))

	assert.Equal(t, "true", term.Children[0].Operator)
	assert.Equal(t, "false", replaced.Children[0].Operator)
	assert.Nil(t, term.Child(7))
}

func TestTerm_JSON(t *testing.T) {
	data, err := json.Marshal(NewTerm("neg", Leaf("true")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"neg","args":[{"op":"true"}]}`, string(data))

	var back Term[string]
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(NewTerm("neg", Leaf("true"))))
}

func TestTerm_PositionLookup(t *testing.T) {
	term := NewTerm("AND",
		NewTerm("NEG", Leaf("TRUE")),
		NewTerm("NEG", Leaf("FALSE")),
	)

	pos := Position{1, 0}
	sub, ok := term.At(pos)
	require.True(t, ok)
	assert.Equal(t, "FALSE", sub.String())

	parentPos, ok := pos.Parent()
	require.True(t, ok)
	parent, ok := term.At(parentPos)
	require.True(t, ok)
	assert.Equal(t, "NEG(FALSE)", parent.String())
}
