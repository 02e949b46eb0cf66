package domain

import (
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"strings"
)

// Term is a node of a symbolic expression tree: an operator applied to an
// ordered list of children. Terms are immutable by convention. Rewriting
// always builds a new term and shares the untouched subtrees.
//
// The number of children is expected to match the arity the operator
// semantics report for Operator; the type itself does not enforce it.
type Term[O comparable] struct {
	Operator O         `json:"op"`
	Children []*Term[O] `json:"args,omitempty"`
}

// NewTerm builds a term. The children slice is owned by the new term.
func NewTerm[O comparable](op O, children ...*Term[O]) *Term[O] {
	if len(children) == 0 {
		children = nil
	}
	return &Term[O]{Operator: op, Children: children}
}

// Leaf builds a term without children.
func Leaf[O comparable](op O) *Term[O] {
	return &Term[O]{Operator: op}
}

// Arity returns the number of children actually carried by the term.
func (t *Term[O]) Arity() int {
	return len(t.Children)
}

// Child returns the n-th child, or nil when out of range.
func (t *Term[O]) Child(n int) *Term[O] {
	if n < 0 || n >= len(t.Children) {
		return nil
	}
	return t.Children[n]
}

// WithChild returns a copy of t whose n-th child is replaced by c.
// The other children are shared with t.
func (t *Term[O]) WithChild(n int, c *Term[O]) *Term[O] {
	children := make([]*Term[O], len(t.Children))
	copy(children, t.Children)
	children[n] = c
	return &Term[O]{Operator: t.Operator, Children: children}
}

// Equal reports structural equality.
func (t *Term[O]) Equal(other *Term[O]) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Operator != other.Operator || len(t.Children) != len(other.Children) {
		return false
	}
	for i, c := range t.Children {
		if !c.Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

var hashSeed = maphash.MakeSeed()

// Hash returns a structural hash of the term, stable for the lifetime of the
// process. Equal terms have equal hashes.
func (t *Term[O]) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	t.writeHash(&h)
	return h.Sum64()
}

func (t *Term[O]) writeHash(h *maphash.Hash) {
	maphash.WriteComparable(h, t.Operator)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(t.Children)))
	h.Write(buf[:])
	for _, c := range t.Children {
		c.writeHash(h)
	}
}

// At returns the subterm found by following pos from t.
// It reports false when an index is out of range at any step.
func (t *Term[O]) At(pos Position) (*Term[O], bool) {
	cur := t
	for _, idx := range pos {
		if idx < 0 || idx >= len(cur.Children) {
			return nil, false
		}
		cur = cur.Children[idx]
	}
	return cur, true
}

// ReplaceAt returns a copy of t with the subterm at pos replaced by sub.
// Only the spine from the root to pos is copied.
func (t *Term[O]) ReplaceAt(pos Position, sub *Term[O]) (*Term[O], bool) {
	if len(pos) == 0 {
		return sub, true
	}
	idx := pos[0]
	if idx < 0 || idx >= len(t.Children) {
		return nil, false
	}
	replaced, ok := t.Children[idx].ReplaceAt(pos[1:], sub)
	if !ok {
		return nil, false
	}
	return t.WithChild(idx, replaced), true
}

// Size is the number of nodes in the tree.
func (t *Term[O]) Size() int {
	n := 1
	for _, c := range t.Children {
		n += c.Size()
	}
	return n
}

// Depth is the length of the longest root-to-leaf path, counting nodes.
func (t *Term[O]) Depth() int {
	d := 0
	for _, c := range t.Children {
		d = max(d, c.Depth())
	}
	return d + 1
}

// Walk visits every subterm in pre-order together with its position.
// Returning false from fn prunes the subtree.
func (t *Term[O]) Walk(fn func(pos Position, sub *Term[O]) bool) {
	t.walk(Root(), fn)
}

func (t *Term[O]) walk(pos Position, fn func(Position, *Term[O]) bool) {
	if !fn(pos, t) {
		return
	}
	for i, c := range t.Children {
		c.walk(pos.Child(i), fn)
	}
}

// String renders the term as op(child, child).
func (t *Term[O]) String() string {
	var sb strings.Builder
	t.format(&sb)
	return sb.String()
}

func (t *Term[O]) format(sb *strings.Builder) {
	fmt.Fprint(sb, t.Operator)
	if len(t.Children) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, c := range t.Children {
		if i > 0 {
			sb.WriteString(", ")
		}
		c.format(sb)
	}
	sb.WriteByte(')')
}
