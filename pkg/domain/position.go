package domain

import (
	"strconv"
	"strings"
)

// Position addresses a subterm by the child indices followed from the root.
// The empty position is the root itself.
type Position []int

// Root returns the root position.
func Root() Position {
	return Position{}
}

// Depth is the number of indices in the path.
func (p Position) Depth() int {
	return len(p)
}

// IsRoot reports whether p addresses the root.
func (p Position) IsRoot() bool {
	return len(p) == 0
}

// Parent returns the position of the enclosing term.
// The root has no parent.
func (p Position) Parent() (Position, bool) {
	if len(p) == 0 {
		return nil, false
	}
	parent := make(Position, len(p)-1)
	copy(parent, p)
	return parent, true
}

// Child extends p with index n. The receiver is never aliased.
func (p Position) Child(n int) Position {
	child := make(Position, len(p), len(p)+1)
	copy(child, p)
	return append(child, n)
}

// Last returns the final index of the path, i.e. which child of the parent
// this position designates. The root reports false.
func (p Position) Last() (int, bool) {
	if len(p) == 0 {
		return 0, false
	}
	return p[len(p)-1], true
}

// Equal compares two paths.
func (p Position) Equal(other Position) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is an ancestor of (or equal to) p.
func (p Position) HasPrefix(prefix Position) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// String renders the root as "ε" and other paths as underscore-joined indices.
func (p Position) String() string {
	if len(p) == 0 {
		return "ε"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "_")
}

// ParsePosition is the inverse of Position.String.
func ParsePosition(s string) (Position, error) {
	if s == "" || s == "ε" {
		return Root(), nil
	}
	parts := strings.Split(s, "_")
	pos := make(Position, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, &PositionError{Input: s, Segment: part}
		}
		pos[i] = n
	}
	return pos, nil
}

// PositionError reports a malformed position string.
type PositionError struct {
	Input   string
	Segment string
}

func (e *PositionError) Error() string {
	return "invalid position " + strconv.Quote(e.Input) + ": bad segment " + strconv.Quote(e.Segment)
}
