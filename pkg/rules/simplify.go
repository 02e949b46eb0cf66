package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
)

// UnarySimplifier lets a domain simplify terms rooted at a unary operator:
// fixpoints, merges of nested operators, involutions, concrete evaluation.
type UnarySimplifier[O comparable] interface {
	IsUnary(op O) bool
	SimplifyUnary(op O, operand *domain.Term[O]) (*domain.Term[O], bool)
}

// BinarySimplifier lets a domain simplify terms rooted at a binary operator:
// neutral or absorbing elements, concrete evaluation.
type BinarySimplifier[O comparable] interface {
	IsBinary(op O) bool
	SimplifyBinary(op O, left, right *domain.Term[O]) (*domain.Term[O], bool)
}

// SimplifyUnary delegates unary roots to the domain simplifier.
func SimplifyUnary[O comparable](name string, s UnarySimplifier[O]) domain.Rule[O] {
	return domain.NewRule(name, func(t *domain.Term[O]) (*domain.Term[O], bool) {
		if !s.IsUnary(t.Operator) {
			return nil, false
		}
		return s.SimplifyUnary(t.Operator, t.Children[0])
	})
}

// SimplifyBinary delegates binary roots to the domain simplifier.
func SimplifyBinary[O comparable](name string, s BinarySimplifier[O]) domain.Rule[O] {
	return domain.NewRule(name, func(t *domain.Term[O]) (*domain.Term[O], bool) {
		if !s.IsBinary(t.Operator) {
			return nil, false
		}
		return s.SimplifyBinary(t.Operator, t.Children[0], t.Children[1])
	})
}
