package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// FlushRight rewrites op(op(a, b), c) into op(a, op(b, c)) for an
// associative binary op.
func FlushRight[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindFlushRight.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op := t.Operator
		if !isBinary(sem, op) || !sem.IsAssociative(op) {
			return nil, false
		}
		left, c := t.Children[0], t.Children[1]
		if left.Operator != op {
			return nil, false
		}
		a, b := left.Children[0], left.Children[1]
		return domain.NewTerm(op, a, domain.NewTerm(op, b, c)), true
	})
}

// FlushLeft rewrites op(a, op(b, c)) into op(op(a, b), c) for an
// associative binary op.
func FlushLeft[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindFlushLeft.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op := t.Operator
		if !isBinary(sem, op) || !sem.IsAssociative(op) {
			return nil, false
		}
		a, right := t.Children[0], t.Children[1]
		if right.Operator != op {
			return nil, false
		}
		b, c := right.Children[0], right.Children[1]
		return domain.NewTerm(op, domain.NewTerm(op, a, b), c), true
	})
}

func isBinary[O comparable](a ports.Arities[O], op O) bool {
	return a.Arity(op) == 2
}

func isUnary[O comparable](a ports.Arities[O], op O) bool {
	return a.Arity(op) == 1
}
