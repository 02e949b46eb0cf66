package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// SimplifyBinaryNeutral drops a neutral operand: op(e, x) -> x and
// op(x, e) -> x. The left operand is checked first.
func SimplifyBinaryNeutral[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindBinaryNeutral.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op := t.Operator
		if !isBinary(sem, op) {
			return nil, false
		}
		left, right := t.Children[0], t.Children[1]
		if sem.IsNeutralOrFixpoint(left, op) {
			return right, true
		}
		if sem.IsNeutralOrFixpoint(right, op) {
			return left, true
		}
		return nil, false
	})
}

// SimplifyUnaryFixpoint rewrites op(c) into c when c is a fixpoint of the
// unary operator op.
func SimplifyUnaryFixpoint[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindUnaryFixpoint.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op := t.Operator
		if !isUnary(sem, op) {
			return nil, false
		}
		c := t.Children[0]
		if !sem.IsNeutralOrFixpoint(c, op) {
			return nil, false
		}
		return c, true
	})
}
