package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// FactorizeLeft rewrites op2(op1(a, y), op1(a, z)) into op1(a, op2(y, z))
// when op1 is left-distributive over op2.
func FactorizeLeft[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindFactorizeLeft.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op1, l, r, ok := sameBinaryOperands(sem, t)
		if !ok || !sem.LeftDistributes(op1, t.Operator) {
			return nil, false
		}
		a, y := l.Children[0], l.Children[1]
		b, z := r.Children[0], r.Children[1]
		if !a.Equal(b) {
			return nil, false
		}
		return domain.NewTerm(op1, a, domain.NewTerm(t.Operator, y, z)), true
	})
}

// FactorizeRight rewrites op2(op1(y, a), op1(z, a)) into op1(op2(y, z), a)
// when op1 is right-distributive over op2.
func FactorizeRight[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindFactorizeRight.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op1, l, r, ok := sameBinaryOperands(sem, t)
		if !ok || !sem.RightDistributes(op1, t.Operator) {
			return nil, false
		}
		y, a := l.Children[0], l.Children[1]
		z, b := r.Children[0], r.Children[1]
		if !a.Equal(b) {
			return nil, false
		}
		return domain.NewTerm(op1, domain.NewTerm(t.Operator, y, z), a), true
	})
}

// sameBinaryOperands matches op2(op1(..), op1(..)) with op1 and op2 binary.
func sameBinaryOperands[O comparable](sem ports.Semantics[O], t *domain.Term[O]) (O, *domain.Term[O], *domain.Term[O], bool) {
	var zero O
	if !isBinary(sem, t.Operator) {
		return zero, nil, nil, false
	}
	l, r := t.Children[0], t.Children[1]
	if l.Operator != r.Operator || !isBinary(sem, l.Operator) {
		return zero, nil, nil, false
	}
	return l.Operator, l, r, true
}

// DefactorizeLeft rewrites op1(x, op2(y, z)) into op2(op1(x, y), op1(x, z))
// when op1 is left-distributive over op2.
func DefactorizeLeft[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindDefactorizeLeft.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op1 := t.Operator
		if !isBinary(sem, op1) {
			return nil, false
		}
		x, right := t.Children[0], t.Children[1]
		op2 := right.Operator
		if !isBinary(sem, op2) || !sem.LeftDistributes(op1, op2) {
			return nil, false
		}
		y, z := right.Children[0], right.Children[1]
		return domain.NewTerm(op2,
			domain.NewTerm(op1, x, y),
			domain.NewTerm(op1, x, z),
		), true
	})
}

// DefactorizeRight rewrites op1(op2(y, z), x) into op2(op1(y, x), op1(z, x))
// when op1 is right-distributive over op2.
func DefactorizeRight[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindDefactorizeRight.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op1 := t.Operator
		if !isBinary(sem, op1) {
			return nil, false
		}
		left, x := t.Children[0], t.Children[1]
		op2 := left.Operator
		if !isBinary(sem, op2) || !sem.RightDistributes(op1, op2) {
			return nil, false
		}
		y, z := left.Children[0], left.Children[1]
		return domain.NewTerm(op2,
			domain.NewTerm(op1, y, x),
			domain.NewTerm(op1, z, x),
		), true
	})
}
