package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// MayCommute decides whether two adjacent operands of parent may be swapped.
// Domains with sequencing operators use it to forbid some exchanges.
type MayCommute[O comparable] func(parent O, left, right *domain.Term[O]) bool

// AlwaysCommute allows every exchange.
func AlwaysCommute[O comparable](O, *domain.Term[O], *domain.Term[O]) bool {
	return true
}

// ReorderCommutative rewrites op(x, y) into op(y, x) when op is commutative
// and x is greater than y under CompareTerms.
func ReorderCommutative[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindReorderCommutative.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op := t.Operator
		if !isBinary(sem, op) || !sem.IsCommutative(op) {
			return nil, false
		}
		x, y := t.Children[0], t.Children[1]
		if CompareTerms(sem, x, y) <= 0 {
			return nil, false
		}
		return domain.NewTerm(op, y, x), true
	})
}

// ReorderCommutativeAC orders the operands of an associative-commutative
// chain one adjacent pair at a time, looking through one level of nesting:
//
//	op(y, op(x, r)) -> op(x, op(y, r))   (right-leaning chain)
//	op(op(r, y), x) -> op(op(r, x), y)   (left-leaning chain)
//	op(y, x)        -> op(x, y)          (no nested op)
//
// A swap happens only when y is greater than x under CompareTerms and
// mayCommute allows the exchange. Terms whose two children both carry op are
// left alone; flush them first.
func ReorderCommutativeAC[O comparable](sem ports.Semantics[O], mayCommute MayCommute[O]) domain.Rule[O] {
	if mayCommute == nil {
		mayCommute = AlwaysCommute[O]
	}
	return domain.NewRule(KindReorderCommutativeAC.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op := t.Operator
		if !isBinary(sem, op) || !sem.IsCommutative(op) || !sem.IsAssociative(op) {
			return nil, false
		}
		left, right := t.Children[0], t.Children[1]
		leftNested, rightNested := left.Operator == op, right.Operator == op
		swap := func(y, x *domain.Term[O]) bool {
			return CompareTerms(sem, y, x) > 0 && mayCommute(op, y, x)
		}
		switch {
		case rightNested && !leftNested:
			y, x, r := left, right.Children[0], right.Children[1]
			if !swap(y, x) {
				return nil, false
			}
			return domain.NewTerm(op, x, domain.NewTerm(op, y, r)), true
		case leftNested && !rightNested:
			r, y, x := left.Children[0], left.Children[1], right
			if !swap(y, x) {
				return nil, false
			}
			return domain.NewTerm(op, domain.NewTerm(op, r, x), y), true
		case !leftNested && !rightNested:
			if !swap(left, right) {
				return nil, false
			}
			return domain.NewTerm(op, right, left), true
		default:
			return nil, false
		}
	})
}
