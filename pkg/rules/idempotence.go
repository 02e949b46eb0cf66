package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Deduplicate rewrites op(x, x) into x for an idempotent binary op. When op
// is also associative it collapses op(x, op(x, y)) into op(x, y) and
// op(op(y, x), x) into op(y, x).
//
// Combined with the flush rules this gives deduplication modulo
// associativity; adding the commutative reordering gives it modulo AC.
func Deduplicate[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindDeduplicate.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		op := t.Operator
		if !isBinary(sem, op) || !sem.IsIdempotent(op) {
			return nil, false
		}
		t1, t2 := t.Children[0], t.Children[1]
		if t1.Equal(t2) {
			return t1, true
		}
		if !sem.IsAssociative(op) {
			return nil, false
		}
		if t2.Operator == op && t1.Equal(t2.Children[0]) {
			return t2, true
		}
		if t1.Operator == op && t1.Children[1].Equal(t2) {
			return t1, true
		}
		return nil, false
	})
}
