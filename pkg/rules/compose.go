package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// ComposeUnary rewrites F(G(x)) into H(x) when the semantics report that F
// composed with G is H.
func ComposeUnary[O comparable](sem ports.Semantics[O]) domain.Rule[O] {
	return domain.NewRule(KindComposeUnary.String(), func(t *domain.Term[O]) (*domain.Term[O], bool) {
		outer := t.Operator
		if !isUnary(sem, outer) {
			return nil, false
		}
		under := t.Children[0]
		if !isUnary(sem, under.Operator) {
			return nil, false
		}
		merged, ok := sem.ComposeUnary(outer, under.Operator)
		if !ok {
			return nil, false
		}
		return domain.NewTerm(merged, under.Children[0]), true
	})
}
