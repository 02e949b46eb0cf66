// Package rewrite finds every single-step rewrite of a term under a rule list.
package rewrite

import "github.com/aretw0/espalier/pkg/domain"

// FindRewrites returns the rewrites obtained by applying exactly one rule at
// exactly one position of term.
//
// Rules are tried at the root first, in order, then the search descends into
// the children in index order. With keepOnlyOne the first rewrite found is
// returned alone, so a root rewrite always wins over a subtree rewrite, a
// lower rule index over a higher one, and a lower child index over a higher
// one. Without it the result holds one entry per (rule, position) pair at
// which the rule fires.
//
// Each result carries the whole rewritten term; only the spine above the
// rewritten position is rebuilt.
func FindRewrites[O comparable](phase int, rules []domain.Rule[O], term *domain.Term[O], keepOnlyOne bool) []domain.Rewrite[O] {
	return find(phase, rules, term, keepOnlyOne, term, domain.Root())
}

func find[O comparable](
	phase int,
	rules []domain.Rule[O],
	term *domain.Term[O],
	keepOnlyOne bool,
	context *domain.Term[O],
	pos domain.Position,
) []domain.Rewrite[O] {
	results := atRoot(phase, rules, term, keepOnlyOne, context, pos)
	if keepOnlyOne && len(results) > 0 {
		return results
	}
	for n, child := range term.Children {
		for _, sub := range find(phase, rules, child, keepOnlyOne, context, pos.Child(n)) {
			sub.Result = term.WithChild(n, sub.Result)
			results = append(results, sub)
			if keepOnlyOne {
				return results
			}
		}
	}
	return results
}

func atRoot[O comparable](
	phase int,
	rules []domain.Rule[O],
	term *domain.Term[O],
	keepOnlyOne bool,
	context *domain.Term[O],
	pos domain.Position,
) []domain.Rewrite[O] {
	var results []domain.Rewrite[O]
	for i, rule := range rules {
		got, ok := rule.Apply(term, context, pos)
		if !ok {
			continue
		}
		results = append(results, domain.Rewrite[O]{
			PhaseIndex: phase,
			RuleIndex:  i,
			RuleName:   rule.Name(),
			Position:   pos,
			Result:     got,
		})
		if keepOnlyOne {
			return results
		}
	}
	return results
}
