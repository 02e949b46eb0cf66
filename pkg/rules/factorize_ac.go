package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

type side int

const (
	leftSide side = iota
	rightSide
)

// FactorizeLeftModuloAC factorizes every group of operands of a commutative
// op2 chain sharing the same leading factor under a left-distributive head:
//
//	op2(head(a, y), c, head(a, z)) -> op2(c, head(a, op2(y, z)))
//
// An operand that is not rooted at head counts as a bare factor whose
// remainder is empty; empty remainders fold to the empty placeholder.
// Every factorable group of the chain is factorized in one application.
// Unfactorized operands keep their order and the new terms are appended.
func FactorizeLeftModuloAC[O comparable](sem ports.Semantics[O], empty O) domain.Rule[O] {
	return domain.NewContextRule(KindFactorizeLeftAC.String(), func(t, context *domain.Term[O], pos domain.Position) (*domain.Term[O], bool) {
		return factorizeModuloAC(sem, empty, t, context, pos, leftSide)
	})
}

// FactorizeRightModuloAC is the mirror of FactorizeLeftModuloAC on trailing
// factors of right-distributive heads:
//
//	op2(head(y, a), head(z, a)) -> head(op2(y, z), a)
func FactorizeRightModuloAC[O comparable](sem ports.Semantics[O], empty O) domain.Rule[O] {
	return domain.NewContextRule(KindFactorizeRightAC.String(), func(t, context *domain.Term[O], pos domain.Position) (*domain.Term[O], bool) {
		return factorizeModuloAC(sem, empty, t, context, pos, rightSide)
	})
}

type factorGroup[O comparable] struct {
	factor  *domain.Term[O]
	members []int
	rests   [][]*domain.Term[O]
	headed  bool // at least one member is rooted at the head operator
}

func factorizeModuloAC[O comparable](
	sem ports.Semantics[O], empty O, t, context *domain.Term[O], pos domain.Position, s side,
) (*domain.Term[O], bool) {
	op2 := t.Operator
	if !isBinary(sem, op2) || !sem.IsCommutative(op2) {
		return nil, false
	}
	operands := t.Children
	if sem.IsAssociative(op2) {
		if insideChain(context, pos, op2) {
			return nil, false
		}
		operands = Flatten(t, op2)
	}

	distributes := sem.LeftDistributes
	if s == rightSide {
		distributes = sem.RightDistributes
	}

	// 1. Candidate heads, in order of first appearance.
	var heads []O
	seen := make(map[O]bool)
	for _, x := range operands {
		if isBinary(sem, x.Operator) && distributes(x.Operator, op2) && !seen[x.Operator] {
			seen[x.Operator] = true
			heads = append(heads, x.Operator)
		}
	}

	// 2. Group operands by shared factor under each head.
	consumed := make([]bool, len(operands))
	var produced []*domain.Term[O]
	for _, head := range heads {
		groups := groupByFactor(sem, operands, consumed, head, s)
		for _, g := range groups {
			if len(g.members) < 2 || !g.headed {
				continue
			}
			inner := make([]*domain.Term[O], len(g.members))
			for i, idx := range g.members {
				consumed[idx] = true
				inner[i] = FoldOr(head, g.rests[i], empty)
			}
			combined := FoldOr(op2, inner, empty)
			if s == leftSide {
				produced = append(produced, domain.NewTerm(head, g.factor, combined))
			} else {
				produced = append(produced, domain.NewTerm(head, combined, g.factor))
			}
		}
	}
	if len(produced) == 0 {
		return nil, false
	}

	// 3. Keep the untouched operands, append the factorized ones, refold.
	kept := make([]*domain.Term[O], 0, len(operands))
	for i, x := range operands {
		if !consumed[i] {
			kept = append(kept, x)
		}
	}
	kept = append(kept, produced...)
	return FoldOr(op2, kept, empty), true
}

func groupByFactor[O comparable](
	sem ports.Semantics[O],
	operands []*domain.Term[O],
	consumed []bool,
	head O,
	s side,
) []*factorGroup[O] {
	var groups []*factorGroup[O]
	index := make(map[uint64][]int)
	for i, x := range operands {
		if consumed[i] {
			continue
		}
		factor, rest, headed := x, []*domain.Term[O](nil), false
		if x.Operator == head {
			parts := x.Children
			if sem.IsAssociative(head) {
				parts = Flatten(x, head)
			}
			headed = true
			if s == leftSide {
				factor, rest = parts[0], parts[1:]
			} else {
				factor, rest = parts[len(parts)-1], parts[:len(parts)-1]
			}
		}

		h := factor.Hash()
		var g *factorGroup[O]
		for _, gi := range index[h] {
			if groups[gi].factor.Equal(factor) {
				g = groups[gi]
				break
			}
		}
		if g == nil {
			g = &factorGroup[O]{factor: factor}
			index[h] = append(index[h], len(groups))
			groups = append(groups, g)
		}
		g.members = append(g.members, i)
		g.rests = append(g.rests, rest)
		g.headed = g.headed || headed
	}
	return groups
}
