package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// PartialReorderer describes the associative operators whose chains may be
// partially reordered, and which adjacent operands may be exchanged.
type PartialReorderer[O comparable] interface {
	ports.Ordering[O]
	Considers(op O) bool
	MayCommute(parent O, left, right *domain.Term[O]) bool
}

// ReorderModuloAC flattens a chain of a considered operator and bubbles
// adjacent operands into lexicographic path order wherever MayCommute
// allows the swap, until no swap applies. It declines when nothing moved.
//
// Operands that may not commute act as barriers: the operands on each side
// of a barrier are ordered among themselves only. Inner links of a chain are
// skipped; the topmost link reorders the whole chain.
func ReorderModuloAC[O comparable](r PartialReorderer[O]) domain.Rule[O] {
	return domain.NewContextRule(KindReorderModuloAC.String(), func(t, context *domain.Term[O], pos domain.Position) (*domain.Term[O], bool) {
		op := t.Operator
		if !r.Considers(op) || insideChain(context, pos, op) {
			return nil, false
		}
		operands := Flatten(t, op)
		if !BubbleOrder(r, op, operands, r.MayCommute) {
			return nil, false
		}
		return Fold(op, operands), true
	})
}

// BubbleOrder sorts operands in place by adjacent swaps and reports whether
// anything moved. A pair is swapped when the left operand dominates the
// right one under IsGreater and mayCommute allows it.
func BubbleOrder[O comparable](ord ports.Ordering[O], op O, operands []*domain.Term[O], mayCommute MayCommute[O]) bool {
	changed := false
	for swapped := true; swapped; {
		swapped = false
		for i := 0; i+1 < len(operands); i++ {
			s1, s2 := operands[i], operands[i+1]
			if mayCommute(op, s1, s2) && IsGreater(ord, s1, s2) {
				operands[i], operands[i+1] = s2, s1
				swapped = true
				changed = true
			}
		}
	}
	return changed
}

// acReorderer adapts a Semantics into a PartialReorderer that considers
// every associative and commutative binary operator.
type acReorderer[O comparable] struct {
	ports.Semantics[O]
	mayCommute MayCommute[O]
}

func (a acReorderer[O]) Considers(op O) bool {
	return isBinary(a.Semantics, op) && a.IsAssociative(op) && a.IsCommutative(op)
}

func (a acReorderer[O]) MayCommute(parent O, left, right *domain.Term[O]) bool {
	return a.mayCommute(parent, left, right)
}

// NewReorderer builds a PartialReorderer from semantics. A nil mayCommute
// allows every exchange.
func NewReorderer[O comparable](sem ports.Semantics[O], mayCommute MayCommute[O]) PartialReorderer[O] {
	if mayCommute == nil {
		mayCommute = AlwaysCommute[O]
	}
	return acReorderer[O]{Semantics: sem, mayCommute: mayCommute}
}
