package rules

import "github.com/aretw0/espalier/pkg/domain"

// Flatten collects, left to right, the maximal subterms of t whose operator
// is not op. A term whose root is not op flattens to itself.
func Flatten[O comparable](t *domain.Term[O], op O) []*domain.Term[O] {
	if t.Operator != op {
		return []*domain.Term[O]{t}
	}
	var leaves []*domain.Term[O]
	for _, c := range t.Children {
		leaves = append(leaves, Flatten(c, op)...)
	}
	return leaves
}

// Fold rebuilds a right-leaning chain op(t1, op(t2, ... op(tn-1, tn))).
// A single operand is returned as is. Folding zero operands is a contract
// violation and panics with domain.ErrEmptyChain; use FoldOr when an empty
// placeholder exists.
func Fold[O comparable](op O, operands []*domain.Term[O]) *domain.Term[O] {
	if len(operands) == 0 {
		panic(domain.ErrEmptyChain)
	}
	return fold(op, operands)
}

// FoldOr is Fold with a placeholder leaf returned for zero operands.
func FoldOr[O comparable](op O, operands []*domain.Term[O], empty O) *domain.Term[O] {
	if len(operands) == 0 {
		return domain.Leaf(empty)
	}
	return fold(op, operands)
}

func fold[O comparable](op O, operands []*domain.Term[O]) *domain.Term[O] {
	acc := operands[len(operands)-1]
	for i := len(operands) - 2; i >= 0; i-- {
		acc = domain.NewTerm(op, operands[i], acc)
	}
	return acc
}

// insideChain reports whether the subterm of context at pos is an inner link
// of a longer op chain, i.e. its parent is rooted at op too. Rules that
// flatten a whole chain only fire at its topmost link.
func insideChain[O comparable](context *domain.Term[O], pos domain.Position, op O) bool {
	parentPos, ok := pos.Parent()
	if !ok || context == nil {
		return false
	}
	parent, ok := context.At(parentPos)
	return ok && parent.Operator == op
}
