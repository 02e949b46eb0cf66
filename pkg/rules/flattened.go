package rules

import (
	"github.com/aretw0/espalier/pkg/domain"
)

// ParentRequirement tells TransformFlattened whether a unary parent wraps the
// chain it should work on.
type ParentRequirement int

const (
	// NoParent: the chain is at the root of the term.
	NoParent ParentRequirement = iota
	// ParentFound: the root is a unary operator wrapping the chain.
	ParentFound
	// ParentMissing: a unary parent is required but the root is not one.
	ParentMissing
)

// FlattenedTransformer rewrites the flat operand list of an associative chain,
// possibly under a unary parent, e.g.
//
//	a + b + a + c      -> a + b + c
//	(a* + b + c*)*     -> (a + b + c)*
type FlattenedTransformer[O comparable] interface {
	// Considers reports the associative operators whose chains are handled.
	Considers(op O) bool
	// Parent inspects the root operator.
	Parent(op O) ParentRequirement
	// Transform returns the new operand list and the operator wrapping the
	// refolded chain. A nil newParent leaves the chain unwrapped, which drops
	// the unary parent when there was one; return parent itself to keep it.
	Transform(op O, parent *O, operands []*domain.Term[O]) (newParent *O, result []*domain.Term[O], ok bool)
}

// TransformFlattened applies a FlattenedTransformer: flatten, transform,
// refold right-leaning, and re-wrap under the new parent if one is returned.
// Without a parent it only fires at the topmost link of a chain.
// An empty result list is a contract violation (see Fold).
func TransformFlattened[O comparable](name string, tr FlattenedTransformer[O]) domain.Rule[O] {
	return domain.NewContextRule(name, func(t, context *domain.Term[O], pos domain.Position) (*domain.Term[O], bool) {
		var parent *O
		chain := t
		switch tr.Parent(t.Operator) {
		case ParentMissing:
			return nil, false
		case NoParent:
			if insideChain(context, pos, t.Operator) {
				return nil, false
			}
		case ParentFound:
			if len(t.Children) != 1 {
				return nil, false
			}
			op := t.Operator
			parent = &op
			chain = t.Children[0]
		}
		if !tr.Considers(chain.Operator) {
			return nil, false
		}
		newParent, operands, ok := tr.Transform(chain.Operator, parent, Flatten(chain, chain.Operator))
		if !ok {
			return nil, false
		}
		folded := Fold(chain.Operator, operands)
		if newParent == nil {
			return folded, true
		}
		return domain.NewTerm(*newParent, folded), true
	})
}
