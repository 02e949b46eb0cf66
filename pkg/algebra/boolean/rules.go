package boolean

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/rules"
)

// DoubleNegation rewrites NEG(NEG(x)) into x.
func DoubleNegation() domain.Rule[Op] {
	return domain.NewRule("DoubleNegation", func(t *Term) (*Term, bool) {
		if t.Operator != Neg || t.Children[0].Operator != Neg {
			return nil, false
		}
		return t.Children[0].Children[0], true
	})
}

// EvaluateNeg rewrites NEG(TRUE) into FALSE and NEG(FALSE) into TRUE.
func EvaluateNeg() domain.Rule[Op] {
	return rules.SimplifyUnary[Op]("EvaluateNeg", Signature{})
}

// EvaluateBinary computes AND and OR over constant operands.
func EvaluateBinary() domain.Rule[Op] {
	return rules.SimplifyBinary[Op]("EvaluateBinary", Signature{})
}

// DeMorgan pushes negations down: NEG(AND(x, y)) -> OR(NEG(x), NEG(y)) and
// NEG(OR(x, y)) -> AND(NEG(x), NEG(y)).
func DeMorgan() domain.Rule[Op] {
	return domain.NewRule("DeMorgan", func(t *Term) (*Term, bool) {
		if t.Operator != Neg {
			return nil, false
		}
		inner := t.Children[0]
		var dual Op
		switch inner.Operator {
		case And:
			dual = Or
		case Or:
			dual = And
		default:
			return nil, false
		}
		return domain.NewTerm(dual,
			domain.NewTerm(Neg, inner.Children[0]),
			domain.NewTerm(Neg, inner.Children[1]),
		), true
	})
}

// Phases is the default boolean pipeline:
//
//	0 simplify      negations and constants; always hands over to 1
//	1 canonicalize  AC normal form; back to 0 if it changed anything
func Phases() []domain.Phase[Op] {
	sig := Signature{}
	return []domain.Phase[Op]{
		{
			Name: "simplify",
			Rules: []domain.Rule[Op]{
				DoubleNegation(),
				DeMorgan(),
				EvaluateNeg(),
				EvaluateBinary(),
				rules.SimplifyBinaryNeutral[Op](sig),
				rules.Deduplicate[Op](sig),
			},
			OnChanged:   domain.Goto(1),
			OnUnchanged: domain.Goto(1),
		},
		{
			Name: "canonicalize",
			Rules: []domain.Rule[Op]{
				rules.FlushRight[Op](sig),
				rules.ReorderCommutativeAC[Op](sig, nil),
				rules.Deduplicate[Op](sig),
			},
			KeepOnlyOne: true,
			OnChanged:   domain.Goto(0),
		},
	}
}
