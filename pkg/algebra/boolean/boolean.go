// Package boolean is a ready-made algebra over TRUE, FALSE, AND, OR and NEG.
// Any other operator name is a propositional variable.
package boolean

import (
	"cmp"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// Op is a boolean operator or variable name.
type Op string

const (
	True  Op = "TRUE"
	False Op = "FALSE"
	And   Op = "AND"
	Or    Op = "OR"
	Neg   Op = "NEG"
)

// Term is a boolean term.
type Term = domain.Term[Op]

// Resolve maps a name to an operator; constants are case-insensitive.
func Resolve(name string) (Op, error) {
	switch up := Op(strings.ToUpper(name)); up {
	case True, False, And, Or, Neg:
		return up, nil
	}
	return Op(name), nil
}

func (o Op) isVariable() bool {
	switch o {
	case True, False, And, Or, Neg:
		return false
	}
	return true
}

// rank orders operator families: constants, variables, then connectives.
func (o Op) rank() int {
	switch o {
	case True:
		return 0
	case False:
		return 1
	case Neg:
		return 3
	case And:
		return 4
	case Or:
		return 5
	}
	return 2
}

// Signature is the operator semantics of boolean algebra.
type Signature struct{}

func (Signature) Arity(op Op) int {
	switch op {
	case And, Or:
		return 2
	case Neg:
		return 1
	}
	return 0
}

func (Signature) Compare(a, b Op) int {
	if c := cmp.Compare(a.rank(), b.rank()); c != 0 {
		return c
	}
	return strings.Compare(string(a), string(b))
}

func (Signature) IsAssociative(op Op) bool { return op == And || op == Or }
func (Signature) IsCommutative(op Op) bool { return op == And || op == Or }
func (Signature) IsIdempotent(op Op) bool  { return op == And || op == Or }

// AND and OR distribute over each other on both sides.
func (Signature) LeftDistributes(op1, op2 Op) bool {
	return (op1 == And && op2 == Or) || (op1 == Or && op2 == And)
}

func (s Signature) RightDistributes(op1, op2 Op) bool {
	return s.LeftDistributes(op1, op2)
}

func (Signature) IsNeutralOrFixpoint(sub *Term, parent Op) bool {
	switch parent {
	case And:
		return sub.Operator == True
	case Or:
		return sub.Operator == False
	}
	return false
}

// ComposeUnary has nothing to merge: NEG(NEG(x)) is x, not an operator.
func (Signature) ComposeUnary(Op, Op) (Op, bool) {
	return "", false
}

// IsUnary and SimplifyUnary evaluate negations.
func (s Signature) IsUnary(op Op) bool { return s.Arity(op) == 1 }

func (Signature) SimplifyUnary(op Op, operand *Term) (*Term, bool) {
	if op != Neg {
		return nil, false
	}
	switch operand.Operator {
	case True:
		return domain.Leaf(False), true
	case False:
		return domain.Leaf(True), true
	}
	return nil, false
}

// IsBinary and SimplifyBinary evaluate AND and OR when an operand is a
// constant: absorbing constants win, two constants are computed.
func (s Signature) IsBinary(op Op) bool { return s.Arity(op) == 2 }

func (Signature) SimplifyBinary(op Op, left, right *Term) (*Term, bool) {
	absorbing := False
	if op == Or {
		absorbing = True
	} else if op != And {
		return nil, false
	}
	l, r := left.Operator, right.Operator
	if l == absorbing || r == absorbing {
		return domain.Leaf(absorbing), true
	}
	if (l == True || l == False) && (r == True || r == False) {
		// Both constants, neither absorbing: they equal the neutral element.
		return domain.Leaf(l), true
	}
	return nil, false
}
