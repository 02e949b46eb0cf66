package ports

import "github.com/aretw0/espalier/pkg/domain"

// Arities reports how many children an operator takes.
type Arities[O comparable] interface {
	Arity(op O) int
}

// Ordering is the part of the semantics needed to order terms.
// Compare must be a strict total order on operators: it returns 0 only for
// equal operators.
type Ordering[O comparable] interface {
	Arities[O]
	Compare(a, b O) int
}

// Semantics is the capability set a domain supplies to the builtin rules.
// It is queried read-only and never stored by the core beyond a run.
type Semantics[O comparable] interface {
	Ordering[O]

	IsAssociative(op O) bool
	IsCommutative(op O) bool
	IsIdempotent(op O) bool

	// LeftDistributes reports op1(x, op2(y, z)) == op2(op1(x, y), op1(x, z)).
	LeftDistributes(op1, op2 O) bool
	// RightDistributes reports op1(op2(y, z), x) == op2(op1(y, x), op1(z, x)).
	RightDistributes(op1, op2 O) bool

	// IsNeutralOrFixpoint reports whether sub is a neutral element of the
	// binary operator parent, or a fixpoint of the unary operator parent.
	IsNeutralOrFixpoint(sub *domain.Term[O], parent O) bool

	// ComposeUnary returns H such that outer(inner(x)) == H(x), if any.
	ComposeUnary(outer, inner O) (O, bool)
}

// EmptyProvider is implemented by semantics that have a placeholder operator
// for empty operand chains, used when factorization leaves nothing behind.
type EmptyProvider[O comparable] interface {
	EmptyOperator() O
}
