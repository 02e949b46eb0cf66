package schema

import (
	"cmp"
	"slices"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

func (s *Signature) op(name string) *OperatorDef {
	return s.ops[name]
}

// Arity is 0 for variables.
func (s *Signature) Arity(op string) int {
	if def := s.op(op); def != nil {
		return def.Arity
	}
	return 0
}

func (s *Signature) rankOf(op string) int {
	if s.IsVariable(op) {
		return s.rank[VariableRank]
	}
	return s.rank[op]
}

// Compare orders operators by rank, then by name (variables share a rank).
func (s *Signature) Compare(a, b string) int {
	if c := cmp.Compare(s.rankOf(a), s.rankOf(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func (s *Signature) IsAssociative(op string) bool {
	def := s.op(op)
	return def != nil && def.Associative
}

func (s *Signature) IsCommutative(op string) bool {
	def := s.op(op)
	return def != nil && def.Commutative
}

func (s *Signature) IsIdempotent(op string) bool {
	def := s.op(op)
	return def != nil && def.Idempotent
}

func (s *Signature) LeftDistributes(op1, op2 string) bool {
	def := s.op(op1)
	return def != nil && (slices.Contains(def.DistributesOver, op2) || slices.Contains(def.LeftDistributesOver, op2))
}

func (s *Signature) RightDistributes(op1, op2 string) bool {
	def := s.op(op1)
	return def != nil && (slices.Contains(def.DistributesOver, op2) || slices.Contains(def.RightDistributesOver, op2))
}

func (s *Signature) IsNeutralOrFixpoint(sub *domain.Term[string], parent string) bool {
	def := s.op(parent)
	if def == nil || len(sub.Children) > 0 {
		return false
	}
	switch def.Arity {
	case 2:
		return s.isLeaf(sub, def.Neutral)
	case 1:
		return slices.Contains(def.Fixpoints, sub.Operator)
	}
	return false
}

func (s *Signature) ComposeUnary(outer, inner string) (string, bool) {
	def := s.op(outer)
	if def == nil {
		return "", false
	}
	merged, ok := def.Compose[inner]
	return merged, ok
}

// EmptyOperator is the placeholder for empty operand chains.
func (s *Signature) EmptyOperator() string { return s.def.Empty }

// MayCommute forbids moving barrier operands.
func (s *Signature) MayCommute(_ string, left, right *domain.Term[string]) bool {
	return !slices.Contains(s.barriers, left.Operator) && !slices.Contains(s.barriers, right.Operator)
}

func (s *Signature) IsUnary(op string) bool  { return s.Arity(op) == 1 }
func (s *Signature) IsBinary(op string) bool { return s.Arity(op) == 2 }

// SimplifyUnary applies involutions and evaluation tables.
func (s *Signature) SimplifyUnary(op string, operand *domain.Term[string]) (*domain.Term[string], bool) {
	def := s.op(op)
	if def == nil {
		return nil, false
	}
	if def.Involution && operand.Operator == op && len(operand.Children) == 1 {
		return operand.Children[0], true
	}
	if len(operand.Children) == 0 {
		if result, ok := def.Evaluate[operand.Operator]; ok {
			return domain.Leaf(result), true
		}
	}
	return nil, false
}

// SimplifyBinary applies absorbing elements and evaluation tables.
func (s *Signature) SimplifyBinary(op string, left, right *domain.Term[string]) (*domain.Term[string], bool) {
	def := s.op(op)
	if def == nil {
		return nil, false
	}
	if s.isLeaf(left, def.Absorbing) || s.isLeaf(right, def.Absorbing) {
		return domain.Leaf(def.Absorbing), true
	}
	if len(left.Children) == 0 && len(right.Children) == 0 {
		if result, ok := def.Evaluate[left.Operator+","+right.Operator]; ok {
			return domain.Leaf(result), true
		}
	}
	return nil, false
}
