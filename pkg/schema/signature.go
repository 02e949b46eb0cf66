package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// VariableRank is the pseudo operator placing variables in SignatureDef.Order.
const VariableRank = "$var"

// SignatureDef is the YAML form of an algebra over string operators.
type SignatureDef struct {
	Name      string        `yaml:"name" json:"name" validate:"required"`
	Operators []OperatorDef `yaml:"operators" json:"operators" validate:"required,min=1,dive"`
	// Order lists operators from smallest to greatest; it may contain
	// VariableRank. Defaults to declaration order, variables first.
	Order []string `yaml:"order,omitempty" json:"order,omitempty"`
	// Variables allows undeclared nullary operators in terms.
	Variables bool `yaml:"variables" json:"variables"`
	// Empty is the placeholder leaf used by factorization modulo AC.
	Empty string `yaml:"empty,omitempty" json:"empty,omitempty"`
	// Barriers never commute with their neighbors.
	Barriers []string `yaml:"barriers,omitempty" json:"barriers,omitempty"`
}

// OperatorDef declares one operator.
type OperatorDef struct {
	Name  string `yaml:"name" json:"name" validate:"required,opname"`
	Arity int    `yaml:"arity" json:"arity" validate:"gte=0,lte=16"`

	Associative bool `yaml:"associative,omitempty" json:"associative,omitempty"`
	Commutative bool `yaml:"commutative,omitempty" json:"commutative,omitempty"`
	Idempotent  bool `yaml:"idempotent,omitempty" json:"idempotent,omitempty"`

	// Neutral is the neutral element of a binary operator.
	Neutral string `yaml:"neutral,omitempty" json:"neutral,omitempty"`
	// Absorbing is the absorbing element of a binary operator.
	Absorbing string `yaml:"absorbing,omitempty" json:"absorbing,omitempty"`
	// Fixpoints are the leaves a unary operator leaves unchanged.
	Fixpoints []string `yaml:"fixpoints,omitempty" json:"fixpoints,omitempty"`

	DistributesOver      []string `yaml:"distributes_over,omitempty" json:"distributes_over,omitempty"`
	LeftDistributesOver  []string `yaml:"left_distributes_over,omitempty" json:"left_distributes_over,omitempty"`
	RightDistributesOver []string `yaml:"right_distributes_over,omitempty" json:"right_distributes_over,omitempty"`

	// Involution marks unary operators with op(op(x)) = x.
	Involution bool `yaml:"involution,omitempty" json:"involution,omitempty"`
	// Compose maps an inner unary operator to the merged operator:
	// op(inner(x)) = Compose[inner](x).
	Compose map[string]string `yaml:"compose,omitempty" json:"compose,omitempty"`
	// Evaluate maps constant operands (comma-joined) to the resulting leaf.
	Evaluate map[string]string `yaml:"evaluate,omitempty" json:"evaluate,omitempty"`
}

// Compile validates the definition and builds the signature.
func (d *SignatureDef) Compile() (*Signature, error) {
	errs := structErrors(d)
	if len(errs) > 0 {
		return nil, aggregate(errs)
	}

	ops := make(map[string]*OperatorDef, len(d.Operators))
	for i := range d.Operators {
		op := &d.Operators[i]
		if _, dup := ops[op.Name]; dup {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("operators[%d].name", i), Reason: "is declared twice", Value: op.Name})
		}
		ops[op.Name] = op
	}
	errs = append(errs, d.checkReferences(ops)...)
	if err := aggregate(errs); err != nil {
		return nil, err
	}

	for i := range d.Operators {
		d.Operators[i].Evaluate = normalizeEvaluate(d.Operators[i].Evaluate)
	}

	order := d.Order
	if len(order) == 0 {
		order = append([]string{VariableRank}, operatorNames(d.Operators)...)
	}
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}

	return &Signature{
		def:      d,
		ops:      ops,
		rank:     rank,
		barriers: d.Barriers,
	}, nil
}

// normalizeEvaluate trims the operands of evaluation keys: "TRUE, FALSE"
// and "TRUE,FALSE" are the same entry.
func normalizeEvaluate(table map[string]string) map[string]string {
	if table == nil {
		return nil
	}
	out := make(map[string]string, len(table))
	for args, result := range table {
		parts := strings.Split(args, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		out[strings.Join(parts, ",")] = result
	}
	return out
}

func operatorNames(ops []OperatorDef) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}

func (d *SignatureDef) checkReferences(ops map[string]*OperatorDef) []error {
	var errs []error
	fail := func(key, why string, value any) {
		errs = append(errs, &ValidationError{Key: key, Reason: why, Value: value})
	}
	known := func(key, name string, arity int) {
		op, ok := ops[name]
		switch {
		case !ok:
			fail(key, "refers to an undeclared operator", name)
		case arity >= 0 && op.Arity != arity:
			fail(key, fmt.Sprintf("must refer to an operator of arity %d", arity), name)
		}
	}

	for i, op := range d.Operators {
		key := func(field string) string { return fmt.Sprintf("operators[%d].%s", i, field) }
		binary, unary := op.Arity == 2, op.Arity == 1

		if (op.Associative || op.Commutative || op.Idempotent) && !binary {
			fail(key("arity"), "associative, commutative and idempotent operators must be binary", op.Arity)
		}
		if op.Neutral != "" {
			known(key("neutral"), op.Neutral, 0)
			if !binary {
				fail(key("neutral"), "only binary operators have a neutral element", op.Neutral)
			}
		}
		if op.Absorbing != "" {
			known(key("absorbing"), op.Absorbing, 0)
			if !binary {
				fail(key("absorbing"), "only binary operators have an absorbing element", op.Absorbing)
			}
		}
		for _, f := range op.Fixpoints {
			known(key("fixpoints"), f, 0)
		}
		if (len(op.Fixpoints) > 0 || op.Involution || len(op.Compose) > 0) && !unary {
			fail(key("arity"), "fixpoints, involution and compose apply to unary operators", op.Arity)
		}
		for _, list := range [][]string{op.DistributesOver, op.LeftDistributesOver, op.RightDistributesOver} {
			for _, target := range list {
				known(key("distributes_over"), target, 2)
			}
			if len(list) > 0 && !binary {
				fail(key("distributes_over"), "only binary operators distribute", op.Arity)
			}
		}
		for inner, merged := range op.Compose {
			known(key("compose"), inner, 1)
			known(key("compose"), merged, 1)
		}
		for args, result := range op.Evaluate {
			known(key("evaluate"), result, 0)
			parts := strings.Split(args, ",")
			if len(parts) != op.Arity {
				fail(key("evaluate"), fmt.Sprintf("needs %d comma-separated operand(s)", op.Arity), args)
				continue
			}
			for _, p := range parts {
				known(key("evaluate"), strings.TrimSpace(p), 0)
			}
		}
	}

	for _, name := range d.Order {
		if name != VariableRank {
			known("order", name, -1)
		}
	}
	if len(d.Order) > 0 {
		for _, op := range d.Operators {
			if !slices.Contains(d.Order, op.Name) {
				fail("order", "must list every operator", op.Name)
			}
		}
		if d.Variables && !slices.Contains(d.Order, VariableRank) {
			fail("order", "must contain "+VariableRank+" when variables are allowed", nil)
		}
	}
	if d.Empty != "" {
		known("empty", d.Empty, 0)
	}
	for _, b := range d.Barriers {
		known("barriers", b, -1)
	}
	return errs
}

// Signature is a compiled SignatureDef.
type Signature struct {
	def      *SignatureDef
	ops      map[string]*OperatorDef
	rank     map[string]int
	barriers []string
}

// Name returns the signature name.
func (s *Signature) Name() string { return s.def.Name }

// Def returns the definition the signature was compiled from.
func (s *Signature) Def() *SignatureDef { return s.def }

// Resolve accepts declared operators, and any other name as a variable when
// variables are allowed.
func (s *Signature) Resolve(name string) (string, error) {
	if _, ok := s.ops[name]; ok || s.def.Variables {
		return name, nil
	}
	return "", fmt.Errorf("unknown operator %q in signature %s", name, s.def.Name)
}

// IsVariable reports whether name is not a declared operator.
func (s *Signature) IsVariable(name string) bool {
	_, ok := s.ops[name]
	return !ok
}

// Operators returns the declared operators, in declaration order.
func (s *Signature) Operators() []OperatorDef {
	return slices.Clone(s.def.Operators)
}

// Leaves returns the declared nullary operators.
func (s *Signature) Leaves() []string {
	var out []string
	for _, op := range s.def.Operators {
		if op.Arity == 0 {
			out = append(out, op.Name)
		}
	}
	return out
}

func (s *Signature) isLeaf(t *domain.Term[string], name string) bool {
	return name != "" && len(t.Children) == 0 && t.Operator == name
}
