package rules

import (
	"slices"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// testSig is a table-driven signature over string operators.
// Leaves are single letters; operators not listed in arity are nullary.
type testSig struct {
	arity     map[string]int
	order     []string
	assoc     map[string]bool
	comm      map[string]bool
	idem      map[string]bool
	leftDist  map[[2]string]bool
	rightDist map[[2]string]bool
	neutral   map[string]string
	compose   map[[2]string]string
	empty     string
}

func (s *testSig) Arity(op string) int { return s.arity[op] }

func (s *testSig) Compare(a, b string) int {
	ra, rb := slices.Index(s.order, a), slices.Index(s.order, b)
	if ra < 0 {
		ra = len(s.order)
	}
	if rb < 0 {
		rb = len(s.order)
	}
	if ra != rb {
		return ra - rb
	}
	return strings.Compare(a, b)
}

func (s *testSig) IsAssociative(op string) bool { return s.assoc[op] }
func (s *testSig) IsCommutative(op string) bool { return s.comm[op] }
func (s *testSig) IsIdempotent(op string) bool  { return s.idem[op] }

func (s *testSig) LeftDistributes(op1, op2 string) bool  { return s.leftDist[[2]string{op1, op2}] }
func (s *testSig) RightDistributes(op1, op2 string) bool { return s.rightDist[[2]string{op1, op2}] }

func (s *testSig) IsNeutralOrFixpoint(sub *domain.Term[string], parent string) bool {
	n, ok := s.neutral[parent]
	return ok && len(sub.Children) == 0 && sub.Operator == n
}

func (s *testSig) ComposeUnary(outer, inner string) (string, bool) {
	h, ok := s.compose[[2]string{outer, inner}]
	return h, ok
}

func (s *testSig) EmptyOperator() string { return s.empty }

// regexSig models regular expressions: alt is AC and idempotent, seq is
// associative and distributes over alt on both sides, star is unary.
func regexSig() *testSig {
	return &testSig{
		arity: map[string]int{"alt": 2, "seq": 2, "star": 1, "opt": 1, "plus": 1},
		order: []string{"eps"},
		assoc: map[string]bool{"alt": true, "seq": true},
		comm:  map[string]bool{"alt": true},
		idem:  map[string]bool{"alt": true},
		leftDist: map[[2]string]bool{
			{"seq", "alt"}: true,
		},
		rightDist: map[[2]string]bool{
			{"seq", "alt"}: true,
		},
		neutral: map[string]string{"seq": "eps", "star": "eps"},
		compose: map[[2]string]string{
			{"star", "star"}: "star",
			{"star", "plus"}: "star",
			{"opt", "star"}:  "star",
		},
		empty: "eps",
	}
}

// T parses the tiny prefix syntax used by the tests: "alt(a, seq(b, c))".
func T(s string) *domain.Term[string] {
	t, rest := parse(strings.ReplaceAll(s, " ", ""))
	if rest != "" {
		panic("trailing input: " + rest)
	}
	return t
}

func parse(s string) (*domain.Term[string], string) {
	i := strings.IndexAny(s, "(),")
	if i < 0 {
		return domain.Leaf(s), ""
	}
	op := s[:i]
	if s[i] != '(' {
		return domain.Leaf(op), s[i:]
	}
	rest := s[i+1:]
	var children []*domain.Term[string]
	for {
		var c *domain.Term[string]
		c, rest = parse(rest)
		children = append(children, c)
		if rest[0] == ')' {
			return domain.NewTerm(op, children...), rest[1:]
		}
		rest = rest[1:]
	}
}
