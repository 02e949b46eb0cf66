package compiler

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/aretw0/espalier/pkg/domain"
)

// Resolver maps an operator name to an operator.
type Resolver[O comparable] func(name string) (O, error)

// Parser converts text into terms. Two notations are accepted:
//
//	AND(NEG(TRUE), x)                          prefix notation
//	{"op":"AND","args":[{"op":"TRUE"},{"op":"x"}]}   JSON
//
// Input starting with '{' is decoded as JSON.
type Parser[O comparable] struct {
	resolve Resolver[O]
	arity   func(O) int
}

// NewParser creates a parser. When arity is not nil every parsed operator
// must be applied to exactly that many operands.
func NewParser[O comparable](resolve Resolver[O], arity func(O) int) *Parser[O] {
	return &Parser[O]{resolve: resolve, arity: arity}
}

// ParseError reports malformed input.
type ParseError struct {
	Input  string
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

// Parse decodes a single term.
func (p *Parser[O]) Parse(text string) (*domain.Term[O], error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		return p.parseJSON([]byte(trimmed))
	}
	s := &scanner{input: text}
	t, err := p.parseTerm(s)
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if !s.done() {
		return nil, s.errorf("unexpected %q after term", s.peek())
	}
	return t, nil
}

type rawTerm struct {
	Op   string    `json:"op"`
	Args []rawTerm `json:"args,omitempty"`
}

func (p *Parser[O]) parseJSON(data []byte) (*domain.Term[O], error) {
	var raw rawTerm
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse term: %w", err)
	}
	return p.fromRaw(string(data), raw)
}

func (p *Parser[O]) fromRaw(input string, raw rawTerm) (*domain.Term[O], error) {
	if raw.Op == "" {
		return nil, &ParseError{Input: input, Reason: "term missing op"}
	}
	children := make([]*domain.Term[O], len(raw.Args))
	for i, a := range raw.Args {
		c, err := p.fromRaw(input, a)
		if err != nil {
			return nil, err
		}
		children[i] = c
	}
	return p.build(input, 0, raw.Op, children)
}

func (p *Parser[O]) parseTerm(s *scanner) (*domain.Term[O], error) {
	s.skipSpace()
	start := s.pos
	name := s.ident()
	if name == "" {
		if s.done() {
			return nil, s.errorf("unexpected end of input")
		}
		return nil, s.errorf("expected operator, got %q", s.peek())
	}
	s.skipSpace()
	if s.done() || s.peek() != '(' {
		return p.build(s.input, start, name, nil)
	}
	s.pos++ // (

	var children []*domain.Term[O]
	for {
		c, err := p.parseTerm(s)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
		s.skipSpace()
		if s.done() {
			return nil, s.errorf("missing ')'")
		}
		switch s.peek() {
		case ',':
			s.pos++
		case ')':
			s.pos++
			return p.build(s.input, start, name, children)
		default:
			return nil, s.errorf("expected ',' or ')', got %q", s.peek())
		}
	}
}

func (p *Parser[O]) build(input string, offset int, name string, children []*domain.Term[O]) (*domain.Term[O], error) {
	op, err := p.resolve(name)
	if err != nil {
		return nil, &ParseError{Input: input, Offset: offset, Reason: err.Error()}
	}
	if p.arity != nil {
		if want := p.arity(op); want != len(children) {
			return nil, &ParseError{
				Input:  input,
				Offset: offset,
				Reason: fmt.Sprintf("operator %s expects %d operand(s), got %d", name, want, len(children)),
			}
		}
	}
	return domain.NewTerm(op, children...), nil
}

type scanner struct {
	input string
	pos   int
}

func (s *scanner) done() bool { return s.pos >= len(s.input) }
func (s *scanner) peek() rune { return rune(s.input[s.pos]) }

func (s *scanner) skipSpace() {
	for !s.done() && unicode.IsSpace(s.peek()) {
		s.pos++
	}
}

func (s *scanner) ident() string {
	start := s.pos
	for !s.done() {
		c := s.peek()
		if c == '(' || c == ')' || c == ',' || unicode.IsSpace(c) {
			break
		}
		s.pos++
	}
	return s.input[start:s.pos]
}

func (s *scanner) errorf(format string, args ...any) error {
	return &ParseError{Input: s.input, Offset: s.pos, Reason: fmt.Sprintf(format, args...)}
}
