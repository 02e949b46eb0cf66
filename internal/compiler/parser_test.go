package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringParser() *Parser[string] {
	arities := map[string]int{"AND": 2, "OR": 2, "NEG": 1}
	return NewParser(
		func(name string) (string, error) {
			if name == "BAD" {
				return "", errors.New("unknown operator BAD")
			}
			return name, nil
		},
		func(op string) int { return arities[op] },
	)
}

func TestParser_Parse(t *testing.T) {
	p := stringParser()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "leaf", input: "TRUE", want: "TRUE"},
		{name: "nested", input: "AND(NEG(NEG(TRUE)), OR(AND(FALSE,FALSE), TRUE))", want: "AND(NEG(NEG(TRUE)), OR(AND(FALSE, FALSE), TRUE))"},
		{name: "spaces", input: "  NEG ( x )  ", want: "NEG(x)"},
		{name: "json", input: `{"op":"OR","args":[{"op":"FALSE"},{"op":"TRUE"}]}`, want: "OR(FALSE, TRUE)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParser_Errors(t *testing.T) {
	p := stringParser()

	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{name: "empty", input: "", reason: "unexpected end of input"},
		{name: "unclosed", input: "NEG(TRUE", reason: "missing ')'"},
		{name: "trailing", input: "TRUE)", reason: "after term"},
		{name: "arity", input: "AND(TRUE)", reason: "expects 2 operand(s), got 1"},
		{name: "resolver", input: "NEG(BAD)", reason: "unknown operator BAD"},
		{name: "json without op", input: `{"args":[]}`, reason: "term missing op"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.input)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, perr.Reason, tt.reason)
		})
	}

	_, err := p.Parse("{not json")
	assert.Error(t, err)
}
