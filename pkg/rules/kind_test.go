package rules

import (
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"AssociativeFlushRight", KindFlushRight},
		{"associative_flush_right", KindFlushRight},
		{"flush_left", KindFlushLeft},
		{"factorize_left_ac", KindFactorizeLeftAC},
		{"DeFactorizeRightDistributive", KindDefactorizeRight},
		{" reorder_modulo_ac ", KindReorderModuloAC},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKind("make_it_simpler")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestBuiltin_AllKinds(t *testing.T) {
	sig := regexSig()
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			rule, err := Builtin[string](sig, k)
			require.NoError(t, err)
			assert.Equal(t, k.String(), rule.Name())

			// Every builtin declines on a bare leaf.
			leaf := T("a")
			_, ok := rule.Apply(leaf, leaf, domain.Root())
			assert.False(t, ok)
		})
	}
	assert.Len(t, Kinds(), len(kindNames))
}

// semanticsOnly hides the optional capabilities of the wrapped signature.
type semanticsOnly struct{ ports.Semantics[string] }

func TestBuiltin_Errors(t *testing.T) {
	_, err := Builtin[string](regexSig(), Kind(99))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = BuiltinByName[string](regexSig(), "nope")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Builtin[string](semanticsOnly{regexSig()}, KindFactorizeRightAC)
	assert.ErrorIs(t, err, ErrNoEmptyOperator)

	rule, err := BuiltinByName[string](regexSig(), "factorize_right_ac")
	require.NoError(t, err)
	assert.Equal(t, "FactorizeRightDistributiveModuloAC", rule.Name())
}
