package dsl

import (
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(name string) domain.Rule[string] {
	return domain.NewRule(name, func(*domain.Term[string]) (*domain.Term[string], bool) { return nil, false })
}

func TestBuilder_SimpleGraph(t *testing.T) {
	b := New[string]()

	b.Add("simplify").
		Rules(noop("a"), noop("b")).
		Then("canonicalize")

	b.Add("canonicalize").
		Rules(noop("c")).
		KeepOnlyOne().
		OnChanged("simplify")

	phases, err := b.Build()
	require.NoError(t, err)
	require.Len(t, phases, 2)

	assert.Equal(t, "simplify", phases[0].Name)
	assert.Len(t, phases[0].Rules, 2)
	assert.Equal(t, 1, *phases[0].OnChanged)
	assert.Equal(t, 1, *phases[0].OnUnchanged)

	assert.True(t, phases[1].KeepOnlyOne)
	assert.Equal(t, 0, *phases[1].OnChanged)
	assert.Nil(t, phases[1].OnUnchanged)
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New[string]()
	b.Add("p").Rules(noop("a"))
	b.Add("p").Rules(noop("b"))

	phases, err := b.Build()
	require.NoError(t, err)
	require.Len(t, phases, 1)
	assert.Len(t, phases[0].Rules, 2)
}

func TestBuilder_Start(t *testing.T) {
	b := New[string]()
	b.Add("cleanup").Terminal()
	b.Add("expand").Then("cleanup")
	b.Start("expand")

	phases, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"expand", "cleanup"}, []string{phases[0].Name, phases[1].Name})
	assert.Equal(t, 1, *phases[0].OnChanged)
}

func TestBuilder_Errors(t *testing.T) {
	_, err := New[string]().Build()
	assert.ErrorIs(t, err, domain.ErrNoPhases)

	b := New[string]()
	b.Add("p").OnUnchanged("missing")
	_, err = b.Build()
	var unknown *UnknownPhaseError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "p", unknown.From)
	assert.Equal(t, "missing", unknown.To)
	assert.ErrorIs(t, err, domain.ErrUnknownPhase)

	_, err = New[string]().Start("nowhere").Build()
	assert.ErrorIs(t, err, domain.ErrNoPhases)

	b = New[string]()
	b.Add("p")
	_, err = b.Start("nowhere").Build()
	assert.ErrorIs(t, err, domain.ErrUnknownPhase)
}
