package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/algebra/boolean"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseMermaid(t *testing.T) {
	quote := domain.NewRule[string]("Quote", func(*domain.Term[string]) (*domain.Term[string], bool) { return nil, false })
	phases := []domain.Phase[string]{
		{Name: "simplify", Rules: []domain.Rule[string]{quote}, OnChanged: domain.Goto(1), OnUnchanged: domain.Goto(1)},
		{Name: `say "hi"`, KeepOnlyOne: true, OnChanged: domain.Goto(0)},
		{Name: "done"},
	}
	current := 1

	tests := []struct {
		name     string
		overlay  *graph.PhaseOverlay
		contains []string
		excludes []string
	}{
		{
			name: "shapes and edges",
			contains: []string{
				`p0(("simplify <br/> Quote"))`,
				`p1["say 'hi' <br/> keep only one"]`,
				`p2(["done"])`,
				`p0 -- "changed" --> p1`,
				`p0 -. "unchanged" .-> p1`,
				`p1 -- "changed" --> p0`,
			},
			excludes: []string{"classDef"},
		},
		{
			name:    "overlay",
			overlay: &graph.PhaseOverlay{Visited: []int{0, 0, 7}, Current: &current},
			contains: []string{
				"class p0 visited;",
				"class p1 current;",
			},
			excludes: []string{"class p7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.PhaseMermaid(phases, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
			if tt.overlay != nil {
				assert.Equal(t, 1, strings.Count(got, "class p0 visited;"))
			}
		})
	}
}

func TestTermMermaid(t *testing.T) {
	term := domain.NewTerm("AND", domain.NewTerm("NEG", domain.Leaf("TRUE")), domain.Leaf("x"))
	want := `graph TD
    t0["AND"]
    t1["NEG"]
    t2["TRUE"]
    t1 -- "0" --> t2
    t0 -- "0" --> t1
    t3["x"]
    t0 -- "1" --> t3
`
	assert.Equal(t, want, graph.TermMermaid(term))
}

func TestProcessMermaid(t *testing.T) {
	proc, err := runtime.New(boolean.Phases())
	require.NoError(t, err)
	term := domain.NewTerm(boolean.Neg, domain.NewTerm(boolean.Neg, domain.Leaf[boolean.Op]("a")))

	v, err := search.Run(context.Background(), search.Config[boolean.Op]{Trace: true}, proc, term)
	require.NoError(t, err)

	got := graph.ProcessMermaid(v.Graph)
	assert.Contains(t, got, `n0(("NEG(NEG(a)) <br/> phase 0"))`)
	assert.Contains(t, got, `n0 -- "DoubleNegation@ε" --> n1`)
	assert.Contains(t, got, `-. "phase 1" .->`)
	assert.Contains(t, got, "normal;")
}
