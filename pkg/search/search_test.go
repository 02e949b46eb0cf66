package search_test

import (
	"context"
	"testing"

	"github.com/aretw0/espalier/internal/compiler"
	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/algebra/boolean"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = "AND(NEG(NEG(TRUE)), OR(AND(FALSE,FALSE), TRUE))"

func parse(t *testing.T, s string) *boolean.Term {
	t.Helper()
	term, err := compiler.NewParser(boolean.Resolve, boolean.Signature{}.Arity).Parse(s)
	require.NoError(t, err)
	return term
}

func run(t *testing.T, cfg search.Config[boolean.Op], input string) *search.Verdict[boolean.Op] {
	t.Helper()
	proc, err := runtime.New(boolean.Phases())
	require.NoError(t, err)
	v, err := search.Run(context.Background(), cfg, proc, parse(t, input))
	require.NoError(t, err)
	return v
}

func TestRun_StrategiesAgree(t *testing.T) {
	for _, s := range []search.Strategy{search.DepthFirst, search.BreadthFirst, search.BestFirst} {
		t.Run(s.String(), func(t *testing.T) {
			v := run(t, search.Config[boolean.Op]{Strategy: s}, scenario)
			require.Len(t, v.Normal, 1)
			assert.Equal(t, "TRUE", v.Normal[0].String())
			assert.Zero(t, v.FilteredTotal())
			assert.Greater(t, v.Nodes, 1)
		})
	}
}

func TestRun_Filters(t *testing.T) {
	t.Run("max nodes", func(t *testing.T) {
		v := run(t, search.Config[boolean.Op]{Filters: search.Filters[boolean.Op]{MaxNodes: 2}}, scenario)
		assert.LessOrEqual(t, v.Nodes, 2)
		assert.Positive(t, v.Filtered[search.FilteredMaxNodes])
	})

	t.Run("max depth", func(t *testing.T) {
		v := run(t, search.Config[boolean.Op]{Filters: search.Filters[boolean.Op]{MaxDepth: 1}}, scenario)
		assert.Positive(t, v.Filtered[search.FilteredMaxDepth])
		assert.Empty(t, v.Normal, "no normal form is one step away")
	})

	t.Run("predicate", func(t *testing.T) {
		noOr := func(term *boolean.Term) bool {
			found := false
			term.Walk(func(_ domain.Position, sub *boolean.Term) bool {
				found = found || sub.Operator == boolean.Or
				return !found
			})
			return !found
		}
		v := run(t, search.Config[boolean.Op]{Filters: search.Filters[boolean.Op]{MustSatisfy: noOr}}, "AND(NEG(NEG(x)), NEG(AND(a, b)))")
		assert.Positive(t, v.Filtered[search.FilteredPredicate])
	})
}

func TestRun_Trace(t *testing.T) {
	v := run(t, search.Config[boolean.Op]{Trace: true}, "NEG(NEG(OR(b, a)))")
	g := v.Graph
	require.NotNil(t, g)

	assert.Len(t, g.Nodes, v.Nodes)
	assert.Equal(t, "NEG(NEG(OR(b, a)))", g.Nodes[0].Term.String())
	require.Len(t, g.Terminal, 1)

	var gotos int
	for _, e := range g.Edges {
		assert.Less(t, e.From, len(g.Nodes))
		assert.Less(t, e.To, len(g.Nodes))
		if e.Kind == domain.StepGoToPhase {
			gotos++
		}
	}
	assert.Equal(t, 3, gotos)

	assert.Nil(t, run(t, search.Config[boolean.Op]{}, "x").Graph)
}

func TestRun_Canceled(t *testing.T) {
	proc, err := runtime.New(boolean.Phases())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = search.Run(ctx, search.Config[boolean.Op]{}, proc, parse(t, scenario))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScore(t *testing.T) {
	p := search.Priorities{
		Rules: map[int]map[int]int{0: {2: 10}},
		Depth: map[int]int{0: -3},
	}
	step := domain.TransformStep(domain.Rewrite[string]{PhaseIndex: 0, RuleIndex: 2, Position: domain.Position{1, 0}})
	assert.Equal(t, 4, search.Score(p, step))

	other := domain.TransformStep(domain.Rewrite[string]{PhaseIndex: 1, RuleIndex: 2, Position: domain.Position{1}})
	assert.Equal(t, 0, search.Score(p, other))

	assert.Equal(t, 1, search.Score(search.DefaultPriorities(), domain.GoToPhaseStep[string](3)))
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]search.Strategy{
		"":    search.DepthFirst,
		"DFS": search.DepthFirst,
		"bfs": search.BreadthFirst,
		"hcs": search.BestFirst,
	} {
		got, err := search.ParseStrategy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := search.ParseStrategy("random")
	assert.Error(t, err)
}
