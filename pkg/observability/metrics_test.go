package observability_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnRewrite(ctx, &domain.RewriteEvent{Phase: 0, Rule: "DoubleNegation"})
	hooks.OnRewrite(ctx, &domain.RewriteEvent{Phase: 0, Rule: "DoubleNegation"})
	hooks.OnPhaseEnter(ctx, &domain.PhaseEvent{AbstractPhase: 1, PhaseName: "canonicalize", Outcome: "changed"})
	hooks.OnIrreducible(ctx, &domain.IrreducibleEvent{AbstractPhase: 1})
	hooks.OnNormalized(ctx, &domain.NormalizedEvent{Pipeline: "bool", Nodes: 12, Duration: time.Millisecond})
	hooks.OnNormalized(ctx, &domain.NormalizedEvent{Pipeline: "bool", Cached: true})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rewrites.WithLabelValues("0", "DoubleNegation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PhaseEntries.WithLabelValues("canonicalize", "changed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Irreducible.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Normalizations.WithLabelValues("bool", "true")))

	// Cached answers do not feed the histograms.
	expected := `
# HELP espalier_normalization_nodes Process nodes explored per normalization.
# TYPE espalier_normalization_nodes histogram
espalier_normalization_nodes_bucket{le="1"} 0
espalier_normalization_nodes_bucket{le="4"} 0
espalier_normalization_nodes_bucket{le="16"} 1
espalier_normalization_nodes_bucket{le="64"} 1
espalier_normalization_nodes_bucket{le="256"} 1
espalier_normalization_nodes_bucket{le="1024"} 1
espalier_normalization_nodes_bucket{le="4096"} 1
espalier_normalization_nodes_bucket{le="16384"} 1
espalier_normalization_nodes_bucket{le="65536"} 1
espalier_normalization_nodes_bucket{le="262144"} 1
espalier_normalization_nodes_bucket{le="+Inf"} 1
espalier_normalization_nodes_sum 12
espalier_normalization_nodes_count 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.Nodes, strings.NewReader(expected)))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}
