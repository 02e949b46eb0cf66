package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the rewriting collectors.
type Metrics struct {
	Rewrites       *prometheus.CounterVec
	PhaseEntries   *prometheus.CounterVec
	Irreducible    *prometheus.CounterVec
	Normalizations *prometheus.CounterVec
	Duration       prometheus.Histogram
	Nodes          prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Rewrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "espalier_rewrites_total",
			Help: "Rewrite steps materialized, by phase and rule.",
		}, []string{"phase", "rule"}),
		PhaseEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "espalier_phase_entries_total",
			Help: "Hand-overs to a successor phase, by phase and outcome of the previous one.",
		}, []string{"phase", "outcome"}),
		Irreducible: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "espalier_irreducible_terms_total",
			Help: "Terms found irreducible, by abstract phase.",
		}, []string{"phase"}),
		Normalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "espalier_normalizations_total",
			Help: "Completed normalizations, by pipeline and cache status.",
		}, []string{"pipeline", "cached"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "espalier_normalization_duration_seconds",
			Help:    "Wall time of normalizations.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		Nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "espalier_normalization_nodes",
			Help:    "Process nodes explored per normalization.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
	for _, c := range []prometheus.Collector{m.Rewrites, m.PhaseEntries, m.Irreducible, m.Normalizations, m.Duration, m.Nodes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns the lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRewrite: func(_ context.Context, e *domain.RewriteEvent) {
			m.Rewrites.WithLabelValues(strconv.Itoa(e.Phase), e.Rule).Inc()
		},
		OnPhaseEnter: func(_ context.Context, e *domain.PhaseEvent) {
			phase := e.PhaseName
			if phase == "" {
				phase = strconv.Itoa(e.AbstractPhase)
			}
			m.PhaseEntries.WithLabelValues(phase, e.Outcome).Inc()
		},
		OnIrreducible: func(_ context.Context, e *domain.IrreducibleEvent) {
			m.Irreducible.WithLabelValues(strconv.Itoa(e.AbstractPhase)).Inc()
		},
		OnNormalized: func(_ context.Context, e *domain.NormalizedEvent) {
			m.Normalizations.WithLabelValues(e.Pipeline, strconv.FormatBool(e.Cached)).Inc()
			if !e.Cached {
				m.Duration.Observe(e.Duration.Seconds())
				m.Nodes.Observe(float64(e.Nodes))
			}
		},
	}
}
