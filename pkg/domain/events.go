package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRewrite     EventType = "rewrite"
	EventPhaseEnter  EventType = "phase_enter"
	EventIrreducible EventType = "irreducible"
	EventNormalized  EventType = "normalized"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// RewriteEvent is emitted each time a rewrite step is materialized.
type RewriteEvent struct {
	EventBase
	Phase    int    `json:"phase"`
	Rule     string `json:"rule"`
	Position string `json:"position"`
	Depth    int    `json:"depth"`
}

// PhaseEvent is emitted when a term is handed over to a successor phase.
type PhaseEvent struct {
	EventBase
	FromConcrete  int    `json:"from_concrete"`
	ToConcrete    int    `json:"to_concrete"`
	AbstractPhase int    `json:"abstract_phase"`
	PhaseName     string `json:"phase_name,omitempty"`
	Outcome       string `json:"outcome"`
}

// IrreducibleEvent is emitted when no rule of a phase applies to a term.
type IrreducibleEvent struct {
	EventBase
	Concrete      int    `json:"concrete"`
	AbstractPhase int    `json:"abstract_phase"`
	Term          string `json:"term"`
	Terminal      bool   `json:"terminal"`
}

// NormalizedEvent closes a run.
type NormalizedEvent struct {
	EventBase
	Pipeline    string        `json:"pipeline,omitempty"`
	NormalForms int           `json:"normal_forms"`
	Nodes       int           `json:"nodes"`
	Filtered    int           `json:"filtered"`
	Cached      bool          `json:"cached"`
	Duration    time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnRewrite     func(context.Context, *RewriteEvent)
	OnPhaseEnter  func(context.Context, *PhaseEvent)
	OnIrreducible func(context.Context, *IrreducibleEvent)
	OnNormalized  func(context.Context, *NormalizedEvent)
}

// Merge returns hooks calling h first, then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRewrite:     chain(h.OnRewrite, other.OnRewrite),
		OnPhaseEnter:  chain(h.OnPhaseEnter, other.OnPhaseEnter),
		OnIrreducible: chain(h.OnIrreducible, other.OnIrreducible),
		OnNormalized:  chain(h.OnNormalized, other.OnNormalized),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
