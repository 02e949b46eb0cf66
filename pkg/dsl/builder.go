package dsl

import (
	"fmt"
	"slices"

	"github.com/aretw0/espalier/pkg/domain"
)

// Builder manages the phase graph construction.
type Builder[O comparable] struct {
	order  []string
	phases map[string]*PhaseBuilder[O]
	start  string
}

// New creates a new phase graph builder.
func New[O comparable]() *Builder[O] {
	return &Builder[O]{
		phases: make(map[string]*PhaseBuilder[O]),
	}
}

// Add creates a new phase.
// If the phase already exists, it returns the existing builder.
func (b *Builder[O]) Add(name string) *PhaseBuilder[O] {
	if pb, ok := b.phases[name]; ok {
		return pb
	}
	pb := &PhaseBuilder[O]{name: name}
	b.phases[name] = pb
	b.order = append(b.order, name)
	return pb
}

// Start makes name the entry phase.
func (b *Builder[O]) Start(name string) *Builder[O] {
	b.start = name
	return b
}

// UnknownPhaseError reports a reference to a phase that was never added.
type UnknownPhaseError struct {
	From string
	To   string
}

func (e *UnknownPhaseError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("unknown start phase %q", e.To)
	}
	return fmt.Sprintf("phase %q refers to unknown phase %q", e.From, e.To)
}

// Unwrap lets callers match domain.ErrUnknownPhase.
func (e *UnknownPhaseError) Unwrap() error {
	return domain.ErrUnknownPhase
}

// Build resolves phase names and returns the phases, entry phase first.
func (b *Builder[O]) Build() ([]domain.Phase[O], error) {
	if len(b.order) == 0 {
		return nil, domain.ErrNoPhases
	}

	names := slices.Clone(b.order)
	if b.start != "" {
		i := slices.Index(names, b.start)
		if i < 0 {
			return nil, &UnknownPhaseError{To: b.start}
		}
		names = append(append([]string{b.start}, names[:i]...), names[i+1:]...)
	}
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	resolve := func(from, to string) (*int, error) {
		if to == "" {
			return nil, nil
		}
		i, ok := index[to]
		if !ok {
			return nil, &UnknownPhaseError{From: from, To: to}
		}
		return domain.Goto(i), nil
	}

	phases := make([]domain.Phase[O], len(names))
	for i, n := range names {
		pb := b.phases[n]
		onChanged, err := resolve(n, pb.onChanged)
		if err != nil {
			return nil, err
		}
		onUnchanged, err := resolve(n, pb.onUnchanged)
		if err != nil {
			return nil, err
		}
		phases[i] = domain.Phase[O]{
			Name:        n,
			Rules:       slices.Clone(pb.rules),
			KeepOnlyOne: pb.keepOnlyOne,
			OnChanged:   onChanged,
			OnUnchanged: onUnchanged,
		}
	}
	return phases, nil
}
