package dsl

import "github.com/aretw0/espalier/pkg/domain"

// PhaseBuilder provides a fluent API for configuring a phase.
type PhaseBuilder[O comparable] struct {
	name        string
	rules       []domain.Rule[O]
	keepOnlyOne bool
	onChanged   string
	onUnchanged string
}

// Rules appends rules, tried in order.
func (p *PhaseBuilder[O]) Rules(rules ...domain.Rule[O]) *PhaseBuilder[O] {
	p.rules = append(p.rules, rules...)
	return p
}

// KeepOnlyOne makes the phase follow only the first rewrite found.
func (p *PhaseBuilder[O]) KeepOnlyOne() *PhaseBuilder[O] {
	p.keepOnlyOne = true
	return p
}

// OnChanged sets the phase entered when this phase changed the term.
func (p *PhaseBuilder[O]) OnChanged(target string) *PhaseBuilder[O] {
	p.onChanged = target
	return p
}

// OnUnchanged sets the phase entered when this phase left the term as it was.
func (p *PhaseBuilder[O]) OnUnchanged(target string) *PhaseBuilder[O] {
	p.onUnchanged = target
	return p
}

// Then hands over to target whatever the outcome.
func (p *PhaseBuilder[O]) Then(target string) *PhaseBuilder[O] {
	p.onChanged = target
	p.onUnchanged = target
	return p
}

// Terminal removes both successors.
func (p *PhaseBuilder[O]) Terminal() *PhaseBuilder[O] {
	p.onChanged = ""
	p.onUnchanged = ""
	return p
}
