package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/rewrite"
)

// Process is the phased rewriting process. Each abstract phase is a rule
// list applied until the term is irreducible; the irreducible term is then
// handed over to the successor phase selected by whether the phase changed
// it, or becomes a normal form when there is no successor.
//
// Abstract phases are instantiated lazily into concrete phases, one per
// (predecessor concrete phase, outcome) pair, so that "changed" always means
// "differs from every term that entered this very instance".
//
// A Process is driven by a single scheduler and is not safe for concurrent use.
type Process[O comparable] struct {
	phases []domain.Phase[O]
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	runID  string
	fixed  bool

	concretes   []*domain.ConcretePhase[O]
	successors  map[successorKey]int
	transitions []Transition
	finals      *domain.TermSet[O]
}

type successorKey struct {
	from    int
	outcome domain.Outcome
}

// Transition records that concrete phase From handed terms over to concrete
// phase To for the given outcome.
type Transition struct {
	From    int
	To      int
	Outcome domain.Outcome
}

// Option configures a Process.
type Option func(*options)

type options struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	runID  string
	fixed  bool
}

// WithLogger sets the logger used for step tracing (Debug level).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = h
	}
}

// WithRunID tags every emitted event.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// WithFixedPhases ignores the changed/unchanged successors and runs the
// phases linearly: phase i always hands over to phase i+1 and the last phase
// terminates.
func WithFixedPhases() Option {
	return func(o *options) {
		o.fixed = true
	}
}

// New validates the phase graph and returns a fresh process.
func New[O comparable](phases []domain.Phase[O], opts ...Option) (*Process[O], error) {
	if len(phases) == 0 {
		return nil, domain.ErrNoPhases
	}
	for i, ph := range phases {
		for _, next := range []*int{ph.OnChanged, ph.OnUnchanged} {
			if next != nil && (*next < 0 || *next >= len(phases)) {
				return nil, fmt.Errorf("%w: phase %d (%q) refers to %d", domain.ErrUnknownPhase, i, ph.Name, *next)
			}
		}
	}

	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Process[O]{
		phases:     phases,
		logger:     o.logger,
		hooks:      o.hooks,
		runID:      o.runID,
		fixed:      o.fixed,
		successors: make(map[successorKey]int),
		finals:     domain.NewTermSet[O](),
	}, nil
}

// Start enters term into the first instance of phase 0.
func (p *Process[O]) Start(_ context.Context, term *domain.Term[O]) domain.Node[O] {
	if len(p.concretes) == 0 {
		p.concretes = append(p.concretes, domain.NewConcretePhase[O](0))
	}
	p.concretes[0].Initial.Add(term)
	return domain.Node[O]{Term: term, Phase: 0}
}

// CollectNextSteps returns one Transform step per available rewrite. When
// none exists the term is irreducible in its phase: the step list is then
// either a single GoToPhase step or empty when the term is a normal form.
func (p *Process[O]) CollectNextSteps(ctx context.Context, node domain.Node[O]) []domain.Step[O] {
	conc := p.concretes[node.Phase]
	abstract := &p.phases[conc.AbstractID]

	found := rewrite.FindRewrites(conc.AbstractID, abstract.Rules, node.Term, abstract.KeepOnlyOne)
	if len(found) > 0 {
		steps := make([]domain.Step[O], len(found))
		for i, r := range found {
			steps[i] = domain.TransformStep(r)
		}
		return steps
	}

	conc.Irreducible.Add(node.Term)
	outcome := domain.OutcomeUnchanged
	if !conc.Initial.Contains(node.Term) {
		outcome = domain.OutcomeChanged
	}

	next, ok := p.next(conc.AbstractID, outcome)
	p.emitIrreducible(ctx, node, conc.AbstractID, !ok)
	if !ok {
		p.finals.Add(node.Term)
		return nil
	}

	succ := p.successor(node.Phase, outcome, next)
	p.concretes[succ].Initial.Add(node.Term)
	return []domain.Step[O]{domain.GoToPhaseStep[O](succ)}
}

// ProcessNewStep materializes the node a step leads to.
func (p *Process[O]) ProcessNewStep(ctx context.Context, parent domain.Node[O], step domain.Step[O]) domain.Node[O] {
	switch step.Kind {
	case domain.StepTransform:
		p.emitRewrite(ctx, parent, step.Rewrite)
		return domain.Node[O]{Term: step.Rewrite.Result, Phase: parent.Phase}
	case domain.StepGoToPhase:
		p.emitPhaseEnter(ctx, parent.Phase, step.Phase)
		return domain.Node[O]{Term: parent.Term, Phase: step.Phase}
	default:
		panic(fmt.Sprintf("unknown step kind %d", step.Kind))
	}
}

// NormalForms returns the terms found irreducible in a terminal phase, in
// discovery order.
func (p *Process[O]) NormalForms() []*domain.Term[O] {
	return p.finals.Items()
}

// Concretes returns the concrete phases instantiated so far.
func (p *Process[O]) Concretes() []*domain.ConcretePhase[O] {
	out := make([]*domain.ConcretePhase[O], len(p.concretes))
	copy(out, p.concretes)
	return out
}

// Transitions returns the hand-overs between concrete phases, in creation order.
func (p *Process[O]) Transitions() []Transition {
	out := make([]Transition, len(p.transitions))
	copy(out, p.transitions)
	return out
}

// Phases returns the abstract phases.
func (p *Process[O]) Phases() []domain.Phase[O] {
	return p.phases
}

func (p *Process[O]) next(abstractID int, outcome domain.Outcome) (int, bool) {
	if p.fixed {
		if abstractID+1 < len(p.phases) {
			return abstractID + 1, true
		}
		return 0, false
	}
	return p.phases[abstractID].Next(outcome)
}

// successor returns the concrete phase instantiating abstract phase next
// for terms leaving concrete phase from with the given outcome, creating it
// on first use.
func (p *Process[O]) successor(from int, outcome domain.Outcome, next int) int {
	key := successorKey{from: from, outcome: outcome}
	if p.fixed {
		// Both outcomes lead to the same phase.
		key.outcome = domain.OutcomeChanged
	}
	if idx, ok := p.successors[key]; ok {
		return idx
	}
	idx := len(p.concretes)
	p.concretes = append(p.concretes, domain.NewConcretePhase[O](next))
	p.successors[key] = idx
	p.transitions = append(p.transitions, Transition{From: from, To: idx, Outcome: outcome})
	return idx
}

func (p *Process[O]) outcomeOf(to int) domain.Outcome {
	for _, tr := range p.transitions {
		if tr.To == to {
			return tr.Outcome
		}
	}
	return domain.OutcomeChanged
}

func (p *Process[O]) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: p.runID}
}

func (p *Process[O]) emitRewrite(ctx context.Context, parent domain.Node[O], r *domain.Rewrite[O]) {
	p.logger.Debug("rewrite",
		"rule", r.RuleName,
		"position", r.Position.String(),
		"phase", r.PhaseIndex,
		"concrete", parent.Phase,
	)
	if p.hooks.OnRewrite == nil {
		return
	}
	p.hooks.OnRewrite(ctx, &domain.RewriteEvent{
		EventBase: p.base(domain.EventRewrite),
		Phase:     r.PhaseIndex,
		Rule:      r.RuleName,
		Position:  r.Position.String(),
		Depth:     r.Position.Depth(),
	})
}

func (p *Process[O]) emitPhaseEnter(ctx context.Context, from, to int) {
	abstract := p.concretes[to].AbstractID
	outcome := p.outcomeOf(to)
	p.logger.Debug("phase enter",
		"from", from,
		"to", to,
		"phase", p.phases[abstract].Name,
		"outcome", outcome.String(),
	)
	if p.hooks.OnPhaseEnter == nil {
		return
	}
	p.hooks.OnPhaseEnter(ctx, &domain.PhaseEvent{
		EventBase:     p.base(domain.EventPhaseEnter),
		FromConcrete:  from,
		ToConcrete:    to,
		AbstractPhase: abstract,
		PhaseName:     p.phases[abstract].Name,
		Outcome:       outcome.String(),
	})
}

func (p *Process[O]) emitIrreducible(ctx context.Context, node domain.Node[O], abstract int, terminal bool) {
	if terminal {
		p.logger.Debug("normal form", "term", node.Term.String(), "concrete", node.Phase)
	}
	if p.hooks.OnIrreducible == nil {
		return
	}
	p.hooks.OnIrreducible(ctx, &domain.IrreducibleEvent{
		EventBase:     p.base(domain.EventIrreducible),
		Concrete:      node.Phase,
		AbstractPhase: abstract,
		Term:          node.Term.String(),
		Terminal:      terminal,
	})
}
