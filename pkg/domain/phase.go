package domain

// Phase is an abstract rewriting phase: an ordered rule list applied until the
// term is irreducible, then an optional hand-off to a successor phase
// depending on whether the phase changed the term.
//
// Phases are referenced by their index in the slice handed to the process.
type Phase[O comparable] struct {
	// Name is informative only (logs, drawings, configuration).
	Name  string
	Rules []Rule[O]

	// KeepOnlyOne stops the search for rewrites at the first one found.
	KeepOnlyOne bool

	// OnChanged is the phase entered when the irreducible term differs from
	// every term that entered the phase. Nil terminates.
	OnChanged *int
	// OnUnchanged is the phase entered when the irreducible term is one of
	// the terms that entered the phase. Nil terminates.
	OnUnchanged *int
}

// Next returns the configured successor for the given outcome.
func (p *Phase[O]) Next(outcome Outcome) (int, bool) {
	var next *int
	if outcome == OutcomeChanged {
		next = p.OnChanged
	} else {
		next = p.OnUnchanged
	}
	if next == nil {
		return 0, false
	}
	return *next, true
}

// Goto is a small helper to fill Phase.OnChanged / Phase.OnUnchanged.
func Goto(index int) *int {
	return &index
}

// Outcome says whether a phase changed its input.
type Outcome int

const (
	OutcomeChanged Outcome = iota
	OutcomeUnchanged
)

func (o Outcome) String() string {
	if o == OutcomeChanged {
		return "changed"
	}
	return "unchanged"
}

// ConcretePhase is one instantiation of an abstract phase, created the first
// time a given predecessor hands a term over for a given outcome.
type ConcretePhase[O comparable] struct {
	AbstractID int
	// Initial holds every term that entered this instance.
	Initial *TermSet[O]
	// Irreducible holds every term found irreducible within this instance.
	Irreducible *TermSet[O]
}

// NewConcretePhase instantiates abstractID with the given entering terms.
func NewConcretePhase[O comparable](abstractID int, initial ...*Term[O]) *ConcretePhase[O] {
	return &ConcretePhase[O]{
		AbstractID:  abstractID,
		Initial:     NewTermSet(initial...),
		Irreducible: NewTermSet[O](),
	}
}
