package domain

import "strconv"

// Node is a state of the rewriting process: a term being rewritten as part of
// a concrete phase.
type Node[O comparable] struct {
	Term  *Term[O]
	Phase int // index of the concrete phase
}

// Equal compares nodes structurally.
func (n Node[O]) Equal(other Node[O]) bool {
	return n.Phase == other.Phase && n.Term.Equal(other.Term)
}

// StepKind tags the variants of Step.
type StepKind int

const (
	// StepTransform applies one rewrite and stays in the current concrete phase.
	StepTransform StepKind = iota
	// StepGoToPhase keeps the term and moves to another concrete phase.
	StepGoToPhase
)

func (k StepKind) String() string {
	switch k {
	case StepTransform:
		return "transform"
	case StepGoToPhase:
		return "goto_phase"
	default:
		return "unknown"
	}
}

// Step is a candidate move out of a node. It is a closed sum type:
// Rewrite is set for StepTransform, Phase for StepGoToPhase.
type Step[O comparable] struct {
	Kind    StepKind
	Rewrite *Rewrite[O]
	Phase   int
}

// TransformStep builds a StepTransform.
func TransformStep[O comparable](r Rewrite[O]) Step[O] {
	return Step[O]{Kind: StepTransform, Rewrite: &r}
}

// GoToPhaseStep builds a StepGoToPhase.
func GoToPhaseStep[O comparable](phase int) Step[O] {
	return Step[O]{Kind: StepGoToPhase, Phase: phase}
}

// Label describes the step for logs and drawings.
func (s Step[O]) Label() string {
	switch s.Kind {
	case StepTransform:
		return s.Rewrite.RuleName + "@" + s.Rewrite.Position.String()
	case StepGoToPhase:
		return "phase " + strconv.Itoa(s.Phase)
	default:
		return "?"
	}
}
