package search

import "github.com/aretw0/espalier/pkg/domain"

// Priorities score candidate steps; higher scores are explored first.
//
// A Transform step scores Rules[phase][rule] plus Depth[phase] times the
// depth of the rewritten position, so a negative depth modifier favors
// rewrites near the root. A GoToPhase step scores GoToPhase.
type Priorities struct {
	Rules     map[int]map[int]int `yaml:"rules" json:"rules,omitempty"`
	Depth     map[int]int         `yaml:"depth" json:"depth,omitempty"`
	GoToPhase int                 `yaml:"goto_phase" json:"goto_phase"`
}

// DefaultPriorities favors leaving an exhausted phase over nothing else.
func DefaultPriorities() Priorities {
	return Priorities{GoToPhase: 1}
}

// Score returns the priority of step.
func Score[O comparable](p Priorities, step domain.Step[O]) int {
	if step.Kind == domain.StepGoToPhase {
		return p.GoToPhase
	}
	r := step.Rewrite
	return p.Rules[r.PhaseIndex][r.RuleIndex] + p.Depth[r.PhaseIndex]*r.Position.Depth()
}
