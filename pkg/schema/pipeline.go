package schema

import (
	"errors"
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/dsl"
	"github.com/aretw0/espalier/pkg/rules"
	"github.com/aretw0/espalier/pkg/search"
	"github.com/mitchellh/mapstructure"
)

// PipelineDef is the YAML form of a phase graph and its search settings.
type PipelineDef struct {
	Name   string     `yaml:"name" json:"name" validate:"required"`
	Start  string     `yaml:"start,omitempty" json:"start,omitempty"`
	Phases []PhaseDef `yaml:"phases" json:"phases" validate:"required,min=1,dive"`

	// Fixed runs the phases linearly, ignoring on_changed / on_unchanged.
	Fixed      bool          `yaml:"fixed,omitempty" json:"fixed,omitempty"`
	Strategy   string        `yaml:"strategy,omitempty" json:"strategy,omitempty" validate:"omitempty,oneof=dfs bfs best hcs"`
	Priorities PrioritiesDef `yaml:"priorities,omitempty" json:"priorities,omitempty"`
	Filters    FiltersDef    `yaml:"filters,omitempty" json:"filters,omitempty"`
}

// PhaseDef declares a phase. Rules entries are either a rule name
// ("flush_right", "AssociativeFlushRight") or a map decoded into RuleSpec.
type PhaseDef struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Rules       []any  `yaml:"rules" json:"rules"`
	KeepOnlyOne bool   `yaml:"keep_only_one,omitempty" json:"keep_only_one,omitempty"`
	OnChanged   string `yaml:"on_changed,omitempty" json:"on_changed,omitempty"`
	OnUnchanged string `yaml:"on_unchanged,omitempty" json:"on_unchanged,omitempty"`
	Then        string `yaml:"then,omitempty" json:"then,omitempty"`
}

// RuleSpec is the map form of a rule entry.
type RuleSpec struct {
	// Builtin names a rules.Kind.
	Builtin string `mapstructure:"builtin"`
	// Simplify is "unary" or "binary": the signature evaluates the operator.
	Simplify string `mapstructure:"simplify"`
	// Name overrides the rule name reported in rewrites.
	Name string `mapstructure:"name"`
}

// PrioritiesDef scores rules by phase and rule name.
type PrioritiesDef struct {
	Rules     map[string]map[string]int `yaml:"rules,omitempty" json:"rules,omitempty"`
	Depth     map[string]int            `yaml:"depth,omitempty" json:"depth,omitempty"`
	GoToPhase *int                      `yaml:"goto_phase,omitempty" json:"goto_phase,omitempty"`
}

// FiltersDef bounds the search.
type FiltersDef struct {
	MaxNodes int `yaml:"max_nodes,omitempty" json:"max_nodes,omitempty" validate:"gte=0"`
	MaxDepth int `yaml:"max_depth,omitempty" json:"max_depth,omitempty" validate:"gte=0"`
}

// ErrBadRule is wrapped by errors about rule entries.
var ErrBadRule = errors.New("invalid rule entry")

// Build validates the pipeline against sig and returns the phases, entry
// phase first.
func (p *PipelineDef) Build(sig *Signature) ([]domain.Phase[string], error) {
	if errs := structErrors(p); len(errs) > 0 {
		return nil, aggregate(errs)
	}

	b := dsl.New[string]()
	var errs []error
	for i, ph := range p.Phases {
		pb := b.Add(ph.Name)
		for j, entry := range ph.Rules {
			rule, err := buildRule(sig, entry)
			if err != nil {
				errs = append(errs, &ValidationError{
					Key:    fmt.Sprintf("phases[%d].rules[%d]", i, j),
					Reason: err.Error(),
					Value:  entry,
				})
				continue
			}
			pb.Rules(rule)
		}
		if ph.KeepOnlyOne {
			pb.KeepOnlyOne()
		}
		if ph.Then != "" {
			pb.Then(ph.Then)
		}
		if ph.OnChanged != "" {
			pb.OnChanged(ph.OnChanged)
		}
		if ph.OnUnchanged != "" {
			pb.OnUnchanged(ph.OnUnchanged)
		}
	}
	if err := aggregate(errs); err != nil {
		return nil, err
	}
	if p.Start != "" {
		b.Start(p.Start)
	}
	return b.Build()
}

func buildRule(sig *Signature, entry any) (domain.Rule[string], error) {
	var spec RuleSpec
	switch v := entry.(type) {
	case string:
		spec.Builtin = v
	case map[string]any:
		if err := mapstructure.Decode(v, &spec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRule, err)
		}
	default:
		return nil, fmt.Errorf("%w: expected a name or a map, got %T", ErrBadRule, entry)
	}

	switch {
	case spec.Builtin != "" && spec.Simplify != "":
		return nil, fmt.Errorf("%w: builtin and simplify are exclusive", ErrBadRule)
	case spec.Simplify == "unary":
		return rules.SimplifyUnary[string](nameOr(spec.Name, "EvaluateUnary"), sig), nil
	case spec.Simplify == "binary":
		return rules.SimplifyBinary[string](nameOr(spec.Name, "EvaluateBinary"), sig), nil
	case spec.Simplify != "":
		return nil, fmt.Errorf("%w: simplify must be unary or binary", ErrBadRule)
	}

	kind, err := rules.ParseKind(spec.Builtin)
	if err != nil {
		return nil, err
	}
	if (kind == rules.KindFactorizeLeftAC || kind == rules.KindFactorizeRightAC) && sig.EmptyOperator() == "" {
		return nil, fmt.Errorf("%w: %s", rules.ErrNoEmptyOperator, kind)
	}
	rule, err := rules.Builtin[string](sig, kind)
	if err != nil {
		return nil, err
	}
	if spec.Name != "" {
		return renamed{Rule: rule, name: spec.Name}, nil
	}
	return rule, nil
}

type renamed struct {
	domain.Rule[string]
	name string
}

func (r renamed) Name() string { return r.name }

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

// SearchConfig translates the strategy, priorities and filters of the
// pipeline for the phases returned by Build.
func (p *PipelineDef) SearchConfig(phases []domain.Phase[string]) (search.Config[string], error) {
	strategy, err := search.ParseStrategy(p.Strategy)
	if err != nil {
		return search.Config[string]{}, err
	}

	prio := search.DefaultPriorities()
	if p.Priorities.GoToPhase != nil {
		prio.GoToPhase = *p.Priorities.GoToPhase
	}
	phaseIndex := make(map[string]int, len(phases))
	for i, ph := range phases {
		phaseIndex[ph.Name] = i
	}

	var errs []error
	for phaseName, scores := range p.Priorities.Rules {
		pi, ok := phaseIndex[phaseName]
		if !ok {
			errs = append(errs, &ValidationError{Key: "priorities.rules", Reason: "refers to an unknown phase", Value: phaseName})
			continue
		}
		for ruleName, score := range scores {
			matched := false
			for ri, r := range phases[pi].Rules {
				if r.Name() == ruleName {
					if prio.Rules == nil {
						prio.Rules = make(map[int]map[int]int)
					}
					if prio.Rules[pi] == nil {
						prio.Rules[pi] = make(map[int]int)
					}
					prio.Rules[pi][ri] = score
					matched = true
				}
			}
			if !matched {
				errs = append(errs, &ValidationError{Key: "priorities.rules." + phaseName, Reason: "refers to an unknown rule", Value: ruleName})
			}
		}
	}
	for phaseName, mod := range p.Priorities.Depth {
		pi, ok := phaseIndex[phaseName]
		if !ok {
			errs = append(errs, &ValidationError{Key: "priorities.depth", Reason: "refers to an unknown phase", Value: phaseName})
			continue
		}
		if prio.Depth == nil {
			prio.Depth = make(map[int]int)
		}
		prio.Depth[pi] = mod
	}
	if err := aggregate(errs); err != nil {
		return search.Config[string]{}, err
	}

	return search.Config[string]{
		Strategy:   strategy,
		Priorities: &prio,
		Filters: search.Filters[string]{
			MaxNodes: p.Filters.MaxNodes,
			MaxDepth: p.Filters.MaxDepth,
		},
	}, nil
}
