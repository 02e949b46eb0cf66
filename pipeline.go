package espalier

import (
	"github.com/aretw0/espalier/pkg/schema"
)

// FromPipeline builds an engine over string operators from a signature and
// a pipeline definition. The pipeline name, strategy, priorities, filters and
// fixed mode become engine options; opts are applied after them.
func FromPipeline(sig *schema.Signature, def *schema.PipelineDef, opts ...Option[string]) (*Engine[string], error) {
	phases, err := def.Build(sig)
	if err != nil {
		return nil, err
	}
	cfg, err := def.SearchConfig(phases)
	if err != nil {
		return nil, err
	}

	base := []Option[string]{
		WithName[string](def.Name),
		WithStrategy[string](cfg.Strategy),
		WithFilters(cfg.Filters),
	}
	if cfg.Priorities != nil {
		base = append(base, WithPriorities[string](*cfg.Priorities))
	}
	if def.Fixed {
		base = append(base, WithFixedPhases[string]())
	}
	return New(phases, append(base, opts...)...)
}
