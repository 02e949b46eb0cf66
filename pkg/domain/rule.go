package domain

// Rule is a named, stateless rewrite rule.
//
// Apply receives the subterm under consideration, the whole term it lives in
// and the position of the subterm inside that context term. It returns the
// replacement subterm, or false when the rule does not apply. Rules must not
// mutate their inputs and must decline (rather than panic) on any well-formed
// term that does not match their precondition.
type Rule[O comparable] interface {
	Name() string
	Apply(term, context *Term[O], pos Position) (*Term[O], bool)
}

// TransformFunc is the context-free form of a rule body.
type TransformFunc[O comparable] func(term *Term[O]) (*Term[O], bool)

// ContextTransformFunc is the position-aware form of a rule body.
type ContextTransformFunc[O comparable] func(term, context *Term[O], pos Position) (*Term[O], bool)

type funcRule[O comparable] struct {
	name string
	fn   ContextTransformFunc[O]
}

func (r *funcRule[O]) Name() string { return r.name }

func (r *funcRule[O]) Apply(term, context *Term[O], pos Position) (*Term[O], bool) {
	return r.fn(term, context, pos)
}

func (r *funcRule[O]) String() string { return r.name }

// NewRule wraps a context-free transformation into a Rule.
func NewRule[O comparable](name string, fn TransformFunc[O]) Rule[O] {
	return &funcRule[O]{
		name: name,
		fn: func(term, _ *Term[O], _ Position) (*Term[O], bool) {
			return fn(term)
		},
	}
}

// NewContextRule wraps a position-aware transformation into a Rule.
func NewContextRule[O comparable](name string, fn ContextTransformFunc[O]) Rule[O] {
	return &funcRule[O]{name: name, fn: fn}
}

// Rewrite is one single-step rewriting outcome: which rule of which phase
// fired, where, and the whole resulting term.
type Rewrite[O comparable] struct {
	PhaseIndex int
	RuleIndex  int
	RuleName   string
	Position   Position
	Result     *Term[O]
}
