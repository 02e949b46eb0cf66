package generate

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/aretw0/espalier/pkg/domain"
)

const tolerance = 1e-6

// Pattern produces a complete subterm in one draw.
type Pattern[O comparable] func(r *rand.Rand) *domain.Term[O]

// Symbol is either an operator or a pattern. A non-nil Pattern wins.
type Symbol[O comparable] struct {
	Op      O
	Pattern Pattern[O]
}

// Op is the operator symbol for op.
func Op[O comparable](op O) Symbol[O] {
	return Symbol[O]{Op: op}
}

// FromPattern is the pattern symbol for p.
func FromPattern[O comparable](p Pattern[O]) Symbol[O] {
	return Symbol[O]{Pattern: p}
}

// Weighted pairs a symbol with its probability.
type Weighted[O comparable] struct {
	Symbol      Symbol[O]
	Probability float64
}

// ProbabilityErrorKind tells which constraint a table violates.
type ProbabilityErrorKind int

const (
	// ProbabilityOutOfRange: one weight lies outside [0, 1].
	ProbabilityOutOfRange ProbabilityErrorKind = iota
	// ProbabilitiesDoNotSumToOne: the weights do not add up to 1.
	ProbabilitiesDoNotSumToOne
)

func (k ProbabilityErrorKind) String() string {
	if k == ProbabilityOutOfRange {
		return "symbol probability must be between 0 and 1"
	}
	return "sum of probabilities must be 1"
}

// ProbabilityError is returned by NewProbabilities.
type ProbabilityError struct {
	Kind ProbabilityErrorKind
	// Index of the offending entry, -1 for the sum.
	Index int
	Value float64
}

func (e *ProbabilityError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s (got %g)", e.Kind, e.Value)
	}
	return fmt.Sprintf("entry %d: %s (got %g)", e.Index, e.Kind, e.Value)
}

// Probabilities is a validated symbol table, stored as cumulative bounds.
type Probabilities[O comparable] struct {
	symbols []Symbol[O]
	bounds  []float64
}

// NewProbabilities validates the table: every weight must lie in [0, 1] and
// their sum must be 1, both up to 1e-6. Entry order is kept, so a seeded
// source draws the same sequence every time.
func NewProbabilities[O comparable](entries ...Weighted[O]) (*Probabilities[O], error) {
	p := &Probabilities[O]{
		symbols: make([]Symbol[O], 0, len(entries)),
		bounds:  make([]float64, 0, len(entries)),
	}
	sum := 0.0
	for i, e := range entries {
		if e.Probability < -tolerance || e.Probability > 1+tolerance || math.IsNaN(e.Probability) {
			return nil, &ProbabilityError{Kind: ProbabilityOutOfRange, Index: i, Value: e.Probability}
		}
		sum += e.Probability
		p.symbols = append(p.symbols, e.Symbol)
		p.bounds = append(p.bounds, sum)
	}
	if math.Abs(sum-1) > tolerance {
		return nil, &ProbabilityError{Kind: ProbabilitiesDoNotSumToOne, Index: -1, Value: sum}
	}
	return p, nil
}

// Draw picks a symbol.
func (p *Probabilities[O]) Draw(r *rand.Rand) Symbol[O] {
	got := r.Float64()
	for i, bound := range p.bounds {
		if got <= bound+tolerance {
			return p.symbols[i]
		}
	}
	return p.symbols[len(p.symbols)-1]
}
