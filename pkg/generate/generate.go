package generate

import (
	"errors"
	"math/rand/v2"

	"github.com/aretw0/espalier/pkg/domain"
)

// ErrEndSymbolNotLeaf is returned when the end symbol is an operator that
// takes operands.
var ErrEndSymbolNotLeaf = errors.New("end symbol must be a leaf operator or a pattern")

// Generator draws random terms.
type Generator[O comparable] struct {
	probas   *Probabilities[O]
	arity    func(O) int
	maxDepth int
	end      Symbol[O]
}

// NewGenerator returns a generator. Nodes at maxDepth are replaced by end.
func NewGenerator[O comparable](probas *Probabilities[O], arity func(O) int, maxDepth int, end Symbol[O]) (*Generator[O], error) {
	if end.Pattern == nil && arity(end.Op) != 0 {
		return nil, ErrEndSymbolNotLeaf
	}
	return &Generator[O]{probas: probas, arity: arity, maxDepth: maxDepth, end: end}, nil
}

// Generate draws one term. Its depth never exceeds maxDepth+1 unless a
// pattern produces deeper subterms.
func (g *Generator[O]) Generate(r *rand.Rand) *domain.Term[O] {
	return g.generate(r, 0)
}

// GenerateN draws n terms.
func (g *Generator[O]) GenerateN(r *rand.Rand, n int) []*domain.Term[O] {
	out := make([]*domain.Term[O], n)
	for i := range out {
		out[i] = g.Generate(r)
	}
	return out
}

func (g *Generator[O]) generate(r *rand.Rand, depth int) *domain.Term[O] {
	symbol := g.end
	if depth < g.maxDepth {
		symbol = g.probas.Draw(r)
	}
	if symbol.Pattern != nil {
		return symbol.Pattern(r)
	}
	children := make([]*domain.Term[O], g.arity(symbol.Op))
	for i := range children {
		children[i] = g.generate(r, depth+1)
	}
	return domain.NewTerm(symbol.Op, children...)
}
