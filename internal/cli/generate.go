package cli

import (
	"errors"
	"math/rand/v2"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/generate"
	"github.com/aretw0/espalier/pkg/schema"
)

// ErrNoLeaves is returned when neither the signature nor the caller offers
// a leaf to close generated terms with.
var ErrNoLeaves = errors.New("no constant or variable to close terms with")

// NewGenerator draws terms over sig where every declared operator and every
// variable is equally likely. Past maxDepth a random leaf closes the term.
// variables are ignored when the signature does not allow them.
func NewGenerator(sig *schema.Signature, maxDepth int, variables []string) (*generate.Generator[string], error) {
	if !sig.Def().Variables {
		variables = nil
	}
	leaves := append(sig.Leaves(), variables...)
	if len(leaves) == 0 {
		return nil, ErrNoLeaves
	}

	var symbols []generate.Symbol[string]
	for _, op := range sig.Operators() {
		symbols = append(symbols, generate.Op(op.Name))
	}
	for _, v := range variables {
		symbols = append(symbols, generate.Op(v))
	}

	entries := make([]generate.Weighted[string], len(symbols))
	for i, s := range symbols {
		entries[i] = generate.Weighted[string]{Symbol: s, Probability: 1 / float64(len(symbols))}
	}
	probas, err := generate.NewProbabilities(entries...)
	if err != nil {
		return nil, err
	}

	end := generate.FromPattern(func(r *rand.Rand) *domain.Term[string] {
		return domain.Leaf(leaves[r.IntN(len(leaves))])
	})
	return generate.NewGenerator(probas, sig.Arity, maxDepth, end)
}
