package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// Process is what a search scheduler drives: it enumerates candidate steps
// out of a node and materializes the node a step leads to.
type Process[O comparable] interface {
	// Start returns the initial node for a term.
	Start(ctx context.Context, term *domain.Term[O]) domain.Node[O]

	// CollectNextSteps lists the candidate steps out of node. An empty result
	// means node is terminal.
	CollectNextSteps(ctx context.Context, node domain.Node[O]) []domain.Step[O]

	// ProcessNewStep materializes the node reached by applying step to parent.
	ProcessNewStep(ctx context.Context, parent domain.Node[O], step domain.Step[O]) domain.Node[O]
}
