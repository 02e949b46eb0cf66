package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// NormalFormStore persists normalizations so identical requests can be
// answered without rewriting again.
type NormalFormStore[O comparable] interface {
	// Save persists the normalization under key.
	Save(ctx context.Context, key string, n *domain.Normalization[O]) error

	// Load retrieves a normalization.
	// Returns domain.ErrNotFound if the key does not exist.
	Load(ctx context.Context, key string) (*domain.Normalization[O], error)

	// Delete removes a normalization.
	Delete(ctx context.Context, key string) error

	// List returns the stored keys.
	List(ctx context.Context) ([]string, error)
}
