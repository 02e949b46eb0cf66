package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
)

// Store implements ports.NormalFormStore in memory.
// Safe for concurrent use.
type Store[O comparable] struct {
	data map[string]*domain.Normalization[O]
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore[O comparable]() *Store[O] {
	return &Store[O]{
		data: make(map[string]*domain.Normalization[O]),
	}
}

// copyOf detaches the record from the caller. Terms are immutable and
// can be shared; only the struct and the slice are copied.
func copyOf[O comparable](n *domain.Normalization[O]) *domain.Normalization[O] {
	c := *n
	c.Normal = slices.Clone(n.Normal)
	return &c
}

// Save persists the normalization in memory.
func (s *Store[O]) Save(ctx context.Context, key string, n *domain.Normalization[O]) error {
	c := copyOf(n)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = c
	return nil
}

// Load retrieves a copy of the normalization.
func (s *Store[O]) Load(ctx context.Context, key string) (*domain.Normalization[O], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyOf(n), nil
}

// Delete removes the normalization.
func (s *Store[O]) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys.
func (s *Store[O]) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}
