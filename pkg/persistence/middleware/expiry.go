package middleware

import (
	"context"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

type maxAgeMiddleware[O comparable] struct {
	next   ports.NormalFormStore[O]
	maxAge time.Duration
	now    func() time.Time
}

// NewMaxAgeMiddleware hides normalizations older than maxAge: Load reports
// them as domain.ErrNotFound and deletes them. It gives stores without
// native expiry (memory, file) a TTL. now defaults to time.Now.
func NewMaxAgeMiddleware[O comparable](maxAge time.Duration, now func() time.Time) Middleware[O] {
	if now == nil {
		now = time.Now
	}
	return func(next ports.NormalFormStore[O]) ports.NormalFormStore[O] {
		return &maxAgeMiddleware[O]{next: next, maxAge: maxAge, now: now}
	}
}

func (m *maxAgeMiddleware[O]) Save(ctx context.Context, key string, n *domain.Normalization[O]) error {
	return m.next.Save(ctx, key, n)
}

func (m *maxAgeMiddleware[O]) Load(ctx context.Context, key string) (*domain.Normalization[O], error) {
	n, err := m.next.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if m.now().Sub(n.CreatedAt) > m.maxAge {
		// Expired entries are recomputed anyway; a failed delete only leaves garbage.
		_ = m.next.Delete(ctx, key)
		return nil, domain.ErrNotFound
	}
	return n, nil
}

func (m *maxAgeMiddleware[O]) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *maxAgeMiddleware[O]) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
