package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

type loggingMiddleware[O comparable] struct {
	next   ports.NormalFormStore[O]
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store access: hits and misses at debug
// level, failures at warn level.
func NewLoggingMiddleware[O comparable](logger *slog.Logger) Middleware[O] {
	return func(next ports.NormalFormStore[O]) ports.NormalFormStore[O] {
		return &loggingMiddleware[O]{next: next, logger: logger.With("component", "store")}
	}
}

func (m *loggingMiddleware[O]) Save(ctx context.Context, key string, n *domain.Normalization[O]) error {
	err := m.next.Save(ctx, key, n)
	if err != nil {
		m.logger.Warn("save failed", "key", key, "error", err)
		return err
	}
	m.logger.Debug("saved", "key", key, "run_id", n.RunID, "normal_forms", len(n.Normal))
	return nil
}

func (m *loggingMiddleware[O]) Load(ctx context.Context, key string) (*domain.Normalization[O], error) {
	n, err := m.next.Load(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		m.logger.Debug("miss", "key", key)
	case err != nil:
		m.logger.Warn("load failed", "key", key, "error", err)
	default:
		m.logger.Debug("hit", "key", key, "run_id", n.RunID)
	}
	return n, err
}

func (m *loggingMiddleware[O]) Delete(ctx context.Context, key string) error {
	err := m.next.Delete(ctx, key)
	if err != nil {
		m.logger.Warn("delete failed", "key", key, "error", err)
	}
	return err
}

func (m *loggingMiddleware[O]) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
