package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the adapter writes.
const DefaultPrefix = "espalier:nf:"

// farFuture is the index score of entries without TTL (2100-01-01).
const farFuture = 4102444800

// Store implements ports.NormalFormStore using Redis.
// Records are JSON strings; a sorted set indexes the keys by expiry.
type Store[O comparable] struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*options)

type options struct {
	prefix string
	ttl    time.Duration
}

// WithTTL sets the expiration of cached normalizations.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New[O comparable](address, password string, db int, opts ...Option) *Store[O] {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient[O](rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient[O comparable](client *backend.Client, opts ...Option) *Store[O] {
	o := options{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[O]{client: client, prefix: o.prefix, ttl: o.ttl}
}

func (s *Store[O]) key(key string) string {
	return s.prefix + key
}

func (s *Store[O]) indexKey() string {
	return s.prefix + "index"
}

// Save writes the record and indexes it in one pipeline.
func (s *Store[O]) Save(ctx context.Context, key string, n *domain.Normalization[O]) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal normalization: %w", err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(key), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: key})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves a normalization.
func (s *Store[O]) Load(ctx context.Context, key string) (*domain.Normalization[O], error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var n domain.Normalization[O]
	if err := json.Unmarshal(val, &n); err != nil {
		return nil, fmt.Errorf("failed to unmarshal normalization: %w", err)
	}
	return &n, nil
}

// Delete removes the record and its index entry.
func (s *Store[O]) Delete(ctx context.Context, key string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(key))
	pipe.ZRem(ctx, s.indexKey(), key)
	_, err := pipe.Exec(ctx)
	return err
}

// List prunes expired index entries, then returns the remaining keys.
func (s *Store[O]) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired entries: %w", err)
	}

	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return keys, nil
}

// Close closes the redis client.
func (s *Store[O]) Close() error {
	return s.client.Close()
}
