package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// ErrEmptyKey is returned for operations on an empty key.
var ErrEmptyKey = errors.New("key cannot be empty")

// Store implements ports.NormalFormStore on the local filesystem.
// Each normalization is one JSON file in BasePath.
type Store[O comparable] struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".espalier/cache".
func New[O comparable](basePath string) *Store[O] {
	if basePath == "" {
		basePath = filepath.Join(".espalier", "cache")
	}
	return &Store[O]{BasePath: basePath}
}

func (s *Store[O]) path(key string) string {
	return filepath.Join(s.BasePath, key+".json")
}

// Save writes the normalization atomically: temp file, fsync, rename.
func (s *Store[O]) Save(ctx context.Context, key string, n *domain.Normalization[O]) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure cache directory: %w", err)
	}

	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal normalization: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(s.BasePath, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := s.path(key)
	// os.Rename fails on Windows when the destination exists.
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to remove previous cache entry: %w", err)
		}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads a normalization.
func (s *Store[O]) Load(ctx context.Context, key string) (*domain.Normalization[O], error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var n domain.Normalization[O]
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to unmarshal normalization: %w", err)
	}
	return &n, nil
}

// Delete removes the file. Missing entries are not an error.
func (s *Store[O]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// List returns the stored keys.
func (s *Store[O]) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}
