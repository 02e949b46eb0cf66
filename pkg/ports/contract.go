package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunNormalFormStoreContract runs a suite of tests to verify that a
// NormalFormStore implementation adheres to the interface contract.
// Terms use string operators so that any serializing store can round-trip them.
func RunNormalFormStoreContract(t *testing.T, store NormalFormStore[string]) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	input := domain.NewTerm("and",
		domain.NewTerm("neg", domain.NewTerm("neg", domain.Leaf("true"))),
		domain.Leaf("true"),
	)
	sample := func() *domain.Normalization[string] {
		return &domain.Normalization[string]{
			RunID:     "run-1",
			Pipeline:  "contract",
			Input:     input,
			Normal:    []*domain.Term[string]{domain.Leaf("true")},
			Nodes:     4,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		// 1. Save
		err := store.Save(ctx, key, sample())
		require.NoError(t, err, "Save should not return error")

		// 2. Load
		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, input.Equal(loaded.Input), "input term should round-trip, got %s", loaded.Input)
		require.Len(t, loaded.Normal, 1)
		assert.Equal(t, "true", loaded.Normal[0].String())
		assert.Equal(t, 4, loaded.Nodes)
		assert.Equal(t, "contract", loaded.Pipeline)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, sample()))

		first, err := store.Load(ctx, key)
		require.NoError(t, err)
		first.Normal = nil

		second, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Len(t, second.Normal, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, sample()))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Load after Delete should return ErrNotFound")
	})

	t.Run("List", func(t *testing.T) {
		k1 := key + "-1"
		k2 := key + "-2"
		_ = store.Save(ctx, k1, sample())
		_ = store.Save(ctx, k2, sample())

		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}
