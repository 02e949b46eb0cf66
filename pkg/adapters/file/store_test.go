package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.NormalFormStore[string] = (*file.Store[string])(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunNormalFormStoreContract(t, file.New[string](t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New[string](dir)
	ctx := context.Background()

	n := &domain.Normalization[string]{Input: domain.Leaf("x"), Normal: []*domain.Term[string]{domain.Leaf("x")}}
	require.NoError(t, store.Save(ctx, "entry", n))
	require.NoError(t, store.Save(ctx, "entry", n), "overwrite")

	_, err := os.Stat(filepath.Join(dir, "entry.json"))
	assert.NoError(t, err)

	// Stray files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"entry"}, keys)

	require.NoError(t, store.Delete(ctx, "entry"))
	require.NoError(t, store.Delete(ctx, "entry"), "deleting twice is fine")

	assert.ErrorIs(t, store.Save(ctx, "", n), file.ErrEmptyKey)
}

func TestFileStore_ListMissingDirectory(t *testing.T) {
	store := file.New[string](filepath.Join(t.TempDir(), "absent"))
	keys, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}
