package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnv_Stores(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name       string
		opts       Options
		wantCached bool
	}{
		{name: "no store", opts: Options{}},
		{name: "memory", opts: Options{Store: StoreMemory}, wantCached: true},
		{name: "file", opts: Options{Store: StoreFile, CacheDir: t.TempDir()}, wantCached: true},
		{name: "redis", opts: Options{Store: StoreRedis, RedisURL: "redis://" + mr.Addr()}, wantCached: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, tt.opts)
			ctx := context.Background()
			term, err := env.Signature.ParseTerm("OR(b, NEG(NEG(a)))")
			require.NoError(t, err)

			first, err := env.Engine.Normalize(ctx, term)
			require.NoError(t, err)
			assert.False(t, first.Cached)
			assert.Equal(t, "OR(a, b)", first.First().String())

			second, err := env.Engine.Normalize(ctx, term)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCached, second.Cached)
		})
	}
}

func TestNewEnv_Errors(t *testing.T) {
	ctx := context.Background()
	nop := logging.NewNop()

	_, err := NewEnv(ctx, Options{Store: "s3"}, nop)
	assert.ErrorContains(t, err, `unknown store "s3"`)

	_, err = NewEnv(ctx, Options{Store: StoreRedis, RedisURL: "::not a url"}, nop)
	assert.ErrorContains(t, err, "invalid redis url")

	_, err = NewEnv(ctx, Options{SignaturePath: filepath.Join(t.TempDir(), "missing.yaml")}, nop)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptions_LoadCustomFiles(t *testing.T) {
	sig := writeFile(t, "sig.yaml", `
name: monoid
variables: true
operators:
  - name: e
  - name: mul
    arity: 2
    associative: true
    neutral: e
`)
	pipe := writeFile(t, "pipe.yaml", `
name: monoid-nf
phases:
  - name: main
    rules: [neutral, flush_right]
`)
	env := newEnv(t, Options{SignaturePath: sig, PipelinePath: pipe})
	assert.Equal(t, "monoid", env.Signature.Name())
	assert.Equal(t, "monoid-nf", env.Engine.Name)

	term, err := env.Signature.ParseTerm("mul(mul(a, e), mul(b, c))")
	require.NoError(t, err)
	res, err := env.Engine.Normalize(context.Background(), term)
	require.NoError(t, err)
	assert.Equal(t, "mul(a, mul(b, c))", res.First().String())
}

func TestNewEnv_CacheMaxAge(t *testing.T) {
	env := newEnv(t, Options{Store: StoreMemory, CacheMaxAge: time.Nanosecond})
	ctx := context.Background()
	term, err := env.Signature.ParseTerm("NEG(FALSE)")
	require.NoError(t, err)

	_, err = env.Engine.Normalize(ctx, term)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	again, err := env.Engine.Normalize(ctx, term)
	require.NoError(t, err)
	assert.False(t, again.Cached, "expired entries are recomputed")
}
