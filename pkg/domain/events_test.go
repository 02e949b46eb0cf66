package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	first := LifecycleHooks{
		OnRewrite: func(context.Context, *RewriteEvent) { calls = append(calls, "first") },
	}
	second := LifecycleHooks{
		OnRewrite:    func(context.Context, *RewriteEvent) { calls = append(calls, "second") },
		OnNormalized: func(context.Context, *NormalizedEvent) { calls = append(calls, "normalized") },
	}

	merged := first.Merge(second)
	merged.OnRewrite(context.Background(), &RewriteEvent{})
	merged.OnNormalized(context.Background(), &NormalizedEvent{})

	assert.Equal(t, []string{"first", "second", "normalized"}, calls)
	assert.Nil(t, merged.OnIrreducible)
}
