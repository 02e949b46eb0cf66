package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	sig := schema.DefaultSignature()
	eng, err := espalier.FromPipeline(sig, schema.DefaultPipeline())
	require.NoError(t, err)
	return NewServer(eng, sig)
}

func call(t *testing.T, s *Server, method string, params any) string {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)
	resp := s.MCPServer().HandleMessage(context.Background(), msg)
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(out)
}

func TestHandleNormalize(t *testing.T) {
	s := newServer(t)

	resp, err := s.handleNormalize(context.Background(), mcp.CallToolRequest{}, NormalizeArgs{Term: "AND(OR(c, OR(b, c)), NEG(NEG(a)))"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AND(a, OR(b, c))"}, resp.NormalForms)
	assert.Equal(t, "AND(OR(c, OR(b, c)), NEG(NEG(a)))", resp.Input)
	assert.False(t, resp.Cached)

	_, err = s.handleNormalize(context.Background(), mcp.CallToolRequest{}, NormalizeArgs{Term: "AND(a"})
	assert.ErrorContains(t, err, "invalid term")
}

func TestHandleRewrites(t *testing.T) {
	s := newServer(t)
	one := 1
	seven := 7

	tests := []struct {
		name    string
		args    RewritesArgs
		want    []Rewrite
		wantErr error
	}{
		{
			name: "default phase",
			args: RewritesArgs{Term: "NEG(NEG(a))"},
			want: []Rewrite{{Rule: "EvaluateUnary", Position: "ε", Result: "a"}},
		},
		{
			name: "explicit phase",
			args: RewritesArgs{Term: "AND(a, NEG(NEG(b)))", Phase: &one},
			want: []Rewrite{},
		},
		{
			name:    "unknown phase",
			args:    RewritesArgs{Term: "a", Phase: &seven},
			wantErr: domain.ErrUnknownPhase,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := s.handleRewrites(context.Background(), mcp.CallToolRequest{}, tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Rewrites)
		})
	}
}

func TestToolsOverJSONRPC(t *testing.T) {
	s := newServer(t)

	list := call(t, s, "tools/list", map[string]any{})
	for _, name := range []string{`"normalize"`, `"rewrites"`, `"list_phases"`} {
		assert.Contains(t, list, name)
	}

	out := call(t, s, "tools/call", map[string]any{
		"name":      "normalize",
		"arguments": map[string]any{"term": "OR(b, NEG(NEG(a)))"},
	})
	assert.Contains(t, out, "OR(a, b)")

	out = call(t, s, "tools/call", map[string]any{
		"name":      "list_phases",
		"arguments": map[string]any{},
	})
	assert.Contains(t, out, "canonicalize")
}

func TestSignatureResource(t *testing.T) {
	s := newServer(t)
	out := call(t, s, "resources/read", map[string]any{"uri": SignatureURI})
	assert.Contains(t, out, SignatureURI)
	assert.Contains(t, out, "boolean")
}
