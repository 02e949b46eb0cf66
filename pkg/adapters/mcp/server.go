package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SignatureURI names the signature resource.
const SignatureURI = "espalier://signature"

// Engine defines the interface required by the MCP server.
type Engine interface {
	Normalize(ctx context.Context, term *domain.Term[string]) (*espalier.Result[string], error)
	Rewrites(term *domain.Term[string], phase int) ([]domain.Rewrite[string], error)
	Phases() []domain.Phase[string]
}

// NormalizeArgs are the arguments of the normalize tool.
type NormalizeArgs struct {
	Term string `json:"term"`
}

// NormalizeResponse is the structured answer of the normalize tool.
type NormalizeResponse struct {
	Input       string   `json:"input" jsonschema_description:"The parsed input term"`
	NormalForms []string `json:"normal_forms" jsonschema_description:"Distinct normal forms, in discovery order"`
	Nodes       int      `json:"nodes" jsonschema_description:"Process nodes explored"`
	Filtered    int      `json:"filtered" jsonschema_description:"Candidates dropped by search filters; non-zero means the list may be incomplete"`
	Cached      bool     `json:"cached" jsonschema_description:"Whether the answer came from the store"`
}

// RewritesArgs are the arguments of the rewrites tool.
type RewritesArgs struct {
	Term  string `json:"term"`
	Phase *int   `json:"phase,omitempty"`
}

// Rewrite is one single-step rewrite.
type Rewrite struct {
	Rule     string `json:"rule"`
	Position string `json:"position" jsonschema_description:"Child indices joined by '_', or 'ε' for the root"`
	Result   string `json:"result"`
}

// RewritesResponse is the structured answer of the rewrites tool.
type RewritesResponse struct {
	Phase    int       `json:"phase"`
	Rewrites []Rewrite `json:"rewrites"`
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	sig       *schema.Signature
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. Terms are parsed with sig.
func NewServer(engine Engine, sig *schema.Signature) *Server {
	s := &Server{
		engine:    engine,
		sig:       sig,
		mcpServer: server.NewMCPServer("espalier-mcp", strings.TrimSpace(espalier.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE, until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	normalizeTool := mcp.NewTool("normalize",
		mcp.WithDescription("Rewrite a term to its normal forms with the configured pipeline."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Term in prefix notation, e.g. AND(a, NEG(b))")),
		mcp.WithOutputSchema[NormalizeResponse](),
	)
	s.mcpServer.AddTool(normalizeTool, mcp.NewStructuredToolHandler(s.handleNormalize))

	rewritesTool := mcp.NewTool("rewrites",
		mcp.WithDescription("List the single-step rewrites of a term under the rules of one phase."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Term in prefix notation")),
		mcp.WithNumber("phase", mcp.Description("Phase index (default 0, the entry phase)")),
		mcp.WithOutputSchema[RewritesResponse](),
	)
	s.mcpServer.AddTool(rewritesTool, mcp.NewStructuredToolHandler(s.handleRewrites))

	s.mcpServer.AddTool(mcp.NewTool("list_phases",
		mcp.WithDescription("Describe the phases of the pipeline and their rules."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(describePhases(s.engine.Phases()))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleNormalize(ctx context.Context, request mcp.CallToolRequest, args NormalizeArgs) (NormalizeResponse, error) {
	term, err := s.sig.ParseTerm(args.Term)
	if err != nil {
		slog.Warn("MCP Normalize: Term rejected", "error", err, "size", len(args.Term))
		return NormalizeResponse{}, fmt.Errorf("invalid term: %w", err)
	}

	res, err := s.engine.Normalize(ctx, term)
	if err != nil {
		return NormalizeResponse{}, fmt.Errorf("normalize failed: %w", err)
	}

	resp := NormalizeResponse{
		Input:       res.Input.String(),
		NormalForms: make([]string, len(res.Normal)),
		Nodes:       res.Nodes,
		Filtered:    res.Filtered,
		Cached:      res.Cached,
	}
	for i, n := range res.Normal {
		resp.NormalForms[i] = n.String()
	}
	return resp, nil
}

func (s *Server) handleRewrites(ctx context.Context, request mcp.CallToolRequest, args RewritesArgs) (RewritesResponse, error) {
	term, err := s.sig.ParseTerm(args.Term)
	if err != nil {
		slog.Warn("MCP Rewrites: Term rejected", "error", err, "size", len(args.Term))
		return RewritesResponse{}, fmt.Errorf("invalid term: %w", err)
	}
	phase := 0
	if args.Phase != nil {
		phase = *args.Phase
	}

	rws, err := s.engine.Rewrites(term, phase)
	if err != nil {
		return RewritesResponse{}, err
	}

	resp := RewritesResponse{Phase: phase, Rewrites: make([]Rewrite, len(rws))}
	for i, rw := range rws {
		resp.Rewrites[i] = Rewrite{
			Rule:     rw.RuleName,
			Position: rw.Position.String(),
			Result:   rw.Result.String(),
		}
	}
	return resp, nil
}

type phaseInfo struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Rules       []string `json:"rules"`
	KeepOnlyOne bool     `json:"keep_only_one,omitempty"`
	OnChanged   *int     `json:"on_changed"`
	OnUnchanged *int     `json:"on_unchanged"`
}

func describePhases(phases []domain.Phase[string]) []phaseInfo {
	out := make([]phaseInfo, len(phases))
	for i, p := range phases {
		names := make([]string, len(p.Rules))
		for j, r := range p.Rules {
			names[j] = r.Name()
		}
		out[i] = phaseInfo{
			Index:       i,
			Name:        p.Name,
			Rules:       names,
			KeepOnlyOne: p.KeepOnlyOne,
			OnChanged:   p.OnChanged,
			OnUnchanged: p.OnUnchanged,
		}
	}
	return out
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SignatureURI, "Operator Signature",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.sig.Def())
		if err != nil {
			return nil, fmt.Errorf("failed to encode signature: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SignatureURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
