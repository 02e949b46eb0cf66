package http

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
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine defines the part of the rewriting engine served over HTTP.
type Engine interface {
	Normalize(ctx context.Context, term *domain.Term[string]) (*espalier.Result[string], error)
	Rewrites(term *domain.Term[string], phase int) ([]domain.Rewrite[string], error)
	Phases() []domain.Phase[string]
}

// Defaults of Options.
const (
	DefaultMaxBodyBytes int64 = 1 << 20
	DefaultTimeout            = 30 * time.Second
)

// Server holds the handlers of the JSON API.
type Server struct {
	Engine    Engine
	Signature *schema.Signature
	Streams   *StreamManager
	// MaxBodyBytes caps request bodies; larger ones get 413.
	MaxBodyBytes int64
	// Timeout bounds each normalization; an expired one gets 503.
	Timeout time.Duration
}

// Options configures NewHandler.
type Options struct {
	// MaxBodyBytes and Timeout fall back to DefaultMaxBodyBytes and
	// DefaultTimeout when zero.
	MaxBodyBytes int64
	Timeout      time.Duration
	// Gatherer backs GET /metrics. The route is not mounted when nil.
	Gatherer prometheus.Gatherer
	// Streams receives the events published on GET /events. A fresh manager
	// is created when nil; wire its Hooks into the engine to feed it.
	Streams *StreamManager
}

// NewHandler creates a new HTTP handler for the engine. Terms are parsed
// with sig.
func NewHandler(engine Engine, sig *schema.Signature, opts Options) http.Handler {
	server := &Server{
		Engine:       engine,
		Signature:    sig,
		Streams:      opts.Streams,
		MaxBodyBytes: opts.MaxBodyBytes,
		Timeout:      opts.Timeout,
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager()
	}
	if server.MaxBodyBytes <= 0 {
		server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if server.Timeout <= 0 {
		server.Timeout = DefaultTimeout
	}

	r := chi.NewRouter()
	r.Post("/normalize", server.Normalize)
	r.Post("/rewrites", server.Rewrites)
	r.Get("/phases", server.GetPhases)
	r.Get("/signature", server.GetSignature)
	r.Get("/health", server.GetHealth)
	r.Get("/events", server.SubscribeEvents)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NormalizeRequest is the body of POST /normalize.
type NormalizeRequest struct {
	Term string `json:"term"`
}

// NormalizeResponse is the answer of POST /normalize.
type NormalizeResponse struct {
	RunID       string   `json:"run_id"`
	Input       string   `json:"input"`
	NormalForms []string `json:"normal_forms"`
	Nodes       int      `json:"nodes"`
	Filtered    int      `json:"filtered"`
	Cached      bool     `json:"cached"`
}

// RewritesRequest is the body of POST /rewrites.
type RewritesRequest struct {
	Term  string `json:"term"`
	Phase int    `json:"phase"`
}

// RewriteResponse is one entry of the POST /rewrites answer.
type RewriteResponse struct {
	Rule     string `json:"rule"`
	Position string `json:"position"`
	Result   string `json:"result"`
}

// PhaseResponse describes one phase on GET /phases.
type PhaseResponse struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Rules       []string `json:"rules"`
	KeepOnlyOne bool     `json:"keep_only_one,omitempty"`
	OnChanged   *int     `json:"on_changed"`
	OnUnchanged *int     `json:"on_unchanged"`
}

// Normalize handles the POST /normalize request.
func (s *Server) Normalize(w http.ResponseWriter, r *http.Request) {
	var body NormalizeRequest
	if !s.decode(w, r, "Normalize", &body) {
		return
	}
	term, ok := s.parse(w, "Normalize", body.Term)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.Timeout)
	defer cancel()
	res, err := s.Engine.Normalize(ctx, term)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, fmt.Sprintf("Normalize error: %v", err), status)
		slog.Error("Normalize failed", "error", err, "term", body.Term)
		return
	}

	resp := NormalizeResponse{
		RunID:       res.RunID,
		Input:       res.Input.String(),
		NormalForms: make([]string, len(res.Normal)),
		Nodes:       res.Nodes,
		Filtered:    res.Filtered,
		Cached:      res.Cached,
	}
	for i, n := range res.Normal {
		resp.NormalForms[i] = n.String()
	}
	writeJSON(w, "Normalize", resp)
}

// Rewrites handles the POST /rewrites request.
func (s *Server) Rewrites(w http.ResponseWriter, r *http.Request) {
	var body RewritesRequest
	if !s.decode(w, r, "Rewrites", &body) {
		return
	}
	term, ok := s.parse(w, "Rewrites", body.Term)
	if !ok {
		return
	}

	rws, err := s.Engine.Rewrites(term, body.Phase)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownPhase) {
			http.Error(w, fmt.Sprintf("Rewrites: %v", err), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Rewrites error: %v", err), http.StatusInternalServerError)
		slog.Error("Rewrites failed", "error", err)
		return
	}

	resp := make([]RewriteResponse, len(rws))
	for i, rw := range rws {
		resp[i] = RewriteResponse{
			Rule:     rw.RuleName,
			Position: rw.Position.String(),
			Result:   rw.Result.String(),
		}
	}
	writeJSON(w, "Rewrites", resp)
}

// GetPhases handles the GET /phases request.
func (s *Server) GetPhases(w http.ResponseWriter, r *http.Request) {
	phases := s.Engine.Phases()
	resp := make([]PhaseResponse, len(phases))
	for i, p := range phases {
		names := make([]string, len(p.Rules))
		for j, rule := range p.Rules {
			names[j] = rule.Name()
		}
		resp[i] = PhaseResponse{
			Index:       i,
			Name:        p.Name,
			Rules:       names,
			KeepOnlyOne: p.KeepOnlyOne,
			OnChanged:   p.OnChanged,
			OnUnchanged: p.OnUnchanged,
		}
	}
	writeJSON(w, "GetPhases", resp)
}

// GetSignature handles the GET /signature request.
func (s *Server) GetSignature(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, "GetSignature", s.Signature.Def())
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"status":  "ok",
		"app":     "espalier-http",
		"version": strings.TrimSpace(espalier.Version),
	}
	writeJSON(w, "GetHealth", resp)
}

func (s *Server) parse(w http.ResponseWriter, op, text string) (*domain.Term[string], bool) {
	if strings.TrimSpace(text) == "" {
		http.Error(w, "Missing term", http.StatusBadRequest)
		return nil, false
	}
	term, err := s.Signature.ParseTerm(text)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid term: %v", err), http.StatusBadRequest)
		slog.Warn(op+": Term rejected", "error", err, "size", len(text))
		return nil, false
	}
	return term, true
}

func writeJSON(w http.ResponseWriter, op string, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(op+" response encode failed", "error", err)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		slog.Warn(op+": Request body too large", "limit", tooLarge.Limit)
		return false
	}
	http.Error(w, "Invalid request body", http.StatusBadRequest)
	slog.Warn(op+": Invalid request body", "error", err)
	return false
}
