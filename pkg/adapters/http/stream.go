package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
)

// Message is one server-sent event.
type Message struct {
	Type domain.EventType
	Data string
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- Message]map[domain.EventType]bool
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- Message]map[domain.EventType]bool),
	}
}

// watchAliases are the short names accepted in place of event types.
var watchAliases = map[domain.EventType]domain.EventType{
	"phase": domain.EventPhaseEnter,
}

// Subscribe registers a new listener for the given event types, or for
// every type when none is given. "phase" stands for phase_enter. The
// returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(types ...domain.EventType) (<-chan Message, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, 16)
	watch := make(map[domain.EventType]bool, len(types))
	for _, t := range types {
		if alias, ok := watchAliases[t]; ok {
			t = alias
		}
		watch[t] = true
	}
	sm.subscribers[ch] = watch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Subscribers reports the number of active listeners.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast serializes event and hands it to every listener. Slow listeners
// lose the message.
func (sm *StreamManager) Broadcast(typ domain.EventType, event any) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if len(sm.subscribers) == 0 {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("StreamManager: encode failed", "error", err, "type", typ)
		return
	}
	msg := Message{Type: typ, Data: string(payload)}
	for ch, watch := range sm.subscribers {
		if len(watch) > 0 && !watch[typ] {
			continue
		}
		select {
		case ch <- msg:
		default:
			slog.Warn("SSE: Client buffer full, dropping message", "type", typ)
		}
	}
}

// Hooks publishes the engine lifecycle on the stream.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRewrite: func(_ context.Context, e *domain.RewriteEvent) {
			sm.Broadcast(domain.EventRewrite, e)
		},
		OnPhaseEnter: func(_ context.Context, e *domain.PhaseEvent) {
			sm.Broadcast(domain.EventPhaseEnter, e)
		},
		OnIrreducible: func(_ context.Context, e *domain.IrreducibleEvent) {
			sm.Broadcast(domain.EventIrreducible, e)
		},
		OnNormalized: func(_ context.Context, e *domain.NormalizedEvent) {
			sm.Broadcast(domain.EventNormalized, e)
		},
	}
}

// SubscribeEvents handles the GET /events request (SSE). The optional
// watch parameter is a comma separated list of event types to keep.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var watch []domain.EventType
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			watch = append(watch, domain.EventType(strings.TrimSpace(field)))
		}
	}

	ch, cancel := s.Streams.Subscribe(watch...)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			slog.Debug("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, msg.Data)
			flusher.Flush()
		}
	}
}
