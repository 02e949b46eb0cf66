package espalier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/rewrite"
	"github.com/aretw0/espalier/pkg/search"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Engine is the high-level entry point of the library. It owns a phase
// graph and normalizes terms with it, caching results in an optional store.
// Safe for concurrent use.
type Engine[O comparable] struct {
	phases      []domain.Phase[O]
	store       ports.NormalFormStore[O]
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	strategy    search.Strategy
	filters     search.Filters[O]
	priorities  *search.Priorities
	fixed       bool
	concurrency int
	group       singleflight.Group
	mu          sync.Mutex
	flights     map[string]*flight
	fingerprint string
	Name        string
}

// Result is a normalization and whether it came from the store.
type Result[O comparable] struct {
	*domain.Normalization[O]
	Cached bool
}

// Option defines a functional option for configuring the Engine.
type Option[O comparable] func(*Engine[O])

// WithLogger sets a custom structured logger for the engine.
func WithLogger[O comparable](logger *slog.Logger) Option[O] {
	return func(e *Engine[O]) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks[O comparable](hooks domain.LifecycleHooks) Option[O] {
	return func(e *Engine[O]) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithStore caches normalizations in store.
func WithStore[O comparable](store ports.NormalFormStore[O]) Option[O] {
	return func(e *Engine[O]) {
		e.store = store
	}
}

// WithLocker serializes normalizations of the same term across processes
// sharing the store. ttl bounds how long a crashed holder keeps the lock.
func WithLocker[O comparable](locker ports.DistributedLocker, ttl time.Duration) Option[O] {
	return func(e *Engine[O]) {
		e.locker = locker
		e.lockTTL = ttl
	}
}

// WithStrategy selects the search strategy (default: depth first).
func WithStrategy[O comparable](s search.Strategy) Option[O] {
	return func(e *Engine[O]) {
		e.strategy = s
	}
}

// WithFilters bounds the search.
func WithFilters[O comparable](f search.Filters[O]) Option[O] {
	return func(e *Engine[O]) {
		e.filters = f
	}
}

// WithPriorities orders the exploration of best-first searches.
func WithPriorities[O comparable](p search.Priorities) Option[O] {
	return func(e *Engine[O]) {
		e.priorities = &p
	}
}

// WithName labels logs, events and store keys.
func WithName[O comparable](name string) Option[O] {
	return func(e *Engine[O]) {
		e.Name = name
	}
}

// WithFixedPhases runs the phases linearly: an irreducible term in phase i
// moves to phase i+1, whatever the changed/unchanged successors say.
func WithFixedPhases[O comparable]() Option[O] {
	return func(e *Engine[O]) {
		e.fixed = true
	}
}

// WithConcurrency bounds the parallel normalizations of NormalizeAll.
// Values below 1 mean no limit.
func WithConcurrency[O comparable](n int) Option[O] {
	return func(e *Engine[O]) {
		e.concurrency = n
	}
}

// New validates the phase graph and builds an engine. The first phase is the
// entry phase.
func New[O comparable](phases []domain.Phase[O], opts ...Option[O]) (*Engine[O], error) {
	// Validate once up front; every run builds its own process.
	if _, err := runtime.New(phases); err != nil {
		return nil, err
	}

	eng := &Engine[O]{phases: phases, lockTTL: 30 * time.Second, fingerprint: phaseFingerprint(phases)}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("pipeline", eng.Name)
	}
	return eng, nil
}

// Phases returns the phase graph.
func (e *Engine[O]) Phases() []domain.Phase[O] {
	return e.phases
}

// Key is the store key of term: the engine name, a fingerprint of the phase
// graph and a hash of the term rendering.
func (e *Engine[O]) Key(term *domain.Term[O]) string {
	name := e.Name
	if name == "" {
		name = "default"
	}
	if e.fixed {
		name += "-fixed"
	}
	return name + "-" + e.fingerprint + "-" + strconv.FormatUint(xxhash.Sum64String(term.String()), 16)
}

// phaseFingerprint hashes the phase names, their rule names, keep-only-one
// flags and successors, so that two pipelines sharing a store and a name
// do not read each other's results.
func phaseFingerprint[O comparable](phases []domain.Phase[O]) string {
	successor := func(p *int) string {
		if p == nil {
			return "-"
		}
		return strconv.Itoa(*p)
	}
	d := xxhash.New()
	for _, p := range phases {
		fmt.Fprintf(d, "%s|%t|%s|%s", p.Name, p.KeepOnlyOne, successor(p.OnChanged), successor(p.OnUnchanged))
		for _, r := range p.Rules {
			fmt.Fprintf(d, "|%s", r.Name())
		}
		_, _ = d.WriteString("\n")
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// Rewrites lists the single-step rewrites of term under the rules of the
// given abstract phase, honoring its keep-only-one flag.
func (e *Engine[O]) Rewrites(term *domain.Term[O], phase int) ([]domain.Rewrite[O], error) {
	if phase < 0 || phase >= len(e.phases) {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownPhase, phase)
	}
	p := e.phases[phase]
	return rewrite.FindRewrites(phase, p.Rules, term, p.KeepOnlyOne), nil
}

// Normalize rewrites term to its normal forms. Stored results are returned
// as is; concurrent calls for the same term share one computation.
//
// The shared computation runs until its last waiting caller gives up. A
// caller whose ctx ends returns ctx.Err() without failing the others.
func (e *Engine[O]) Normalize(ctx context.Context, term *domain.Term[O]) (*Result[O], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := e.Key(term)
	if res, ok := e.lookup(ctx, key); ok {
		e.normalized(ctx, res, 0)
		return res, nil
	}

	f := e.join(ctx, key)
	ch := e.group.DoChan(key, func() (any, error) {
		return e.compute(f.ctx, key, term)
	})
	var r singleflight.Result
	select {
	case <-ctx.Done():
		e.leave(key, f)
		return nil, ctx.Err()
	case r = <-ch:
		e.leave(key, f)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	res, ok := r.Val.(*Result[O])
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight group: got %T", r.Val)
	}
	if r.Shared {
		e.logger.Debug("normalization shared", "key", key)
	}
	return res, nil
}

// flight is the context of one shared computation and its waiting callers.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func (e *Engine[O]) join(ctx context.Context, key string) *flight {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.flights == nil {
		e.flights = make(map[string]*flight)
	}
	f, ok := e.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		e.flights[key] = f
	}
	f.waiters++
	return f
}

// leave drops a waiter. The last one cancels the computation and makes the
// next caller start a fresh one.
func (e *Engine[O]) leave(key string, f *flight) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if e.flights[key] == f {
		delete(e.flights, key)
		e.group.Forget(key)
	}
}

func (e *Engine[O]) lookup(ctx context.Context, key string) (*Result[O], bool) {
	if e.store == nil {
		return nil, false
	}
	n, err := e.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			e.logger.Warn("store load failed", "key", key, "err", err)
		}
		return nil, false
	}
	return &Result[O]{Normalization: n, Cached: true}, true
}

func (e *Engine[O]) compute(ctx context.Context, key string, term *domain.Term[O]) (*Result[O], error) {
	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, key, e.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock %s: %w", key, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				e.logger.Warn("unlock failed", "key", key, "err", err)
			}
		}()
		// Another process may have finished while we waited.
		if res, ok := e.lookup(ctx, key); ok {
			e.normalized(ctx, res, 0)
			return res, nil
		}
	}

	start := time.Now()
	runID := uuid.NewString()
	verdict, err := e.run(ctx, runID, term)
	if err != nil {
		return nil, err
	}

	res := &Result[O]{Normalization: &domain.Normalization[O]{
		RunID:     runID,
		Pipeline:  e.Name,
		Input:     term,
		Normal:    verdict.Normal,
		Nodes:     verdict.Nodes,
		Filtered:  verdict.FilteredTotal(),
		CreatedAt: start.UTC(),
	}}
	// A cut search is not cached: another run with other filters may finish it.
	if e.store != nil && res.Filtered == 0 {
		if err := e.store.Save(ctx, key, res.Normalization); err != nil {
			e.logger.Warn("store save failed", "key", key, "err", err)
		}
	}
	e.normalized(ctx, res, time.Since(start))
	return res, nil
}

func (e *Engine[O]) normalized(ctx context.Context, res *Result[O], d time.Duration) {
	e.logger.Info("normalized",
		"run_id", res.RunID,
		"normal_forms", len(res.Normal),
		"nodes", res.Nodes,
		"filtered", res.Filtered,
		"cached", res.Cached,
	)
	if e.hooks.OnNormalized != nil {
		e.hooks.OnNormalized(ctx, &domain.NormalizedEvent{
			EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventNormalized, RunID: res.RunID},
			Pipeline:    e.Name,
			NormalForms: len(res.Normal),
			Nodes:       res.Nodes,
			Filtered:    res.Filtered,
			Cached:      res.Cached,
			Duration:    d,
		})
	}
}

// NormalizeAll normalizes terms in parallel. Results keep the input order.
// The first error cancels the remaining work.
func (e *Engine[O]) NormalizeAll(ctx context.Context, terms []*domain.Term[O]) ([]*Result[O], error) {
	results := make([]*Result[O], len(terms))
	g, gctx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}
	for i, t := range terms {
		g.Go(func() error {
			res, err := e.Normalize(gctx, t)
			if err != nil {
				return fmt.Errorf("term %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Trace normalizes term without the store and keeps the explored graph and
// the process bookkeeping, for drawings.
func (e *Engine[O]) Trace(ctx context.Context, term *domain.Term[O]) (*search.Verdict[O], *runtime.Process[O], error) {
	runID := uuid.NewString()
	proc, err := e.process(runID)
	if err != nil {
		return nil, nil, err
	}
	v, err := search.Run(ctx, e.searchConfig(true), proc, term)
	if err != nil {
		return nil, nil, err
	}
	return v, proc, nil
}

func (e *Engine[O]) run(ctx context.Context, runID string, term *domain.Term[O]) (*search.Verdict[O], error) {
	proc, err := e.process(runID)
	if err != nil {
		return nil, err
	}
	return search.Run(ctx, e.searchConfig(false), proc, term)
}

func (e *Engine[O]) process(runID string) (*runtime.Process[O], error) {
	opts := []runtime.Option{
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithRunID(runID),
	}
	if e.fixed {
		opts = append(opts, runtime.WithFixedPhases())
	}
	return runtime.New(e.phases, opts...)
}

func (e *Engine[O]) searchConfig(trace bool) search.Config[O] {
	return search.Config[O]{
		Strategy:   e.strategy,
		Priorities: e.priorities,
		Filters:    e.filters,
		Trace:      trace,
		Logger:     e.logger,
	}
}
