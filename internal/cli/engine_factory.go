package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/persistence/middleware"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/schema"
	backend "github.com/redis/go-redis/v9"
)

// Store backends accepted by Options.Store.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Options gathers the flags shared by every command.
type Options struct {
	// SignaturePath and PipelinePath fall back to the embedded boolean
	// defaults when empty.
	SignaturePath string
	PipelinePath  string

	LogLevel  string
	LogFormat string

	Store    string
	CacheDir string
	RedisURL string
	// CacheMaxAge expires cached normalizations; zero keeps them forever.
	CacheMaxAge time.Duration
}

// Env is a ready engine and what was used to build it.
type Env struct {
	Engine    *espalier.Engine[string]
	Signature *schema.Signature
	Pipeline  *schema.PipelineDef
	Logger    *slog.Logger
	close     []func() error
}

// Close releases the store connections.
func (e *Env) Close() error {
	var first error
	for _, c := range e.close {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Logger builds the application logger from the log flags.
func (o Options) Logger() *slog.Logger {
	return logging.New(logging.ParseLevel(o.LogLevel), o.LogFormat)
}

// Load reads the signature and the pipeline.
func (o Options) Load() (*schema.Signature, *schema.PipelineDef, error) {
	sig := schema.DefaultSignature()
	if o.SignaturePath != "" {
		var err error
		if sig, err = schema.LoadSignature(o.SignaturePath); err != nil {
			return nil, nil, err
		}
	}
	pipe := schema.DefaultPipeline()
	if o.PipelinePath != "" {
		var err error
		if pipe, err = schema.LoadPipeline(o.PipelinePath); err != nil {
			return nil, nil, err
		}
	}
	return sig, pipe, nil
}

// NewEnv loads the configuration and initializes an engine with standard
// CLI conventions. hooks are merged into the engine lifecycle.
func NewEnv(ctx context.Context, o Options, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*Env, error) {
	sig, pipe, err := o.Load()
	if err != nil {
		return nil, err
	}

	env := &Env{Signature: sig, Pipeline: pipe, Logger: logger}
	engineOpts := []espalier.Option[string]{
		espalier.WithLogger[string](logger),
		espalier.WithLifecycleHooks[string](createDebugHooks(logger)),
	}
	for _, h := range hooks {
		engineOpts = append(engineOpts, espalier.WithLifecycleHooks[string](h))
	}

	storeOpts, err := env.storeOptions(ctx, o)
	if err != nil {
		return nil, err
	}
	engineOpts = append(engineOpts, storeOpts...)

	eng, err := espalier.FromPipeline(sig, pipe, engineOpts...)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	env.Engine = eng
	return env, nil
}

func (e *Env) storeOptions(ctx context.Context, o Options) ([]espalier.Option[string], error) {
	var store ports.NormalFormStore[string]
	var extra []espalier.Option[string]
	mws := []middleware.Middleware[string]{middleware.NewLoggingMiddleware[string](e.Logger)}

	switch o.Store {
	case "", StoreNone:
		return nil, nil
	case StoreMemory:
		store = memory.NewStore[string]()
	case StoreFile:
		store = file.New[string](o.CacheDir)
	case StoreRedis:
		redisOpts, err := backend.ParseURL(o.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(redisOpts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis unreachable: %w", err)
		}
		e.close = append(e.close, client.Close)
		store = redis.NewFromClient[string](client, redis.WithTTL(o.CacheMaxAge))
		extra = append(extra, espalier.WithLocker[string](redis.NewLocker(client, redis.DefaultPrefix), 30*time.Second))
	default:
		return nil, fmt.Errorf("unknown store %q (want none, memory, file or redis)", o.Store)
	}

	// Redis expires keys natively.
	if o.CacheMaxAge > 0 && o.Store != StoreRedis {
		mws = append(mws, middleware.NewMaxAgeMiddleware[string](o.CacheMaxAge, nil))
	}
	store = middleware.Chain(store, mws...)
	return append([]espalier.Option[string]{espalier.WithStore(store)}, extra...), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRewrite: func(ctx context.Context, e *domain.RewriteEvent) {
			logger.Debug("Rewrite", "run_id", e.RunID, "phase", e.Phase, "rule", e.Rule, "position", e.Position)
		},
		OnPhaseEnter: func(ctx context.Context, e *domain.PhaseEvent) {
			logger.Debug("Enter Phase", "run_id", e.RunID, "phase", e.PhaseName, "concrete", e.ToConcrete, "outcome", e.Outcome)
		},
		OnIrreducible: func(ctx context.Context, e *domain.IrreducibleEvent) {
			logger.Debug("Irreducible", "run_id", e.RunID, "phase", e.AbstractPhase, "term", e.Term, "terminal", e.Terminal)
		},
	}
}
