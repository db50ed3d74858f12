package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/cartridge"
	"github.com/aretw0/cartridge/internal/config"
	"github.com/aretw0/cartridge/pkg/adapters/local"
	"github.com/aretw0/cartridge/pkg/adapters/redis"
	"github.com/aretw0/cartridge/pkg/adapters/remote"
	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/aretw0/cartridge/pkg/ports"
)

// source is the fetcher picked for a run plus a label for output.
type source struct {
	fetcher ports.SourceFetcher
	label   string
	close   func() error
}

// resolveSource picks the storage for a run: Redis when configured, else the
// first mounted candidate root, else the remote server.
func resolveSource(cfg config.Config, logger *slog.Logger) (*source, error) {
	if cfg.Redis.Addr != "" {
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		f := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return &source{fetcher: f, label: "redis://" + cfg.Redis.Addr, close: f.Close}, nil
	}

	if root, ok := local.Locate(cfg.Candidates); ok {
		logger.Debug("Using mounted storage", "root", root)
		return &source{fetcher: local.New(root, local.WithLogger(logger)), label: root}, nil
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: no candidate root exists and no remote is configured", domain.ErrStorageUnavailable)
	}
	logger.Debug("No storage mounted, using remote", "base_url", cfg.BaseURL, "path", cfg.BasePath)
	f := remote.New(cfg.BaseURL, remote.WithBasePath(cfg.BasePath), remote.WithTimeout(cfg.FetchTimeout))
	return &source{fetcher: f, label: cfg.BaseURL + cfg.BasePath}, nil
}

// createLoader initializes a Loader with standard CLI conventions.
func createLoader(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*cartridge.Loader, *source, error) {
	src, err := resolveSource(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Debug {
		hooks = chainHooks(hooks, createDebugHooks(logger))
	}

	loader, err := cartridge.New(
		cartridge.WithFetcher(src.fetcher),
		cartridge.WithLogger(logger),
		cartridge.WithHooks(hooks),
		cartridge.WithEvalTimeout(cfg.EvalTimeout),
		cartridge.WithConcurrency(cfg.Concurrency),
	)
	if err != nil {
		src.Close()
		return nil, nil, fmt.Errorf("error initializing loader: %w", err)
	}
	return loader, src, nil
}

// Close releases the source's connection, if any.
func (s *source) Close() {
	if s.close != nil {
		_ = s.close()
	}
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	stage := func(msg string) func(context.Context, *domain.LoadEvent) {
		return func(ctx context.Context, e *domain.LoadEvent) {
			logger.Debug(msg, "track", e.Track, "load_id", e.LoadID, "outcome", e.Outcome(), "duration", e.Duration)
		}
	}
	return domain.LifecycleHooks{
		OnFetch:   stage("Fetch"),
		OnExecute: stage("Execute"),
		OnLoad:    stage("Load"),
	}
}

// chainHooks runs a's callbacks before b's.
func chainHooks(a, b domain.LifecycleHooks) domain.LifecycleHooks {
	join := func(x, y func(context.Context, *domain.LoadEvent)) func(context.Context, *domain.LoadEvent) {
		switch {
		case x == nil:
			return y
		case y == nil:
			return x
		}
		return func(ctx context.Context, e *domain.LoadEvent) {
			x(ctx, e)
			y(ctx, e)
		}
	}
	return domain.LifecycleHooks{
		OnFetch:   join(a.OnFetch, b.OnFetch),
		OnExecute: join(a.OnExecute, b.OnExecute),
		OnLoad:    join(a.OnLoad, b.OnLoad),
	}
}
