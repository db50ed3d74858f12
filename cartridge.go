package cartridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/cartridge/internal/audio"
	"github.com/aretw0/cartridge/pkg/adapters/local"
	"github.com/aretw0/cartridge/pkg/adapters/remote"
	"github.com/aretw0/cartridge/pkg/cleaner"
	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/aretw0/cartridge/pkg/host"
	"github.com/aretw0/cartridge/pkg/metadata"
	"github.com/aretw0/cartridge/pkg/ports"
	"github.com/aretw0/cartridge/pkg/sandbox"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many tracks LoadAll evaluates at once.
const DefaultConcurrency = 4

// Loader is the high-level entry point for loading tracks.
// It holds no per-track state: every load fetches, cleans and evaluates afresh.
type Loader struct {
	fetcher     ports.SourceFetcher
	executor    *sandbox.Executor
	deps        []sandbox.Dependency
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	evalTimeout time.Duration
	concurrency int
	candidates  []string
	baseURL     string
}

// Option defines a functional option for configuring the Loader.
type Option func(*Loader)

// WithFetcher injects a SourceFetcher, bypassing storage resolution.
func WithFetcher(f ports.SourceFetcher) Option {
	return func(l *Loader) {
		l.fetcher = f
	}
}

// WithLogger sets a custom structured logger for the loader.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithDependencies replaces the injected dependency set (default: host.Dependencies with silent audio).
func WithDependencies(deps ...sandbox.Dependency) Option {
	return func(l *Loader) {
		l.deps = deps
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(l *Loader) {
		l.hooks = hooks
	}
}

// WithEvalTimeout bounds the top-level evaluation of each track.
func WithEvalTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.evalTimeout = d
	}
}

// WithConcurrency sets the LoadAll fan-out limit.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		l.concurrency = n
	}
}

// WithCandidates overrides the storage roots probed when no fetcher is injected.
func WithCandidates(candidates ...string) Option {
	return func(l *Loader) {
		l.candidates = candidates
	}
}

// WithBaseURL sets the server used when no storage root is mounted.
func WithBaseURL(baseURL string) Option {
	return func(l *Loader) {
		l.baseURL = baseURL
	}
}

// New initializes a Loader.
// Without WithFetcher, the first existing candidate root is read directly; when
// none exists, sources are requested from the remote listing path on the base URL.
// With no base URL that path stays relative, so listings come back empty and
// loads fail with a transport error until a server is configured.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{
		evalTimeout: sandbox.DefaultEvalTimeout,
		concurrency: DefaultConcurrency,
		candidates:  local.DefaultCandidates,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	if l.concurrency < 1 {
		l.concurrency = 1
	}
	if l.deps == nil {
		l.deps = host.Dependencies(audio.Silent{})
	}

	if l.fetcher == nil {
		root, mounted := local.Resolve(l.candidates)
		if mounted {
			l.logger.Debug("Using mounted storage", "root", root)
			l.fetcher = local.New(root, local.WithLogger(l.logger))
		} else {
			l.logger.Debug("No storage mounted, using remote", "base_url", l.baseURL, "path", root)
			l.fetcher = remote.New(l.baseURL, remote.WithBasePath(root))
		}
	}

	exec, err := sandbox.New(
		sandbox.WithDependencies(l.deps...),
		sandbox.WithEvalTimeout(l.evalTimeout),
		sandbox.WithLogger(l.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	l.executor = exec

	return l, nil
}

// Fetcher returns the SourceFetcher the loader reads from.
func (l *Loader) Fetcher() ports.SourceFetcher {
	return l.fetcher
}

// LoadTrack fetches, cleans and evaluates one track. name may omit the extension.
// A track that does not exist yields (nil, nil); every other failure is a *domain.LoadError.
func (l *Loader) LoadTrack(ctx context.Context, name string) (*domain.Track, error) {
	file := domain.FileName(name)
	loadID := uuid.NewString()
	logger := l.logger.With("track", file, "load_id", loadID)

	start := time.Now()
	track, err := l.load(ctx, file, loadID, logger)
	l.emit(ctx, l.hooks.OnLoad, domain.EventLoad, loadID, file, start, err)

	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Track not found")
		return nil, nil
	}
	if err != nil {
		logger.Error("Track load failed", "err", err, "outcome", domain.Outcome(err))
		return nil, &domain.LoadError{Track: file, Err: err}
	}

	logger.Info("Track loaded", "colour", track.Colour, "duration", time.Since(start))
	return track, nil
}

func (l *Loader) load(ctx context.Context, file, loadID string, logger *slog.Logger) (*domain.Track, error) {
	start := time.Now()
	raw, err := l.fetcher.Fetch(ctx, file)
	l.emit(ctx, l.hooks.OnFetch, domain.EventFetch, loadID, file, start, err)
	if err != nil {
		return nil, err
	}
	logger.Debug("Source fetched", "bytes", len(raw))

	cleaned := cleaner.Clean(raw)

	start = time.Now()
	entry, err := l.executor.Execute(ctx, file, cleaned)
	l.emit(ctx, l.hooks.OnExecute, domain.EventExecute, loadID, file, start, err)
	if err != nil {
		return nil, err
	}

	colour, ok := metadata.Colour(raw)
	return &domain.Track{
		Name:      domain.TrackName(file),
		Colour:    colour,
		HasColour: ok,
		Entry:     entry,
	}, nil
}

func (l *Loader) emit(ctx context.Context, hook func(context.Context, *domain.LoadEvent), typ domain.EventType, loadID, file string, start time.Time, err error) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.LoadEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
			LoadID:    loadID,
		},
		Track:    file,
		Duration: time.Since(start),
		Err:      err,
	})
}

// ListTracks returns the source files currently available. It never fails:
// storage or transport problems are logged and yield an empty list.
func (l *Loader) ListTracks(ctx context.Context) []string {
	files, err := l.fetcher.List(ctx)
	if err != nil {
		l.logger.Warn("Listing tracks failed", "err", err, "outcome", domain.Outcome(err))
		return []string{}
	}
	return files
}

// Inspect returns the raw and cleaned source of a track without evaluating it.
func (l *Loader) Inspect(ctx context.Context, name string) (*domain.SourceReport, error) {
	file := domain.FileName(name)
	raw, err := l.fetcher.Fetch(ctx, file)
	if err != nil {
		return nil, err
	}
	colour, _ := metadata.Colour(raw)
	return &domain.SourceReport{
		Name:    file,
		Raw:     raw,
		Cleaned: cleaner.Clean(raw),
		Colour:  colour,
	}, nil
}

// LoadAll loads every listed track concurrently. Failures do not stop the batch;
// they are returned alongside the tracks that loaded, in listing order.
func (l *Loader) LoadAll(ctx context.Context) ([]*domain.Track, []error) {
	files := l.ListTracks(ctx)
	tracks := make([]*domain.Track, len(files))

	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, file := range files {
		g.Go(func() error {
			track, err := l.LoadTrack(ctx, file)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			tracks[i] = track
			return nil
		})
	}
	_ = g.Wait()

	loaded := make([]*domain.Track, 0, len(tracks))
	for _, t := range tracks {
		if t != nil {
			loaded = append(loaded, t)
		}
	}
	return loaded, errs
}

// Watch returns a channel that signals when the underlying storage changes.
// Returns error if the fetcher does not support watching.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := l.fetcher.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current fetcher does not support watching")
}
