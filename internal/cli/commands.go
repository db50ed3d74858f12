package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/cartridge"
	"github.com/aretw0/cartridge/internal/metrics"
	"github.com/aretw0/cartridge/internal/presentation/tui"
	"github.com/aretw0/cartridge/internal/validator"
	httpAdapter "github.com/aretw0/cartridge/pkg/adapters/http"
	"github.com/aretw0/cartridge/pkg/adapters/mcp"
	"github.com/aretw0/cartridge/pkg/adapters/redis"
	"github.com/aretw0/cartridge/pkg/domain"
)

// RunList prints the available tracks. plain prints one file name per line.
func RunList(ctx context.Context, w io.Writer, opts Options, plain bool) error {
	cfg, err := Resolve(opts)
	if err != nil {
		return err
	}
	logger := createLogger(cfg.Debug)

	loader, src, err := createLoader(cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer src.Close()

	files := loader.ListTracks(ctx)
	if plain {
		for _, f := range files {
			fmt.Fprintln(w, f)
		}
		return nil
	}

	rows := make([]tui.Row, 0, len(files))
	for _, f := range files {
		row := tui.Row{File: f}
		if report, err := loader.Inspect(ctx, f); err == nil {
			row.Colour = report.Colour
		} else {
			logger.Warn("Inspect failed", "track", f, "err", err)
		}
		rows = append(rows, row)
	}

	out, err := tui.NewRenderer()(tui.ListingMarkdown(src.label, rows))
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	return nil
}

// RunLoad loads one track, plays it and prints the handle. hold keeps the
// track's scheduled callbacks running for that long before stopping it.
func RunLoad(ctx context.Context, w io.Writer, opts Options, name string, hold time.Duration) error {
	cfg, err := Resolve(opts)
	if err != nil {
		return err
	}
	logger := createLogger(cfg.Debug)

	loader, src, err := createLoader(cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer src.Close()

	track, err := loader.LoadTrack(ctx, name)
	if err != nil {
		return err
	}
	if track == nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, domain.FileName(name))
	}
	defer track.Entry.Stop()

	colour := "-"
	if track.HasColour {
		colour = tui.Swatch(track.Colour)
	}
	printSystemMessage(w, "Loaded '%s' (colour %s).", track.Name, colour)

	handle, err := track.Entry.Play(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(handle, "", "  ")
	if err != nil {
		return fmt.Errorf("handle is not serializable: %w", err)
	}
	fmt.Fprintln(w, string(data))

	if hold > 0 {
		printSystemMessage(w, "Holding for %s.", hold)
		select {
		case <-ctx.Done():
		case <-time.After(hold):
		}
	}
	return nil
}

// RunInspect prints a track's raw and cleaned source.
func RunInspect(ctx context.Context, w io.Writer, opts Options, name string, plain bool) error {
	cfg, err := Resolve(opts)
	if err != nil {
		return err
	}
	loader, src, err := createLoader(cfg, createLogger(cfg.Debug), domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer src.Close()

	report, err := loader.Inspect(ctx, name)
	if err != nil {
		return err
	}

	if plain {
		fmt.Fprintf(w, "--- %s (raw) ---\n%s\n--- %s (cleaned) ---\n%s\n", report.Name, report.Raw, report.Name, report.Cleaned)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", report.Name)
	if report.Colour != "" {
		fmt.Fprintf(&b, "Colour: `%s`\n\n", report.Colour)
	}
	fmt.Fprintf(&b, "## Raw\n\n```ts\n%s\n```\n\n## Cleaned\n\n```js\n%s\n```\n", report.Raw, report.Cleaned)
	out, err := tui.NewRenderer()(b.String())
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	return nil
}

// RunServe serves listings, cleaned sources and metrics until ctx ends.
func RunServe(ctx context.Context, w io.Writer, opts Options, listen string) error {
	cfg, err := Resolve(opts)
	if err != nil {
		return err
	}
	if listen == "" {
		listen = cfg.Listen
	}
	logger := createLogger(cfg.Debug)

	collector := metrics.New()
	loader, src, err := createLoader(cfg, logger, collector.Hooks(domain.LifecycleHooks{}))
	if err != nil {
		return err
	}
	defer src.Close()

	srv := &http.Server{
		Addr:    listen,
		Handler: httpAdapter.NewHandler(loader, httpAdapter.WithMetrics(collector.Handler()), httpAdapter.WithLogger(logger)),
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(w, "Serving tracks from %s on %s", src.label, listen)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		printSystemMessage(w, "Server stopped gracefully")
		return nil
	}
}

// RunMCP serves the MCP tools over stdio, or SSE on port.
func RunMCP(ctx context.Context, opts Options, transport string, port int) error {
	cfg, err := Resolve(opts)
	if err != nil {
		return err
	}
	// stdout carries JSON-RPC, so logs always go to stderr.
	loader, src, err := createLoader(cfg, createLogger(cfg.Debug), domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer src.Close()

	srv := mcp.NewServer(loader)
	switch transport {
	case "stdio":
		return srv.ServeStdio()
	case "sse":
		err := srv.ServeSSE(ctx, port)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	}
}

// RunWatch reloads every track whenever the storage root changes, until ctx ends.
func RunWatch(ctx context.Context, w io.Writer, opts Options) error {
	cfg, err := Resolve(opts)
	if err != nil {
		return err
	}
	logger := createLogger(cfg.Debug)

	loader, src, err := createLoader(cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer src.Close()

	changes, err := loader.Watch(ctx)
	if err != nil {
		return err
	}
	printSystemMessage(w, "Watching %s", src.label)

	var current []*domain.Track
	stopAll := func() {
		for _, t := range current {
			t.Entry.Stop()
		}
		current = nil
	}
	defer stopAll()

	reload := func() {
		stopAll()
		tracks, errs := loader.LoadAll(ctx)
		current = tracks
		printSystemMessage(w, "Loaded %d track(s), %d failed.", len(tracks), len(errs))
		for _, err := range errs {
			fmt.Fprintf(w, "    %v\n", err)
		}
	}

	reload()
	for range changes {
		logger.Info("Change detected, reloading")
		reload()
	}
	return nil
}

// RunPublish copies local track files into the configured Redis storage.
func RunPublish(ctx context.Context, w io.Writer, opts Options, files []string, ttl time.Duration) error {
	cfg, err := Resolve(opts)
	if err != nil {
		return err
	}
	if cfg.Redis.Addr == "" {
		return errors.New("publish requires a redis address (--redis or redis.addr)")
	}

	redisOpts := []redis.Option{redis.WithTTL(ttl)}
	if cfg.Redis.Prefix != "" {
		redisOpts = append(redisOpts, redis.WithPrefix(cfg.Redis.Prefix))
	}
	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisOpts...)
	defer store.Close()

	for _, path := range files {
		name := filepath.Base(path)
		if !domain.IsSource(name) {
			return fmt.Errorf("%s: not a %s file", path, domain.SourceExt)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read track: %w", err)
		}
		if err := store.Publish(ctx, name, string(data)); err != nil {
			return err
		}
		printSystemMessage(w, "Published '%s'.", name)
	}
	return nil
}

// Version returns the build version.
func Version() string {
	return strings.TrimSpace(cartridge.Version)
}

// RunValidate loads every track once and reports failures.
func RunValidate(ctx context.Context, w io.Writer, opts Options) error {
	cfg, err := Resolve(opts)
	if err != nil {
		return err
	}
	loader, src, err := createLoader(cfg, createLogger(cfg.Debug), domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer src.Close()

	if err := validator.ValidateTracks(ctx, loader); err != nil {
		return err
	}
	printSystemMessage(w, "All tracks in %s are valid.", src.label)
	return nil
}
