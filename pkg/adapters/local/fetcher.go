package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/cartridge/pkg/domain"
)

// Fetcher implements ports.SourceFetcher over a mounted storage root.
type Fetcher struct {
	root   string
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger used by Watch.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a fetcher reading from root.
func New(root string, opts ...Option) *Fetcher {
	f := &Fetcher{
		root:   root,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Root returns the storage root the fetcher reads from.
func (f *Fetcher) Root() string {
	return f.root
}

// Fetch reads the full text of a track source under the root.
func (f *Fetcher) Fetch(ctx context.Context, file string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := f.path(file)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, file)
		}
		return "", &domain.TransportError{File: file, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &domain.TransportError{File: file, Err: err}
	}
	return string(data), nil
}

// List enumerates source files in the root directory.
// A root that cannot be read yields an empty listing and an error matching
// domain.ErrStorageUnavailable.
func (f *Fetcher) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return []string{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !domain.IsSource(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// path joins file onto the root, rejecting names that would escape it.
func (f *Fetcher) path(file string) (string, error) {
	if file == "" || strings.ContainsAny(file, `/\`) || file == "." || file == ".." {
		return "", fmt.Errorf("%w: invalid file name %q", domain.ErrNotFound, file)
	}
	return filepath.Join(f.root, file), nil
}
