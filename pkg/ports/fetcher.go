package ports

import "context"

// SourceFetcher defines how the loader retrieves raw track sources.
// This allows the storage layer (local mount, HTTP endpoint, Redis, Memory) to be decoupled.
type SourceFetcher interface {
	// Fetch retrieves the raw text of a track source by file name.
	// It returns domain.ErrNotFound when the file is absent and an error matching
	// domain.ErrTransport for any other retrieval failure.
	Fetch(ctx context.Context, file string) (string, error)

	// List returns the source file names available in storage.
	// On failure implementations still return an empty, non-nil slice; the error
	// only lets callers tell a broken storage apart from an empty one.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for fetchers that can notify about storage changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying storage changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
