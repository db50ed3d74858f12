package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/cartridge/pkg/domain"
)

// Fetcher implements ports.SourceFetcher using an in-memory map.
// Safe for concurrent use.
type Fetcher struct {
	sources map[string]string
	mu      sync.RWMutex
}

// NewFetcher creates a new in-memory fetcher with the provided sources.
// Keys may be given with or without the source extension.
func NewFetcher(data map[string]string) *Fetcher {
	sources := make(map[string]string, len(data))
	for k, v := range data {
		sources[domain.FileName(k)] = v
	}
	return &Fetcher{
		sources: sources,
	}
}

// Put stores or replaces a track source.
func (f *Fetcher) Put(name, source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources[domain.FileName(name)] = source
}

// Delete removes a track source.
func (f *Fetcher) Delete(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sources, domain.FileName(name))
}

// Fetch retrieves the raw source of a track by file name.
func (f *Fetcher) Fetch(ctx context.Context, file string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	content, ok := f.sources[file]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, file)
	}
	return content, nil
}

// List returns all stored source file names.
func (f *Fetcher) List(ctx context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	keys := make([]string, 0, len(f.sources))
	for k := range f.sources {
		if domain.IsSource(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
