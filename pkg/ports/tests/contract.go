package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/aretw0/cartridge/pkg/ports"
)

// SourceFetcherContractTest is a reusable test suite that verifies if an adapter complies with ports.SourceFetcher.
// setupData maps file names (with extension) to the source each fetch must return.
func SourceFetcherContractTest(t *testing.T, fetcher ports.SourceFetcher, setupData map[string]string) {
	t.Helper()
	ctx := context.Background()

	// 1. Test Fetch (Success)
	t.Run("Fetch_Success", func(t *testing.T) {
		for file, expected := range setupData {
			content, err := fetcher.Fetch(ctx, file)
			if err != nil {
				t.Fatalf("unexpected error fetching %s: %v", file, err)
			}
			if content != expected {
				t.Errorf("content mismatch for %s. got %q, want %q", file, content, expected)
			}
		}
	})

	// 2. Test Fetch (NotFound)
	t.Run("Fetch_NotFound", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, "non-existent-track.ts")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing track, got %v", err)
		}
	})

	// 3. Test List
	t.Run("List", func(t *testing.T) {
		files, err := fetcher.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing tracks: %v", err)
		}

		if len(files) != len(setupData) {
			t.Errorf("expected %d files, got %d (%v)", len(setupData), len(files), files)
		}

		lookup := make(map[string]bool)
		for _, f := range files {
			lookup[f] = true
			if !domain.IsSource(f) {
				t.Errorf("listing contains non-source file %s", f)
			}
		}

		for file := range setupData {
			if !lookup[file] {
				t.Errorf("file %s missing from list", file)
			}
		}
	})
}
