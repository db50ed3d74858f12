package local_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/cartridge/pkg/adapters/local"
	"github.com/aretw0/cartridge/pkg/domain"
	contract "github.com/aretw0/cartridge/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTracks(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func TestLocalFetcher_Contract(t *testing.T) {
	dir := t.TempDir()
	data := map[string]string{
		"rain.ts":  "export function playTrack() { return 1; }",
		"waves.ts": "export const colour = 'teal';",
	}
	writeTracks(t, dir, data)

	// Noise that must not appear in listings
	writeTracks(t, dir, map[string]string{"README.md": "# tracks", "notes.txt": "-"})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.ts"), 0755))

	contract.SourceFetcherContractTest(t, local.New(dir), data)
}

func TestLocalFetcher_ListMissingRoot(t *testing.T) {
	f := local.New(filepath.Join(t.TempDir(), "unmounted"))

	files, err := f.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestLocalFetcher_RejectsPathEscape(t *testing.T) {
	dir := t.TempDir()
	writeTracks(t, dir, map[string]string{"ok.ts": "x"})
	f := local.New(filepath.Join(dir, "sub"))

	for _, name := range []string{"../ok.ts", "", "..", "a/b.ts"} {
		_, err := f.Fetch(context.Background(), name)
		assert.ErrorIs(t, err, domain.ErrNotFound, name)
	}
}

func TestLocalFetcher_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeTracks(t, dir, map[string]string{"a.ts": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := local.New(dir).Fetch(ctx, "a.ts")
	assert.ErrorIs(t, err, context.Canceled)
}
