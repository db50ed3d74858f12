package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/stretchr/testify/require"
)

// WriteTracks creates a temporary directory holding the given sources.
// Keys without an extension get the source extension; other keys are written as given.
// It returns the absolute path and fails the test immediately on error.
func WriteTracks(t *testing.T, sources map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, src := range sources {
		if filepath.Ext(name) == "" {
			name = domain.FileName(name)
		}
		require.NoError(t, os.WriteFile(filepath.Join(absPath, name), []byte(src), 0o644), "Failed to write track %s", name)
	}
	return absPath
}
