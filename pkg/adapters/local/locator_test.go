package local_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/cartridge/pkg/adapters/local"
	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	tmp := t.TempDir()
	first := filepath.Join(tmp, "first")
	second := filepath.Join(tmp, "second")
	require.NoError(t, os.Mkdir(first, 0755))
	require.NoError(t, os.Mkdir(second, 0755))

	t.Run("First existing wins", func(t *testing.T) {
		root, ok := local.Locate([]string{filepath.Join(tmp, "missing"), second, first})
		assert.True(t, ok)
		assert.Equal(t, second, root)
	})

	t.Run("Files are not storage roots", func(t *testing.T) {
		file := filepath.Join(tmp, "plain.ts")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		root, ok := local.Locate([]string{file, first})
		assert.True(t, ok)
		assert.Equal(t, first, root)
	})

	t.Run("None exist", func(t *testing.T) {
		root, ok := local.Locate([]string{filepath.Join(tmp, "a"), filepath.Join(tmp, "b")})
		assert.False(t, ok)
		assert.Empty(t, root)
	})

	t.Run("Empty candidate list", func(t *testing.T) {
		_, ok := local.Locate(nil)
		assert.False(t, ok)
	})
}

func TestLocateWith_NoFilesystem(t *testing.T) {
	_, ok := local.LocateWith(nil, []string{"/"})
	assert.False(t, ok)

	denied := func(string) (fs.FileInfo, error) { return nil, fs.ErrPermission }
	_, ok = local.LocateWith(denied, []string{"/", "/tmp"})
	assert.False(t, ok)
}

func TestResolve_FallsBackToRemotePath(t *testing.T) {
	root, mounted := local.Resolve([]string{filepath.Join(t.TempDir(), "nope")})
	assert.False(t, mounted)
	assert.Equal(t, domain.DefaultRemotePath, root)

	dir := t.TempDir()
	root, mounted = local.Resolve([]string{dir})
	assert.True(t, mounted)
	assert.Equal(t, dir, root)
}
