package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/packdrop/pkg/filesystem"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/stretchr/testify/require"
)

// NewMemFS returns an empty in-memory filesystem
func NewMemFS() types.FS {
	return filesystem.NewMemory()
}

// WriteFile creates path with content, creating parents, and stamps it
// with mtime when mtime is not zero.
func WriteFile(t *testing.T, fsys types.FS, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
	if !mtime.IsZero() {
		require.NoError(t, fsys.Chtimes(path, mtime, mtime))
	}
}

// ReadFile returns the content of path, failing the test when missing
func ReadFile(t *testing.T, fsys types.FS, path string) string {
	t.Helper()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// Exists reports whether path exists
func Exists(fsys types.FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

// ModTime returns the modification time of path
func ModTime(t *testing.T, fsys types.FS, path string) time.Time {
	t.Helper()
	info, err := fsys.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}
