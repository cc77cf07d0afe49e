package types

import (
	"io"
	"io/fs"
	"os"
	"time"
)

// File is the writable handle returned by FS.Create and FS.OpenFile.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Name() string
	Sync() error
}

// FS is the filesystem interface required for packdrop operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Open(name string) (File, error)
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error

	// Directory operations
	Mkdir(path string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}

// Substitutor rewrites variable references in a string.
type Substitutor interface {
	Substitute(s string) string
}

// SubstitutorFunc adapts a plain function to Substitutor.
type SubstitutorFunc func(string) string

// Substitute implements Substitutor.
func (f SubstitutorFunc) Substitute(s string) string { return f(s) }

// Conditions answers whether a named condition currently holds.
type Conditions interface {
	IsTrue(id string) bool
}

// PayloadSource opens the byte stream for a pack file.
type PayloadSource interface {
	Open(pack *Pack, pf *PackFile) (io.ReadCloser, error)
}
