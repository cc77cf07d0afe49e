// Package ledger tracks what the current run put on disk: the destination
// paths written directly and the executables to run at uninstall time.
// A ledger belongs to a single run and is not safe for concurrent use.
package ledger

import (
	"path/filepath"

	"github.com/arthur-debert/packdrop/pkg/types"
)

// Ledger records installed files in the order they were written.
type Ledger struct {
	files       []string
	seen        map[string]struct{}
	executables []types.ExecutableFile
}

// New returns an empty ledger
func New() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// AddFile records a written destination. Repeated paths are kept once.
func (l *Ledger) AddFile(path string) {
	path = filepath.Clean(path)
	if _, ok := l.seen[path]; ok {
		return
	}
	l.seen[path] = struct{}{}
	l.files = append(l.files, path)
}

// Contains reports whether path was recorded.
func (l *Ledger) Contains(path string) bool {
	_, ok := l.seen[filepath.Clean(path)]
	return ok
}

// Files returns the recorded paths in write order.
func (l *Ledger) Files() []string {
	out := make([]string, len(l.files))
	copy(out, l.files)
	return out
}

// Len returns the number of recorded paths.
func (l *Ledger) Len() int {
	return len(l.files)
}

// AddExecutable records an executable to run at uninstall time.
func (l *Ledger) AddExecutable(exe types.ExecutableFile) {
	l.executables = append(l.executables, exe)
}

// Executables returns the uninstall executables in registration order.
func (l *Ledger) Executables() []types.ExecutableFile {
	out := make([]types.ExecutableFile, len(l.executables))
	copy(out, l.executables)
	return out
}
