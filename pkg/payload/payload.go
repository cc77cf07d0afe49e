// Package payload serves pack file contents from an unpacked payload
// directory laid out as <root>/<pack>/<source>.
package payload

import (
	"io"
	"path/filepath"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/types"
)

// Dir is a types.PayloadSource over a directory tree
type Dir struct {
	FS   types.FS
	Root string

	// Flat drops the pack name from the layout: <root>/<source>
	Flat bool
}

// NewDir returns a source reading <root>/<pack>/<source>
func NewDir(fsys types.FS, root string) *Dir {
	return &Dir{FS: fsys, Root: root}
}

// Path returns where the contents of pf live
func (d *Dir) Path(pack *types.Pack, pf *types.PackFile) string {
	source := filepath.FromSlash(pf.Source)
	if d.Flat || pack == nil {
		return filepath.Join(d.Root, source)
	}
	return filepath.Join(d.Root, pack.Name, source)
}

// Open implements types.PayloadSource
func (d *Dir) Open(pack *types.Pack, pf *types.PackFile) (io.ReadCloser, error) {
	path := d.Path(pack, pf)
	f, err := d.FS.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPayloadOpen, "failed to open payload entry").
			WithDetail("path", path)
	}
	return f, nil
}

// Describe fills Length and, when unset, ModTime of pf from the payload
// entry.
func (d *Dir) Describe(pack *types.Pack, pf *types.PackFile) error {
	path := d.Path(pack, pf)
	info, err := d.FS.Stat(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrPayloadOpen, "payload entry missing").WithDetail("path", path)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrPackInvalid, "payload entry %s is a directory", path)
	}
	pf.Length = info.Size()
	if pf.ModTime.IsZero() {
		pf.ModTime = info.ModTime()
	}
	return nil
}
