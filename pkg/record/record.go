// Package record persists which packs are installed under an installation
// root, together with the final variable values, so later upgrade and
// uninstall runs can read them back.
//
// The file holds two frames. Each frame is a 4-byte big-endian length
// followed by a msgpack value: first the pack names, then the variables.
package record

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultFileName is the record file name under the installation root
const DefaultFileName = ".installationinformation"

// maxFrame bounds a single frame to catch garbage lengths early
const maxFrame = 64 << 20

// Record is the persisted installation state
type Record struct {
	Packs     []string
	Variables map[string]string
}

// Writer persists records
type Writer struct {
	FS types.FS

	// Enabled mirrors the install.write_installation_information setting;
	// a disabled writer does nothing.
	Enabled bool

	// FileName defaults to DefaultFileName
	FileName string
}

// NewWriter returns an enabled writer using DefaultFileName
func NewWriter(fsys types.FS) *Writer {
	return &Writer{FS: fsys, Enabled: true, FileName: DefaultFileName}
}

// Path returns the record location under installRoot
func (w *Writer) Path(installRoot string) string {
	name := w.FileName
	if name == "" {
		name = DefaultFileName
	}
	return filepath.Join(installRoot, name)
}

// Persist writes packs and variables under installRoot. When a record
// already exists its pack list is kept in front of packs, without removing
// duplicates, and the file is rewritten in full.
func (w *Writer) Persist(installRoot string, packs []string, variables map[string]string) error {
	logger := logging.GetLogger("record")
	if !w.Enabled {
		logger.Debug().Msg("Installation information disabled, not written")
		return nil
	}

	path := w.Path(installRoot)
	all := make([]string, 0, len(packs))
	if _, err := w.FS.Stat(path); err == nil {
		previous, err := Read(w.FS, path)
		if err != nil {
			return err
		}
		all = append(all, previous.Packs...)
	}
	all = append(all, packs...)

	if variables == nil {
		variables = map[string]string{}
	}

	var buf bytes.Buffer
	if err := writeFrame(&buf, all); err != nil {
		return errors.Wrap(err, errors.ErrRecordWrite, "failed to encode pack list")
	}
	if err := writeFrame(&buf, variables); err != nil {
		return errors.Wrap(err, errors.ErrRecordWrite, "failed to encode variables")
	}
	if err := w.FS.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(err, errors.ErrRecordWrite, "failed to write installation information").
			WithDetail("path", path)
	}

	logger.Info().
		Str("path", path).
		Int("packs", len(all)).
		Int("variables", len(variables)).
		Msg("Installation information written")
	return nil
}

// Read loads a record written by Persist
func Read(fsys types.FS, path string) (Record, error) {
	var rec Record

	data, err := fsys.ReadFile(path)
	if err != nil {
		return rec, errors.Wrap(err, errors.ErrRecordRead, "failed to read installation information").
			WithDetail("path", path)
	}
	r := bytes.NewReader(data)
	if err := readFrame(r, &rec.Packs); err != nil {
		return rec, errors.Wrap(err, errors.ErrRecordRead, "invalid pack list").WithDetail("path", path)
	}
	if err := readFrame(r, &rec.Variables); err != nil {
		return rec, errors.Wrap(err, errors.ErrRecordRead, "invalid variables").WithDetail("path", path)
	}
	if rec.Variables == nil {
		rec.Variables = map[string]string{}
	}
	return rec, nil
}

func writeFrame(w io.Writer, v interface{}) error {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func readFrame(r io.Reader, v interface{}) error {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return fmt.Errorf("frame header: %w", err)
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > maxFrame {
		return fmt.Errorf("frame length %d exceeds limit", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return fmt.Errorf("frame body: %w", err)
	}
	return msgpack.Unmarshal(payload, v)
}
