package testutil

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arthur-debert/packdrop/pkg/types"
)

// MemoryPayload serves pack file contents from memory, keyed by
// PackFile.Source. Truncate limits how many bytes a source delivers, to
// simulate a corrupted payload.
type MemoryPayload struct {
	Files    map[string][]byte
	Truncate map[string]int
	Opened   []string
}

// NewMemoryPayload returns an empty payload
func NewMemoryPayload() *MemoryPayload {
	return &MemoryPayload{
		Files:    make(map[string][]byte),
		Truncate: make(map[string]int),
	}
}

// Add registers content for source
func (m *MemoryPayload) Add(source, content string) *MemoryPayload {
	m.Files[source] = []byte(content)
	return m
}

// Open implements types.PayloadSource
func (m *MemoryPayload) Open(_ *types.Pack, pf *types.PackFile) (io.ReadCloser, error) {
	data, ok := m.Files[pf.Source]
	if !ok {
		return nil, fmt.Errorf("payload has no entry %q", pf.Source)
	}
	m.Opened = append(m.Opened, pf.Source)
	if n, ok := m.Truncate[pf.Source]; ok && n < len(data) {
		data = data[:n]
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
