package testutil

import (
	"time"

	"github.com/arthur-debert/packdrop/pkg/types"
)

// PackBuilder assembles a pack and the matching payload entries
type PackBuilder struct {
	pack    *types.Pack
	payload *MemoryPayload
}

// NewPack starts a selected pack whose contents go into payload
func NewPack(name string, payload *MemoryPayload) *PackBuilder {
	return &PackBuilder{
		pack:    &types.Pack{Name: name, Selected: true},
		payload: payload,
	}
}

// File adds a pack file with OverrideTrue and no blockable handling. The
// payload source is "<pack>/<target>".
func (b *PackBuilder) File(target, content string, opts ...FileOption) *PackBuilder {
	pf := &types.PackFile{
		Source:   b.pack.Name + "/" + target,
		Target:   target,
		Length:   int64(len(content)),
		Override: types.OverrideTrue,
	}
	for _, opt := range opts {
		opt(pf)
	}
	b.payload.Add(pf.Source, content)
	b.pack.Files = append(b.pack.Files, pf)
	return b
}

// Unselected marks the pack as not selected
func (b *PackBuilder) Unselected() *PackBuilder {
	b.pack.Selected = false
	return b
}

// UpdateCheck adds an update check to the pack
func (b *PackBuilder) UpdateCheck(includes, excludes []string) *PackBuilder {
	b.pack.UpdateChecks = append(b.pack.UpdateChecks, types.UpdateCheck{Includes: includes, Excludes: excludes})
	return b
}

// Executable adds an executable to the pack
func (b *PackBuilder) Executable(exe types.ExecutableFile) *PackBuilder {
	b.pack.Executables = append(b.pack.Executables, exe)
	return b
}

// Build returns the pack
func (b *PackBuilder) Build() *types.Pack {
	return b.pack
}

// FileOption customizes a pack file
type FileOption func(*types.PackFile)

// WithOverride sets the override policy
func WithOverride(o types.Override) FileOption {
	return func(pf *types.PackFile) { pf.Override = o }
}

// WithBlockable sets the blockable policy
func WithBlockable(b types.Blockable) FileOption {
	return func(pf *types.PackFile) { pf.Blockable = b }
}

// WithModTime sets the recorded modification time
func WithModTime(t time.Time) FileOption {
	return func(pf *types.PackFile) { pf.ModTime = t }
}

// WithRename sets the rename-on-overwrite rule
func WithRename(from, to string) FileOption {
	return func(pf *types.PackFile) { pf.OverrideRename = &types.RenameRule{From: from, To: to} }
}

// WithCondition guards the file with a condition id
func WithCondition(id string) FileOption {
	return func(pf *types.PackFile) { pf.Condition = id }
}

// WithLength overrides the declared length
func WithLength(n int64) FileOption {
	return func(pf *types.PackFile) { pf.Length = n }
}
