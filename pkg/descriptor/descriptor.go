// Package descriptor loads install descriptors: the declarative list of
// packs, files, update checks and executables the engine materializes.
// Descriptors are XML or TOML, chosen by file extension.
package descriptor

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/types"
)

// Format identifies the descriptor syntax
type Format int

const (
	FormatXML Format = iota
	FormatTOML
)

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatXML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return FormatXML, errors.Newf(errors.ErrDescriptorRead, "unsupported descriptor extension %q", filepath.Ext(path))
}

// Descriptor is a parsed install descriptor
type Descriptor struct {
	AppName     string
	AppVersion  string
	InstallPath string
	Variables   map[string]string
	Packs       []*types.Pack
}

// Load reads and parses the descriptor at path
func Load(fsys types.FS, path string) (*Descriptor, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDescriptorRead, "failed to read descriptor").WithDetail("path", path)
	}
	d, err := Parse(data, format)
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("descriptor")
	logger.Debug().
		Str("path", path).
		Str("app", d.AppName).
		Int("packs", len(d.Packs)).
		Msg("Descriptor loaded")
	return d, nil
}

// Parse decodes a descriptor
func Parse(data []byte, format Format) (*Descriptor, error) {
	var (
		d   *Descriptor
		err error
	)
	switch format {
	case FormatTOML:
		d, err = parseTOML(data)
	default:
		d, err = parseXML(data)
	}
	if err != nil {
		return nil, err
	}
	if d.Variables == nil {
		d.Variables = map[string]string{}
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Descriptor) validate() error {
	seen := make(map[string]bool)
	for _, p := range d.Packs {
		if p.Name == "" {
			return errors.New(errors.ErrDescriptorParse, "pack without a name")
		}
		if seen[p.Name] {
			return errors.Newf(errors.ErrDescriptorParse, "duplicate pack %q", p.Name)
		}
		seen[p.Name] = true
		for _, f := range p.Files {
			if f.Source == "" {
				return errors.Newf(errors.ErrDescriptorParse, "file without a source in pack %q", p.Name)
			}
			if f.Target == "" {
				f.Target = f.Source
			}
		}
	}
	return nil
}

// Pack returns the named pack, or nil
func (d *Descriptor) Pack(name string) *types.Pack {
	for _, p := range d.Packs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Select marks exactly the named packs as selected. With no names the
// descriptor defaults are kept.
func (d *Descriptor) Select(names ...string) error {
	if len(names) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		if d.Pack(n) == nil {
			return errors.Newf(errors.ErrPackNotFound, "unknown pack %q", n)
		}
		wanted[n] = true
	}
	for _, p := range d.Packs {
		p.Selected = wanted[p.Name]
	}
	return nil
}

// Describer fills payload-derived attributes of a pack file
type Describer interface {
	Describe(pack *types.Pack, pf *types.PackFile) error
}

// Resolve takes every file's length, and its timestamp when the descriptor
// did not set one, from the payload.
func (d *Descriptor) Resolve(src Describer) error {
	for _, p := range d.Packs {
		for _, f := range p.Files {
			if err := src.Describe(p, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Installation builds the engine input rooted at installPath. An empty
// installPath falls back to the descriptor's own.
func (d *Descriptor) Installation(installPath string) types.Installation {
	if installPath == "" {
		installPath = d.InstallPath
	}
	vars := make(map[string]string, len(d.Variables)+3)
	for k, v := range d.Variables {
		vars[k] = v
	}
	vars["INSTALL_PATH"] = installPath
	if d.AppName != "" {
		vars["APP_NAME"] = d.AppName
	}
	if d.AppVersion != "" {
		vars["APP_VER"] = d.AppVersion
	}
	return types.Installation{
		InstallPath: installPath,
		Packs:       d.Packs,
		Variables:   vars,
	}
}

// fileSpec is the syntax-neutral form of a file entry
type fileSpec struct {
	source, target, override, blockable, renameFrom, renameTo, condition, mtime string
}

func (s fileSpec) build() (*types.PackFile, error) {
	pf := &types.PackFile{
		Source:    s.source,
		Target:    s.target,
		Condition: s.condition,
	}
	var err error
	if pf.Override, err = types.ParseOverride(s.override); err != nil {
		return nil, errors.Wrap(err, errors.ErrDescriptorParse, "invalid file entry").WithDetail("source", s.source)
	}
	if pf.Blockable, err = types.ParseBlockable(s.blockable); err != nil {
		return nil, errors.Wrap(err, errors.ErrDescriptorParse, "invalid file entry").WithDetail("source", s.source)
	}
	if s.renameTo != "" {
		from := s.renameFrom
		if from == "" {
			from = "*"
		}
		pf.OverrideRename = &types.RenameRule{From: from, To: s.renameTo}
	}
	if s.mtime != "" {
		t, err := time.Parse(time.RFC3339, s.mtime)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrDescriptorParse, "invalid file timestamp").WithDetail("source", s.source)
		}
		pf.ModTime = t
	}
	return pf, nil
}

// executableSpec is the syntax-neutral form of an executable entry
type executableSpec struct {
	path, stage, condition, failure string
	args                            []string
}

func (s executableSpec) build() (types.ExecutableFile, error) {
	exe := types.ExecutableFile{Path: s.path, Args: s.args, Condition: s.condition}
	var err error
	if exe.Stage, err = types.ParseExecutionStage(s.stage); err != nil {
		return exe, errors.Wrap(err, errors.ErrDescriptorParse, "invalid executable").WithDetail("path", s.path)
	}
	if exe.OnFailure, err = types.ParseFailurePolicy(s.failure); err != nil {
		return exe, errors.Wrap(err, errors.ErrDescriptorParse, "invalid executable").WithDetail("path", s.path)
	}
	return exe, nil
}

func parseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true
	case "no", "false", "0", "off":
		return false
	}
	return def
}
