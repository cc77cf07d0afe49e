package filequeue

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/arthur-debert/packdrop/pkg/types"
	"gopkg.in/yaml.v3"
)

// ManifestFileName is the name of the pending-moves manifest
const ManifestFileName = "pending-moves.yaml"

// Manifest is the on-disk form of a committed queue
type Manifest struct {
	CreatedAt time.Time `yaml:"created_at"`
	Moves     []Entry   `yaml:"moves"`
}

// ManifestCommitter writes the queue as a YAML manifest for a privileged
// helper to apply after the installer exits. Entries committed by earlier
// runs that were not applied yet are kept.
type ManifestCommitter struct {
	FS  types.FS
	Dir string

	// Now is used for the manifest timestamp; defaults to time.Now
	Now func() time.Time
}

// Path returns the manifest location
func (m *ManifestCommitter) Path() string {
	return filepath.Join(m.Dir, ManifestFileName)
}

// Commit implements Committer
func (m *ManifestCommitter) Commit(entries []Entry) error {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	manifest := Manifest{}
	if _, err := m.FS.Stat(m.Path()); err == nil {
		existing, err := LoadManifest(m.FS, m.Path())
		if err != nil {
			return err
		}
		manifest.Moves = existing.Moves
	}
	manifest.CreatedAt = now().UTC()
	manifest.Moves = append(manifest.Moves, entries...)

	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := m.FS.MkdirAll(m.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory %s: %w", m.Dir, err)
	}
	if err := m.FS.WriteFile(m.Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", m.Path(), err)
	}
	return nil
}

// LoadManifest reads a manifest written by ManifestCommitter
func LoadManifest(fsys types.FS, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &manifest, nil
}
