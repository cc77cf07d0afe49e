package record

import (
	"path/filepath"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/types"
	"gopkg.in/yaml.v3"
)

// UninstallFileName is the uninstall list kept next to the record
const UninstallFileName = ".uninstall"

// Uninstall lists what an uninstaller has to reverse: every path the
// installations wrote under the root and the executables registered for
// the uninstall stage.
type Uninstall struct {
	Files       []string              `yaml:"files"`
	Executables []UninstallExecutable `yaml:"executables,omitempty"`
}

// UninstallExecutable is the persisted form of an uninstall-stage executable
type UninstallExecutable struct {
	Path      string   `yaml:"path"`
	Args      []string `yaml:"args,omitempty"`
	OnFailure string   `yaml:"on_failure"`
}

// UninstallPath returns the uninstall list location under installRoot
func (w *Writer) UninstallPath(installRoot string) string {
	return filepath.Join(installRoot, UninstallFileName)
}

// PersistUninstall merges files and exes into the uninstall list under
// installRoot. Entries already listed by earlier runs are kept once.
func (w *Writer) PersistUninstall(installRoot string, files []string, exes []types.ExecutableFile) error {
	logger := logging.GetLogger("record")
	if !w.Enabled {
		return nil
	}

	path := w.UninstallPath(installRoot)
	var list Uninstall
	if _, err := w.FS.Stat(path); err == nil {
		if list, err = ReadUninstall(w.FS, path); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(list.Files))
	for _, f := range list.Files {
		seen[f] = true
	}
	for _, f := range files {
		if !seen[f] {
			seen[f] = true
			list.Files = append(list.Files, f)
		}
	}

	known := make(map[string]bool, len(list.Executables))
	for _, e := range list.Executables {
		known[executableKey(e)] = true
	}
	for _, exe := range exes {
		e := UninstallExecutable{Path: exe.Path, Args: exe.Args, OnFailure: exe.OnFailure.String()}
		if key := executableKey(e); !known[key] {
			known[key] = true
			list.Executables = append(list.Executables, e)
		}
	}

	data, err := yaml.Marshal(list)
	if err != nil {
		return errors.Wrap(err, errors.ErrRecordWrite, "failed to encode uninstall list")
	}
	if err := w.FS.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrRecordWrite, "failed to write uninstall list").
			WithDetail("path", path)
	}

	logger.Info().
		Str("path", path).
		Int("files", len(list.Files)).
		Int("executables", len(list.Executables)).
		Msg("Uninstall list written")
	return nil
}

// ReadUninstall loads a list written by PersistUninstall
func ReadUninstall(fsys types.FS, path string) (Uninstall, error) {
	var list Uninstall
	data, err := fsys.ReadFile(path)
	if err != nil {
		return list, errors.Wrap(err, errors.ErrRecordRead, "failed to read uninstall list").
			WithDetail("path", path)
	}
	if err := yaml.Unmarshal(data, &list); err != nil {
		return list, errors.Wrap(err, errors.ErrRecordRead, "invalid uninstall list").WithDetail("path", path)
	}
	return list, nil
}

func executableKey(e UninstallExecutable) string {
	key := e.Path
	for _, a := range e.Args {
		key += "\x00" + a
	}
	return key
}
