// Package override decides whether an existing destination file is replaced
// by the pack file about to be installed.
package override

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/packdrop/pkg/types"
)

const (
	askTitle   = "File already exists"
	askMessage = "Do you want to overwrite the file\n"
)

// ShouldOverwrite resolves the pack file's override policy against the
// existing file at path. The only filesystem access is the modification
// time read needed by OverrideUpdate.
func ShouldOverwrite(fsys types.FS, path string, pf *types.PackFile, asker types.Asker) (bool, error) {
	switch pf.Override {
	case types.OverrideFalse:
		return false, nil

	case types.OverrideTrue:
		return true, nil

	case types.OverrideUpdate:
		info, err := fsys.Stat(path)
		if err != nil {
			return false, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		return info.ModTime().Before(pf.ModTime), nil

	case types.OverrideAskFalse, types.OverrideAskTrue:
		def := types.AnswerNo
		if pf.Override == types.OverrideAskTrue {
			def = types.AnswerYes
		}
		answer := asker.AskQuestion(
			askTitle+" - "+filepath.Base(path),
			askMessage+path,
			types.ChoicesYesNo,
			def,
		)
		return answer == types.AnswerYes, nil
	}

	return false, fmt.Errorf("unknown override policy %v", pf.Override)
}
