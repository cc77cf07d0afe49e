// Package executables prepares and runs the programs registered by packs.
//
// Load filters executables by condition, rewrites their paths and arguments
// and hands uninstall-stage entries to the ledger. Runner executes
// install-stage entries once the pack files are in place and kills a
// running process when an interrupt is desired.
package executables

import (
	"github.com/arthur-debert/packdrop/pkg/conditions"
	"github.com/arthur-debert/packdrop/pkg/ledger"
	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/types"
)

// PathTranslator rewrites a path or argument before use
type PathTranslator interface {
	TranslatePath(p string) string
}

// Load returns the install-stage executables of list, translated, in order.
// Entries whose condition does not hold are dropped, uninstall entries are
// recorded in l and never-stage entries are ignored.
func Load(list []types.ExecutableFile, conds types.Conditions, paths PathTranslator, l *ledger.Ledger) []types.ExecutableFile {
	logger := logging.GetLogger("executables")

	var install []types.ExecutableFile
	for _, exe := range list {
		if !conditions.Evaluate(conds, exe.Condition) {
			logger.Debug().Str("path", exe.Path).Str("condition", exe.Condition).Msg("Executable skipped, condition false")
			continue
		}

		translated := exe
		if paths != nil {
			translated.Path = paths.TranslatePath(exe.Path)
			translated.Args = make([]string, len(exe.Args))
			for i, arg := range exe.Args {
				translated.Args[i] = paths.TranslatePath(arg)
			}
		}

		switch translated.Stage {
		case types.StageInstall:
			install = append(install, translated)
		case types.StageUninstall:
			if l != nil {
				l.AddExecutable(translated)
			}
		}
	}
	return install
}
