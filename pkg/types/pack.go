package types

import (
	"fmt"
	"strings"
	"time"
)

// Pack is a named, independently selectable bundle of files
type Pack struct {
	// Name is the pack identifier, persisted in the installation record
	Name string

	// Description is informational only
	Description string

	// Files are installed in declared order
	Files []*PackFile

	// Selected marks the pack for installation in the current run
	Selected bool

	// UpdateChecks identify files to remove on upgrade when no longer shipped
	UpdateChecks []UpdateCheck

	// Executables are run or registered after the pack files are in place
	Executables []ExecutableFile
}

// SelectedPacks returns the packs marked for installation, in order.
func SelectedPacks(packs []*Pack) []*Pack {
	var selected []*Pack
	for _, p := range packs {
		if p.Selected {
			selected = append(selected, p)
		}
	}
	return selected
}

// PackNames returns the identifiers of the given packs.
func PackNames(packs []*Pack) []string {
	names := make([]string, 0, len(packs))
	for _, p := range packs {
		names = append(names, p.Name)
	}
	return names
}

// PackFile is one file entry within a pack. It is immutable once loaded.
type PackFile struct {
	// Source is the path of the file inside the payload
	Source string

	// Target is the destination path; variables are substituted and
	// relative paths are resolved against the installation root
	Target string

	// Length is the number of bytes the payload stream must deliver
	Length int64

	// ModTime is applied to the installed file; zero leaves it untouched
	ModTime time.Time

	Blockable      Blockable
	Override       Override
	OverrideRename *RenameRule

	// Condition, when set, must hold for the file to be installed
	Condition string
}

// HasCondition reports whether the file is guarded by a condition.
func (pf *PackFile) HasCondition() bool {
	return pf.Condition != ""
}

// RenameRule maps the name of an existing destination to a backup name
// before it is overwritten. From is a single-wildcard glob (default "*"),
// and the text matched by the wildcard replaces "*" in To.
type RenameRule struct {
	From string
	To   string
}

// Blockable describes whether a file may be locked by the operating system
// while the installer runs.
type Blockable int

const (
	BlockableNone Blockable = iota
	BlockableAuto
	BlockableForce
)

var blockableNames = map[Blockable]string{
	BlockableNone:  "none",
	BlockableAuto:  "auto",
	BlockableForce: "force",
}

func (b Blockable) String() string {
	if s, ok := blockableNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Blockable(%d)", int(b))
}

// ParseBlockable accepts none, auto and force (or full), case-insensitive.
func ParseBlockable(s string) (Blockable, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return BlockableNone, nil
	case "auto":
		return BlockableAuto, nil
	case "force", "full":
		return BlockableForce, nil
	}
	return BlockableNone, fmt.Errorf("unknown blockable policy %q", s)
}

// Override is the policy deciding whether an existing destination is replaced.
type Override int

const (
	OverrideFalse Override = iota
	OverrideTrue
	OverrideAskFalse
	OverrideAskTrue
	OverrideUpdate
)

func (o Override) String() string {
	switch o {
	case OverrideFalse:
		return "false"
	case OverrideTrue:
		return "true"
	case OverrideAskFalse:
		return "askfalse"
	case OverrideAskTrue:
		return "asktrue"
	case OverrideUpdate:
		return "update"
	}
	return fmt.Sprintf("Override(%d)", int(o))
}

// ParseOverride accepts the descriptor spellings of the override policies.
// An empty value means "update", the installer default.
func ParseOverride(s string) (Override, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "update":
		return OverrideUpdate, nil
	case "false", "no":
		return OverrideFalse, nil
	case "true", "yes":
		return OverrideTrue, nil
	case "askfalse", "ask_false":
		return OverrideAskFalse, nil
	case "asktrue", "ask_true":
		return OverrideAskTrue, nil
	}
	return OverrideFalse, fmt.Errorf("unknown override policy %q", s)
}

// ExecutionStage selects when an executable runs.
type ExecutionStage int

const (
	StageNever ExecutionStage = iota
	StageInstall
	StageUninstall
)

func (s ExecutionStage) String() string {
	switch s {
	case StageNever:
		return "never"
	case StageInstall:
		return "install"
	case StageUninstall:
		return "uninstall"
	}
	return fmt.Sprintf("ExecutionStage(%d)", int(s))
}

// ParseExecutionStage accepts never, install (or postinstall) and uninstall.
func ParseExecutionStage(s string) (ExecutionStage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "never":
		return StageNever, nil
	case "install", "postinstall":
		return StageInstall, nil
	case "uninstall":
		return StageUninstall, nil
	}
	return StageNever, fmt.Errorf("unknown execution stage %q", s)
}

// FailurePolicy controls what a failing executable does to the run.
type FailurePolicy int

const (
	// FailureAbort stops the run
	FailureAbort FailurePolicy = iota
	// FailureWarn reports the failure and continues
	FailureWarn
	// FailureIgnore logs the failure only
	FailureIgnore
)

func (f FailurePolicy) String() string {
	switch f {
	case FailureAbort:
		return "abort"
	case FailureWarn:
		return "warn"
	case FailureIgnore:
		return "ignore"
	}
	return fmt.Sprintf("FailurePolicy(%d)", int(f))
}

// ParseFailurePolicy accepts abort, warn and ignore. Empty means abort.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return FailureAbort, nil
	case "warn":
		return FailureWarn, nil
	case "ignore":
		return FailureIgnore, nil
	}
	return FailureAbort, fmt.Errorf("unknown failure policy %q", s)
}

// ExecutableFile is a program registered by a pack.
type ExecutableFile struct {
	Path      string
	Args      []string
	Stage     ExecutionStage
	Condition string
	OnFailure FailurePolicy
}

// HasCondition reports whether the executable is guarded by a condition.
func (e ExecutableFile) HasCondition() bool {
	return e.Condition != ""
}

// UpdateCheck selects files under the installation root that are removed
// during an upgrade when the current run did not install them.
type UpdateCheck struct {
	Includes []string
	Excludes []string
}
