package packdrop

// Command descriptions
const (
	MsgRootShort = "Install pack-based application payloads"
	MsgRootLong  = `packdrop installs the packs described by an installation descriptor onto the
filesystem. Existing files are handled by per-file override policies, files
that may be locked by the operating system are replaced at the next reboot,
and a record of the installed packs is kept in the installation directory.`

	MsgInstallShort = "Install the packs of a descriptor"
	MsgInstallLong  = `Install reads an XML or TOML installation descriptor and installs its
preselected packs, or the packs named after the descriptor.

Pack file contents are read from <payload>/<pack>/<source>; the payload
directory defaults to the directory holding the descriptor.`
	MsgRecordShort     = "Show the installation record of a directory"
	MsgQueueShort      = "Show the pending-moves manifest"
	MsgConfigShort     = "Print the default configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgCompletionLong  = `To load completions:

Bash:
  $ source <(packdrop completion bash)

Zsh:
  $ packdrop completion zsh > "${fpath[1]}/_packdrop"

Fish:
  $ packdrop completion fish | source

PowerShell:
  PS> packdrop completion powershell | Out-String | Invoke-Expression
`
)

// Flags
const (
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Config file (default ./packdrop.toml)"
	MsgFlagFormat    = "Output format: auto, terminal, text or json"
	MsgFlagYes       = "Answer yes to every question"
	MsgFlagPayload   = "Payload directory (default: the descriptor's directory)"
	MsgFlagTarget    = "Installation directory (overrides config and descriptor)"
	MsgFlagCondition = "Mark a condition id as true (repeatable)"
	MsgFlagPlatform  = "Platform rules to apply (default: the running OS)"
)

// Output
const (
	MsgFileInstalled   = "  ✓ %s\n"
	MsgInterrupted     = "Installation interrupted."
	MsgInterruptSignal = "Interrupt received, stopping after the current step (press again to abort)"
	MsgNoRecord        = "No installation record in %s\n"
	MsgNoManifest      = "No pending moves."
	MsgVersionFormat   = "packdrop version %s\n  commit: %s\n  built:  %s\n"

	MsgErrNoInstallPath = "no installation directory: use --target, install.path or the descriptor's install_path"
)
