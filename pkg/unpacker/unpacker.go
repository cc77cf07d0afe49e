// Package unpacker is the installation engine. It materializes the selected
// packs of an Installation onto the filesystem: directories are created
// parent-first, override policies are resolved, bytes are streamed from the
// payload, files that may be locked by the operating system are routed
// through the deferred file queue, and listeners are notified at every
// checkpoint. After the packs it runs update checks, commits the queue,
// runs pack executables and persists the installation record.
//
// Every run registers with an interrupt.Coordinator and polls it at its
// checkpoints; context cancellation is honored at the same points.
package unpacker

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/executables"
	"github.com/arthur-debert/packdrop/pkg/filequeue"
	"github.com/arthur-debert/packdrop/pkg/interrupt"
	"github.com/arthur-debert/packdrop/pkg/ledger"
	"github.com/arthur-debert/packdrop/pkg/listeners"
	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/metrics"
	"github.com/arthur-debert/packdrop/pkg/record"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/arthur-debert/packdrop/pkg/updatecheck"
	"github.com/arthur-debert/packdrop/pkg/variables"
	"github.com/rs/zerolog"
)

// DefaultBufferSize is the copy chunk size
const DefaultBufferSize = 5120

// BlockablePlatform is the only GOOS on which blockable policies apply
const BlockablePlatform = "windows"

// Outcome is what happened to one pack file
type Outcome int

const (
	OutcomeInstalled Outcome = iota
	OutcomeQueued
	OutcomeSkipped
	OutcomeInterrupted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInstalled:
		return "installed"
	case OutcomeQueued:
		return "queued"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeInterrupted:
		return "interrupted"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Options wires the collaborators of an Unpacker. FS and Payload are
// required; every other field has a usable zero value.
type Options struct {
	FS      types.FS
	Payload types.PayloadSource

	// UI receives questions and error reports; nil answers every question
	// with its default and drops reports
	UI types.UIHandler

	// Coordinator, when set, is polled at every checkpoint
	Coordinator *interrupt.Coordinator

	Listeners  []listeners.Listener
	Conditions types.Conditions

	// Variables is used for target paths, update checks and executables;
	// nil builds a set from Installation.Variables
	Variables *variables.Set

	// Committer receives the deferred moves; required only when a run
	// queues files
	Committer filequeue.Committer

	// Records persists the installation record; nil skips it
	Records *record.Writer

	// Runner executes install-stage executables; nil only registers them
	Runner *executables.Runner

	Metrics *metrics.Metrics

	// BufferSize defaults to DefaultBufferSize
	BufferSize int

	// Platform is the GOOS whose rules apply; defaults to runtime.GOOS
	Platform string
}

// Result summarizes a run
type Result struct {
	Success     bool
	Interrupted bool

	Installed int
	Queued    int
	Skipped   int

	StaleDeleted int
	Packs        []string
	Duration     time.Duration
}

// Unpacker installs one Installation. It is not safe for concurrent use;
// run several Unpackers to install concurrently.
type Unpacker struct {
	opts         Options
	installation types.Installation
	vars         *variables.Set

	ledger   *ledger.Ledger
	queue    *filequeue.Queue
	notifier *listeners.Notifier
	copied   map[*types.PackFile]bool
	buf      []byte

	ctx        context.Context
	instance   interrupt.Instance
	registered bool
	reported   bool

	logger zerolog.Logger
}

// New prepares an Unpacker for installation
func New(installation types.Installation, opts Options) *Unpacker {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.Platform == "" {
		opts.Platform = runtime.GOOS
	}
	if opts.UI == nil {
		opts.UI = defaultsUI{}
	}
	vars := opts.Variables
	if vars == nil {
		vars = variables.New(installation.Variables)
	}
	if installation.InstallPath != "" {
		if _, ok := vars.Get("INSTALL_PATH"); !ok {
			vars.Set("INSTALL_PATH", installation.InstallPath)
		}
	}

	u := &Unpacker{
		opts:         opts,
		installation: installation,
		vars:         vars,
		ledger:       ledger.New(),
		queue:        filequeue.New(),
		copied:       make(map[*types.PackFile]bool),
		buf:          make([]byte, opts.BufferSize),
		ctx:          context.Background(),
		logger:       logging.GetLogger("unpacker"),
	}
	u.notifier = listeners.NewNotifier(u.interrupted, opts.Listeners...)
	return u
}

// Ledger returns the files and executables recorded so far
func (u *Unpacker) Ledger() *ledger.Ledger {
	return u.ledger
}

// Queue returns the deferred moves not yet committed
func (u *Unpacker) Queue() *filequeue.Queue {
	return u.queue
}

// interrupted is the checkpoint predicate
func (u *Unpacker) interrupted() bool {
	if u.ctx.Err() != nil {
		return true
	}
	return u.registered && u.opts.Coordinator.IsInterruptRequested(u.instance)
}

// acknowledge moves the registered instance to Interrupted
func (u *Unpacker) acknowledge() {
	if u.registered {
		u.opts.Coordinator.AcknowledgeInterrupted(u.instance)
	}
	u.opts.Metrics.Interrupted()
	u.logger.Info().Msg("Installation interrupted")
}

// fail reports a fatal error through the UI and returns it
func (u *Unpacker) fail(title, message string, err error) error {
	u.opts.UI.EmitError(title, message)
	u.opts.UI.StopAction()
	u.reported = true
	return err
}

// Run installs every selected pack and performs the post-install steps.
// An interrupt yields Result.Interrupted with a nil error; fatal failures
// are reported through the UI and returned.
func (u *Unpacker) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	u.ctx = ctx
	u.reported = false
	done := logging.LogOperationStart(u.logger, "install")
	defer done()

	if u.opts.Coordinator != nil {
		u.instance = u.opts.Coordinator.Register()
		u.registered = true
		defer func() {
			u.opts.Coordinator.Unregister(u.instance)
			u.registered = false
		}()
	}

	selected := types.SelectedPacks(u.installation.Packs)
	res := Result{Packs: types.PackNames(selected)}

	interrupted, err := u.run(selected, &res)
	res.Duration = time.Since(start)

	switch {
	case err != nil:
		u.queue.Discard(u.opts.FS)
		if !u.reported {
			u.fail("Installation failed", err.Error(), err)
		}
		u.opts.Metrics.RunFinished("failure", res.Duration)
		u.logger.Error().Err(err).Msg("Installation failed")
		return res, err

	case interrupted:
		u.acknowledge()
		u.queue.Discard(u.opts.FS)
		res.Interrupted = true
		u.opts.Metrics.RunFinished("interrupted", res.Duration)
		return res, nil
	}

	res.Success = true
	u.opts.Metrics.RunFinished("success", res.Duration)
	u.logger.Info().
		Int("installed", res.Installed).
		Int("queued", res.Queued).
		Int("skipped", res.Skipped).
		Dur("duration", res.Duration).
		Msg("Installation completed")
	return res, nil
}

func (u *Unpacker) run(selected []*types.Pack, res *Result) (bool, error) {
	if stop, err := u.notifier.Notify(listeners.BeforePacks, listeners.Event{Packs: selected}); stop || err != nil {
		return stop, err
	}

	for i, pack := range selected {
		if u.interrupted() {
			return true, nil
		}
		stop, err := u.installPack(i, pack, res)
		if stop || err != nil {
			return stop, err
		}
	}

	if stop, err := u.notifier.Notify(listeners.AfterPacks, listeners.Event{Packs: selected}); stop || err != nil {
		return stop, err
	}
	if u.interrupted() {
		return true, nil
	}

	res.StaleDeleted = u.performUpdateChecks()

	if err := u.critical(u.commitQueue); err != nil {
		return false, err
	}

	var install []types.ExecutableFile
	for _, pack := range selected {
		install = append(install, executables.Load(pack.Executables, u.opts.Conditions, u.vars, u.ledger)...)
	}
	if u.opts.Runner != nil && len(install) > 0 {
		if err := u.opts.Runner.RunAll(u.ctx, install, u.opts.UI); err != nil {
			if errors.IsErrorCode(err, errors.ErrInterrupted) || u.interrupted() {
				return true, nil
			}
			return false, err
		}
	}

	if u.opts.Records != nil {
		if err := u.critical(func() error { return u.persist(res.Packs) }); err != nil {
			return false, u.fail("Error writing installation information", err.Error(), err)
		}
	}
	return false, nil
}

// critical runs fn with interrupt requests discarded
func (u *Unpacker) critical(fn func() error) error {
	if u.opts.Coordinator == nil {
		return fn()
	}
	u.opts.Coordinator.SetDiscardInterrupt(true)
	defer u.opts.Coordinator.SetDiscardInterrupt(false)
	return fn()
}

// persist writes the installation record and the uninstall list
func (u *Unpacker) persist(packs []string) error {
	root := u.installation.InstallPath
	if err := u.opts.Records.Persist(root, packs, u.vars.Snapshot()); err != nil {
		return err
	}
	var files []string
	for _, f := range u.ledger.Files() {
		if !strings.HasPrefix(filepath.Base(f), TempPrefix) {
			files = append(files, f)
		}
	}
	return u.opts.Records.PersistUninstall(root, files, u.ledger.Executables())
}

func (u *Unpacker) installPack(index int, pack *types.Pack, res *Result) (bool, error) {
	logger := u.logger.With().Str("pack", pack.Name).Logger()
	logger.Info().Int("files", len(pack.Files)).Msg("Installing pack")

	ev := listeners.Event{Pack: pack, Index: index}
	if stop, err := u.notifier.Notify(listeners.BeforePack, ev); stop || err != nil {
		return stop, err
	}

	for _, pf := range pack.Files {
		outcome, err := u.InstallFile(u.ctx, pack, pf)
		if err != nil {
			return false, err
		}
		switch outcome {
		case OutcomeInstalled:
			res.Installed++
		case OutcomeQueued:
			res.Queued++
		case OutcomeSkipped:
			res.Skipped++
		case OutcomeInterrupted:
			return true, nil
		}
	}

	return u.notifier.Notify(listeners.AfterPack, ev)
}

func (u *Unpacker) performUpdateChecks() int {
	checks := u.installation.UpdateChecks()
	if len(checks) == 0 {
		return 0
	}
	stale, err := updatecheck.ComputeStale(u.opts.FS, u.installation.InstallPath, checks, u.ledger, u.vars)
	if err != nil {
		u.logger.Error().Err(err).Msg("Update checks failed")
		u.opts.UI.EmitError("Error while performing update checks", err.Error())
		return 0
	}
	deleted := updatecheck.Apply(u.opts.FS, stale, u.logger)
	u.opts.Metrics.StaleDeleted(deleted)
	return deleted
}

func (u *Unpacker) commitQueue() error {
	if u.queue.Len() == 0 {
		return nil
	}
	if u.opts.Committer == nil {
		err := errors.New(errors.ErrQueueCommit, "files were queued but no deferred move mechanism is configured").
			WithDetail("entries", u.queue.Len())
		return u.fail("Error committing file queue", err.Error(), err)
	}
	if err := u.queue.Commit(u.opts.Committer); err != nil {
		return u.fail("Error committing file queue", err.Error(), err)
	}
	return nil
}

// defaultsUI answers with the suggested default and drops reports
type defaultsUI struct{}

func (defaultsUI) AskQuestion(_, _ string, _ types.Choices, def types.Answer) types.Answer { return def }
func (defaultsUI) EmitError(string, string)                                           {}
func (defaultsUI) StopAction()                                                        {}
