package executables

import (
	"context"
	"io"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/types"
)

// DefaultPollInterval is how often a running process checks for interrupts
const DefaultPollInterval = 100 * time.Millisecond

// InterruptSource reports whether the host wants long-running work to stop
type InterruptSource interface {
	IsInterruptDesired() bool
}

// Runner executes external programs
type Runner struct {
	Interrupt    InterruptSource
	PollInterval time.Duration
	Stdout       io.Writer
	Stderr       io.Writer
}

// Run executes exe and waits for it. A process killed because an interrupt
// became desired yields an ErrInterrupted error.
func (r *Runner) Run(ctx context.Context, exe types.ExecutableFile) error {
	logger := logging.GetLogger("executables")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, exe.Path, exe.Args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, errors.ErrExecute, "failed to start executable").WithDetail("path", exe.Path)
	}
	logger.Info().Str("path", exe.Path).Strs("args", exe.Args).Msg("Executable started")

	var interrupted atomic.Bool
	done := make(chan struct{})
	if r.Interrupt != nil {
		interval := r.PollInterval
		if interval <= 0 {
			interval = DefaultPollInterval
		}
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if r.Interrupt.IsInterruptDesired() {
						interrupted.Store(true)
						cancel()
						return
					}
				}
			}
		}()
	}

	err := cmd.Wait()
	close(done)

	if interrupted.Load() {
		logger.Warn().Str("path", exe.Path).Msg("Executable aborted by interrupt")
		return errors.New(errors.ErrInterrupted, "executable aborted by interrupt").WithDetail("path", exe.Path)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrExecute, "executable failed").WithDetail("path", exe.Path)
	}
	logger.Info().Str("path", exe.Path).Msg("Executable finished")
	return nil
}

// RunAll runs executables in order applying each entry's failure policy.
// Interrupts always stop the sequence.
func (r *Runner) RunAll(ctx context.Context, list []types.ExecutableFile, progress types.ProgressHandler) error {
	logger := logging.GetLogger("executables")
	for _, exe := range list {
		err := r.Run(ctx, exe)
		if err == nil {
			continue
		}
		if errors.IsErrorCode(err, errors.ErrInterrupted) {
			return err
		}
		switch exe.OnFailure {
		case types.FailureAbort:
			return err
		case types.FailureWarn:
			if progress != nil {
				progress.EmitError("Executable failed", exe.Path+"\n"+err.Error())
			}
			logger.Warn().Err(err).Str("path", exe.Path).Msg("Executable failed, continuing")
		default:
			logger.Debug().Err(err).Str("path", exe.Path).Msg("Executable failed, ignored")
		}
	}
	return nil
}
