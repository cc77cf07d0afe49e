package unpacker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/packdrop/pkg/conditions"
	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/listeners"
	"github.com/arthur-debert/packdrop/pkg/override"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/google/uuid"
)

// TempPrefix names the temp files of queued replacements
const TempPrefix = "__FQ__"

// Destination resolves a pack file target: variables are substituted,
// separators translated and relative paths joined to the install path.
func (u *Unpacker) Destination(pf *types.PackFile) string {
	p := u.vars.TranslatePath(pf.Target)
	if !filepath.IsAbs(p) {
		p = filepath.Join(u.installation.InstallPath, p)
	}
	return filepath.Clean(p)
}

// blockable reports whether pf must be routed through the file queue
func (u *Unpacker) blockable(pf *types.PackFile) bool {
	return pf.Blockable != types.BlockableNone && u.opts.Platform == BlockablePlatform
}

// InstallFile materializes one pack file. Fatal failures, such as a
// directory that cannot be created or a payload that ends early, are
// reported through the UI and returned. A file left alone by its override
// policy or condition is OutcomeSkipped.
func (u *Unpacker) InstallFile(ctx context.Context, pack *types.Pack, pf *types.PackFile) (Outcome, error) {
	u.ctx = ctx
	dest := u.Destination(pf)
	logger := u.logger.With().Str("pack", pack.Name).Str("path", dest).Logger()

	if u.interrupted() {
		return OutcomeInterrupted, nil
	}
	if u.copied[pf] {
		logger.Debug().Msg("File already installed in this run")
		return OutcomeSkipped, nil
	}
	if !conditions.Evaluate(u.opts.Conditions, pf.Condition) {
		logger.Debug().Str("condition", pf.Condition).Msg("File skipped, condition false")
		u.opts.Metrics.FileOutcome(OutcomeSkipped.String())
		return OutcomeSkipped, nil
	}
	// The destination belongs to the selection even when the override
	// policy keeps the existing file.
	u.ledger.AddFile(dest)

	if stop, err := u.mkdirs(filepath.Dir(dest), pf); stop || err != nil {
		return OutcomeInterrupted, err
	}

	_, statErr := u.opts.FS.Lstat(dest)
	exists := statErr == nil
	if exists {
		overwrite, err := override.ShouldOverwrite(u.opts.FS, dest, pf, u.opts.UI)
		if err != nil {
			return OutcomeSkipped, errors.Wrap(err, errors.ErrFileAccess, "failed to resolve override policy").
				WithDetail("path", dest)
		}
		if !overwrite {
			logger.Debug().Str("override", pf.Override.String()).Msg("Existing file kept")
			u.opts.Metrics.FileOutcome(OutcomeSkipped.String())
			return OutcomeSkipped, nil
		}
	}

	ev := listeners.Event{Path: dest, PackFile: pf, Pack: pack}
	if stop, err := u.notifier.Notify(listeners.BeforeFile, ev); stop || err != nil {
		return OutcomeInterrupted, err
	}

	if exists && pf.OverrideRename != nil {
		u.renameExisting(dest, pf.OverrideRename)
	}

	blockable := u.blockable(pf)
	writePath := dest
	if blockable {
		writePath = filepath.Join(filepath.Dir(dest), TempPrefix+uuid.NewString()+".tmp")
	}

	if err := u.copyFile(pack, pf, writePath); err != nil {
		return OutcomeSkipped, err
	}
	u.copied[pf] = true

	if !pf.ModTime.IsZero() {
		if err := u.opts.FS.Chtimes(writePath, pf.ModTime, pf.ModTime); err != nil {
			logger.Warn().Err(err).Msg("Failed to set modification time")
		}
	}

	if blockable {
		u.queue.EnqueueMove(writePath, dest, true, true)
		u.ledger.AddFile(writePath)
		u.opts.Metrics.FileOutcome(OutcomeQueued.String())
		logger.Info().Str("temp", writePath).Msg("File queued for deferred replacement")
		return OutcomeQueued, nil
	}

	u.opts.Metrics.FileOutcome(OutcomeInstalled.String())
	logger.Debug().Int64("bytes", pf.Length).Msg("File installed")

	if stop, err := u.notifier.Notify(listeners.AfterFile, ev); stop || err != nil {
		return OutcomeInterrupted, err
	}
	return OutcomeInstalled, nil
}

// mkdirs creates dir and its missing parents, outermost first. Listeners
// hear about each directory actually created.
func (u *Unpacker) mkdirs(dir string, pf *types.PackFile) (bool, error) {
	info, err := u.opts.FS.Stat(dir)
	if err == nil {
		if info.IsDir() {
			return false, nil
		}
		return false, u.dirCreateError(dir, fmt.Errorf("%s exists and is not a directory", dir))
	}

	if parent := filepath.Dir(dir); parent != dir {
		if stop, err := u.mkdirs(parent, pf); stop || err != nil {
			return stop, err
		}
	}

	if u.interrupted() {
		return true, nil
	}
	ev := listeners.Event{Path: dir, PackFile: pf}
	if stop, err := u.notifier.Notify(listeners.BeforeDir, ev); stop || err != nil {
		return stop, err
	}
	if err := u.opts.FS.Mkdir(dir, 0755); err != nil {
		return false, u.dirCreateError(dir, err)
	}
	u.opts.Metrics.DirCreated()
	u.logger.Debug().Str("path", dir).Msg("Directory created")
	return u.notifier.Notify(listeners.AfterDir, ev)
}

func (u *Unpacker) dirCreateError(dir string, cause error) error {
	err := errors.Wrap(cause, errors.ErrDirCreate, "could not create directory").WithDetail("path", dir)
	return u.fail("Error creating directories", "Could not create directory\n"+dir, err)
}

// renameExisting moves the current destination aside. Problems are
// reported and the install continues.
func (u *Unpacker) renameExisting(dest string, rule *types.RenameRule) {
	name := filepath.Base(dest)
	mapped, ok := mapName(rule, name)
	if !ok {
		u.logger.Warn().Str("path", dest).Str("from", rule.From).Msg("Rename pattern does not match")
		u.opts.UI.EmitError("Error renaming file", "Cannot map filename "+name+" with pattern "+rule.From)
		return
	}

	target := filepath.Join(filepath.Dir(dest), mapped)
	if _, err := u.opts.FS.Lstat(target); err == nil {
		if err := u.opts.FS.Remove(target); err != nil {
			u.logger.Warn().Err(err).Str("path", target).Msg("Failed to remove previous backup")
		}
	}
	if err := u.opts.FS.Rename(dest, target); err != nil {
		u.logger.Warn().Err(err).Str("path", dest).Msg("Rename failed")
		u.opts.UI.EmitError("Error renaming file", fmt.Sprintf("Cannot rename %s to %s", dest, target))
		return
	}
	u.logger.Info().Str("from", dest).Str("to", target).Msg("Existing file renamed")
}

// copyFile streams the payload of pf into path
func (u *Unpacker) copyFile(pack *types.Pack, pf *types.PackFile, path string) error {
	src, err := u.opts.Payload.Open(pack, pf)
	if err != nil {
		return errors.Wrap(err, errors.ErrPayloadOpen, "failed to open pack file").WithDetail("source", pf.Source)
	}
	defer func() { _ = src.Close() }()

	out, err := u.opts.FS.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileCreate, "failed to create file").WithDetail("path", path)
	}

	copied, err := u.copyStream(src, out, pf.Length)
	u.opts.Metrics.BytesCopied(copied)
	closeErr := out.Close()

	if err != nil {
		if rmErr := u.opts.FS.Remove(path); rmErr != nil {
			u.logger.Warn().Err(rmErr).Str("path", path).Msg("Failed to remove partial file")
		}
		if errors.IsErrorCode(err, errors.ErrStreamCorrupt) {
			return u.fail("An error occurred", "Unexpected end of stream (installer corrupted?)\n"+path,
				errors.Wrap(err, errors.ErrStreamCorrupt, "pack file truncated").WithDetail("path", path))
		}
		return err
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, errors.ErrFileWrite, "failed to close file").WithDetail("path", path)
	}
	return nil
}

// maxEmptyReads bounds consecutive reads returning no data and no error
const maxEmptyReads = 100

// copyStream copies exactly length bytes in chunks of at most the buffer
// size. An early end of src means the payload is corrupted.
func (u *Unpacker) copyStream(src io.Reader, dst io.Writer, length int64) (int64, error) {
	var copied int64
	empty := 0
	for copied < length {
		chunk := int64(len(u.buf))
		if remaining := length - copied; remaining < chunk {
			chunk = remaining
		}
		n, err := src.Read(u.buf[:chunk])
		if n == 0 && err == nil {
			empty++
			if empty >= maxEmptyReads {
				return copied, errors.Wrap(io.ErrNoProgress, errors.ErrFileAccess, "failed to read pack file").
					WithDetail("copied", copied)
			}
			continue
		}
		empty = 0
		if n > 0 {
			if _, werr := dst.Write(u.buf[:n]); werr != nil {
				return copied, errors.Wrap(werr, errors.ErrFileWrite, "failed to write file")
			}
			copied += int64(n)
		}
		if err == io.EOF {
			if copied < length {
				return copied, errors.New(errors.ErrStreamCorrupt, "unexpected end of stream").
					WithDetail("expected", length).
					WithDetail("copied", copied)
			}
			break
		}
		if err != nil {
			return copied, errors.Wrap(err, errors.ErrFileAccess, "failed to read pack file")
		}
	}
	return copied, nil
}
