// Package filequeue collects replacements of files that may be locked by the
// operating system while the installer runs. Entries are not applied here:
// Commit hands them to a Committer that performs the moves after the process
// exits or the machine reboots.
package filequeue

import (
	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/types"
)

// Entry is one deferred move of a fully written temp file onto its
// destination.
type Entry struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	ForceInUse  bool   `yaml:"force_in_use"`
	Overwrite   bool   `yaml:"overwrite"`
}

// Committer transfers queued entries to the deferred-execution mechanism.
// Once Commit returns without error the entries are no longer the
// installer's responsibility.
type Committer interface {
	Commit(entries []Entry) error
}

// CommitterFunc adapts a function to Committer
type CommitterFunc func(entries []Entry) error

// Commit implements Committer
func (f CommitterFunc) Commit(entries []Entry) error { return f(entries) }

// Queue holds the entries of a single run in enqueue order.
type Queue struct {
	entries []Entry
}

// New returns an empty queue
func New() *Queue {
	return &Queue{}
}

// EnqueueMove schedules src to replace dst. The temp file src stays on disk
// until the committer's mechanism moves or discards it.
func (q *Queue) EnqueueMove(src, dst string, forceInUse, overwrite bool) {
	q.entries = append(q.entries, Entry{
		Source:      src,
		Destination: dst,
		ForceInUse:  forceInUse,
		Overwrite:   overwrite,
	})
	logger := logging.GetLogger("filequeue")
	logger.Debug().
		Str("source", src).
		Str("destination", dst).
		Msg("Move queued")
}

// Entries returns a copy of the queued entries
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Len returns the number of queued entries
func (q *Queue) Len() int {
	return len(q.entries)
}

// Commit hands every entry to c and empties the queue on success. An empty
// queue never reaches the committer.
func (q *Queue) Commit(c Committer) error {
	if len(q.entries) == 0 {
		return nil
	}
	logger := logging.GetLogger("filequeue")
	if err := c.Commit(q.Entries()); err != nil {
		return errors.Wrap(err, errors.ErrQueueCommit, "failed to commit deferred moves").
			WithDetail("entries", len(q.entries))
	}
	logger.Info().Int("entries", len(q.entries)).Msg("Deferred moves committed")
	q.entries = nil
	return nil
}

// Discard drops every entry and removes its temp file. It stands in for the
// deferred mechanism when a run ends before the queue was committed, and
// returns the number of temp files removed.
func (q *Queue) Discard(fsys types.FS) int {
	logger := logging.GetLogger("filequeue")
	removed := 0
	for _, e := range q.entries {
		if err := fsys.Remove(e.Source); err != nil {
			logger.Warn().Err(err).Str("path", e.Source).Msg("Failed to remove queued temp file")
			continue
		}
		removed++
	}
	if len(q.entries) > 0 {
		logger.Info().Int("entries", len(q.entries)).Msg("Deferred moves discarded")
	}
	q.entries = nil
	return removed
}
