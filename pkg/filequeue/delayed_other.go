//go:build !windows

package filequeue

import "fmt"

// DelayedMoveCommitter schedules moves for the next reboot. It is only
// available on Windows; use ManifestCommitter elsewhere.
type DelayedMoveCommitter struct{}

// Commit implements Committer
func (DelayedMoveCommitter) Commit(entries []Entry) error {
	return fmt.Errorf("delayed moves are not supported on this platform (%d entries)", len(entries))
}

// Supported reports whether DelayedMoveCommitter works on this platform
func Supported() bool { return false }
