//go:build windows

package filequeue

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// DelayedMoveCommitter registers every entry with the session manager so
// the move happens on the next reboot, before the locking process starts.
type DelayedMoveCommitter struct{}

// Commit implements Committer
func (DelayedMoveCommitter) Commit(entries []Entry) error {
	for _, e := range entries {
		src, err := windows.UTF16PtrFromString(e.Source)
		if err != nil {
			return err
		}
		dst, err := windows.UTF16PtrFromString(e.Destination)
		if err != nil {
			return err
		}
		flags := uint32(windows.MOVEFILE_DELAY_UNTIL_REBOOT)
		if e.Overwrite {
			flags |= windows.MOVEFILE_REPLACE_EXISTING
		}
		if err := windows.MoveFileEx(src, dst, flags); err != nil {
			return fmt.Errorf("failed to schedule move %s -> %s: %w", e.Source, e.Destination, err)
		}
	}
	return nil
}

// Supported reports whether DelayedMoveCommitter works on this platform
func Supported() bool { return true }
