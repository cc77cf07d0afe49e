// Package testutil provides utilities for testing packdrop components.
//
// Key components:
//   - NewMemFS: afero-backed in-memory types.FS with file helpers
//   - ScriptedUI: UIHandler that answers questions from a script and
//     records every error report
//   - Recorder: listener that records every notification it receives
//   - MemoryPayload: PayloadSource serving pack file bytes from memory
//   - PackBuilder: declarative pack setup builder
//
// Usage guidelines:
//   - Engine tests run against NewMemFS; only pkg/filesystem and the
//     executables runner touch the real filesystem
//   - All test data is defined inline, not in external files
package testutil
