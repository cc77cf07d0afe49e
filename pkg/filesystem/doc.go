// Package filesystem provides filesystem implementations for packdrop.
//
// This package contains implementations of the types.FS interface: the
// standard OS filesystem used by real installations and an afero-backed
// filesystem used by tests and dry runs.
package filesystem
