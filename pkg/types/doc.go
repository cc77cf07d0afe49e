// Package types defines the data model and collaborator interfaces shared by
// the packdrop engine: packs and pack files with their copy policies,
// executables, update checks, the filesystem abstraction, and the narrow
// interfaces through which the engine talks to its UI, variable substitution
// and condition evaluation.
package types
