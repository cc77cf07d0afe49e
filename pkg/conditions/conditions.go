// Package conditions provides the condition predicates consulted for
// conditional pack files and executables. Rule evaluation happens upstream;
// these types only answer for ids that are already resolved.
package conditions

import "github.com/arthur-debert/packdrop/pkg/types"

// Static answers from a fixed table. Unknown ids are false.
type Static map[string]bool

// IsTrue implements types.Conditions
func (s Static) IsTrue(id string) bool {
	return s[id]
}

// Func adapts a function to types.Conditions
type Func func(id string) bool

// IsTrue implements types.Conditions
func (f Func) IsTrue(id string) bool {
	return f(id)
}

// Always holds for every id
var Always = Func(func(string) bool { return true })

// Evaluate reports whether a guarded item may proceed: items without a
// condition always do, and a nil predicate denies every condition.
func Evaluate(c types.Conditions, id string) bool {
	if id == "" {
		return true
	}
	if c == nil {
		return false
	}
	return c.IsTrue(id)
}

// Platform returns the built-in platform conditions for goos: is.<goos>,
// plus is.unix on every non-Windows system.
func Platform(goos string) Static {
	s := Static{"is." + goos: true}
	if goos != "windows" {
		s["is.unix"] = true
	}
	return s
}

// With returns a copy of s with every id in ids set to true
func (s Static) With(ids ...string) Static {
	out := make(Static, len(s)+len(ids))
	for id, v := range s {
		out[id] = v
	}
	for _, id := range ids {
		out[id] = true
	}
	return out
}
