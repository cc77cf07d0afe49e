// Package variables implements installer variable substitution.
//
// References take the form $NAME or ${NAME}. Names are letters, digits,
// underscores and dots. A reference to an unknown variable is left in the
// text unchanged, and "$$" produces a literal "$".
package variables

import (
	"path/filepath"
	"sort"
	"strings"
)

// Set is a mutable variable table. It implements types.Substitutor.
type Set struct {
	values map[string]string
}

// New returns a set initialized with a copy of values
func New(values map[string]string) *Set {
	s := &Set{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Set assigns a variable
func (s *Set) Set(name, value string) {
	s.values[name] = value
}

// Get returns a variable and whether it is defined
func (s *Set) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Names returns the defined names, sorted
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of the table
func (s *Set) Snapshot() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Substitute replaces every known reference in text. Values are not
// expanded recursively.
func (s *Set) Substitute(text string) string {
	if !strings.Contains(text, "$") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		if c != '$' || i+1 >= len(text) {
			b.WriteByte(c)
			i++
			continue
		}

		next := text[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i += 2

		case next == '{':
			end := strings.IndexByte(text[i+2:], '}')
			if end < 0 {
				b.WriteString(text[i:])
				return b.String()
			}
			name := text[i+2 : i+2+end]
			if v, ok := s.values[name]; ok && validName(name) {
				b.WriteString(v)
			} else {
				b.WriteString(text[i : i+3+end])
			}
			i += 3 + end

		case isNameByte(next):
			j := i + 1
			for j < len(text) && isNameByte(text[j]) {
				j++
			}
			name := text[i+1 : j]
			if v, ok := s.values[name]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(text[i:j])
			}
			i = j

		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func isNameByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return false
		}
	}
	return true
}

// TranslatePath substitutes variables in p and converts both "/" and "\"
// to the separator of the running platform.
func (s *Set) TranslatePath(p string) string {
	p = s.Substitute(p)
	p = strings.ReplaceAll(p, "\\", "/")
	return filepath.FromSlash(p)
}
