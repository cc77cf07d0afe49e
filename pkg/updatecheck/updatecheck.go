// Package updatecheck finds and removes files left behind by a previous
// installation that the current run no longer ships.
//
// Patterns follow the installer descriptor conventions: they are relative
// to the installation root, "\" is accepted as a separator, and a pattern
// ending in "/" matches everything below that directory.
package updatecheck

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// Stale lists absolute paths to delete
type Stale struct {
	Files []string
	Dirs  []string
}

// Empty reports whether there is nothing to delete
func (s Stale) Empty() bool {
	return len(s.Files) == 0 && len(s.Dirs) == 0
}

// Installed answers whether a destination was written by the current run
type Installed interface {
	Contains(path string) bool
}

type patternSet struct {
	includes []string
	excludes []string
}

func normalizePattern(p string, subst types.Substitutor) string {
	if subst != nil {
		p = subst.Substitute(p)
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	if strings.HasSuffix(p, "/") {
		p += "**"
	}
	return p
}

func buildPatterns(checks []types.UpdateCheck, subst types.Substitutor) (patternSet, error) {
	var set patternSet
	for _, check := range checks {
		for _, p := range check.Includes {
			p = normalizePattern(p, subst)
			if !doublestar.ValidatePattern(p) {
				return set, errors.Newf(errors.ErrUpdateCheck, "invalid include pattern %q", p)
			}
			set.includes = append(set.includes, p)
		}
		for _, p := range check.Excludes {
			p = normalizePattern(p, subst)
			if !doublestar.ValidatePattern(p) {
				return set, errors.Newf(errors.ErrUpdateCheck, "invalid exclude pattern %q", p)
			}
			set.excludes = append(set.excludes, p)
		}
	}
	return set, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (s patternSet) matches(rel string) bool {
	return matchAny(s.includes, rel) && !matchAny(s.excludes, rel)
}

// ComputeStale scans installRoot for entries selected by checks that the
// current run did not install. Installed paths are compared after being
// resolved against installRoot.
func ComputeStale(fsys types.FS, installRoot string, checks []types.UpdateCheck, installed Installed, subst types.Substitutor) (Stale, error) {
	var stale Stale
	if len(checks) == 0 {
		return stale, nil
	}

	set, err := buildPatterns(checks, subst)
	if err != nil {
		return stale, err
	}
	if len(set.includes) == 0 {
		return stale, nil
	}

	root := filepath.Clean(installRoot)
	err = walk(fsys, root, "", func(rel string, entry fs.DirEntry) {
		if !set.matches(rel) {
			return
		}
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if installed != nil && installed.Contains(abs) {
			return
		}
		if entry.IsDir() {
			stale.Dirs = append(stale.Dirs, abs)
		} else {
			stale.Files = append(stale.Files, abs)
		}
	})
	if err != nil {
		return Stale{}, errors.Wrap(err, errors.ErrUpdateCheck, "failed to scan installation root").
			WithDetail("root", root)
	}

	// Deepest directories first so parents can become empty.
	sort.SliceStable(stale.Dirs, func(i, j int) bool {
		return depth(stale.Dirs[i]) > depth(stale.Dirs[j])
	})
	return stale, nil
}

func walk(fsys types.FS, root, rel string, visit func(rel string, entry fs.DirEntry)) error {
	entries, err := fsys.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		childRel := path.Join(rel, entry.Name())
		visit(childRel, entry)
		if entry.IsDir() {
			if err := walk(fsys, root, childRel, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

func depth(p string) int {
	return strings.Count(filepath.ToSlash(p), "/")
}

// Apply deletes stale files, then stale directories that are empty by then.
// Failures are logged and the pass continues. It returns the number of
// deleted entries.
func Apply(fsys types.FS, stale Stale, logger zerolog.Logger) int {
	deleted := 0
	for _, f := range stale.Files {
		if err := fsys.Remove(f); err != nil {
			logger.Warn().Err(err).Str("path", f).Msg("Failed to delete stale file")
			continue
		}
		logger.Debug().Str("path", f).Msg("Stale file deleted")
		deleted++
	}
	for _, d := range stale.Dirs {
		entries, err := fsys.ReadDir(d)
		if err != nil {
			logger.Warn().Err(err).Str("path", d).Msg("Failed to read stale directory")
			continue
		}
		if len(entries) > 0 {
			logger.Debug().Str("path", d).Int("entries", len(entries)).Msg("Stale directory not empty, kept")
			continue
		}
		if err := fsys.Remove(d); err != nil {
			logger.Warn().Err(err).Str("path", d).Msg("Failed to delete stale directory")
			continue
		}
		logger.Debug().Str("path", d).Msg("Stale directory deleted")
		deleted++
	}
	return deleted
}
