package scanner

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSkipDirs are directory names the walker never descends into:
// version-control internals, dependency and cache directories, and OS
// trash or library folders.
var DefaultSkipDirs = []string{
	".git", ".svn", ".hg",
	"node_modules", ".venv", "venv", "target", "build",
	".Trash", ".cache", "Library", "Applications",
	".local", ".npm", ".cargo", ".rustup",
	"__pycache__", ".tox", ".mypy_cache",
}

// SkipList is an immutable set of directory names, optionally with glob
// patterns such as "cmake-build-*". The zero value skips nothing.
type SkipList struct {
	names map[string]struct{}
	globs []string
}

// NewSkipList builds a skip list from names and glob patterns.
func NewSkipList(entries ...string) SkipList {
	var s SkipList
	return s.With(entries...)
}

// DefaultSkipList returns DefaultSkipDirs as a SkipList.
func DefaultSkipList() SkipList {
	return NewSkipList(DefaultSkipDirs...)
}

// With returns a new list containing s plus entries; s is unchanged.
func (s SkipList) With(entries ...string) SkipList {
	out := SkipList{
		names: make(map[string]struct{}, len(s.names)+len(entries)),
		globs: append([]string(nil), s.globs...),
	}
	for n := range s.names {
		out.names[n] = struct{}{}
	}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.ContainsAny(e, "*?[{") && doublestar.ValidatePattern(e) {
			out.globs = append(out.globs, e)
			continue
		}
		out.names[e] = struct{}{}
	}
	return out
}

// Contains reports whether a directory with the given base name is skipped.
func (s SkipList) Contains(name string) bool {
	if _, ok := s.names[name]; ok {
		return true
	}
	for _, g := range s.globs {
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}
	return false
}

// IsZero reports whether the list is empty.
func (s SkipList) IsZero() bool {
	return len(s.names) == 0 && len(s.globs) == 0
}
