package ecosystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match is the result of classifying a project root.
type Match struct {
	Ecosystem string
	Artifacts []string
}

// Match classifies dir. ok is false when dir is not a project root of any
// known ecosystem.
func (r *Registry) Match(dir string) (Match, bool) {
	return r.match(&listing{dir: dir})
}

// MatchEntries is Match for callers that already hold dir's listing.
func (r *Registry) MatchEntries(dir string, entries []fs.DirEntry) (Match, bool) {
	return r.match(&listing{dir: dir, entries: entries, loaded: true})
}

func (r *Registry) match(l *listing) (Match, bool) {
	if r.override != "" {
		if rule, ok := r.Lookup(r.override); ok && l.satisfies(rule.Markers) {
			return newMatch(rule), true
		}
	}
	for _, rule := range r.rules {
		if rule.Name == r.override {
			continue
		}
		if l.satisfies(rule.Markers) {
			return newMatch(rule), true
		}
	}
	return Match{}, false
}

func newMatch(rule Rule) Match {
	return Match{
		Ecosystem: rule.Name,
		Artifacts: append([]string(nil), rule.Artifacts...),
	}
}

// listing lazily reads a directory once per classification.
type listing struct {
	dir     string
	entries []fs.DirEntry
	loaded  bool
}

func (l *listing) list() []fs.DirEntry {
	if !l.loaded {
		l.loaded = true
		l.entries, _ = os.ReadDir(l.dir)
	}
	return l.entries
}

// satisfies reports whether any marker pattern is present.
func (l *listing) satisfies(markers []string) bool {
	for _, m := range markers {
		if isGlob(m) {
			if l.hasFileMatching(m) {
				return true
			}
			continue
		}
		if _, err := os.Stat(filepath.Join(l.dir, m)); err == nil {
			return true
		}
	}
	return false
}

// hasFileMatching checks the immediate children only.
func (l *listing) hasFileMatching(pattern string) bool {
	for _, e := range l.list() {
		ok, err := doublestar.Match(pattern, e.Name())
		if err != nil || !ok {
			continue
		}
		if isFile(l.dir, e) {
			return true
		}
	}
	return false
}

func isFile(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
