package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/sweep/internal/ecosystem"
)

// Observer is notified once for every directory the walker visits. It
// cannot influence traversal.
type Observer interface {
	Visit(path string)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(path string)

// Visit calls f(path).
func (f ObserverFunc) Visit(path string) { f(path) }

// Walker performs the depth-bounded descent that discovers project roots.
// A directory that matches an ecosystem is never descended into, so no two
// emitted projects can be nested inside one another.
type Walker struct {
	registry *ecosystem.Registry
	locator  Locator
	maxDepth int
	minSize  int64
	skip     SkipList
	observer Observer
}

// NewWalker builds a walker from opts. Nil registry and empty skip list
// fall back to the defaults.
func NewWalker(opts Options) *Walker {
	opts = opts.withDefaults()
	return &Walker{
		registry: opts.Registry,
		locator: Locator{
			Skip:        opts.Skip,
			Recurring:   ecosystem.RecurringArtifact,
			NestedDepth: opts.NestedDepth,
		},
		maxDepth: opts.MaxDepth,
		minSize:  opts.MinSize,
		skip:     opts.Skip,
		observer: opts.Observer,
	}
}

// Walk returns the projects found under root in discovery order, without
// repository metadata.
func (w *Walker) Walk(root string) []Project {
	return w.walk(root, 0, nil)
}

func (w *Walker) walk(path string, depth int, acc []Project) []Project {
	if depth > w.maxDepth {
		return acc
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return acc
	}
	if w.observer != nil {
		w.observer.Visit(path)
	}

	if m, ok := w.registry.MatchEntries(path, entries); ok {
		artifacts := w.locator.Locate(path, m.Artifacts)
		if p, ok := newProject(path, m.Ecosystem, artifacts, w.minSize); ok {
			acc = append(acc, p)
		}
		return acc
	}

	for _, e := range entries {
		// DirEntry.IsDir is false for symlinks, so links are never followed.
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || w.skip.Contains(name) {
			continue
		}
		acc = w.walk(filepath.Join(path, name), depth+1, acc)
	}
	return acc
}

// newProject applies the emission rule: at least one artifact and a total
// size of at least minSize.
func newProject(path, eco string, artifacts []Artifact, minSize int64) (Project, bool) {
	if len(artifacts) == 0 {
		return Project{}, false
	}
	p := Project{
		Path:      path,
		Name:      filepath.Base(path),
		Ecosystem: eco,
		Artifacts: artifacts,
	}
	if p.Size() < minSize {
		return Project{}, false
	}
	return p, true
}
