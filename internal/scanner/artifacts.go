package scanner

import (
	"os"
	"path/filepath"

	"github.com/blackwell-systems/sweep/internal/ecosystem"
)

// DefaultNestedDepth bounds the search for recurring artifacts below a
// project root.
const DefaultNestedDepth = 8

// Locator finds the artifact directories of a single project.
type Locator struct {
	// Skip is honoured by the nested search so it never enters other
	// artifact or VCS directories.
	Skip SkipList

	// Recurring is the artifact name searched for at every depth.
	Recurring string

	// NestedDepth limits the nested search; zero means DefaultNestedDepth.
	NestedDepth int
}

// NewLocator returns a locator using the default skip list and recurring
// artifact name.
func NewLocator() Locator {
	return Locator{
		Skip:      DefaultSkipList(),
		Recurring: ecosystem.RecurringArtifact,
	}
}

// Locate returns the non-empty artifacts of projectPath among names.
// Fixed-location artifacts come first in names order, followed by nested
// instances of the recurring name in traversal order. The nested search
// never enters a fixed-location artifact, so no byte is counted twice.
func (l Locator) Locate(projectPath string, names []string) []Artifact {
	var fixed []Artifact
	measured := make(map[string]bool, len(names))
	nestedWanted := false
	for _, name := range names {
		if l.Recurring != "" && name == l.Recurring {
			nestedWanted = true
		}
		path := filepath.Join(projectPath, filepath.FromSlash(name))
		measured[path] = true
		if isRealDir(path) {
			if size := DirSize(path); size > 0 {
				fixed = append(fixed, Artifact{Path: path, Size: size})
			}
		}
	}
	if !nestedWanted {
		return fixed
	}
	return l.collectNested(projectPath, 0, measured, fixed)
}

// collectNested walks below dir looking for directories named l.Recurring.
// Depth 0 is the project root, whose own instance is reported as a
// fixed-location artifact and skipped here. Directories in measured are
// not entered.
func (l Locator) collectNested(dir string, depth int, measured map[string]bool, acc []Artifact) []Artifact {
	limit := l.NestedDepth
	if limit <= 0 {
		limit = DefaultNestedDepth
	}
	if depth > limit {
		return acc
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return acc
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(dir, name)
		if name == l.Recurring {
			if depth > 0 {
				if size := DirSize(path); size > 0 {
					acc = append(acc, Artifact{Path: path, Size: size})
				}
			}
			continue
		}
		if measured[path] || l.Skip.Contains(name) {
			continue
		}
		acc = l.collectNested(path, depth+1, measured, acc)
	}
	return acc
}
