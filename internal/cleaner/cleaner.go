// Package cleaner removes the artifact directories of scanned projects.
// Removal is sequential and soft-failing: an artifact that cannot be
// deleted is reported and skipped, and its size is not counted as freed.
package cleaner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/blackwell-systems/sweep/internal/scanner"
)

// ErrAlreadyGone is reported for artifacts that no longer exist.
var ErrAlreadyGone = errors.New("artifact already removed")

// Outcome describes what happened to one artifact.
type Outcome struct {
	Project  string
	Artifact scanner.Artifact
	Err      error
}

// Result summarizes the cleanup of one project.
type Result struct {
	Project  scanner.Project
	Freed    int64
	Deleted  int
	Failed   int
	Outcomes []Outcome
}

// Report summarizes a batch cleanup.
type Report struct {
	Results []Result
	Freed   int64
	Deleted int
	Failed  int
}

// Cleaner deletes artifacts.
type Cleaner struct {
	// DryRun reports what would be freed without removing anything.
	DryRun bool

	// OnArtifact, when set, is called after each artifact is processed.
	OnArtifact func(Outcome)

	remove func(string) error
}

// New returns a cleaner that removes directories with os.RemoveAll.
func New() *Cleaner {
	return &Cleaner{remove: os.RemoveAll}
}

// Clean deletes every artifact of p and returns what was freed.
func (c *Cleaner) Clean(p scanner.Project) Result {
	res := Result{Project: p}
	for _, a := range p.Artifacts {
		out := Outcome{Project: p.Path, Artifact: a, Err: c.removeOne(a.Path)}
		if out.Err == nil {
			res.Freed += a.Size
			res.Deleted++
		} else {
			res.Failed++
		}
		res.Outcomes = append(res.Outcomes, out)
		if c.OnArtifact != nil {
			c.OnArtifact(out)
		}
	}
	return res
}

// CleanAll runs Clean over projects in order, continuing past failures.
func (c *Cleaner) CleanAll(projects []scanner.Project) Report {
	var rep Report
	for _, p := range projects {
		res := c.Clean(p)
		rep.Results = append(rep.Results, res)
		rep.Freed += res.Freed
		rep.Deleted += res.Deleted
		rep.Failed += res.Failed
	}
	return rep
}

// DeleteArtifacts removes p's artifacts and returns the bytes freed.
func DeleteArtifacts(p scanner.Project) int64 {
	return New().Clean(p).Freed
}

func (c *Cleaner) removeOne(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrAlreadyGone
	}
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("refusing to remove %s: not a directory", path)
	}
	if c.DryRun {
		return nil
	}
	remove := c.remove
	if remove == nil {
		remove = os.RemoveAll
	}
	if err := remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
