// Package gitmeta reads best-effort repository metadata for a project:
// when it was last touched and whether its working tree has pending changes.
// Every failure degrades to a fallback value; nothing here returns an error.
package gitmeta

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds each git invocation.
const DefaultTimeout = 5 * time.Second

// Metadata is the enrichment attached to a project.
type Metadata struct {
	LastModified *time.Time
	Dirty        Tristate
}

// Probe queries git for project metadata.
type Probe struct {
	runner Runner
	git    string
}

// NewProbe returns a probe that runs the git binary with the given timeout.
func NewProbe(timeout time.Duration) *Probe {
	return NewProbeWithRunner(ExecRunner{Timeout: timeout})
}

// NewProbeWithRunner returns a probe that executes git through r.
func NewProbeWithRunner(r Runner) *Probe {
	return &Probe{runner: r, git: "git"}
}

// Probe returns the last-modified time and dirty state of dir.
func (p *Probe) Probe(ctx context.Context, dir string) Metadata {
	return Metadata{
		LastModified: p.LastModified(ctx, dir),
		Dirty:        p.Dirty(ctx, dir),
	}
}

// LastModified returns the most recent commit time for a git repository,
// falling back to the newest mtime among dir's immediate children.
func (p *Probe) LastModified(ctx context.Context, dir string) *time.Time {
	if HasRepo(dir) {
		res := p.runner.Run(ctx, dir, p.git, "log", "-1", "--format=%ct")
		if res.OK() {
			if ts, err := strconv.ParseInt(strings.TrimSpace(res.Stdout), 10, 64); err == nil {
				t := time.Unix(ts, 0)
				return &t
			}
		}
	}
	return NewestChildMtime(dir)
}

// Dirty reports whether the working tree has uncommitted changes. Projects
// without a .git directory, and any failed query, yield Unknown.
func (p *Probe) Dirty(ctx context.Context, dir string) Tristate {
	if !HasRepo(dir) {
		return Unknown
	}
	res := p.runner.Run(ctx, dir, p.git, "status", "--porcelain")
	if !res.OK() {
		return Unknown
	}
	return FromBool(strings.TrimSpace(res.Stdout) != "")
}

// HasRepo reports whether dir contains a .git directory.
func HasRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// NewestChildMtime returns the latest modification time among the
// immediate entries of dir, without following symlinks.
func NewestChildMtime(dir string) *time.Time {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var newest time.Time
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mt := info.ModTime(); mt.After(newest) {
			newest = mt
		}
	}
	if newest.IsZero() || newest.Unix() <= 0 {
		return nil
	}
	return &newest
}
