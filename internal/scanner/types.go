// Package scanner finds development projects under a directory tree and
// measures the regenerable artifact directories inside each one.
package scanner

import (
	"time"

	"github.com/blackwell-systems/sweep/internal/gitmeta"
)

// Artifact is a deletable build or dependency directory.
type Artifact struct {
	// Path is the absolute path to the artifact directory.
	Path string `json:"path"`

	// Size is the total size of regular files beneath Path, in bytes.
	Size int64 `json:"size"`
}

// Project is a detected project root together with its artifacts. It is a
// snapshot of the filesystem at scan time and holds no open handles.
type Project struct {
	// Path is the absolute filesystem path to the project root.
	Path string `json:"path"`

	// Name is the directory name of the project.
	Name string `json:"name"`

	// Ecosystem is the display name of the matched ecosystem rule.
	Ecosystem string `json:"ecosystem"`

	// Artifacts lists fixed-location artifacts first, then nested
	// recurring ones in traversal order.
	Artifacts []Artifact `json:"artifacts"`

	// LastModified is the last commit time, or the newest root entry mtime
	// when git is unavailable. Nil when neither could be determined.
	LastModified *time.Time `json:"last_modified"`

	// Dirty is the working-tree state; Unknown outside git repositories.
	Dirty gitmeta.Tristate `json:"git_dirty"`
}

// Size returns the total artifact size in bytes.
func (p Project) Size() int64 {
	var total int64
	for _, a := range p.Artifacts {
		total += a.Size
	}
	return total
}

// TotalSize sums Size across projects.
func TotalSize(projects []Project) int64 {
	var total int64
	for _, p := range projects {
		total += p.Size()
	}
	return total
}
