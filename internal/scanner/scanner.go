package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/sweep/internal/ecosystem"
	"github.com/blackwell-systems/sweep/internal/gitmeta"
)

// DefaultMaxDepth is the default traversal depth below the scan root.
const DefaultMaxDepth = 5

// DefaultProbeWorkers bounds concurrent git queries during enrichment.
const DefaultProbeWorkers = 4

// Prober supplies repository metadata for a project root.
type Prober interface {
	Probe(ctx context.Context, dir string) gitmeta.Metadata
}

// Options configures a scan. The zero value scans the root only, with
// default registry, skip list and git probe.
type Options struct {
	// MaxDepth is the deepest level, relative to the root, that is inspected.
	MaxDepth int

	// MinSize drops projects whose total artifact size is below it.
	MinSize int64

	// Skip lists directory names never descended into.
	Skip SkipList

	// NestedDepth bounds the recurring-artifact search inside a project.
	NestedDepth int

	// Registry classifies directories.
	Registry *ecosystem.Registry

	// Prober enriches emitted projects.
	Prober Prober

	// ProbeWorkers caps concurrent probes.
	ProbeWorkers int

	// Observer receives one Visit per directory inspected.
	Observer Observer
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = ecosystem.Default()
	}
	if o.Skip.IsZero() {
		o.Skip = DefaultSkipList()
	}
	if o.Prober == nil {
		o.Prober = gitmeta.NewProbe(gitmeta.DefaultTimeout)
	}
	if o.ProbeWorkers <= 0 {
		o.ProbeWorkers = DefaultProbeWorkers
	}
	if o.MinSize < 0 {
		o.MinSize = 0
	}
	return o
}

// Scan walks root and returns every project with reclaimable artifacts,
// enriched with repository metadata and sorted by size, largest first.
// Filesystem and git failures never abort the scan; the only error is a
// root path that cannot be resolved.
func Scan(ctx context.Context, root string, opts Options) ([]Project, error) {
	abs, err := ResolveRoot(root)
	if err != nil {
		return nil, fmt.Errorf("resolving scan root: %w", err)
	}

	opts = opts.withDefaults()
	projects := NewWalker(opts).Walk(abs)
	Enrich(ctx, projects, opts.Prober, opts.ProbeWorkers)
	Sort(projects, SortBySize)
	return projects, nil
}

// Enrich fills LastModified and Dirty for each project, running at most
// workers probes at once. Traversal has already finished, so concurrency
// here cannot affect which projects were found.
func Enrich(ctx context.Context, projects []Project, prober Prober, workers int) {
	if workers <= 0 {
		workers = DefaultProbeWorkers
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range projects {
		g.Go(func() error {
			md := prober.Probe(gctx, projects[i].Path)
			projects[i].LastModified = md.LastModified
			projects[i].Dirty = md.Dirty
			return nil
		})
	}
	_ = g.Wait()
}

// ResolveRoot expands a leading ~ and returns an absolute, cleaned path.
func ResolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	if root == "~" || strings.HasPrefix(root, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		root = filepath.Join(home, strings.TrimPrefix(root, "~"))
	}
	return filepath.Abs(root)
}
