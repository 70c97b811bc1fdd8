package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sweep/internal/cleaner"
	"github.com/blackwell-systems/sweep/internal/config"
	"github.com/blackwell-systems/sweep/internal/gitmeta"
	"github.com/blackwell-systems/sweep/internal/output"
	"github.com/blackwell-systems/sweep/internal/scanner"
	"github.com/blackwell-systems/sweep/internal/store"
	"github.com/blackwell-systems/sweep/internal/tui"
	"github.com/blackwell-systems/sweep/internal/units"
)

var (
	flagDryRun    bool
	flagMinSize   string
	flagOlderThan string
	flagDepth     int
	flagSort      string
	flagYes       bool
)

// openLedger opens the scan history database.
var openLedger = func() (*store.DB, error) {
	return store.Open(config.DBPath())
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runSettings is the configuration for one run after flags override config.
type runSettings struct {
	root      string
	minSize   int64
	olderThan int
	hasAge    bool
	depth     int
	sortKey   scanner.SortKey
}

func resolveSettings(cmd *cobra.Command, args []string, cfg *config.Config) (runSettings, error) {
	s := runSettings{root: cfg.ScanPath, depth: cfg.MaxDepth}
	if len(args) == 1 {
		s.root = args[0]
	}
	if cmd.Flags().Changed("depth") {
		s.depth = flagDepth
	}
	if s.depth < 0 {
		return s, fmt.Errorf("invalid depth: %d", s.depth)
	}

	minSize := cfg.MinSize
	if cmd.Flags().Changed("min-size") {
		minSize = flagMinSize
	}
	if minSize != "" {
		n, err := units.ParseSize(minSize)
		if err != nil {
			return s, err
		}
		s.minSize = n
	}

	olderThan := cfg.OlderThan
	if cmd.Flags().Changed("older-than") {
		olderThan = flagOlderThan
	}
	if olderThan != "" {
		days, err := units.ParseAge(olderThan)
		if err != nil {
			return s, err
		}
		s.olderThan, s.hasAge = days, true
	}

	sortBy := cfg.Sort
	if cmd.Flags().Changed("sort") {
		sortBy = flagSort
	}
	key, err := scanner.ParseSortKey(sortBy)
	if err != nil {
		return s, err
	}
	s.sortKey = key
	return s, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	applyGlobalFlags()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Output.Color {
		output.SetNoColor(true)
	}

	set, err := resolveSettings(cmd, args, cfg)
	if err != nil {
		return err
	}

	root, err := scanner.ResolveRoot(set.root)
	if err != nil {
		return fmt.Errorf("resolving scan root: %w", err)
	}

	opts := scanner.Options{
		MaxDepth:     set.depth,
		MinSize:      set.minSize,
		Skip:         scanner.DefaultSkipList().With(cfg.SkipDirs...),
		Prober:       gitmeta.NewProbe(cfg.ProbeTimeout),
		ProbeWorkers: cfg.ProbeWorkers,
	}
	progress := output.NewProgress(os.Stderr, root)
	if !flagJSON {
		opts.Observer = progress
	}

	start := time.Now()
	projects, err := scanner.Scan(cmd.Context(), root, opts)
	progress.Done()
	if err != nil {
		return fmt.Errorf("scanning %s: %w", root, err)
	}
	output.Verbosef("scanned %d directories under %s in %s", progress.Dirs(), root, time.Since(start).Round(time.Millisecond))

	if set.hasAge {
		projects = scanner.FilterOlderThan(projects, units.AgeCutoff(set.olderThan, time.Now()))
	}
	scanner.Sort(projects, set.sortKey)

	ledger := openLedgerBestEffort()
	if ledger != nil {
		defer ledger.Close()
	}
	scanID := recordScan(ledger, root, projects)

	out := cmd.OutOrStdout()
	switch {
	case flagJSON:
		return renderSweepJSON(out, projects)
	case len(projects) == 0:
		fmt.Fprintln(out, output.StyleMuted.Render("No projects with cleanable artifacts found."))
		return nil
	case flagDryRun:
		renderSweepTable(out, projects)
		return nil
	case flagYes:
		return cleanProjects(out, ledger, scanID, projects)
	case !isTerminal(os.Stdin) || !isTerminal(os.Stdout):
		renderSweepTable(out, projects)
		return nil
	}

	freed, err := tui.Run(projects, func(p scanner.Project) int64 {
		res := cleaner.New().Clean(p)
		recordCleanup(ledger, scanID, res)
		return res.Freed
	})
	if err != nil {
		return fmt.Errorf("running selector: %w", err)
	}
	if freed > 0 {
		fmt.Fprintf(out, " %s\n", output.StyleSuccess.Render("Freed "+units.FormatSize(freed)))
	}
	return nil
}

// cleanProjects deletes every listed project's artifacts without prompting.
func cleanProjects(w io.Writer, ledger *store.DB, scanID int64, projects []scanner.Project) error {
	c := cleaner.New()
	c.OnArtifact = func(o cleaner.Outcome) {
		if o.Err != nil {
			output.Warnf("%v", o.Err)
			return
		}
		output.Verbosef("removed %s (%s)", o.Artifact.Path, units.FormatSize(o.Artifact.Size))
	}

	rep := c.CleanAll(projects)
	for _, res := range rep.Results {
		recordCleanup(ledger, scanID, res)
		fmt.Fprintf(w, "  %s %s %s\n",
			output.StyleSuccess.Render("✓"),
			res.Project.Name,
			output.StyleMuted.Render("freed "+units.FormatSize(res.Freed)))
	}

	summary := fmt.Sprintf("Freed %s across %d projects", units.FormatSize(rep.Freed), len(rep.Results))
	if rep.Failed > 0 {
		summary += fmt.Sprintf(" (%d artifacts could not be removed)", rep.Failed)
		fmt.Fprintf(w, "\n %s\n\n", output.StyleWarning.Render(summary))
		return nil
	}
	fmt.Fprintf(w, "\n %s\n\n", output.StyleSuccess.Render(summary))
	return nil
}

// sweepJSON is the JSON document printed by --json.
type sweepJSON struct {
	TotalProjects  int           `json:"total_projects"`
	TotalSize      int64         `json:"total_size"`
	TotalSizeHuman string        `json:"total_size_human"`
	Projects       []projectJSON `json:"projects"`
}

type projectJSON struct {
	Path         string             `json:"path"`
	Name         string             `json:"name"`
	Ecosystem    string             `json:"ecosystem"`
	Size         int64              `json:"size"`
	SizeHuman    string             `json:"size_human"`
	LastModified *string            `json:"last_modified"`
	GitDirty     gitmeta.Tristate   `json:"git_dirty"`
	Artifacts    []scanner.Artifact `json:"artifacts"`
}

func renderSweepJSON(w io.Writer, projects []scanner.Project) error {
	total := scanner.TotalSize(projects)
	doc := sweepJSON{
		TotalProjects:  len(projects),
		TotalSize:      total,
		TotalSizeHuman: units.FormatSize(total),
		Projects:       make([]projectJSON, 0, len(projects)),
	}
	for _, p := range projects {
		pj := projectJSON{
			Path:      p.Path,
			Name:      p.Name,
			Ecosystem: p.Ecosystem,
			Size:      p.Size(),
			SizeHuman: units.FormatSize(p.Size()),
			GitDirty:  p.Dirty,
			Artifacts: p.Artifacts,
		}
		if p.LastModified != nil {
			ts := p.LastModified.Format(time.RFC3339)
			pj.LastModified = &ts
		}
		doc.Projects = append(doc.Projects, pj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func renderSweepTable(w io.Writer, projects []scanner.Project) {
	total := scanner.TotalSize(projects)
	now := time.Now()

	fmt.Fprintln(w, output.Section(fmt.Sprintf("Sweep - %d projects | %s reclaimable", len(projects), units.FormatSize(total))))
	fmt.Fprintln(w)

	tbl := output.NewTable("Project", "Type", "Size", "Share", "Modified", "Status").AlignRight(2, 4, 5)
	for _, p := range projects {
		name := p.Name
		if r := []rune(name); len(r) > 33 {
			name = string(r[:32]) + "…"
		}

		var status string
		switch p.Dirty {
		case gitmeta.Dirty:
			status = output.StyleDirty.Render("dirty")
		case gitmeta.Clean:
			status = output.StyleClean.Render("clean")
		}

		share := 0.0
		if total > 0 {
			share = float64(p.Size()) / float64(total)
		}

		tbl.AddRow(name, p.Ecosystem, output.StyleSize.Render(units.FormatSize(p.Size())), output.ShareBar(share, 10),
			units.FormatAge(p.LastModified, now), status)
	}
	_ = tbl.Fprint(w)

	fmt.Fprintf(w, "\n %s %s\n\n",
		output.StyleLabel.Render("Total:"),
		output.StyleBold.Render(fmt.Sprintf("%s across %d projects", units.FormatSize(total), len(projects))))
}

// openLedgerBestEffort opens the history ledger. History is optional, so
// failures are reported under --verbose and otherwise ignored.
func openLedgerBestEffort() *store.DB {
	db, err := openLedger()
	if err != nil {
		output.Verbosef("history disabled: %v", err)
		return nil
	}
	return db
}

func recordScan(db *store.DB, root string, projects []scanner.Project) int64 {
	if db == nil {
		return 0
	}
	id, err := db.CreateScan(&store.Scan{
		Root:             root,
		ProjectCount:     len(projects),
		ReclaimableBytes: scanner.TotalSize(projects),
		Version:          appVersion,
	})
	if err != nil {
		output.Verbosef("recording scan: %v", err)
		return 0
	}
	return id
}

func recordCleanup(db *store.DB, scanID int64, res cleaner.Result) {
	if db == nil {
		return
	}
	err := db.InsertCleanup(&store.Cleanup{
		ScanID:      scanID,
		ProjectPath: res.Project.Path,
		Ecosystem:   res.Project.Ecosystem,
		FreedBytes:  res.Freed,
		Failed:      res.Failed,
	})
	if err != nil {
		output.Verbosef("recording cleanup: %v", err)
	}
}
