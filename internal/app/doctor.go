package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sweep/internal/config"
	"github.com/blackwell-systems/sweep/internal/gitmeta"
	"github.com/blackwell-systems/sweep/internal/output"
	"github.com/blackwell-systems/sweep/internal/scanner"
	"github.com/blackwell-systems/sweep/internal/units"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the sweep setup is healthy",
	Long: `Run a series of health checks against your sweep configuration,
the git binary used for repository metadata and the history ledger.
Prints a pass/fail line for each check and a summary of how many passed.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	applyGlobalFlags()

	var checks []doctorCheck

	// 1. Config file parses (a missing file means defaults).
	cfgCheck, cfg := checkConfig(flagConfig)
	checks = append(checks, cfgCheck)
	if cfg == nil {
		cfg = &config.Config{ScanPath: config.DefaultScanPath, ProbeTimeout: config.DefaultProbeTimeout}
	}

	// 2. git is on PATH and runs.
	checks = append(checks, checkGit(cmd.Context(), cfg.ProbeTimeout))

	// 3. Scan path exists.
	checks = append(checks, checkScanPath(cfg.ScanPath))

	// 4. Extra skip patterns are valid globs.
	checks = append(checks, checkSkipDirs(cfg.SkipDirs))

	// 5. Minimum size and age filters parse.
	checks = append(checks, checkFilters(cfg.MinSize, cfg.OlderThan))

	// 6. History ledger opens.
	checks = append(checks, checkLedger())

	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doctorOutput{
			Checks:      checks,
			PassedCount: passed,
			TotalCount:  len(checks),
		})
	}

	fmt.Fprintln(out, output.Section("Doctor"))
	fmt.Fprintln(out)

	for _, c := range checks {
		indicator := output.StyleSuccess.Render("✓")
		if !c.Passed {
			indicator = output.StyleWarning.Render("✗")
		}
		fmt.Fprintf(out, "  %s  %-30s %s\n", indicator, output.StyleBold.Render(c.Name), output.StyleMuted.Render(c.Message))
	}

	fmt.Fprintln(out)
	summary := fmt.Sprintf("%d/%d checks passed", passed, len(checks))
	if passed == len(checks) {
		fmt.Fprintf(out, " %s\n\n", output.StyleSuccess.Render(summary))
	} else {
		fmt.Fprintf(out, " %s\n\n", output.StyleWarning.Render(summary))
	}
	return nil
}

// checkConfig loads the configuration and reports which file was used.
func checkConfig(cfgFile string) (doctorCheck, *config.Config) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return doctorCheck{Name: "Config file", Passed: false, Message: err.Error()}, nil
	}
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), config.DefaultConfigFile)
	}
	if _, err := os.Stat(path); err != nil {
		return doctorCheck{Name: "Config file", Passed: true, Message: "not found, using defaults"}, cfg
	}
	return doctorCheck{Name: "Config file", Passed: true, Message: path}, cfg
}

// checkGit verifies that git is installed and answers within the probe timeout.
func checkGit(ctx context.Context, timeout time.Duration) doctorCheck {
	path, err := exec.LookPath("git")
	if err != nil {
		return doctorCheck{
			Name:    "git binary",
			Passed:  false,
			Message: "git not found on PATH (dates fall back to file mtimes, dirty state unknown)",
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	res := gitmeta.ExecRunner{Timeout: timeout}.Run(ctx, "", "git", "--version")
	if !res.OK() {
		return doctorCheck{Name: "git binary", Passed: false, Message: fmt.Sprintf("%s did not run: exit %d", path, res.ExitCode)}
	}
	return doctorCheck{Name: "git binary", Passed: true, Message: strings.TrimSpace(res.Stdout)}
}

// checkScanPath verifies that the default scan path is a directory.
func checkScanPath(path string) doctorCheck {
	abs, err := scanner.ResolveRoot(path)
	if err != nil {
		return doctorCheck{Name: "Scan path", Passed: false, Message: err.Error()}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return doctorCheck{Name: "Scan path", Passed: false, Message: fmt.Sprintf("not found: %s", abs)}
	}
	if !info.IsDir() {
		return doctorCheck{Name: "Scan path", Passed: false, Message: fmt.Sprintf("not a directory: %s", abs)}
	}
	return doctorCheck{Name: "Scan path", Passed: true, Message: abs}
}

// checkSkipDirs reports skip_dirs entries that are not valid glob patterns.
func checkSkipDirs(entries []string) doctorCheck {
	var bad []string
	for _, e := range entries {
		if !doublestar.ValidatePattern(e) {
			bad = append(bad, e)
		}
	}
	if len(bad) > 0 {
		return doctorCheck{Name: "Skip patterns", Passed: false, Message: "invalid: " + strings.Join(bad, ", ")}
	}
	return doctorCheck{
		Name:    "Skip patterns",
		Passed:  true,
		Message: fmt.Sprintf("%d built-in, %d configured", len(scanner.DefaultSkipDirs), len(entries)),
	}
}

// checkFilters verifies that the configured size and age filters parse.
func checkFilters(minSize, olderThan string) doctorCheck {
	if minSize != "" {
		if _, err := units.ParseSize(minSize); err != nil {
			return doctorCheck{Name: "Filters", Passed: false, Message: err.Error()}
		}
	}
	if olderThan != "" {
		if _, err := units.ParseAge(olderThan); err != nil {
			return doctorCheck{Name: "Filters", Passed: false, Message: err.Error()}
		}
	}
	return doctorCheck{Name: "Filters", Passed: true, Message: fmt.Sprintf("min_size=%q older_than=%q", minSize, olderThan)}
}

// checkLedger verifies that the history database opens and can be read.
func checkLedger() doctorCheck {
	db, err := openLedger()
	if err != nil {
		return doctorCheck{Name: "History ledger", Passed: false, Message: fmt.Sprintf("cannot open: %v", err)}
	}
	defer db.Close()

	totals, err := db.GetTotals()
	if err != nil {
		return doctorCheck{Name: "History ledger", Passed: false, Message: fmt.Sprintf("cannot read: %v", err)}
	}
	return doctorCheck{
		Name:    "History ledger",
		Passed:  true,
		Message: fmt.Sprintf("%s (%d scans, %s freed)", db.Path(), totals.Scans, units.FormatSize(totals.FreedBytes)),
	}
}
