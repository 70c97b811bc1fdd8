// Package app contains the Cobra command tree for sweep.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sweep/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "sweep [path]",
	Short: "Find and clean dev artifacts across all your projects",
	Long: `sweep walks a directory tree looking for development projects
(Node.js, Python, Rust, Go, Java, .NET, Flutter, Ruby and more), measures
the regenerable artifacts they carry (node_modules, .venv, target, build
output, caches) and lets you pick which ones to delete.

Run 'sweep' in a terminal to browse projects interactively, or use
--dry-run for a plain report and --json for machine-readable output.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSweep,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// applyGlobalFlags configures output from the persistent flags.
func applyGlobalFlags() {
	if flagNoColor {
		output.SetNoColor(true)
	}
	output.SetVerbose(flagVerbose)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/sweep/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")

	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Show results without the interactive selector (no deletion)")
	rootCmd.Flags().StringVar(&flagMinSize, "min-size", "", "Minimum reclaimable size per project (e.g. 100MB, 1GB)")
	rootCmd.Flags().StringVar(&flagOlderThan, "older-than", "", "Only show projects last modified before this age (e.g. 30d, 6m, 1y)")
	rootCmd.Flags().IntVar(&flagDepth, "depth", 5, "Maximum directory depth to scan")
	rootCmd.Flags().StringVar(&flagSort, "sort", "size", "Sort by: size, date, name")
	rootCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Delete every listed project's artifacts without prompting")
}
