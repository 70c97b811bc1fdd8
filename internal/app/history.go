package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sweep/internal/output"
	"github.com/blackwell-systems/sweep/internal/store"
	"github.com/blackwell-systems/sweep/internal/units"
)

var historyFlagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past scans and the space reclaimed by cleanups",
	Long: `History lists recent scans with how much was reclaimable at the time,
followed by the cleanups that actually freed space. Records live in the
SQLite ledger next to the config file (~/.config/sweep/sweep.db).`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlagLimit, "limit", "n", 10, "Number of scans and cleanups to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

// historyOutput is the JSON-serializable result of the history command.
type historyOutput struct {
	Scans    []store.Scan    `json:"scans"`
	Cleanups []store.Cleanup `json:"cleanups"`
	Totals   store.Totals    `json:"totals"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	applyGlobalFlags()

	db, err := openLedger()
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer db.Close()

	scans, err := db.ListScans(historyFlagLimit)
	if err != nil {
		return fmt.Errorf("listing scans: %w", err)
	}
	cleanups, err := db.ListCleanups(historyFlagLimit)
	if err != nil {
		return fmt.Errorf("listing cleanups: %w", err)
	}
	totals, err := db.GetTotals()
	if err != nil {
		return fmt.Errorf("summing ledger: %w", err)
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		doc := historyOutput{Scans: scans, Cleanups: cleanups, Totals: totals}
		if doc.Scans == nil {
			doc.Scans = []store.Scan{}
		}
		if doc.Cleanups == nil {
			doc.Cleanups = []store.Cleanup{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	renderHistory(out, scans, cleanups, totals)
	return nil
}

func renderHistory(w io.Writer, scans []store.Scan, cleanups []store.Cleanup, totals store.Totals) {
	if len(scans) == 0 && len(cleanups) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render("\n No scans recorded yet. Run 'sweep' to create one."))
		return
	}

	fmt.Fprintln(w, output.Section("Scans"))
	fmt.Fprintln(w)
	tbl := output.NewTable("When", "Root", "Projects", "Reclaimable").AlignRight(2, 3)
	for _, s := range scans {
		tbl.AddRow(humanize.Time(s.TakenAt), s.Root, humanize.Comma(int64(s.ProjectCount)), units.FormatSize(s.ReclaimableBytes))
	}
	_ = tbl.Fprint(w)

	if len(cleanups) > 0 {
		fmt.Fprintln(w, output.Section("Cleanups"))
		fmt.Fprintln(w)
		tbl = output.NewTable("When", "Project", "Type", "Freed", "Failed").AlignRight(3, 4)
		for _, c := range cleanups {
			failed := ""
			if c.Failed > 0 {
				failed = output.StyleWarning.Render(fmt.Sprintf("%d", c.Failed))
			}
			tbl.AddRow(humanize.Time(c.CleanedAt), c.ProjectPath, c.Ecosystem, units.FormatSize(c.FreedBytes), failed)
		}
		_ = tbl.Fprint(w)
	}

	fmt.Fprintln(w, output.Section("Summary"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n",
		output.StyleLabel.Render("Scans recorded:"),
		output.StyleValue.Render(humanize.Comma(int64(totals.Scans))))
	fmt.Fprintf(w, " %s %s\n",
		output.StyleLabel.Render("Cleanups:"),
		output.StyleValue.Render(humanize.Comma(int64(totals.Cleanups))))
	fmt.Fprintf(w, " %s %s\n\n",
		output.StyleLabel.Render("Total freed:"),
		output.StyleValue.Render(units.FormatSize(totals.FreedBytes)))
}
