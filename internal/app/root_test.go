package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/sweep/internal/output"
	"github.com/blackwell-systems/sweep/internal/store"
	"github.com/blackwell-systems/sweep/internal/units"
)

// execute runs the root command with args against a throwaway config and
// ledger, returning stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "sweep.db")
	prevOpen := openLedger
	openLedger = func() (*store.DB, error) { return store.Open(ledgerPath) }
	t.Cleanup(func() {
		openLedger = prevOpen
		resetFlags(rootCmd)
		output.SetNoColor(false)
		output.SetVerbose(false)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml"), "--no-color"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

// fixture builds a tree with a Node.js and a Rust project.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "web", "package.json"), 2)
	writeFile(t, filepath.Join(root, "web", "node_modules", "dep.js"), 4096)
	writeFile(t, filepath.Join(root, "engine", "Cargo.toml"), 2)
	writeFile(t, filepath.Join(root, "engine", "target", "debug", "engine"), 1024)
	return root
}

func TestCommands_Registered(t *testing.T) {
	want := map[string]bool{"history": false, "doctor": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "%s subcommand not registered on rootCmd", name)
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"dry-run", "min-size", "older-than", "depth", "sort", "yes"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
	for _, name := range []string{"config", "no-color", "json", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestSweep_JSON(t *testing.T) {
	root := fixture(t)

	out, err := execute(t, root, "--json")
	require.NoError(t, err)

	var doc struct {
		TotalProjects  int    `json:"total_projects"`
		TotalSize      int64  `json:"total_size"`
		TotalSizeHuman string `json:"total_size_human"`
		Projects       []struct {
			Name         string  `json:"name"`
			Ecosystem    string  `json:"ecosystem"`
			Size         int64   `json:"size"`
			SizeHuman    string  `json:"size_human"`
			LastModified *string `json:"last_modified"`
			GitDirty     *bool   `json:"git_dirty"`
			Artifacts    []struct {
				Path string `json:"path"`
				Size int64  `json:"size"`
			} `json:"artifacts"`
		} `json:"projects"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, 2, doc.TotalProjects)
	assert.Equal(t, int64(5120), doc.TotalSize)
	assert.Equal(t, "5.0 KB", doc.TotalSizeHuman)
	require.Len(t, doc.Projects, 2)
	assert.Equal(t, "web", doc.Projects[0].Name)
	assert.Equal(t, "Node.js", doc.Projects[0].Ecosystem)
	assert.Equal(t, "4.0 KB", doc.Projects[0].SizeHuman)
	assert.NotNil(t, doc.Projects[0].LastModified, "mtime fallback applies without git")
	assert.Nil(t, doc.Projects[0].GitDirty, "no repository means unknown")
	require.Len(t, doc.Projects[1].Artifacts, 1)
	assert.Equal(t, filepath.Join(root, "engine", "target"), doc.Projects[1].Artifacts[0].Path)
}

func TestSweep_JSONEmpty(t *testing.T) {
	out, err := execute(t, t.TempDir(), "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_projects":0,"total_size":0,"total_size_human":"0 B","projects":[]}`, out)
}

func TestSweep_SortByName(t *testing.T) {
	out, err := execute(t, fixture(t), "--json", "--sort", "name")
	require.NoError(t, err)

	var doc struct {
		Projects []struct {
			Name string `json:"name"`
		} `json:"projects"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Projects, 2)
	assert.Equal(t, "engine", doc.Projects[0].Name)
}

func TestSweep_MinSizeFilter(t *testing.T) {
	out, err := execute(t, fixture(t), "--json", "--min-size", "2KB")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_projects": 1`)
	assert.Contains(t, out, `"name": "web"`)
}

func TestSweep_OlderThanDropsFreshProjects(t *testing.T) {
	out, err := execute(t, fixture(t), "--json", "--older-than", "30d")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_projects": 0`)
}

func TestSweep_InvalidInput(t *testing.T) {
	_, err := execute(t, t.TempDir(), "--min-size", "lots")
	assert.ErrorIs(t, err, units.ErrInvalidSize)

	_, err = execute(t, t.TempDir(), "--older-than", "soon")
	assert.ErrorIs(t, err, units.ErrInvalidAge)

	_, err = execute(t, t.TempDir(), "--min-size", "1e20GB")
	assert.ErrorIs(t, err, units.ErrInvalidSize)

	_, err = execute(t, t.TempDir(), "--older-than", "99999999999999999y")
	assert.ErrorIs(t, err, units.ErrInvalidAge)

	_, err = execute(t, t.TempDir(), "--sort", "score")
	assert.Error(t, err)

	_, err = execute(t, "a", "b")
	assert.Error(t, err)
}

func TestSweep_DryRunTable(t *testing.T) {
	root := fixture(t)
	out, err := execute(t, root, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "Sweep - 2 projects | 5.0 KB reclaimable")
	assert.Contains(t, out, "web")
	assert.Contains(t, out, "Rust")
	assert.Contains(t, out, "Total:")

	_, err = os.Stat(filepath.Join(root, "web", "node_modules"))
	assert.NoError(t, err, "dry run must not delete")
}

func TestSweep_NoProjects(t *testing.T) {
	out, err := execute(t, t.TempDir(), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects with cleanable artifacts found.")
}

func TestSweep_YesDeletesAndRecords(t *testing.T) {
	root := fixture(t)
	out, err := execute(t, root, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Freed 5.0 KB across 2 projects")

	for _, p := range []string{"web/node_modules", "engine/target"} {
		_, err := os.Stat(filepath.Join(root, p))
		assert.True(t, os.IsNotExist(err), "%s should be removed", p)
	}
	_, err = os.Stat(filepath.Join(root, "web", "package.json"))
	assert.NoError(t, err, "sources are untouched")
}

func TestSweep_YesRecordsLedger(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "ledger.db")
	prev := openLedger
	openLedger = func() (*store.DB, error) { return store.Open(ledgerPath) }
	defer func() { openLedger = prev }()

	root := fixture(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{root, "--yes", "--no-color", "--config", filepath.Join(dir, "none.yaml")})
	t.Cleanup(func() { resetFlags(rootCmd); output.SetNoColor(false) })
	require.NoError(t, rootCmd.Execute())

	db, err := store.Open(ledgerPath)
	require.NoError(t, err)
	defer db.Close()

	totals, err := db.GetTotals()
	require.NoError(t, err)
	assert.Equal(t, store.Totals{Scans: 1, Cleanups: 2, FreedBytes: 5120}, totals)

	cleanups, err := db.ListCleanups(0)
	require.NoError(t, err)
	scan, err := db.GetLatestScan()
	require.NoError(t, err)
	require.NotNil(t, scan)
	for _, c := range cleanups {
		assert.Equal(t, scan.ID, c.ScanID)
	}
}

func TestHistory_EmptyAndJSON(t *testing.T) {
	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No scans recorded yet")

	out, err = execute(t, "history", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"scans":[],"cleanups":[],"totals":{"scans":0,"cleanups":0,"freed_bytes":0}}`, out)
}

func TestDoctor_JSON(t *testing.T) {
	out, err := execute(t, "doctor", "--json")
	require.NoError(t, err)

	var doc doctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, len(doc.Checks), doc.TotalCount)

	byName := map[string]doctorCheck{}
	for _, c := range doc.Checks {
		byName[c.Name] = c
	}
	assert.True(t, byName["Config file"].Passed)
	assert.Equal(t, "not found, using defaults", byName["Config file"].Message)
	assert.True(t, byName["History ledger"].Passed)
	assert.True(t, byName["Skip patterns"].Passed)
}

func TestCheckSkipDirs(t *testing.T) {
	assert.True(t, checkSkipDirs([]string{"archive", "tmp-*"}).Passed)
	assert.False(t, checkSkipDirs([]string{"bad["}).Passed)
}

func TestCheckFilters(t *testing.T) {
	assert.True(t, checkFilters("100MB", "6m").Passed)
	assert.False(t, checkFilters("huge", "").Passed)
	assert.False(t, checkFilters("", "later").Passed)
}
