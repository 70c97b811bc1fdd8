package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/sweep/internal/gitmeta"
)

// writeFile creates path (and parents) with n bytes of content.
func writeFile(t *testing.T, path string, n int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(strings.Repeat("x", n)), 0o644); err != nil {
		t.Fatal(err)
	}
}

// mkdir creates a directory tree.
func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

// nodeProject creates root/name with package.json and a node_modules file
// of the given size.
func nodeProject(t *testing.T, root, name string, size int) string {
	t.Helper()
	dir := filepath.Join(root, name)
	writeFile(t, filepath.Join(dir, "package.json"), 2)
	if size > 0 {
		writeFile(t, filepath.Join(dir, "node_modules", "dep.js"), size)
	} else {
		mkdir(t, filepath.Join(dir, "node_modules"))
	}
	return dir
}

// staticProber returns fixed metadata without touching git.
type staticProber struct {
	md gitmeta.Metadata
}

func (s staticProber) Probe(context.Context, string) gitmeta.Metadata { return s.md }

func testOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth, Prober: staticProber{}}
}
