package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/sweep/internal/ecosystem"
)

func walk(t *testing.T, root string, opts Options) []Project {
	t.Helper()
	return NewWalker(opts).Walk(root)
}

func TestWalk_SingleNodeProject(t *testing.T) {
	root := t.TempDir()
	proj := nodeProject(t, root, "my-app", 500)

	got := walk(t, proj, testOptions())

	require.Len(t, got, 1)
	assert.Equal(t, "my-app", got[0].Name)
	assert.Equal(t, ecosystem.NodeJS, got[0].Ecosystem)
	assert.GreaterOrEqual(t, got[0].Size(), int64(500))
}

func TestWalk_EmptyArtifactsYieldNothing(t *testing.T) {
	root := t.TempDir()
	proj := nodeProject(t, root, "empty-proj", 0)

	assert.Empty(t, walk(t, proj, testOptions()))
}

func TestWalk_EmptyRoot(t *testing.T) {
	got := walk(t, t.TempDir(), testOptions())
	assert.Empty(t, got)
}

func TestWalk_SiblingProjects(t *testing.T) {
	root := t.TempDir()
	nodeProject(t, root, "web-app", 1000)
	api := filepath.Join(root, "api")
	writeFile(t, filepath.Join(api, "pyproject.toml"), 1)
	writeFile(t, filepath.Join(api, ".venv", "bin"), 500)

	got := walk(t, root, testOptions())

	require.Len(t, got, 2)
	bySystem := map[string]Project{}
	for _, p := range got {
		bySystem[p.Ecosystem] = p
	}
	assert.Equal(t, int64(1000), bySystem[ecosystem.NodeJS].Size())
	assert.Equal(t, int64(500), bySystem[ecosystem.Python].Size())
}

func TestWalk_MinSize(t *testing.T) {
	root := t.TempDir()
	nodeProject(t, root, "tiny", 10)
	nodeProject(t, root, "exact", 2048)
	nodeProject(t, root, "large", 4096)

	for _, tc := range []struct {
		minSize int64
		want    []string
	}{
		{0, []string{"exact", "large", "tiny"}},
		{11, []string{"exact", "large"}},
		{2048, []string{"exact", "large"}},
		{2049, []string{"large"}},
		{1024 * 1024, nil},
	} {
		opts := testOptions()
		opts.MinSize = tc.minSize

		var names []string
		for _, p := range walk(t, root, opts) {
			names = append(names, p.Name)
		}
		assert.Equal(t, tc.want, names, "minSize=%d", tc.minSize)
	}
}

func TestWalk_DoesNotDescendIntoProjects(t *testing.T) {
	root := t.TempDir()
	mono := nodeProject(t, root, "monorepo", 100)
	nodeProject(t, filepath.Join(mono, "packages"), "inner", 300)
	rust := filepath.Join(mono, "crates", "core")
	writeFile(t, filepath.Join(rust, "Cargo.toml"), 1)
	writeFile(t, filepath.Join(rust, "target", "lib.rlib"), 300)

	got := walk(t, root, testOptions())

	require.Len(t, got, 1)
	assert.Equal(t, mono, got[0].Path)
	assert.Equal(t, int64(100), got[0].Size())
}

func TestWalk_MatchedRootWithoutArtifactsStillPrunes(t *testing.T) {
	root := t.TempDir()
	outer := filepath.Join(root, "outer")
	writeFile(t, filepath.Join(outer, "go.mod"), 1)
	nodeProject(t, outer, "web", 100)

	assert.Empty(t, walk(t, root, testOptions()))
}

func TestWalk_NoProjectIsAncestorOfAnother(t *testing.T) {
	root := t.TempDir()
	nodeProject(t, root, "a", 10)
	nodeProject(t, filepath.Join(root, "group"), "b", 10)
	nodeProject(t, filepath.Join(root, "group", "b"), "c", 10)
	nodeProject(t, filepath.Join(root, "deep", "x", "y"), "d", 10)

	got := walk(t, root, testOptions())

	require.Len(t, got, 3)
	for _, p := range got {
		for _, q := range got {
			if p.Path == q.Path {
				continue
			}
			assert.False(t, strings.HasPrefix(q.Path, p.Path+string(filepath.Separator)),
				"%s is nested inside %s", q.Path, p.Path)
		}
	}
}

func TestWalk_RootItselfIsProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), 1)
	writeFile(t, filepath.Join(root, "node_modules", "a.js"), 10)
	nodeProject(t, root, "child", 10)

	got := walk(t, root, testOptions())

	require.Len(t, got, 1)
	assert.Equal(t, root, got[0].Path)
}

func TestWalk_SkipsHiddenAndSkipListed(t *testing.T) {
	root := t.TempDir()
	nodeProject(t, filepath.Join(root, ".hidden"), "p1", 10)
	nodeProject(t, filepath.Join(root, "Library"), "p2", 10)
	nodeProject(t, filepath.Join(root, "node_modules"), "p3", 10)
	nodeProject(t, filepath.Join(root, "visible"), "p4", 10)

	got := walk(t, root, testOptions())

	require.Len(t, got, 1)
	assert.Equal(t, "p4", got[0].Name)
}

func TestWalk_ExtraSkipGlobs(t *testing.T) {
	root := t.TempDir()
	nodeProject(t, filepath.Join(root, "archive-2019"), "old", 10)
	nodeProject(t, filepath.Join(root, "work"), "new", 10)

	opts := testOptions()
	opts.Skip = DefaultSkipList().With("archive-*")

	got := walk(t, root, opts)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Name)
}

func TestWalk_DoesNotFollowSymlinks(t *testing.T) {
	target := t.TempDir()
	nodeProject(t, target, "linked", 10)
	root := t.TempDir()
	if err := os.Symlink(target, filepath.Join(root, "shortcut")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	assert.Empty(t, walk(t, root, testOptions()))
}

func TestWalk_DepthLimit(t *testing.T) {
	root := t.TempDir()
	// Project root sits at depth 3.
	nodeProject(t, filepath.Join(root, "a", "b"), "c", 10)

	opts := testOptions()
	opts.MaxDepth = 2
	assert.Empty(t, walk(t, root, opts))

	opts.MaxDepth = 3
	assert.Len(t, walk(t, root, opts), 1)

	opts.MaxDepth = 0
	assert.Empty(t, walk(t, root, opts))
}

func TestWalk_ObserverSeesEachVisitedDirectory(t *testing.T) {
	root := t.TempDir()
	nodeProject(t, root, "proj", 10)
	mkdir(t, filepath.Join(root, "docs", "img"))
	mkdir(t, filepath.Join(root, ".git"))

	var visited []string
	opts := testOptions()
	opts.Observer = ObserverFunc(func(p string) { visited = append(visited, p) })
	walk(t, root, opts)

	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "docs"),
		filepath.Join(root, "docs", "img"),
		filepath.Join(root, "proj"),
	}, visited)
}

func TestWalk_UnreadableDirectoryIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	nodeProject(t, root, "ok", 10)
	locked := filepath.Join(root, "locked")
	nodeProject(t, locked, "hidden-from-us", 10)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got := walk(t, root, testOptions())
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Name)
}

func TestWalk_DiscoveryOrder(t *testing.T) {
	root := t.TempDir()
	nodeProject(t, root, "charlie", 10)
	nodeProject(t, root, "alpha", 10)
	nodeProject(t, filepath.Join(root, "bravo-group"), "bravo", 10)

	var names []string
	for _, p := range walk(t, root, testOptions()) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, names)
}
