package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirSize_Empty(t *testing.T) {
	if got := DirSize(t.TempDir()); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestDirSize_Files(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), 1000)
	writeFile(t, filepath.Join(dir, "b.txt"), 24)

	if got := DirSize(dir); got != 1024 {
		t.Errorf("expected 1024, got %d", got)
	}
}

func TestDirSize_Nested(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sub", "deeper", "file.txt"), 500)
	writeFile(t, filepath.Join(dir, "top.txt"), 10)

	if got := DirSize(dir); got != 510 {
		t.Errorf("expected 510, got %d", got)
	}
}

func TestDirSize_DoesNotFollowSymlinks(t *testing.T) {
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "big.bin"), 4096)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "small.txt"), 10)
	if err := os.Symlink(outside, filepath.Join(dir, "linkdir")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "big.bin"), filepath.Join(dir, "linkfile")); err != nil {
		t.Fatal(err)
	}
	// A self-referencing link would loop forever if followed.
	if err := os.Symlink(dir, filepath.Join(dir, "loop")); err != nil {
		t.Fatal(err)
	}

	if got := DirSize(dir); got != 10 {
		t.Errorf("expected 10 (symlink targets excluded), got %d", got)
	}
}

func TestDirSize_MissingPath(t *testing.T) {
	if got := DirSize(filepath.Join(t.TempDir(), "nope")); got != 0 {
		t.Errorf("expected 0 for missing path, got %d", got)
	}
}

func TestDirSize_UnreadableSubtree(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.txt"), 100)
	locked := filepath.Join(dir, "locked")
	writeFile(t, filepath.Join(locked, "secret.txt"), 900)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	if got := DirSize(dir); got != 100 {
		t.Errorf("expected 100 (locked subtree contributes 0), got %d", got)
	}
}
