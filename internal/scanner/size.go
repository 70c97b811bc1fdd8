package scanner

import (
	"os"
	"path/filepath"
)

// DirSize returns the total size of regular files under path. Symlinks are
// never followed and unreadable entries contribute zero, so the result is
// a lower bound when permissions are restricted.
func DirSize(path string) int64 {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}

	var total int64
	for _, e := range entries {
		switch t := e.Type(); {
		case t.IsRegular():
			info, err := e.Info()
			if err != nil {
				continue
			}
			total += info.Size()
		case t.IsDir():
			total += DirSize(filepath.Join(path, e.Name()))
		}
	}
	return total
}

// isRealDir reports whether path is a directory and not a symlink to one.
func isRealDir(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}
