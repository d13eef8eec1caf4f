package resolve

import (
	"os"
	"path/filepath"
)

// FindProjectRoot walks up from dir looking for directory which contains
// marker entry (file or directory). Filesystem root is returned when nothing
// is found.
func FindProjectRoot(dir, marker string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
