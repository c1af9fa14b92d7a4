package filesystem

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/m8db/pkg/types"
)

// EnsureParentDir creates the directory containing path if it is missing.
// Nothing is written when the directory already exists.
func EnsureParentDir(fs types.FS, path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if _, err := fs.Stat(dir); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return fs.MkdirAll(dir, 0755)
}
