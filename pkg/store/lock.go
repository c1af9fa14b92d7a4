package store

import (
	"sync"

	"github.com/arthur-debert/m8db/pkg/filesystem"
)

// lockFor returns the process-wide mutex guarding the document at path
func lockFor(path string) *sync.Mutex {
	return filesystem.PathLock(path)
}
