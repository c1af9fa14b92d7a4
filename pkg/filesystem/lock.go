package filesystem

import (
	"path/filepath"
	"sync"
)

var (
	pathLocksMu sync.Mutex
	pathLocks   = make(map[string]*sync.Mutex)
)

// PathKey normalises path to the key used by PathLock
func PathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// PathLock returns the process-wide mutex for path. Every caller naming the
// same file, however spelled, gets the same mutex.
func PathLock(path string) *sync.Mutex {
	key := PathKey(path)

	pathLocksMu.Lock()
	defer pathLocksMu.Unlock()

	mu, ok := pathLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		pathLocks[key] = mu
	}
	return mu
}
