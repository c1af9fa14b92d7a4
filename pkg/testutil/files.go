package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/m8db/pkg/types"
)

// CreateFile writes content to path on fs, creating parent directories.
// It fails the test if the file cannot be written.
func CreateFile(t *testing.T, fs types.FS, path, content string) string {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path on fs.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, fs types.FS, path string) string {
	t.Helper()

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}
