package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/m8db/pkg/auditlog"
	"github.com/arthur-debert/m8db/pkg/document"
	"github.com/arthur-debert/m8db/pkg/errors"
	"github.com/arthur-debert/m8db/pkg/filesystem"
	"github.com/arthur-debert/m8db/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCorruptDocumentFailsLoudly(t *testing.T) {
	fs := testutil.NewTestFS()
	s := newTestStore(t, fs, newClock())
	testutil.CreateFile(t, fs, testDB, `{"a": 1`)

	checks := map[string]func() error{
		"create":   func() error { return s.Create("b", document.MustValue(1)) },
		"read":     func() error { _, err := s.Read("a"); return err },
		"read all": func() error { _, err := s.ReadAll(); return err },
		"update":   func() error { return s.Update("a", document.MustValue(2)) },
		"delete":   func() error { return s.Delete("a") },
		"has":      func() error { _, err := s.Has("a"); return err },
		"len":      func() error { _, err := s.Len(); return err },
	}
	for name, run := range checks {
		t.Run(name, func(t *testing.T) {
			err := run()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure), "got %v", err)
		})
	}

	// The corrupt bytes were never overwritten by a failed operation
	assert.Equal(t, `{"a": 1`, testutil.ReadFile(t, fs, testDB))

	// Clear does not read the document and therefore recovers it
	require.NoError(t, s.Clear())
	all, err := s.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNonObjectDocumentIsIOFailure(t *testing.T) {
	fs := testutil.NewTestFS()
	s := newTestStore(t, fs, newClock())
	testutil.CreateFile(t, fs, testDB, `[1, 2]`)

	_, err := s.ReadAll()
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))
}

func TestMissingDocumentIsIOFailure(t *testing.T) {
	fs := testutil.NewTestFS()
	s := newTestStore(t, fs, newClock())
	require.NoError(t, fs.Remove(testDB))

	_, err := s.Read("a")
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))
}

func TestReadOnlyFilesystem(t *testing.T) {
	base := afero.NewMemMapFs()
	newTestStore(t, filesystem.NewAferoFS(base), newClock())

	nop := zerolog.Nop()
	ro, err := New(Options{
		DBFile:       testDB,
		LogFile:      testLog,
		FS:           filesystem.NewAferoFS(afero.NewReadOnlyFs(base)),
		AtomicWrites: true,
		Logger:       &nop,
	})
	require.NoError(t, err, "opening existing files needs no writes")

	err = ro.Create("a", document.MustValue(1))
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))

	err = ro.Clear()
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))

	// Audit append failures surface even when the operation is a read
	_, err = ro.Read("a")
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))

	// The precondition failure path also has to log first, so it fails the same way
	err = ro.Update("a", document.MustValue(1))
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))
}

func TestConcurrentCreateSameKey(t *testing.T) {
	dir := t.TempDir()
	nop := zerolog.Nop()
	opts := Options{
		DBFile:       filepath.Join(dir, "db.json"),
		LogFile:      filepath.Join(dir, "log.txt"),
		AtomicWrites: true,
		Logger:       &nop,
	}

	// Separate Store values on one path share the same lock
	stores := make([]*Store, 2)
	for i := range stores {
		s, err := New(opts)
		require.NoError(t, err)
		stores[i] = s
	}

	const attempts = 20
	results := make([]error, attempts)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		i := i
		g.Go(func() error {
			results[i] = stores[i%2].Create("k", document.MustValue(i))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	successes, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.IsErrorCode(err, errors.ErrKeyConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	lines, err := auditlog.ReadLines(filesystem.NewOS(), opts.LogFile)
	require.NoError(t, err)
	assert.Len(t, lines, attempts+1)
}

func TestConcurrentCreateDistinctKeysLosesNothing(t *testing.T) {
	dir := t.TempDir()
	nop := zerolog.Nop()
	opts := Options{
		DBFile:  filepath.Join(dir, "db.json"),
		LogFile: filepath.Join(dir, "log.txt"),
		Logger:  &nop,
	}

	const workers = 25
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			s, err := New(opts)
			if err != nil {
				return err
			}
			return s.Create(fmt.Sprintf("key-%02d", i), document.MustValue(i))
		})
	}
	require.NoError(t, g.Wait())

	s, err := New(opts)
	require.NoError(t, err)
	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, workers, n)
}

func TestSharedLogAcrossDocuments(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "log.txt")
	nop := zerolog.Nop()

	const workers = 10
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			s, err := New(Options{
				DBFile:  filepath.Join(dir, fmt.Sprintf("db-%d.json", i)),
				LogFile: logFile,
				Logger:  &nop,
			})
			if err != nil {
				return err
			}
			return s.Create("k", document.MustValue(i))
		})
	}
	require.NoError(t, g.Wait())

	lines, err := auditlog.ReadLines(filesystem.NewOS(), logFile)
	require.NoError(t, err)
	require.Len(t, lines, workers+1)
	assert.Equal(t, auditlog.Header, lines[0])
	for _, line := range lines[1:] {
		assert.Equal(t, "Created new entry: 'k'.", line[len("[2006-01-02 15:04:05] "):])
	}
}

func TestSameFileForDocumentAndLog(t *testing.T) {
	nop := zerolog.Nop()
	_, err := New(Options{
		DBFile:  "/data/db.json",
		LogFile: "/data/../data/db.json",
		FS:      testutil.NewTestFS(),
		Logger:  &nop,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
