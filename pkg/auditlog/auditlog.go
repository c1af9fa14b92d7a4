// Package auditlog writes the human-readable, append-only operation log that
// accompanies every m8db database.
//
// The file starts with a fixed header line and every record afterwards has the form
//
//	[2006-01-02 15:04:05] message
//
// Records are only ever appended; nothing in m8db rewrites or truncates the file.
package auditlog

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/m8db/pkg/errors"
	"github.com/arthur-debert/m8db/pkg/filesystem"
	"github.com/arthur-debert/m8db/pkg/types"
)

const (
	// Header is the first line of every new log file
	Header = "=== Database Log ==="

	// TimestampLayout is the time format of a record prefix
	TimestampLayout = "2006-01-02 15:04:05"
)

// Clock returns the current time
type Clock func() time.Time

// Log appends timestamped records to a file
type Log struct {
	fs    types.FS
	path  string
	clock Clock
	mu    *sync.Mutex
}

// Open prepares the log at path, creating parent directories and writing the
// header if the file does not exist yet. An existing file is left untouched.
// Logs opened on the same path share one lock, so the header is written once.
func Open(fs types.FS, path string, clock Clock) (*Log, error) {
	if clock == nil {
		clock = time.Now
	}

	mu := filesystem.PathLock(path)
	mu.Lock()
	defer mu.Unlock()

	if err := filesystem.EnsureParentDir(fs, path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to create log directory for %s", path)
	}

	if _, err := fs.Stat(path); os.IsNotExist(err) {
		if err := fs.WriteFile(path, []byte(Header+"\n"), 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to create log file %s", path)
		}
	} else if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to stat log file %s", path)
	}

	return &Log{fs: fs, path: path, clock: clock, mu: mu}, nil
}

// Path returns the log file location
func (l *Log) Path() string {
	return l.path
}

// Record appends one line for message
func (l *Log) Record(message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := FormatRecord(l.clock(), message)
	if err := l.fs.AppendFile(l.path, []byte(line), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to append to log file %s", l.path)
	}
	return nil
}

// Recordf formats and appends one line
func (l *Log) Recordf(format string, args ...interface{}) error {
	return l.Record(fmt.Sprintf(format, args...))
}

// FormatRecord renders a single record, including the trailing newline.
// Newlines inside message are replaced by spaces so a record always occupies one line.
func FormatRecord(t time.Time, message string) string {
	message = strings.ReplaceAll(message, "\r\n", " ")
	message = strings.ReplaceAll(message, "\n", " ")
	return fmt.Sprintf("[%s] %s\n", t.Format(TimestampLayout), message)
}

// ReadLines returns every line of the log at path, header included
func ReadLines(fs types.FS, path string) ([]string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to read log file %s", path)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to scan log file %s", path)
	}
	return lines, nil
}
