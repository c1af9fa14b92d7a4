package store

import (
	"os"
	"sync"
	"time"

	"github.com/arthur-debert/m8db/pkg/auditlog"
	"github.com/arthur-debert/m8db/pkg/document"
	"github.com/arthur-debert/m8db/pkg/errors"
	"github.com/arthur-debert/m8db/pkg/filesystem"
	"github.com/arthur-debert/m8db/pkg/logging"
	"github.com/arthur-debert/m8db/pkg/paths"
	"github.com/arthur-debert/m8db/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Store
type Options struct {
	// DBFile is the document path. Required.
	DBFile string

	// LogFile is the audit log path. Defaults to log.txt in the working directory.
	LogFile string

	// FS defaults to the OS filesystem
	FS types.FS

	// Clock stamps audit records. Defaults to time.Now.
	Clock func() time.Time

	// AtomicWrites writes the document to a temporary sibling and renames it into
	// place, so a crash mid-write leaves the previous document intact.
	AtomicWrites bool

	// Logger receives diagnostics. Defaults to the "store" component logger.
	Logger *zerolog.Logger
}

// Store is a JSON document of key/value entries persisted to a single file
type Store struct {
	fs     types.FS
	dbFile string
	audit  *auditlog.Log
	atomic bool
	mu     *sync.Mutex
	logger zerolog.Logger
}

// New opens the store described by opts. Missing files are created: the
// document as an empty object, the log with its header line.
func New(opts Options) (*Store, error) {
	if opts.DBFile == "" {
		return nil, errors.New(errors.ErrInvalidInput, "database file path is required")
	}
	if opts.LogFile == "" {
		opts.LogFile = paths.DefaultAuditLog
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if filesystem.PathKey(opts.DBFile) == filesystem.PathKey(opts.LogFile) {
		return nil, errors.Newf(errors.ErrInvalidInput, "database and log must be different files, both are %s", opts.DBFile)
	}

	logger := logging.GetLogger("store")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	s := &Store{
		fs:     opts.FS,
		dbFile: opts.DBFile,
		atomic: opts.AtomicWrites,
		mu:     lockFor(opts.DBFile),
		logger: logger.With().Str("db", opts.DBFile).Logger(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDocument(); err != nil {
		return nil, err
	}

	audit, err := auditlog.Open(opts.FS, opts.LogFile, opts.Clock)
	if err != nil {
		return nil, err
	}
	s.audit = audit

	s.logger.Debug().Str("log", opts.LogFile).Bool("atomic", opts.AtomicWrites).Msg("Store opened")
	return s, nil
}

// DBFile returns the document path
func (s *Store) DBFile() string {
	return s.dbFile
}

// LogFile returns the audit log path
func (s *Store) LogFile() string {
	return s.audit.Path()
}

// Create adds key with value. It fails with KEY_CONFLICT if key already exists,
// in which case the document is left unchanged.
func (s *Store) Create(key string, value document.Value) error {
	defer logging.LogOperationStart(s.logger, "create")()
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readDB()
	if err != nil {
		return err
	}

	if _, exists := data[key]; exists {
		if err := s.audit.Recordf("Failed to create '%s': Key already exists.", key); err != nil {
			return err
		}
		s.logger.Debug().Str("key", key).Msg("Create rejected, key exists")
		return errors.Newf(errors.ErrKeyConflict, "Key '%s' already exists.", key).WithDetail("key", key)
	}

	data[key] = value
	if err := s.writeDB(data); err != nil {
		return err
	}
	s.logger.Debug().Str("key", key).Str("kind", value.Kind().String()).Msg("Entry created")
	return s.audit.Recordf("Created new entry: '%s'.", key)
}

// Read returns the entry for key. A missing key is reported with Found set to
// false, not as an error. The empty string is a valid key.
func (s *Store) Read(key string) (Entry, error) {
	defer logging.LogOperationStart(s.logger, "read")()
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readDB()
	if err != nil {
		return Entry{}, err
	}

	value, found := data[key]
	entry := Entry{Key: key, Value: value, Found: found}

	if err := s.audit.Recordf("Read entry: '%s' -> %s", key, entry); err != nil {
		return Entry{}, err
	}
	s.logger.Debug().Str("key", key).Bool("found", found).Msg("Entry read")
	return entry, nil
}

// ReadAll returns the whole document
func (s *Store) ReadAll() (document.Document, error) {
	defer logging.LogOperationStart(s.logger, "read-all")()
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readDB()
	if err != nil {
		return nil, err
	}

	if err := s.audit.Record("Read entire database."); err != nil {
		return nil, err
	}
	s.logger.Debug().Int("entries", len(data)).Msg("Document read")
	return data, nil
}

// Update replaces the value of an existing key. It fails with KEY_NOT_FOUND if
// key is absent, in which case the document is left unchanged.
func (s *Store) Update(key string, value document.Value) error {
	defer logging.LogOperationStart(s.logger, "update")()
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readDB()
	if err != nil {
		return err
	}

	if _, exists := data[key]; !exists {
		if err := s.audit.Recordf("Failed to update '%s': Key does not exist.", key); err != nil {
			return err
		}
		s.logger.Debug().Str("key", key).Msg("Update rejected, key missing")
		return keyNotFound(key)
	}

	data[key] = value
	if err := s.writeDB(data); err != nil {
		return err
	}
	s.logger.Debug().Str("key", key).Str("kind", value.Kind().String()).Msg("Entry updated")
	return s.audit.Recordf("Updated entry: '%s'.", key)
}

// Delete removes an existing key. It fails with KEY_NOT_FOUND if key is absent.
func (s *Store) Delete(key string) error {
	defer logging.LogOperationStart(s.logger, "delete")()
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readDB()
	if err != nil {
		return err
	}

	if _, exists := data[key]; !exists {
		if err := s.audit.Recordf("Failed to delete '%s': Key does not exist.", key); err != nil {
			return err
		}
		s.logger.Debug().Str("key", key).Msg("Delete rejected, key missing")
		return keyNotFound(key)
	}

	delete(data, key)
	if err := s.writeDB(data); err != nil {
		return err
	}
	s.logger.Debug().Str("key", key).Msg("Entry deleted")
	return s.audit.Recordf("Deleted entry: '%s'.", key)
}

// Clear replaces the document with an empty one. The current contents are not
// read, so Clear also recovers a corrupt document.
func (s *Store) Clear() error {
	defer logging.LogOperationStart(s.logger, "clear")()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeDB(document.Document{}); err != nil {
		return err
	}
	s.logger.Debug().Msg("Document cleared")
	return s.audit.Record("Cleared the entire database.")
}

// Has reports whether key exists
func (s *Store) Has(key string) (bool, error) {
	defer logging.LogOperationStart(s.logger, "has")()
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readDB()
	if err != nil {
		return false, err
	}

	_, found := data[key]
	if err := s.audit.Recordf("Checked entry: '%s' -> %t", key, found); err != nil {
		return false, err
	}
	return found, nil
}

// Len returns the number of entries
func (s *Store) Len() (int, error) {
	defer logging.LogOperationStart(s.logger, "len")()
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readDB()
	if err != nil {
		return 0, err
	}

	if err := s.audit.Recordf("Counted entries: %d.", len(data)); err != nil {
		return 0, err
	}
	return len(data), nil
}

func keyNotFound(key string) error {
	return errors.Newf(errors.ErrKeyNotFound, "Key '%s' does not exist.", key).WithDetail("key", key)
}

// ensureDocument creates an empty document if none exists. Caller holds s.mu.
func (s *Store) ensureDocument() error {
	if err := filesystem.EnsureParentDir(s.fs, s.dbFile); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to create database directory for %s", s.dbFile)
	}

	_, err := s.fs.Stat(s.dbFile)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to stat database file %s", s.dbFile)
	}

	s.logger.Info().Msg("Creating empty database")
	return s.writeDB(document.Document{})
}

// readDB loads the whole document. Caller holds s.mu.
func (s *Store) readDB() (document.Document, error) {
	raw, err := s.fs.ReadFile(s.dbFile)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to read database file %s", s.dbFile)
	}

	data, err := document.Decode(raw)
	if err != nil {
		s.logger.Error().Err(err).Msg("Database file is corrupt")
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to parse database file %s", s.dbFile)
	}
	return data, nil
}

// writeDB replaces the whole document on disk. Caller holds s.mu.
func (s *Store) writeDB(data document.Document) error {
	raw, err := document.Encode(data)
	if err != nil {
		return err
	}

	if !s.atomic {
		if err := s.fs.WriteFile(s.dbFile, raw, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to write database file %s", s.dbFile)
		}
		return nil
	}

	tmp := s.dbFile + ".tmp"
	perm := s.documentPerm()
	// A leftover temp file would keep its own mode through WriteFile
	_ = s.fs.Remove(tmp)
	if err := s.fs.WriteFile(tmp, raw, perm); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to write database file %s", tmp)
	}
	if err := s.fs.Rename(tmp, s.dbFile); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to replace database file %s", s.dbFile)
	}
	return nil
}

// documentPerm returns the mode of the current document, so replacing it by
// rename keeps its permissions. A missing document gets 0644.
func (s *Store) documentPerm() os.FileMode {
	info, err := s.fs.Stat(s.dbFile)
	if err != nil {
		return 0644
	}
	return info.Mode().Perm()
}
