package config

import (
	"github.com/arthur-debert/m8db/pkg/errors"
)

// ValidFormats lists the accepted output.format values
var ValidFormats = []string{"text", "json", "yaml", "toml"}

// Config is the fully merged m8db configuration
type Config struct {
	Store   Store   `koanf:"store" toml:"store"`
	Logging Logging `koanf:"logging" toml:"logging"`
	Output  Output  `koanf:"output" toml:"output"`
}

// Store holds the database file locations
type Store struct {
	DBFile       string `koanf:"db_file" toml:"db_file"`
	LogFile      string `koanf:"log_file" toml:"log_file"`
	AtomicWrites bool   `koanf:"atomic_writes" toml:"atomic_writes"`
}

// Logging holds diagnostic logging settings
type Logging struct {
	Verbosity int `koanf:"verbosity" toml:"verbosity"`
}

// Output holds CLI rendering settings
type Output struct {
	Format string `koanf:"format" toml:"format"`
	Color  bool   `koanf:"color" toml:"color"`
}

// Validate checks values that cannot be defaulted away
func (c *Config) Validate() error {
	if c.Store.DBFile == "" {
		return errors.New(errors.ErrConfigValid, "store.db_file must not be empty")
	}
	if c.Store.LogFile == "" {
		return errors.New(errors.ErrConfigValid, "store.log_file must not be empty")
	}
	if !isValidFormat(c.Output.Format) {
		return errors.Newf(errors.ErrConfigValid, "invalid output.format %q: must be one of %v", c.Output.Format, ValidFormats)
	}
	if c.Logging.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "logging.verbosity must not be negative, got %d", c.Logging.Verbosity)
	}
	return nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
