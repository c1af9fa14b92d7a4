// Package paths provides centralized path handling for m8db.
// It implements XDG Base Directory specification compliance for the
// locations m8db owns (user config, diagnostic log) and resolves the
// user-supplied database and audit log paths.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/m8db/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for m8db
	EnvConfigDir = "M8DB_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for m8db
	EnvStateDir = "M8DB_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for m8db-specific files
	AppDirName = "m8db"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the diagnostic log file
	LogFileName = "m8db.log"

	// DefaultAuditLog is the audit log used when none is configured
	DefaultAuditLog = "log.txt"
)

// ProjectConfigFiles are looked up in the working directory, first match wins
var ProjectConfigFiles = []string{".m8db.toml", "m8db.toml"}

// Paths provides centralized path management for m8db
type Paths interface {
	ConfigDir() string
	StateDir() string
	ConfigFile() string
	LogFilePath() string
	ProjectConfigFile(dir string) string
}

type paths struct {
	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgState is the XDG state directory
	xdgState string
}

// New creates a new Paths instance, respecting environment overrides
func New() Paths {
	p := &paths{}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = ExpandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.xdgState = ExpandHome(stateDir)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p
}

func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

func (p *paths) StateDir() string {
	return p.xdgState
}

// ConfigFile returns the user configuration file path. It may not exist.
func (p *paths) ConfigFile() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// LogFilePath returns the diagnostic log file path
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// ProjectConfigFile returns the first project config file present in dir, or ""
func (p *paths) ProjectConfigFile(dir string) string {
	for _, name := range ProjectConfigFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ResolveFile expands a leading ~ and cleans path. Relative paths stay relative
// so that a database configured as "db.json" follows the working directory.
func ResolveFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New(errors.ErrInvalidInput, "path must not be empty")
	}
	return filepath.Clean(ExpandHome(path)), nil
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to HOME env var
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	// ~user forms are not supported
	return path
}
