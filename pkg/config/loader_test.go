package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/m8db/pkg/errors"
	"github.com/arthur-debert/m8db/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every discovered location at empty temp dirs
func isolate(t *testing.T) (configDir, workDir string) {
	t.Helper()
	configDir = t.TempDir()
	workDir = t.TempDir()
	t.Setenv(paths.EnvConfigDir, configDir)
	t.Setenv(paths.EnvStateDir, t.TempDir())
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, EnvPrefix+"STORE_") || strings.HasPrefix(kv, EnvPrefix+"OUTPUT_") || strings.HasPrefix(kv, EnvPrefix+"LOGGING_") {
			name, _, _ := strings.Cut(kv, "=")
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return configDir, workDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	_, workDir := isolate(t)

	cfg, err := Load(LoadOptions{WorkDir: workDir})
	require.NoError(t, err)

	assert.Equal(t, "db.json", cfg.Store.DBFile)
	assert.Equal(t, "log.txt", cfg.Store.LogFile)
	assert.True(t, cfg.Store.AtomicWrites)
	assert.Equal(t, 0, cfg.Logging.Verbosity)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
}

func TestLoadPrecedence(t *testing.T) {
	configDir, workDir := isolate(t)

	writeFile(t, filepath.Join(configDir, paths.ConfigFileName), `
[store]
db_file = "user.json"
log_file = "user.log"

[output]
format = "yaml"
`)
	writeFile(t, filepath.Join(workDir, "m8db.toml"), `
[store]
db_file = "project.json"
`)
	explicit := filepath.Join(t.TempDir(), "explicit.toml")
	writeFile(t, explicit, `
[logging]
verbosity = 2
`)

	t.Run("files layer in order", func(t *testing.T) {
		cfg, err := Load(LoadOptions{WorkDir: workDir, ConfigFile: explicit})
		require.NoError(t, err)
		assert.Equal(t, "project.json", cfg.Store.DBFile)
		assert.Equal(t, "user.log", cfg.Store.LogFile)
		assert.Equal(t, "yaml", cfg.Output.Format)
		assert.Equal(t, 2, cfg.Logging.Verbosity)
	})

	t.Run("environment beats files", func(t *testing.T) {
		t.Setenv("M8DB_STORE_DB_FILE", "env.json")
		t.Setenv("M8DB_STORE_ATOMIC_WRITES", "false")

		cfg, err := Load(LoadOptions{WorkDir: workDir})
		require.NoError(t, err)
		assert.Equal(t, "env.json", cfg.Store.DBFile)
		assert.False(t, cfg.Store.AtomicWrites)
	})

	t.Run("overrides beat environment", func(t *testing.T) {
		t.Setenv("M8DB_STORE_DB_FILE", "env.json")

		cfg, err := Load(LoadOptions{
			WorkDir:   workDir,
			Overrides: map[string]interface{}{"store.db_file": "flag.json"},
		})
		require.NoError(t, err)
		assert.Equal(t, "flag.json", cfg.Store.DBFile)
	})
}

func TestLoadErrors(t *testing.T) {
	_, workDir := isolate(t)

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(LoadOptions{WorkDir: workDir, ConfigFile: filepath.Join(workDir, "nope.toml")})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.toml")
		writeFile(t, bad, "[store\ndb_file = ")
		_, err := Load(LoadOptions{WorkDir: workDir, ConfigFile: bad})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := Load(LoadOptions{
			WorkDir:   workDir,
			Overrides: map[string]interface{}{"output.format": "xml"},
		})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})

	t.Run("empty db file", func(t *testing.T) {
		_, err := Load(LoadOptions{
			WorkDir:   workDir,
			Overrides: map[string]interface{}{"store.db_file": ""},
		})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"M8DB_STORE_DB_FILE":       "store.db_file",
		"M8DB_OUTPUT_FORMAT":       "output.format",
		"M8DB_LOGGING_VERBOSITY":   "logging.verbosity",
		"M8DB_STATE_DIR":           "",
		"M8DB_CONFIG_DIR":          "",
		"M8DB_STORE":               "",
		"M8DB_STORE_ATOMIC_WRITES": "store.atomic_writes",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Store:  Store{DBFile: "db.json", LogFile: "log.txt"},
		Output: Output{Format: "json"},
	}
	assert.NoError(t, valid.Validate())

	noLog := valid
	noLog.Store.LogFile = ""
	assert.Error(t, noLog.Validate())

	negative := valid
	negative.Logging.Verbosity = -1
	assert.Error(t, negative.Validate())
}
