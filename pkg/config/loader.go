package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/m8db/pkg/errors"
	"github.com/arthur-debert/m8db/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration
const EnvPrefix = "M8DB_"

// sections are the top-level tables environment variables may address
var sections = []string{"store", "logging", "output"}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigFile is an explicit file. Unlike the discovered files it must exist.
	ConfigFile string

	// WorkDir is searched for project config files. Defaults to the working directory.
	WorkDir string

	// Overrides are applied last, keyed by dotted path (e.g. "store.db_file")
	Overrides map[string]interface{}

	// Paths locates the user config file. Defaults to paths.New().
	Paths paths.Paths
}

// Load merges every configuration source and returns the validated result
func Load(opts LoadOptions) (*Config, error) {
	k, err := load(opts)
	if err != nil {
		return nil, err
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(opts LoadOptions) (*koanf.Koanf, error) {
	if opts.Paths == nil {
		opts.Paths = paths.New()
	}
	if opts.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to get working directory")
		}
		opts.WorkDir = wd
	}

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config, if present
	if userFile := opts.Paths.ConfigFile(); fileExists(userFile) {
		if err := loadFile(k, userFile); err != nil {
			return nil, err
		}
	}

	// 3. Project config, if present
	if projectFile := opts.Paths.ProjectConfigFile(opts.WorkDir); projectFile != "" {
		if err := loadFile(k, projectFile); err != nil {
			return nil, err
		}
	}

	// 4. Explicit config file
	if opts.ConfigFile != "" {
		path := paths.ExpandHome(opts.ConfigFile)
		if !fileExists(path) {
			return nil, errors.Newf(errors.ErrConfigLoad, "config file %s does not exist", path)
		}
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	// 5. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 6. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	return k, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
	}
	return nil
}

// envKey maps M8DB_STORE_DB_FILE to store.db_file. Variables outside the known
// sections (such as M8DB_STATE_DIR) are ignored.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || rest == "" {
		return ""
	}
	for _, known := range sections {
		if section == known {
			return section + "." + rest
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
