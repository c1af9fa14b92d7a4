package m8db

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/arthur-debert/m8db/internal/version"
	"github.com/arthur-debert/m8db/pkg/cobrax/topics"
	"github.com/arthur-debert/m8db/pkg/config"
	"github.com/arthur-debert/m8db/pkg/document"
	"github.com/arthur-debert/m8db/pkg/errors"
	"github.com/arthur-debert/m8db/pkg/filesystem"
	"github.com/arthur-debert/m8db/pkg/logging"
	"github.com/arthur-debert/m8db/pkg/output"
	"github.com/arthur-debert/m8db/pkg/paths"
	"github.com/arthur-debert/m8db/pkg/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicsFS embed.FS

// cli carries flag values and per-invocation state shared by all commands
type cli struct {
	verbosity  int
	dbFile     string
	logFile    string
	configFile string
	format     string
	noColor    bool

	cfg *config.Config
	out *output.Renderer
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	c := &cli{}

	rootCmd := &cobra.Command{
		Use:     "m8db",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd); err != nil {
				return err
			}
			log.Debug().Str("command", cmd.Name()).Strs("args", args).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but still fail
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&c.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&c.dbFile, "db", "", MsgFlagDB)
	pf.StringVar(&c.logFile, "log", "", MsgFlagLog)
	pf.StringVar(&c.configFile, "config", "", MsgFlagConfig)
	pf.StringVar(&c.format, "format", "", MsgFlagFormat)
	pf.BoolVar(&c.noColor, "no-color", false, MsgFlagNoColor)

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.ValidFormats, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newCreateCmd(c))
	rootCmd.AddCommand(newReadCmd(c))
	rootCmd.AddCommand(newUpdateCmd(c))
	rootCmd.AddCommand(newDeleteCmd(c))
	rootCmd.AddCommand(newClearCmd(c))
	rootCmd.AddCommand(newHasCmd(c))
	rootCmd.AddCommand(newCountCmd(c))
	rootCmd.AddCommand(newLogCmd(c))
	rootCmd.AddCommand(newConfigCmd(c))
	rootCmd.AddCommand(newVersionCmd(c))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd(c))

	initTopics(rootCmd)

	return rootCmd
}

// initTopics installs the help command that also serves the embedded topics
func initTopics(rootCmd *cobra.Command) {
	source, err := fs.Sub(topicsFS, "topics")
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}

	opts := topics.Options{Extensions: []string{".md"}}
	if stdoutStyled() {
		opts.Renderer = topics.NewGlamourRenderer()
	}
	if err := topics.InitializeWithOptions(rootCmd, source, opts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	rootCmd.SetHelpCommandGroupID("misc")
}

// ReportError prints the user-facing text of err, styled when w is a terminal
func ReportError(w io.Writer, err error, noColor bool) {
	log.Debug().Err(err).Str("code", string(errors.GetErrorCode(err))).Msg("Command failed")

	r, rerr := output.NewRenderer(w, output.FormatText, noColor)
	if rerr != nil {
		_, _ = fmt.Fprintln(w, errors.UserMessage(err))
		return
	}
	_ = r.Error(err)
}

// loadConfig merges every config source with the flags that were set explicitly
func (c *cli) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	overrides := map[string]interface{}{}
	if flags.Changed("db") {
		overrides["store.db_file"] = c.dbFile
	}
	if flags.Changed("log") {
		overrides["store.log_file"] = c.logFile
	}
	if flags.Changed("format") {
		overrides["output.format"] = strings.ToLower(c.format)
	}
	if c.noColor {
		overrides["output.color"] = false
	}
	if c.verbosity > 0 {
		overrides["logging.verbosity"] = c.verbosity
	}

	return config.Load(config.LoadOptions{
		ConfigFile: c.configFile,
		Overrides:  overrides,
	})
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	c.cfg = cfg

	logging.SetupLoggerWithOutput(cfg.Logging.Verbosity, cmd.ErrOrStderr())

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	c.out, err = output.NewRenderer(cmd.OutOrStdout(), format, !cfg.Output.Color)
	return err
}

// storeFiles resolves the configured database and audit log paths
func (c *cli) storeFiles() (dbFile, logFile string, err error) {
	dbFile, err = paths.ResolveFile(c.cfg.Store.DBFile)
	if err != nil {
		return "", "", err
	}
	logFile, err = paths.ResolveFile(c.cfg.Store.LogFile)
	if err != nil {
		return "", "", err
	}
	return dbFile, logFile, nil
}

func (c *cli) openStore() (*store.Store, error) {
	dbFile, logFile, err := c.storeFiles()
	if err != nil {
		return nil, err
	}
	return store.New(store.Options{
		DBFile:       dbFile,
		LogFile:      logFile,
		AtomicWrites: c.cfg.Store.AtomicWrites,
	})
}

// keysCompletion offers the keys of the configured database. The document is
// read directly so that completing does not add audit records.
func (c *cli) keysCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Completion skips PersistentPreRunE, so config is loaded here
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	c.cfg = cfg
	dbFile, _, err := c.storeFiles()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	data, err := filesystem.NewOS().ReadFile(dbFile)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	doc, err := document.Decode(data)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var keys []string
	for _, key := range doc.Keys() {
		if strings.HasPrefix(key, toComplete) {
			keys = append(keys, key)
		}
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}

// parseValue reads a JSON literal typed on the command line
func parseValue(key, text string) (document.Value, error) {
	value, err := document.ParseValue(text)
	if err != nil {
		return document.Value{}, errors.Wrapf(err, errors.ErrInvalidInput, MsgErrInvalidValue, key).
			WithDetail("key", key)
	}
	return value, nil
}

func newCreateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "create <key> <json-value>",
		Short:   MsgCreateShort,
		Example: MsgCreateExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, err := parseValue(key, args[1])
			if err != nil {
				return err
			}

			st, err := c.openStore()
			if err != nil {
				return err
			}
			if err := st.Create(key, value); err != nil {
				return err
			}
			return c.out.Success(fmt.Sprintf(MsgCreatedFormat, key))
		},
	}
}

func newReadCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:               "read [key]",
		Short:             MsgReadShort,
		Long:              MsgReadLong,
		Example:           MsgReadExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.keysCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				entry, err := st.Read(args[0])
				if err != nil {
					return err
				}
				return c.out.Entry(entry)
			}

			doc, err := st.ReadAll()
			if err != nil {
				return err
			}
			return c.out.Document(doc)
		},
	}
}

func newUpdateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:               "update <key> <json-value>",
		Short:             MsgUpdateShort,
		GroupID:           "core",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.keysCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, err := parseValue(key, args[1])
			if err != nil {
				return err
			}

			st, err := c.openStore()
			if err != nil {
				return err
			}
			if err := st.Update(key, value); err != nil {
				return err
			}
			return c.out.Success(fmt.Sprintf(MsgUpdatedFormat, key))
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:               "delete <key>",
		Short:             MsgDeleteShort,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.keysCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			if err := st.Delete(args[0]); err != nil {
				return err
			}
			return c.out.Success(fmt.Sprintf(MsgDeletedFormat, args[0]))
		},
	}
}

func newClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   MsgClearShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			if err := st.Clear(); err != nil {
				return err
			}
			return c.out.Success(MsgCleared)
		},
	}
}

func newHasCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:               "has <key>",
		Short:             MsgHasShort,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.keysCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			ok, err := st.Has(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return c.out.Message(store.NotFoundMessage(args[0]))
			}
			return c.out.Message(fmt.Sprintf(MsgKeyExists, args[0]))
		},
	}
}

func newCountCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "count",
		Short:   MsgCountShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			n, err := st.Len()
			if err != nil {
				return err
			}
			return c.out.Message(fmt.Sprintf(MsgCountFormat, n))
		},
	}
}
