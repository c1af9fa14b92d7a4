package m8db

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/m8db/internal/version"
	"github.com/arthur-debert/m8db/pkg/auditlog"
	"github.com/arthur-debert/m8db/pkg/config"
	"github.com/arthur-debert/m8db/pkg/errors"
	"github.com/arthur-debert/m8db/pkg/filesystem"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newLogCmd(c *cli) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:     "log",
		Short:   MsgLogShort,
		Long:    MsgLogLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if lines < 0 {
				return errors.Newf(errors.ErrInvalidInput, "-n must not be negative, got %d", lines)
			}

			_, logFile, err := c.storeFiles()
			if err != nil {
				return err
			}
			all, err := auditlog.ReadLines(filesystem.NewOS(), logFile)
			if err != nil {
				return err
			}
			if lines > 0 && lines < len(all) {
				all = all[len(all)-lines:]
			}
			return c.out.Lines(all)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, MsgFlagLines)
	return cmd
}

func newConfigCmd(c *cli) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				return c.out.Message(strings.TrimRight(config.GenerateConfigContent(), "\n"))
			}

			content, err := config.Encode(c.cfg)
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
			}
			return c.out.Message(strings.TrimRight(content, "\n"))
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.out.Message(fmt.Sprintf(MsgVersionFormat, version.Version, version.Commit, version.Date))
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newManCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "man <dir>",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrIOFailure, "failed to create %s", dir)
			}

			header := &doc.GenManHeader{
				Title:   "M8DB",
				Section: "1",
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return errors.Wrap(err, errors.ErrIOFailure, "failed to generate man pages")
			}
			return c.out.Message(fmt.Sprintf(MsgManWritten, dir))
		},
	}
}
