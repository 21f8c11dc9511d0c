// Package cli implements the linvoke command tree.
package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dshills/linvoke/internal/config"
	"github.com/dshills/linvoke/internal/logging"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// options holds state shared by all commands of one invocation.
type options struct {
	verbosity  int
	configPath string
	cfg        *config.Config
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "linvoke",
		Short: "Run event channel wiring scripts",
		Long: `linvoke wires handlers to numbered event channels and emits them.

Scripts in TOML or YAML declare the channels to register, the handlers to
attach and the emits to perform. Handlers may carry a payload bound at
attach time; an emit may override it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			logging.Setup(logging.LevelFor(cfg.Log.Level, opts.verbosity), cmd.ErrOrStderr())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a TOML configuration file")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newInspectCmd(opts))
	rootCmd.AddCommand(newExampleCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
