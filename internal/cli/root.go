package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/interpretive-systems/rowdiff/internal/config"
	"github.com/interpretive-systems/rowdiff/internal/diffview"
	"github.com/interpretive-systems/rowdiff/internal/logger"
)

func Execute() error {
	if err := newRootCmd().Execute(); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	return nil
}

// app carries the configuration resolved before a subcommand runs.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

// flagKeys maps persistent flags to config keys.
var flagKeys = []struct{ flag, key string }{
	{"log-file", "log_file"},
	{"debug", "debug"},
	{"style", "style"},
	{"theme", "theme"},
	{"context", "context"},
	{"mode", "mode"},
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	root := &cobra.Command{
		Use:   "rowdiff",
		Short: "Split and unified diffs of files and git changes",
		Long: `rowdiff lines up two versions of a file against their unified diff.

  rowdiff watch                 # Browse the working tree changes of a repo
  rowdiff pair old.go new.go    # Compare two files in the viewer
  rowdiff rows old.go new.go    # Print the aligned rows
  rowdiff html old.go new.go    # Write the diff as an HTML page
  rowdiff hunk change.diff      # Render a review comment snippet`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default ./.rowdiff.yaml, then $XDG_CONFIG_HOME/rowdiff/config.yaml)")
	pf.String("log-file", "", "Append logs to this file")
	pf.Bool("debug", false, "Log at debug level")
	pf.String("style", "monokai", "Chroma style for syntax colors")
	pf.String("theme", "dark", "Color theme (dark or light)")
	pf.Int("context", 3, "Lines of context around changes")
	pf.String("mode", "split", "Display mode (split or unified)")
	for _, fk := range flagKeys {
		if err := a.v.BindPFlag(fk.key, pf.Lookup(fk.flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newPairCmd(a))
	root.AddCommand(newRowsCmd(a))
	root.AddCommand(newHTMLCmd(a))
	root.AddCommand(newHunkCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	file, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(a.v, file)
	if err != nil {
		return err
	}
	logger.SetDebug(cfg.Debug)
	if err := logger.Init(cfg.LogFile); err != nil {
		return err
	}
	a.cfg = cfg
	logger.Component("cli").Debug("config loaded",
		"command", cmd.Name(), "file", a.v.ConfigFileUsed(), "mode", cfg.Mode, "context", cfg.Context)
	return nil
}

// mode returns the configured display mode. Load has already validated it.
func (a *app) mode() diffview.Mode {
	m, _ := a.cfg.DiffMode()
	return m
}
