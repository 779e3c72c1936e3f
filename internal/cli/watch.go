package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/interpretive-systems/rowdiff/internal/gitx"
	"github.com/interpretive-systems/rowdiff/internal/tui"
)

func newWatchCmd(a *app) *cobra.Command {
	var repo string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the viewer and watch the repository for changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := gitx.RepoRoot(repo)
			if err != nil {
				return fmt.Errorf("not a git repo: %w", err)
			}
			return tui.Run(a.viewerOptions(root, nil))
		},
	}
	cmd.Flags().StringVarP(&repo, "repo", "r", ".", "Path to repository root (default: current dir)")
	return cmd
}

func newPairCmd(a *app) *cobra.Command {
	var diffFile string
	cmd := &cobra.Command{
		Use:   "pair LEFT RIGHT",
		Short: "Open the viewer on two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(a.viewerOptions(".", &tui.Pair{Left: args[0], Right: args[1], Diff: diffFile}))
		},
	}
	cmd.Flags().StringVar(&diffFile, "diff", "", "Read the unified diff from FILE instead of running git diff")
	return cmd
}

func (a *app) viewerOptions(repoRoot string, pair *tui.Pair) tui.Options {
	return tui.Options{
		RepoRoot: repoRoot,
		Pair:     pair,
		Mode:     a.mode(),
		Style:    a.cfg.Style,
		Theme:    a.cfg.Theme,
		Context:  a.cfg.Context,
	}
}
