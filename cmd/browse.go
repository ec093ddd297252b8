package cmd

import (
	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/tui"
)

var browseProject int

func init() {
	browseCmd.Flags().IntVarP(&browseProject, "project", "p", 0, "open this project directly (defaults to the configured project)")
	rootCmd.AddCommand(browseCmd)
}

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui"},
	Short:   "Browse projects and work items interactively",
	Long: `Browse projects, user stories, issues, tasks and epics in a terminal UI.

Press ? inside the browser for key bindings.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !interactive() {
		return exitcode.New("interactive_only", exitcode.InteractiveOnly,
			"browse requires an interactive terminal and cannot be used with --json, --yaml or --jq")
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return tui.Run(a.ctx, a.c, tui.Options{
		Project: a.optionalProject(browseProject),
		APIBase: a.c.BaseURL(),
	})
}
