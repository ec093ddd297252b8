package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/output"
)

func init() {
	searchCmd.AddCommand(searchInProjectCmd)
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <projectId> <text>...",
	Short: "Search a project",
	Example: `  taiga search 12 login timeout
  taiga search project 12 "login timeout"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

var searchInProjectCmd = &cobra.Command{
	Use:   "project <projectId> <text>...",
	Short: "Search a project",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, project, err := withID(cmd, args)
	if err != nil {
		return err
	}
	return search(a, project, strings.Join(args[1:], " "))
}

func search(a *app, project int, text string) error {
	res, err := a.c.Search(a.ctx, project, text)
	if err != nil {
		return fmt.Errorf("performing search: %w", err)
	}
	heading := fmt.Sprintf("%d Search Results in Project %d for '%s':", res.Count, project, text)
	return output.Result(res, output.Heading(heading)+"\n"+res.String())
}
