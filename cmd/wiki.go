package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

var (
	wikiProject     int
	wikiSlug        string
	wikiContent     string
	wikiContentFile string
	wikiYes         bool
)

func init() {
	wikiListCmd.Flags().IntVarP(&wikiProject, "project", "p", 0, "project id (defaults to the configured project)")
	wikiCreateCmd.Flags().IntVarP(&wikiProject, "project", "p", 0, "project id (defaults to the configured project)")
	wikiCreateCmd.Flags().StringVar(&wikiSlug, "slug", "", "page slug")
	for _, c := range []*cobra.Command{wikiCreateCmd, wikiEditCmd} {
		c.Flags().StringVar(&wikiContent, "content", "", "page content (markdown)")
		c.Flags().StringVarP(&wikiContentFile, "file", "f", "", "read content from a file ('-' for stdin)")
		c.MarkFlagsMutuallyExclusive("content", "file")
	}
	wikiDeleteCmd.Flags().BoolVarP(&wikiYes, "yes", "y", false, "skip the confirmation prompt")

	wikiCmd.AddCommand(
		wikiListCmd,
		wikiGetCmd,
		wikiHistoryCmd,
		wikiCommentsCmd,
		wikiCreateCmd,
		wikiEditCmd,
		wikiDeleteCmd,
	)
	rootCmd.AddCommand(wikiCmd)
}

var wikiCmd = &cobra.Command{
	Use:   "wiki",
	Short: "Manage wiki pages",
}

var wikiListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the wiki pages of a project",
	Args:    cobra.NoArgs,
	RunE:    runWikiList,
}

var wikiGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a wiki page",
	Args:  cobra.ExactArgs(1),
	RunE:  runWikiGet,
}

var wikiHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show the change history of a wiki page",
	Args:  cobra.ExactArgs(1),
	RunE:  runWikiHistory,
}

var wikiCommentsCmd = &cobra.Command{
	Use:   "comments <id>",
	Short: "List the comments on a wiki page",
	Args:  cobra.ExactArgs(1),
	RunE:  runWikiComments,
}

var wikiCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a wiki page",
	Example: `  taiga wiki create -p 12 --slug onboarding --content "# Onboarding"
  taiga wiki create --slug release-notes -f notes.md`,
	Args: cobra.NoArgs,
	RunE: runWikiCreate,
}

var wikiEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace the content of a wiki page",
	Args:  cobra.ExactArgs(1),
	RunE:  runWikiEdit,
}

var wikiDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a wiki page",
	Args:  cobra.ExactArgs(1),
	RunE:  runWikiDelete,
}

func runWikiList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	project, err := a.project(wikiProject)
	if err != nil {
		return err
	}
	pages, err := a.c.Wiki.ListByProject(a.ctx, project)
	if err != nil {
		return fmt.Errorf("listing wiki pages: %w", err)
	}
	return output.List(pages, "wiki page", "wiki pages")
}

func runWikiGet(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	page, err := a.c.Wiki.Get(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching wiki page %d: %w", id, err)
	}
	return output.Item(*page)
}

func runWikiHistory(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	entries, err := a.c.Wiki.History(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}
	return output.List(entries, "history entry", "history entries")
}

func runWikiComments(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	comments, err := a.c.Wiki.Comments(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching comments: %w", err)
	}
	return output.List(comments, "comment", "comments")
}

// wikiBody returns --content, or the contents of --file.
func wikiBody(cmd *cobra.Command) (string, bool, error) {
	fl := cmd.Flags()
	switch {
	case fl.Changed("content"):
		return wikiContent, true, nil
	case fl.Changed("file"):
		var data []byte
		var err error
		if wikiContentFile == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(wikiContentFile)
		}
		if err != nil {
			return "", false, exitcode.Invalid("reading %s: %v", wikiContentFile, err)
		}
		return string(data), true, nil
	}
	return "", false, nil
}

func runWikiCreate(cmd *cobra.Command, args []string) error {
	if wikiSlug == "" {
		return exitcode.Invalid("--slug is required")
	}
	content, _, err := wikiBody(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	project, err := a.project(wikiProject)
	if err != nil {
		return err
	}
	page, err := a.c.Wiki.Create(a.ctx, taiga.Fields{"project": project, "slug": wikiSlug, "content": content})
	if err != nil {
		return fmt.Errorf("creating wiki page: %w", err)
	}
	return output.Result(page, "Wiki page created successfully:\n"+page.String())
}

func runWikiEdit(cmd *cobra.Command, args []string) error {
	content, ok, err := wikiBody(cmd)
	if err != nil {
		return err
	}
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	if !ok {
		return output.Done(noFieldsMessage, map[string]any{"updated": false})
	}
	current, err := a.c.Wiki.Get(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching wiki page %d: %w", id, err)
	}
	page, err := a.c.Wiki.Update(a.ctx, id, taiga.Fields{"content": content, "version": current.Version})
	if err != nil {
		return fmt.Errorf("updating wiki page %d: %w", id, err)
	}
	return output.Result(page, "Wiki page updated successfully:\n"+page.String())
}

func runWikiDelete(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	if !wikiYes {
		ok, err := confirm(fmt.Sprintf("Delete wiki page %d?", id))
		if err != nil || !ok {
			return err
		}
	}
	if err := a.c.Wiki.Delete(a.ctx, id); err != nil {
		return fmt.Errorf("deleting wiki page %d: %w", id, err)
	}
	return output.Done(fmt.Sprintf("Deleted wiki page %d.", id), map[string]any{"id": id})
}
