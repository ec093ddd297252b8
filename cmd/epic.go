package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/opener"
	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

var epicKind = itemKind[taiga.Epic]{
	noun:   "epic",
	plural: "epics",
	web:    opener.Epic,
	status: taiga.EpicStatus,
	api:    func(c *taiga.Client) itemAPI[taiga.Epic] { return c.Epics },
	example: `  taiga epic create -p 12 -t "Checkout redesign" -s "In progress" -a alice
  taiga epic create -t "Search" --tags ux,search`,
}

func init() {
	epicCmd.AddCommand(epicKind.listCmd(nil))
	epicCmd.AddCommand(epicKind.commonCmds()...)
	epicCmd.AddCommand(epicRelatedCmd)
	rootCmd.AddCommand(epicCmd)
}

var epicCmd = &cobra.Command{
	Use:   "epic",
	Short: "Manage epics",
}

var epicRelatedCmd = &cobra.Command{
	Use:   "related-stories <id>",
	Short: "List the user stories linked to an epic",
	Args:  cobra.ExactArgs(1),
	RunE:  runEpicRelated,
}

func runEpicRelated(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	stories, err := a.c.Epics.RelatedUserStories(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching related user stories: %w", err)
	}
	return output.List(stories, "user story", "user stories")
}
