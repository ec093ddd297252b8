package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/opener"
	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

var userStoryKind = itemKind[taiga.UserStory]{
	noun:   "user story",
	plural: "user stories",
	web:    opener.UserStory,
	status: taiga.UserStoryStatus,
	fields: []string{fieldMilestone},
	api:    func(c *taiga.Client) itemAPI[taiga.UserStory] { return c.UserStories },
	example: `  taiga userstory create -p 12 -t "As a buyer I can pay with PayPal" -m "Sprint 4"
  taiga userstory create -t "Saved carts" -s Ready --tags checkout`,
}

var userStoryProject int

func init() {
	userStoryCmd.AddCommand(userStoryKind.listCmd(userStoryListFlags))
	userStoryCmd.AddCommand(userStoryKind.commonCmds()...)
	userStoryCmd.AddCommand(userStoryKind.voteCmds(func(c *taiga.Client) voteAPI { return c.UserStories })...)

	for _, c := range []*cobra.Command{userStoryPromoteCmd, userStoryConvertCmd} {
		c.Flags().IntVarP(&userStoryProject, "project", "p", 0, "project id (defaults to the configured project)")
		userStoryCmd.AddCommand(c)
	}
	rootCmd.AddCommand(userStoryCmd)
}

func userStoryListFlags(cmd *cobra.Command, f *itemListFlags) {
	cmd.Flags().StringVarP(&f.epic, "epic", "e", "", "only stories of this epic (#ref)")
	cmd.Flags().StringVarP(&f.milestone, "milestone", "m", "", "only stories in this milestone (name or id)")
}

var userStoryCmd = &cobra.Command{
	Use:     "userstory",
	Aliases: []string{"us", "story"},
	Short:   "Manage user stories",
}

var userStoryPromoteCmd = &cobra.Command{
	Use:   "promote <ref>",
	Short: "Promote a user story to an epic",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserStoryPromote,
}

var userStoryConvertCmd = &cobra.Command{
	Use:   "convert <ref>",
	Short: "Convert a user story into an issue",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserStoryConvert,
}

func runUserStoryPromote(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	us, err := userStoryKind.fetch(a, userStoryProject, args[0])
	if err != nil {
		return err
	}
	epic, err := a.c.UserStories.Promote(a.ctx, us.ID)
	if err != nil {
		return fmt.Errorf("promoting user story #%d: %w", us.Ref, err)
	}
	return output.Result(epic, fmt.Sprintf("User story #%d promoted to epic:\n%s", us.Ref, epic))
}

func runUserStoryConvert(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	us, err := userStoryKind.fetch(a, userStoryProject, args[0])
	if err != nil {
		return err
	}
	issue, err := a.c.UserStories.Convert(a.ctx, us.ID)
	if err != nil {
		return fmt.Errorf("converting user story #%d: %w", us.Ref, err)
	}
	return output.Result(issue, fmt.Sprintf("User story #%d converted to issue:\n%s", us.Ref, issue))
}
