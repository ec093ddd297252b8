package cmd

import (
	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/opener"
	"github.com/protocollar/taiga/internal/taiga"
)

var taskKind = itemKind[taiga.Task]{
	noun:   "task",
	plural: "tasks",
	web:    opener.Task,
	status: taiga.TaskStatus,
	fields: []string{fieldUserStory, fieldMilestone},
	api:    func(c *taiga.Client) itemAPI[taiga.Task] { return c.Tasks },
	example: `  taiga task create -p 12 -t "Write migration" -u 31
  taiga task create -t "Review copy" -m "Sprint 4" -a carol`,
}

func init() {
	taskCmd.AddCommand(taskKind.listCmd(taskListFlags))
	taskCmd.AddCommand(taskKind.commonCmds()...)
	taskCmd.AddCommand(taskKind.voteCmds(func(c *taiga.Client) voteAPI { return c.Tasks })...)
	rootCmd.AddCommand(taskCmd)
}

func taskListFlags(cmd *cobra.Command, f *itemListFlags) {
	cmd.Flags().StringVarP(&f.userStory, "user-story", "u", "", "only tasks of this user story (#ref)")
	cmd.Flags().StringVarP(&f.milestone, "milestone", "m", "", "only tasks in this milestone (name or id)")
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}
