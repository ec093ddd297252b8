package cmd

import (
	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/opener"
	"github.com/protocollar/taiga/internal/taiga"
)

var issueKind = itemKind[taiga.Issue]{
	noun:   "issue",
	plural: "issues",
	web:    opener.Issue,
	status: taiga.IssueStatus,
	fields: []string{fieldType, fieldPriority, fieldSeverity, fieldMilestone},
	api:    func(c *taiga.Client) itemAPI[taiga.Issue] { return c.Issues },
	example: `  taiga issue create -p 12 -t "Login fails on Safari" -y Bug -r High -v Critical
  taiga issue create -t "Typo on pricing page" -a bob --tags copy`,
}

func init() {
	issueCmd.AddCommand(issueKind.listCmd(func(cmd *cobra.Command, f *itemListFlags) {
		cmd.Flags().StringVarP(&f.milestone, "milestone", "m", "", "only issues in this milestone (name or id)")
	}))
	issueCmd.AddCommand(issueKind.commonCmds()...)
	issueCmd.AddCommand(issueKind.voteCmds(func(c *taiga.Client) voteAPI { return c.Issues })...)
	rootCmd.AddCommand(issueCmd)
}

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Manage issues",
}
