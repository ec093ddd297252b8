package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/output"
)

var userProject int

func init() {
	userListCmd.Flags().IntVarP(&userProject, "project", "p", 0, "only list members of this project")

	userCmd.AddCommand(userMeCmd, userGetCmd, userListCmd, userStatsCmd)
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Look up users",
}

var userMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runUserMe,
}

var userGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserGet,
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users",
	Args:    cobra.NoArgs,
	RunE:    runUserList,
}

var userStatsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show user statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserStats,
}

func runUserMe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	me, err := a.c.Users.Me(a.ctx)
	if err != nil {
		return fmt.Errorf("fetching current user: %w", err)
	}
	return output.Result(me, "Current User:\n"+me.String())
}

func runUserGet(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	u, err := a.c.Users.Get(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching user %d: %w", id, err)
	}
	return output.Item(*u)
}

func runUserList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	users, err := a.c.Users.List(a.ctx, a.optionalProject(userProject))
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	return output.List(users, "user", "users")
}

func runUserStats(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	stats, err := a.c.Users.Stats(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching user statistics: %w", err)
	}
	return printStats(fmt.Sprintf("User Statistics (ID: %d):", id), stats)
}
