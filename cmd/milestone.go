package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

var (
	milestoneProject int
	milestoneName    string
	milestoneStart   string
	milestoneFinish  string
	milestoneClosed  bool
	milestoneYes     bool
)

func init() {
	milestoneListCmd.Flags().IntVarP(&milestoneProject, "project", "p", 0, "project id (defaults to the configured project)")

	for _, c := range []*cobra.Command{milestoneCreateCmd, milestoneEditCmd} {
		c.Flags().StringVarP(&milestoneName, "name", "n", "", "milestone name")
		c.Flags().StringVar(&milestoneStart, "start", "", "estimated start (YYYY-MM-DD)")
		c.Flags().StringVar(&milestoneFinish, "finish", "", "estimated finish (YYYY-MM-DD)")
	}
	milestoneCreateCmd.Flags().IntVarP(&milestoneProject, "project", "p", 0, "project id (defaults to the configured project)")
	milestoneEditCmd.Flags().BoolVar(&milestoneClosed, "closed", false, "mark the milestone closed (--closed=false reopens)")
	milestoneDeleteCmd.Flags().BoolVarP(&milestoneYes, "yes", "y", false, "skip the confirmation prompt")

	milestoneCmd.AddCommand(
		milestoneListCmd,
		milestoneGetCmd,
		milestoneStatsCmd,
		milestoneBurndownCmd,
		milestoneUserStoriesCmd,
		milestoneCreateCmd,
		milestoneEditCmd,
		milestoneDeleteCmd,
	)
	rootCmd.AddCommand(milestoneCmd)
}

var milestoneCmd = &cobra.Command{
	Use:     "milestone",
	Aliases: []string{"sprint"},
	Short:   "Manage milestones (sprints)",
}

var milestoneListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List milestones",
	Args:    cobra.NoArgs,
	RunE:    runMilestoneList,
}

var milestoneGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a milestone",
	Args:  cobra.ExactArgs(1),
	RunE:  runMilestoneGet,
}

var milestoneStatsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show milestone statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runMilestoneStats,
}

var milestoneBurndownCmd = &cobra.Command{
	Use:   "burndown <id>",
	Short: "Show the burndown of a milestone",
	Args:  cobra.ExactArgs(1),
	RunE:  runMilestoneBurndown,
}

var milestoneUserStoriesCmd = &cobra.Command{
	Use:   "userstories <id>",
	Short: "List the user stories in a milestone",
	Args:  cobra.ExactArgs(1),
	RunE:  runMilestoneUserStories,
}

var milestoneCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a milestone",
	Example: `  taiga milestone create -p 12 -n "Sprint 5" --start 2026-11-02 --finish 2026-11-13`,
	Args:    cobra.NoArgs,
	RunE:    runMilestoneCreate,
}

var milestoneEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a milestone",
	Args:  cobra.ExactArgs(1),
	RunE:  runMilestoneEdit,
}

var milestoneDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a milestone",
	Args:  cobra.ExactArgs(1),
	RunE:  runMilestoneDelete,
}

func runMilestoneList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	milestones, err := a.c.Milestones.List(a.ctx, a.optionalProject(milestoneProject))
	if err != nil {
		return fmt.Errorf("listing milestones: %w", err)
	}
	return output.List(milestones, "milestone", "milestones")
}

func runMilestoneGet(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	m, err := a.c.Milestones.Get(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching milestone %d: %w", id, err)
	}
	return output.Item(*m)
}

func runMilestoneStats(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	stats, err := a.c.Milestones.Stats(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching milestone statistics: %w", err)
	}
	return printStats(fmt.Sprintf("Milestone Statistics (ID: %d):", id), stats)
}

func runMilestoneBurndown(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	burndown, err := a.c.Milestones.Burndown(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching burndown: %w", err)
	}
	return printStats(fmt.Sprintf("Milestone Burndown (ID: %d):", id), burndown)
}

func runMilestoneUserStories(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	stories, err := a.c.Milestones.UserStories(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching user stories: %w", err)
	}
	return output.List(stories, "user story", "user stories")
}

// dateFlag validates a YYYY-MM-DD flag value.
func dateFlag(name, v string) (string, error) {
	if _, err := time.Parse(time.DateOnly, v); err != nil {
		return "", exitcode.Invalid("invalid argument --%s %q: expected YYYY-MM-DD", name, v)
	}
	return v, nil
}

func milestoneFields(cmd *cobra.Command) (taiga.Fields, error) {
	fields := taiga.Fields{}
	fl := cmd.Flags()
	if fl.Changed("name") {
		fields["name"] = milestoneName
	}
	for _, d := range []struct{ flag, key, value string }{
		{"start", "estimated_start", milestoneStart},
		{"finish", "estimated_finish", milestoneFinish},
	} {
		if !fl.Changed(d.flag) {
			continue
		}
		v, err := dateFlag(d.flag, d.value)
		if err != nil {
			return nil, err
		}
		fields[d.key] = v
	}
	if fl.Lookup("closed") != nil && fl.Changed("closed") {
		fields["closed"] = milestoneClosed
	}
	return fields, nil
}

func runMilestoneCreate(cmd *cobra.Command, args []string) error {
	if milestoneName == "" || milestoneStart == "" || milestoneFinish == "" {
		return exitcode.Invalid("--name, --start and --finish are required")
	}
	fields, err := milestoneFields(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	project, err := a.project(milestoneProject)
	if err != nil {
		return err
	}
	fields["project"] = project
	m, err := a.c.Milestones.Create(a.ctx, fields)
	if err != nil {
		return fmt.Errorf("creating milestone: %w", err)
	}
	return output.Result(m, "Milestone created successfully:\n"+m.String())
}

func runMilestoneEdit(cmd *cobra.Command, args []string) error {
	fields, err := milestoneFields(cmd)
	if err != nil {
		return err
	}
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return output.Done(noFieldsMessage, map[string]any{"updated": false})
	}
	m, err := a.c.Milestones.Update(a.ctx, id, fields)
	if err != nil {
		return fmt.Errorf("updating milestone %d: %w", id, err)
	}
	return output.Result(m, "Milestone updated successfully:\n"+m.String())
}

func runMilestoneDelete(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	if !milestoneYes {
		ok, err := confirm(fmt.Sprintf("Delete milestone %d?", id))
		if err != nil || !ok {
			return err
		}
	}
	if err := a.c.Milestones.Delete(a.ctx, id); err != nil {
		return fmt.Errorf("deleting milestone %d: %w", id, err)
	}
	return output.Done(fmt.Sprintf("Deleted milestone %d.", id), map[string]any{"id": id})
}
