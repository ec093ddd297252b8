package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/opener"
	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectGetCmd)
	projectCmd.AddCommand(projectStatsCmd)
	projectCmd.AddCommand(projectModulesCmd)
	projectCmd.AddCommand(projectMembersCmd)
	projectCmd.AddCommand(projectRolesCmd)
	projectCmd.AddCommand(projectOpenCmd)
	projectCmd.AddCommand(
		projectToggleCmd("star", "Star a project", "Starred", func(a *app, id int) error {
			return a.c.Projects.Star(a.ctx, id)
		}),
		projectToggleCmd("unstar", "Remove your star from a project", "Unstarred", func(a *app, id int) error {
			return a.c.Projects.Unstar(a.ctx, id)
		}),
		projectToggleCmd("watch", "Watch a project", "Watching", func(a *app, id int) error {
			return a.c.Projects.Watch(a.ctx, id)
		}),
		projectToggleCmd("unwatch", "Stop watching a project", "Stopped watching", func(a *app, id int) error {
			me, err := a.c.Users.Me(a.ctx)
			if err != nil {
				return err
			}
			return a.c.Projects.Unwatch(a.ctx, id, me.ID)
		}),
	)
	rootCmd.AddCommand(projectCmd)
}

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Browse projects",
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the projects you can see",
	Args:    cobra.NoArgs,
	RunE:    runProjectList,
}

var projectGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectGet,
}

var projectStatsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show project statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectStats,
}

var projectModulesCmd = &cobra.Command{
	Use:   "modules <id>",
	Short: "Show which project modules are enabled",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectModules,
}

var projectMembersCmd = &cobra.Command{
	Use:   "members <id>",
	Short: "List project memberships",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectMembers,
}

var projectRolesCmd = &cobra.Command{
	Use:   "roles <id>",
	Short: "List project roles",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectRoles,
}

var projectOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a project in the browser",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectOpen,
}

// withID parses the id argument and builds the app.
func withID(cmd *cobra.Command, args []string) (*app, int, error) {
	id, err := parseID(args[0])
	if err != nil {
		return nil, 0, err
	}
	a, err := newApp(cmd)
	if err != nil {
		return nil, 0, err
	}
	return a, id, nil
}

// printStats writes a free-form statistics document under title.
func printStats(title string, stats map[string]any) error {
	return output.Result(stats, output.Heading(title)+"\n"+taiga.FormatMap(stats))
}

func runProjectList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	projects, err := a.c.Projects.List(a.ctx)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}
	return output.List(projects, "project", "projects")
}

func runProjectGet(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	p, err := a.c.Projects.Get(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching project %d: %w", id, err)
	}
	return output.Item(*p)
}

func runProjectStats(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	stats, err := a.c.Projects.Stats(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching project statistics: %w", err)
	}
	return printStats(fmt.Sprintf("Project Statistics (ID: %d):", id), stats)
}

func runProjectModules(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	modules, err := a.c.Projects.Modules(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching project modules: %w", err)
	}
	return printStats(fmt.Sprintf("Project Modules (ID: %d):", id), modules)
}

func runProjectMembers(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	members, err := a.c.Projects.Memberships(a.ctx, id)
	if err != nil {
		return fmt.Errorf("listing memberships: %w", err)
	}
	return output.List(members, "membership", "memberships")
}

func runProjectRoles(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	roles, err := a.c.Projects.Roles(a.ctx, id)
	if err != nil {
		return fmt.Errorf("listing roles: %w", err)
	}
	return output.List(roles, "role", "roles")
}

func runProjectOpen(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	p, err := a.c.Projects.Get(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching project %d: %w", id, err)
	}
	url := opener.ProjectURL(a.c.BaseURL(), p.Slug)
	if output.Structured() {
		return output.Write(map[string]string{"url": url})
	}
	fmt.Fprintln(output.MsgOut(), url)
	return opener.Open(url)
}

func projectToggleCmd(use, short, done string, run func(a *app, id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, id, err := withID(cmd, args)
			if err != nil {
				return err
			}
			if err := run(a, id); err != nil {
				return fmt.Errorf("%s project %d: %w", use, id, err)
			}
			return output.Done(fmt.Sprintf("%s project %d.", done, id), map[string]any{"project": id})
		},
	}
}
