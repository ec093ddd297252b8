package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

var statusProject int

func init() {
	statusCmd.PersistentFlags().IntVarP(&statusProject, "project", "p", 0, "project id (defaults to the configured project)")
	for _, kind := range taiga.StatusKinds {
		statusCmd.AddCommand(statusKindCmd(kind))
	}
	statusCmd.AddCommand(statusAllCmd)
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"statuses"},
	Short:   "List the statuses, types, priorities and severities of a project",
}

var statusAllCmd = &cobra.Command{
	Use:   "all",
	Short: "List every vocabulary of a project",
	Args:  cobra.NoArgs,
	RunE:  runStatusAll,
}

func statusKindCmd(kind taiga.StatusKind) *cobra.Command {
	label := kind.Label()
	return &cobra.Command{
		Use:   string(kind),
		Short: "List " + strings.ToLower(label),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			list, err := a.c.Statuses.List(a.ctx, kind, a.optionalProject(statusProject))
			if err != nil {
				return fmt.Errorf("listing %s: %w", strings.ToLower(label), err)
			}
			return output.Result(list, statusSection(label, list))
		},
	}
}

func statusSection(label string, list []taiga.Status) string {
	var b strings.Builder
	b.WriteString(output.Heading("Available " + label + ":"))
	b.WriteString("\n")
	for _, s := range list {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func runStatusAll(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	project, err := a.project(statusProject)
	if err != nil {
		return err
	}
	lists, err := a.r.Statuses(a.ctx, project, taiga.StatusKinds...)
	if err != nil {
		return err
	}
	doc := make(map[string][]taiga.Status, len(lists))
	sections := make([]string, len(lists))
	for i, kind := range taiga.StatusKinds {
		doc[string(kind)] = lists[i]
		sections[i] = statusSection(kind.Label(), lists[i])
	}
	return output.Result(doc, strings.Join(sections, "\n\n"))
}
