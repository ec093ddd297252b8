package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

func init() {
	timelineCmd.AddCommand(timelineProjectCmd, timelineProfileCmd, timelineUserCmd)
	rootCmd.AddCommand(timelineCmd)
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show activity timelines",
}

var timelineProjectCmd = &cobra.Command{
	Use:   "project <projectId>",
	Short: "Show the activity of a project",
	Args:  cobra.ExactArgs(1),
	RunE: timeline(func(a *app, ids []int) ([]taiga.TimelineEntry, error) {
		return a.c.Timeline.Project(a.ctx, ids[0])
	}),
}

var timelineProfileCmd = &cobra.Command{
	Use:   "profile <projectId>",
	Short: "Show your own activity in a project",
	Args:  cobra.ExactArgs(1),
	RunE: timeline(func(a *app, ids []int) ([]taiga.TimelineEntry, error) {
		return a.c.Timeline.Profile(a.ctx, ids[0])
	}),
}

var timelineUserCmd = &cobra.Command{
	Use:   "user <projectId> <userId>",
	Short: "Show the activity of a user in a project",
	Args:  cobra.ExactArgs(2),
	RunE: timeline(func(a *app, ids []int) ([]taiga.TimelineEntry, error) {
		return a.c.Timeline.User(a.ctx, ids[0], ids[1])
	}),
}

// timeline parses every argument as an id and prints the entries fetch
// returns.
func timeline(fetch func(a *app, ids []int) ([]taiga.TimelineEntry, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ids := make([]int, len(args))
		for i, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ids[i] = id
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		entries, err := fetch(a, ids)
		if err != nil {
			return fmt.Errorf("fetching timeline: %w", err)
		}
		return output.List(entries, "timeline entry", "timeline entries")
	}
}
