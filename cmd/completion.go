package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	rootCmd.AddCommand(completionCmd)
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completions for taiga.

  # Bash
  source <(taiga completion bash)

  # Zsh
  taiga completion zsh > "${fpath[1]}/_taiga"

  # Fish
  taiga completion fish | source`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		default:
			return cmd.Help()
		}
	},
}

// projectCompletion completes project ids with the project name as the
// description. It stays silent when nobody is logged in.
func projectCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cmd.SetContext(ctx)

	a, err := newApp(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	projects, err := a.c.Projects.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, fmt.Sprintf("%d\t%s", p.ID, p.Name))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// registerProjectCompletion wires projectCompletion to every --project flag
// in the tree rooted at c.
func registerProjectCompletion(c *cobra.Command) {
	// Local flags only: inherited ones were registered on their owner.
	c.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "project" {
			_ = c.RegisterFlagCompletionFunc(f.Name, projectCompletion)
		}
	})
	for _, sub := range c.Commands() {
		registerProjectCompletion(sub)
	}
}
