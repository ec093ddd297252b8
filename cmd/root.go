package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/log"
	"github.com/protocollar/taiga/internal/output"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	flagJSON   bool
	flagYAML   bool
	flagJQ     string
	flagAPIURL string
	flagDebug  bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagJSON, "json", false, "print results as JSON")
	pf.BoolVar(&flagYAML, "yaml", false, "print results as YAML")
	pf.StringVar(&flagJQ, "jq", "", "filter JSON results with a jq expression (implies --json)")
	pf.StringVar(&flagAPIURL, "api-url", "", "Taiga API URL for this invocation")
	pf.BoolVar(&flagDebug, "debug", false, "log HTTP traffic and internals to stderr")
	rootCmd.SetVersionTemplate("taiga {{.Version}}\n")
}

var rootCmd = &cobra.Command{
	Use:   "taiga",
	Short: "Work with Taiga projects from the command line",
	Long: `taiga is a command-line client for the Taiga project management API.

Log in once with "taiga auth login", then list, create and edit epics,
user stories, tasks, issues, milestones, wiki pages and webhooks.
"taiga mcp serve" exposes the same operations to AI agents.

Results are printed as text; use --json, --yaml or --jq for scripts.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// RootCommand returns the root cobra command.
func RootCommand() *cobra.Command {
	return rootCmd
}

// SetVersionInfo records build information shown by --version.
func SetVersionInfo(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

func setup(cmd *cobra.Command, args []string) error {
	if err := output.Configure(flagJSON, flagYAML, flagJQ); err != nil {
		return exitcode.Wrap("invalid_input", exitcode.InvalidInput, err)
	}
	cfg := log.FromEnv()
	if flagDebug {
		cfg.Level = "debug"
	}
	log.Setup(cfg)
	return nil
}

// Execute runs the root command and exits with the classified status.
func Execute() {
	registerProjectCompletion(rootCmd)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	code, exit := exitcode.ClassifyError(err)
	if output.Structured() {
		output.WriteError(code, err.Error(), exit)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exit)
}
