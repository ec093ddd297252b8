package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

var (
	webhookProject int
	webhookName    string
	webhookURL     string
	webhookKey     string
	webhookYes     bool
)

func init() {
	webhookListCmd.Flags().IntVarP(&webhookProject, "project", "p", 0, "project id (defaults to the configured project)")
	webhookCreateCmd.Flags().IntVarP(&webhookProject, "project", "p", 0, "project id (defaults to the configured project)")
	for _, c := range []*cobra.Command{webhookCreateCmd, webhookEditCmd} {
		c.Flags().StringVarP(&webhookName, "name", "n", "", "webhook name")
		c.Flags().StringVar(&webhookURL, "url", "", "delivery URL")
		c.Flags().StringVar(&webhookKey, "key", "", "secret used to sign payloads")
	}
	webhookDeleteCmd.Flags().BoolVarP(&webhookYes, "yes", "y", false, "skip the confirmation prompt")

	webhookCmd.AddCommand(
		webhookListCmd,
		webhookGetCmd,
		webhookLogsCmd,
		webhookCreateCmd,
		webhookEditCmd,
		webhookDeleteCmd,
		webhookTestCmd,
	)
	rootCmd.AddCommand(webhookCmd)
}

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage project webhooks",
}

var webhookListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List webhooks",
	Args:    cobra.NoArgs,
	RunE:    runWebhookList,
}

var webhookGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookGet,
}

var webhookLogsCmd = &cobra.Command{
	Use:   "logs <id>",
	Short: "Show recent deliveries of a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookLogs,
}

var webhookCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a webhook",
	Example: `  taiga webhook create -p 12 -n ci --url https://ci.example.com/taiga --key s3cret`,
	Args:    cobra.NoArgs,
	RunE:    runWebhookCreate,
}

var webhookEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookEdit,
}

var webhookDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookDelete,
}

var webhookTestCmd = &cobra.Command{
	Use:   "test <id>",
	Short: "Send a test delivery",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookTest,
}

func runWebhookList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	hooks, err := a.c.Webhooks.List(a.ctx, a.optionalProject(webhookProject))
	if err != nil {
		return fmt.Errorf("listing webhooks: %w", err)
	}
	return output.List(hooks, "webhook", "webhooks")
}

func runWebhookGet(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	w, err := a.c.Webhooks.Get(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching webhook %d: %w", id, err)
	}
	return output.Item(*w)
}

func runWebhookLogs(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	logs, err := a.c.Webhooks.Logs(a.ctx, id)
	if err != nil {
		return fmt.Errorf("fetching webhook logs: %w", err)
	}
	return output.List(logs, "log entry", "log entries")
}

func webhookFields(cmd *cobra.Command) taiga.Fields {
	fields := taiga.Fields{}
	fl := cmd.Flags()
	if fl.Changed("name") {
		fields["name"] = webhookName
	}
	if fl.Changed("url") {
		fields["url"] = webhookURL
	}
	if fl.Changed("key") {
		fields["key"] = webhookKey
	}
	return fields
}

func runWebhookCreate(cmd *cobra.Command, args []string) error {
	if webhookName == "" || webhookURL == "" || webhookKey == "" {
		return exitcode.Invalid("--name, --url and --key are required")
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	project, err := a.project(webhookProject)
	if err != nil {
		return err
	}
	fields := webhookFields(cmd)
	fields["project"] = project
	w, err := a.c.Webhooks.Create(a.ctx, fields)
	if err != nil {
		return fmt.Errorf("creating webhook: %w", err)
	}
	return output.Result(w, "Webhook created successfully:\n"+w.String())
}

func runWebhookEdit(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	fields := webhookFields(cmd)
	if len(fields) == 0 {
		return output.Done(noFieldsMessage, map[string]any{"updated": false})
	}
	w, err := a.c.Webhooks.Update(a.ctx, id, fields)
	if err != nil {
		return fmt.Errorf("updating webhook %d: %w", id, err)
	}
	return output.Result(w, "Webhook updated successfully:\n"+w.String())
}

func runWebhookDelete(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	if !webhookYes {
		ok, err := confirm(fmt.Sprintf("Delete webhook %d?", id))
		if err != nil || !ok {
			return err
		}
	}
	if err := a.c.Webhooks.Delete(a.ctx, id); err != nil {
		return fmt.Errorf("deleting webhook %d: %w", id, err)
	}
	return output.Done(fmt.Sprintf("Deleted webhook %d.", id), map[string]any{"id": id})
}

func runWebhookTest(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	delivery, err := a.c.Webhooks.Test(a.ctx, id)
	if err != nil {
		return fmt.Errorf("testing webhook %d: %w", id, err)
	}
	return output.Result(delivery, "Test delivery sent:\n"+delivery.String())
}
