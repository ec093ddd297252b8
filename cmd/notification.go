package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/output"
)

func init() {
	notificationCmd.AddCommand(notificationListCmd, notificationUnreadCmd, notificationReadCmd, notificationReadAllCmd)
	rootCmd.AddCommand(notificationCmd)
}

var notificationCmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"notifications", "inbox"},
	Short:   "Read your notifications",
}

var notificationListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notifications",
	Args:    cobra.NoArgs,
	RunE:    runNotificationList,
}

var notificationUnreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Count unread notifications",
	Args:  cobra.NoArgs,
	RunE:  runNotificationUnread,
}

var notificationReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotificationRead,
}

var notificationReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	Args:  cobra.NoArgs,
	RunE:  runNotificationReadAll,
}

func runNotificationList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	list, err := a.c.Notifications.List(a.ctx)
	if err != nil {
		return fmt.Errorf("listing notifications: %w", err)
	}
	return output.List(list, "notification", "notifications")
}

func runNotificationUnread(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	n, err := a.c.Notifications.Unread(a.ctx)
	if err != nil {
		return fmt.Errorf("counting notifications: %w", err)
	}
	return output.Result(map[string]int{"unread": n}, fmt.Sprintf("%d unread notification(s)", n))
}

func runNotificationRead(cmd *cobra.Command, args []string) error {
	a, id, err := withID(cmd, args)
	if err != nil {
		return err
	}
	n, err := a.c.Notifications.MarkRead(a.ctx, id)
	if err != nil {
		return fmt.Errorf("marking notification %d: %w", id, err)
	}
	return output.Result(n, fmt.Sprintf("Marked notification %d as read.", n.ID))
}

func runNotificationReadAll(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.c.Notifications.MarkAllRead(a.ctx); err != nil {
		return fmt.Errorf("marking notifications: %w", err)
	}
	return output.Done("Marked all notifications as read.", nil)
}
