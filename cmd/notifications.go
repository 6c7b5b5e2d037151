package cmd

import (
	"typetalk/pkg/typetalk"

	"github.com/spf13/cobra"
)

// Notification and mention flags
var (
	notificationsCountOnly bool
	notificationsMarkRead  bool
	mentionsUnread         bool
	mentionsFrom           int64
)

// notificationsCmd represents the notifications command
var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications or show unread counts",
	Args:  cobra.NoArgs,
	RunE:  runNotifications,
}

// mentionsCmd represents the mentions command
var mentionsCmd = &cobra.Command{
	Use:   "mentions",
	Short: "List mentions of the authenticated account",
	Args:  cobra.NoArgs,
	RunE:  runMentions,
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(mentionsCmd)

	notificationsCmd.Flags().BoolVar(&notificationsCountOnly, "count-only", false, "Show unread counts instead of the list")
	notificationsCmd.Flags().BoolVar(&notificationsMarkRead, "mark-read", false, "Mark notifications as read after listing them")

	mentionsCmd.Flags().BoolVar(&mentionsUnread, "unread", false, "Only list unread mentions")
	mentionsCmd.Flags().Int64Var(&mentionsFrom, "from", 0, "Mention id to page from")
}

func runNotifications(cmd *cobra.Command, args []string) error {
	client, err := authenticatedClient(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if notificationsCountOnly {
		data, err := client.GetNotificationCount(ctx)
		if err != nil {
			return err
		}
		return render(cmd, data)
	}

	data, err := client.GetNotificationList(ctx)
	if err != nil {
		return err
	}
	if err := render(cmd, data); err != nil {
		return err
	}

	if notificationsMarkRead {
		if _, err := client.ReadNotification(ctx); err != nil {
			return err
		}
		authPrintf(cmd, "Notifications marked as read.\n")
	}
	return nil
}

func runMentions(cmd *cobra.Command, args []string) error {
	client, err := authenticatedClient(cmd)
	if err != nil {
		return err
	}

	data, err := client.GetMentionList(cmd.Context(), &typetalk.MentionsOptions{
		From:   mentionsFrom,
		Unread: mentionsUnread,
	})
	if err != nil {
		return err
	}
	return render(cmd, data)
}
