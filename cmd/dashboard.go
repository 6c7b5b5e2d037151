package cmd

import (
	"encoding/json"
	"fmt"

	"typetalk/internal/formatting"
	"typetalk/pkg/logging"
	"typetalk/pkg/typetalk"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var dashboardUnreadOnly bool

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show topics, notifications and mentions at once",
	Long: `Fetch topics, notifications, unread counts and mentions concurrently
and print them as one document. The first failing request aborts the others.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

// dashboard is the combined document printed by the dashboard command.
type dashboard struct {
	Topics        json.RawMessage `json:"topics"`
	Notifications json.RawMessage `json:"notifications"`
	Status        json.RawMessage `json:"status"`
	Mentions      json.RawMessage `json:"mentions"`
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().BoolVar(&dashboardUnreadOnly, "unread", false, "Only include unread mentions")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	client, err := authenticatedClient(cmd)
	if err != nil {
		return err
	}

	var d dashboard
	err = withSpinner(cmd, "Loading dashboard...", func() error {
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() (err error) {
			d.Topics, err = client.GetMyTopics(ctx)
			return err
		})
		g.Go(func() (err error) {
			d.Notifications, err = client.GetNotificationList(ctx)
			return err
		})
		g.Go(func() (err error) {
			d.Status, err = client.GetNotificationCount(ctx)
			return err
		})
		g.Go(func() (err error) {
			d.Mentions, err = client.GetMentionList(ctx, &typetalk.MentionsOptions{Unread: dashboardUnreadOnly})
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return err
	}

	logging.Debug(subsystemCLI, "Dashboard loaded")
	if format, _ := formatting.ParseFormat(settings.Output); format != formatting.FormatTable {
		return renderValue(cmd, d)
	}

	sections := []struct {
		title string
		data  json.RawMessage
	}{
		{"Topics", d.Topics},
		{"Notifications", d.Notifications},
		{"Unread", d.Status},
		{"Mentions", d.Mentions},
	}
	for _, section := range sections {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", section.title)
		if err := render(cmd, section.data); err != nil {
			return err
		}
	}
	return nil
}
