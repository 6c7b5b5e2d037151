package cmd

import (
	"context"
	"encoding/json"

	"typetalk/pkg/typetalk"

	"github.com/spf13/cobra"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the profile of the authenticated account",
	Args:  cobra.NoArgs,
	RunE: runResource(func(ctx context.Context, client *typetalk.Client) (json.RawMessage, error) {
		return client.GetMyProfile(ctx)
	}),
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
