package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"typetalk/internal/config"
	"typetalk/internal/formatting"
	"typetalk/pkg/logging"
	"typetalk/pkg/typetalk"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const subsystemCLI = "CLI"

// newClient builds a client from the resolved settings and the token flags.
func newClient(opts typetalk.Options) (*typetalk.Client, error) {
	opts.AccessToken = accessToken
	if opts.AccessToken == "" {
		opts.AccessToken = config.AccessTokenFromEnv()
	}
	opts.RefreshToken = refreshToken
	return typetalk.New(opts)
}

// authenticatedClient returns a client ready for resource calls. Without an
// access token from the flags or the environment it runs the client
// credentials grant first.
func authenticatedClient(cmd *cobra.Command) (*typetalk.Client, error) {
	client, err := newClient(settings.ClientOptions())
	if err != nil {
		return nil, err
	}
	if client.AccessToken() != "" {
		return client, nil
	}

	logging.Debug(subsystemCLI, "No access token supplied, using the client credentials grant")
	err = withSpinner(cmd, "Requesting access token...", func() error {
		_, err := client.AccessTokenUsingClientCredentials(cmd.Context())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}
	return client, nil
}

// withSpinner runs fn while a spinner is shown on stderr. The spinner is
// skipped in quiet mode.
func withSpinner(cmd *cobra.Command, suffix string, fn func() error) error {
	if quiet {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " " + suffix
	s.Start()

	err := fn()
	if err != nil {
		s.FinalMSG = text.FgRed.Sprint("failed") + "\n"
	}
	s.Stop()
	return err
}

// render writes an API response in the configured output format.
func render(cmd *cobra.Command, data json.RawMessage) error {
	format, err := formatting.ParseFormat(settings.Output)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return formatting.Render(out, formatting.Options{
		Format: format,
		Quiet:  quiet,
		Color:  isTerminal(out),
	}, data)
}

// isTerminal reports whether w is an interactive terminal. Colors are only
// written to terminals.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// renderValue marshals v and renders it like an API response.
func renderValue(cmd *cobra.Command, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return render(cmd, data)
}

// runResource is the RunE body shared by the read-only resource commands.
func runResource(call func(ctx context.Context, client *typetalk.Client) (json.RawMessage, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, err := authenticatedClient(cmd)
		if err != nil {
			return err
		}
		data, err := call(cmd.Context(), client)
		if err != nil {
			return err
		}
		return render(cmd, data)
	}
}

// parseID parses a positional numeric identifier.
func parseID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, value)
	}
	return id, nil
}
