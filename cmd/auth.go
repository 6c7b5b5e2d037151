package cmd

import (
	"fmt"
	"time"

	"typetalk/pkg/logging"
	"typetalk/pkg/oauth"

	"github.com/spf13/cobra"
)

// Auth-specific flags
var (
	authOpen         bool
	loginNoBrowser   bool
	loginTimeout     time.Duration
	tokenRefresh     string
	validateShowUser bool
)

// authCmd represents the auth command group
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain and check Typetalk access tokens",
	Long: `Obtain and check OAuth2 access tokens for the Typetalk API.

Tokens are printed and never stored. Pass them to other commands with
--access-token or the TYPETALK_ACCESS_TOKEN environment variable.

Examples:
  typetalk auth url                    # Print the authorization page URL
  typetalk auth login                  # Authorize in the browser (authorization code grant)
  typetalk auth token                  # Client credentials grant
  typetalk auth token --refresh <tok>  # Refresh token grant
  typetalk auth validate               # Check the access token against the API`,
}

// authURLCmd represents the auth url command
var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the authorization page URL",
	Long: `Print the URL where a user grants this client access.

After the user approves, Typetalk redirects to the configured redirect URI with
a code parameter. Exchange it with 'typetalk auth login' or your own handler.`,
	Args: cobra.NoArgs,
	RunE: runAuthURL,
}

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize in the browser and print the token",
	Long: `Run the OAuth2 authorization code flow.

A local server listens on the configured redirect URI (default
http://localhost:3000/callback), the authorization page is opened in the
browser and the code from the redirect is exchanged for a token.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

// authTokenCmd represents the auth token command
var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Obtain a token with the client credentials or refresh token grant",
	Args:  cobra.NoArgs,
	RunE:  runAuthToken,
}

// authValidateCmd represents the auth validate command
var authValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the access token is accepted by the API",
	Args:  cobra.NoArgs,
	RunE:  runAuthValidate,
}

// tokenOutput is a granted token as printed by the auth commands.
type tokenOutput struct {
	*oauth.Token
	Expired bool `json:"expired"`
}

// renderToken prints token together with whether it is already expired or
// about to expire.
func renderToken(cmd *cobra.Command, token *oauth.Token) error {
	expired := token.IsExpired()
	if expired {
		authPrintf(cmd, "Warning: the token expires at %s.\n", token.ExpiresAt.Format(time.RFC3339))
	}
	return renderValue(cmd, tokenOutput{Token: token, Expired: expired})
}

// authPrintf prints progress to stderr unless --quiet is set.
func authPrintf(cmd *cobra.Command, format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
	}
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authURLCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authTokenCmd)
	authCmd.AddCommand(authValidateCmd)

	authURLCmd.Flags().BoolVar(&authOpen, "open", false, "Also open the URL in the browser")

	authLoginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "Print the authorization URL instead of opening a browser")
	authLoginCmd.Flags().DurationVar(&loginTimeout, "timeout", oauth.CallbackTimeout, "How long to wait for the authorization callback")

	authTokenCmd.Flags().StringVar(&tokenRefresh, "refresh", "", "Use the refresh token grant with this refresh token")

	authValidateCmd.Flags().BoolVar(&validateShowUser, "show-profile", false, "Print the profile returned by the API")
}

func runAuthURL(cmd *cobra.Command, args []string) error {
	client, err := newClient(settings.ClientOptions())
	if err != nil {
		return err
	}

	var authURL string
	if authOpen {
		authURL, err = client.RequestAuthorization()
	} else {
		authURL, err = client.AuthorizationURL()
	}
	if authURL != "" {
		fmt.Fprintln(cmd.OutOrStdout(), authURL)
	}
	return err
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	authorizer := &oauth.LoopbackAuthorizer{
		RedirectURI: settings.RedirectURI,
		Timeout:     loginTimeout,
		Logger:      logging.Logger(),
		OnListening: func(callbackURL string) {
			logging.Debug(subsystemCLI, "Listening for the authorization callback on %s", callbackURL)
		},
	}
	if loginNoBrowser {
		authorizer.Open = func(url string) error {
			fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL in your browser to authorize typetalk:\n\n  %s\n\n", url)
			return nil
		}
	}

	opts := settings.ClientOptions()
	opts.Authorizer = authorizer
	client, err := newClient(opts)
	if err != nil {
		return err
	}

	var token *oauth.Token
	authorize := func() error {
		var err error
		token, err = client.AuthorizeInteractive(cmd.Context())
		return err
	}
	if loginNoBrowser {
		err = authorize()
	} else {
		err = withSpinner(cmd, "Waiting for authorization in the browser...", authorize)
	}
	if err != nil {
		return err
	}
	authPrintf(cmd, "Authorization complete.\n")
	return renderToken(cmd, token)
}

func runAuthToken(cmd *cobra.Command, args []string) error {
	client, err := newClient(settings.ClientOptions())
	if err != nil {
		return err
	}

	var token *oauth.Token
	if tokenRefresh != "" || client.RefreshToken() != "" {
		token, err = client.RefreshAccessToken(cmd.Context(), tokenRefresh)
	} else {
		token, err = client.AccessTokenUsingClientCredentials(cmd.Context())
	}
	if err != nil {
		return err
	}
	return renderToken(cmd, token)
}

func runAuthValidate(cmd *cobra.Command, args []string) error {
	client, err := newClient(settings.ClientOptions())
	if err != nil {
		return err
	}

	profile, err := client.ValidateAccessToken(cmd.Context())
	if err != nil {
		return err
	}
	authPrintf(cmd, "Access token is valid.\n")
	if validateShowUser {
		return render(cmd, profile)
	}
	return nil
}
