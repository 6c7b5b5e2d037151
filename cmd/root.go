package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"typetalk/internal/config"
	"typetalk/internal/formatting"
	"typetalk/pkg/logging"
	"typetalk/pkg/oauth"
	"typetalk/pkg/typetalk"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates the API or the token endpoint rejected
	// the credentials.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the interactive authorization failed.
	ExitCodeAuthFailed = 3
)

// Global flags
var (
	configPath   string
	accessToken  string
	refreshToken string
	outputFlag   string
	logLevelFlag string
	quiet        bool
)

// settings is the configuration resolved for the running command.
var settings config.TypetalkConfig

// rootCmd represents the base command for the typetalk application.
var rootCmd = &cobra.Command{
	Use:   "typetalk",
	Short: "Command line client for the Typetalk messaging API",
	Long: `typetalk talks to the Typetalk REST API from the command line.

It obtains OAuth2 tokens with the client credentials, authorization code or
refresh token grants, lists topics, messages, notifications and mentions,
and posts messages to topics.

Client credentials are read from ~/.config/typetalk/config.yaml or from the
TYPETALK_CLIENT_ID and TYPETALK_CLIENT_SECRET environment variables.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "typetalk version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if errors.Is(err, typetalk.ErrAuthorizationCancelled) ||
		errors.Is(err, typetalk.ErrAuthorizationCodeMissing) ||
		errors.Is(err, typetalk.ErrInteractiveAuthUnavailable) {
		return ExitCodeAuthFailed
	}

	var callbackErr *oauth.CallbackError
	if errors.As(err, &callbackErr) {
		return ExitCodeAuthFailed
	}

	if typetalk.IsAuthError(err) || errors.Is(err, typetalk.ErrNoAccessToken) {
		return ExitCodeAuthRequired
	}

	var grantErr *oauth.ErrorResponse
	if errors.As(err, &grantErr) {
		return ExitCodeAuthRequired
	}

	return ExitCodeError
}

// loadSettings initializes logging and resolves the configuration. Flags
// win over environment variables, which win over the config file.
func loadSettings(cmd *cobra.Command, args []string) error {
	level := logging.LevelWarn
	if logLevelFlag != "" {
		var err error
		if level, err = logging.ParseLevel(logLevelFlag); err != nil {
			return err
		}
	}
	logging.Init(level, cmd.ErrOrStderr())

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if logLevelFlag == "" && cfg.LogLevel != "" {
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logging.Init(level, cmd.ErrOrStderr())
	}

	if outputFlag != "" {
		if _, err := formatting.ParseFormat(outputFlag); err != nil {
			return err
		}
		cfg.Output = outputFlag
	}

	settings = cfg
	return nil
}

func defaultConfigPath() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		return ".typetalk"
	}
	return path
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", defaultConfigPath(), "Configuration directory containing config.yaml")
	rootCmd.PersistentFlags().StringVar(&accessToken, "access-token", "", fmt.Sprintf("Access token to use instead of a grant (env: %s)", config.EnvAccessToken))
	rootCmd.PersistentFlags().StringVar(&refreshToken, "refresh-token", "", "Refresh token to seed the client with")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output and table decorations")

	rootCmd.AddCommand(newVersionCmd())
}
