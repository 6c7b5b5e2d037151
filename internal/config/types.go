package config

import "time"

// Output formats accepted by the CLI.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// TypetalkConfig is the top-level configuration structure for the typetalk CLI.
// Tokens are deliberately absent: they are never written to disk.
type TypetalkConfig struct {
	ClientID     string `yaml:"clientId,omitempty"`
	ClientSecret string `yaml:"clientSecret,omitempty"`

	// RedirectURI is the loopback URI registered for the client.
	RedirectURI string `yaml:"redirectUri,omitempty"`

	// Scope is a comma separated scope list.
	Scope string `yaml:"scope,omitempty"`

	// Timeout bounds each request, for example "5s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	APIBaseURL   string `yaml:"apiBaseUrl,omitempty"`
	OAuthBaseURL string `yaml:"oauthBaseUrl,omitempty"`

	// Bookmark is "bookmark/save" or "bookmarks".
	Bookmark string `yaml:"bookmarkEndpoint,omitempty"`

	// Output is table, json or yaml.
	Output string `yaml:"output,omitempty"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"logLevel,omitempty"`
}
