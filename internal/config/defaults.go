package config

import (
	"typetalk/pkg/typetalk"
)

// DefaultRedirectURI is the loopback address used by `typetalk auth login`.
const DefaultRedirectURI = "http://localhost:3000/callback"

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() TypetalkConfig {
	return TypetalkConfig{
		RedirectURI:  DefaultRedirectURI,
		Scope:        typetalk.DefaultScope,
		Timeout:      typetalk.DefaultTimeout,
		APIBaseURL:   typetalk.DefaultAPIBaseURL,
		OAuthBaseURL: typetalk.DefaultOAuthBaseURL,
		Bookmark:     string(typetalk.BookmarkSave),
		Output:       OutputTable,
		LogLevel:     "warn",
	}
}

// fillDefaults restores the default of every field that config.yaml set to an
// empty string.
func (c *TypetalkConfig) fillDefaults() {
	defaults := GetDefaultConfig()
	for field, fallback := range map[*string]string{
		&c.RedirectURI:  defaults.RedirectURI,
		&c.Scope:        defaults.Scope,
		&c.APIBaseURL:   defaults.APIBaseURL,
		&c.OAuthBaseURL: defaults.OAuthBaseURL,
		&c.Bookmark:     defaults.Bookmark,
		&c.Output:       defaults.Output,
		&c.LogLevel:     defaults.LogLevel,
	} {
		if *field == "" {
			*field = fallback
		}
	}
}

// ClientOptions converts the configuration into client options.
func (c TypetalkConfig) ClientOptions() typetalk.Options {
	return typetalk.Options{
		ClientID:         c.ClientID,
		ClientSecret:     c.ClientSecret,
		RedirectURI:      c.RedirectURI,
		Scope:            c.Scope,
		Timeout:          c.Timeout,
		APIBaseURL:       c.APIBaseURL,
		OAuthBaseURL:     c.OAuthBaseURL,
		BookmarkEndpoint: typetalk.BookmarkEndpoint(c.Bookmark),
	}
}
