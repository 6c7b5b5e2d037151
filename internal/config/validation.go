package config

import (
	"fmt"
	"net/url"
	"strings"

	"typetalk/pkg/logging"
	"typetalk/pkg/typetalk"
)

// Validate checks the configuration and reports every problem at once.
func (c TypetalkConfig) Validate() error {
	var errs ValidationErrors

	if c.Timeout < 0 {
		errs.Add("timeout", "must not be negative", c.Timeout)
	}
	if err := validateOneOf(c.Bookmark, []string{string(typetalk.BookmarkSave), string(typetalk.BookmarkPut)}); err != "" {
		errs.Add("bookmarkEndpoint", err, c.Bookmark)
	}
	if err := validateOneOf(c.Output, []string{OutputTable, OutputJSON, OutputYAML}); err != "" {
		errs.Add("output", err, c.Output)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs.Add("logLevel", err.Error(), c.LogLevel)
	}
	for field, value := range map[string]string{
		"apiBaseUrl":   c.APIBaseURL,
		"oauthBaseUrl": c.OAuthBaseURL,
		"redirectUri":  c.RedirectURI,
	} {
		if value == "" {
			continue
		}
		if u, err := url.Parse(value); err != nil || u.Scheme == "" || u.Host == "" {
			errs.Add(field, "must be an absolute URL", value)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateOneOf(value string, allowed []string) string {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return ""
		}
	}
	return fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", "))
}
