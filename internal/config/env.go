package config

import (
	"os"
	"time"

	"typetalk/pkg/logging"
)

// Environment variables that override values from config.yaml.
const (
	EnvClientID     = "TYPETALK_CLIENT_ID"
	EnvClientSecret = "TYPETALK_CLIENT_SECRET"
	EnvRedirectURI  = "TYPETALK_REDIRECT_URI"
	EnvScope        = "TYPETALK_SCOPE"
	EnvTimeout      = "TYPETALK_TIMEOUT"
	EnvAccessToken  = "TYPETALK_ACCESS_TOKEN"
)

// applyEnv overrides config fields with any non-empty environment variable.
func applyEnv(config *TypetalkConfig) {
	config.ClientID = readStringValueFromEnv(EnvClientID, config.ClientID)
	config.ClientSecret = readStringValueFromEnv(EnvClientSecret, config.ClientSecret)
	config.RedirectURI = readStringValueFromEnv(EnvRedirectURI, config.RedirectURI)
	config.Scope = readStringValueFromEnv(EnvScope, config.Scope)
	config.Timeout = readDurationValueFromEnv(EnvTimeout, config.Timeout)
}

// AccessTokenFromEnv returns the access token supplied through the environment.
func AccessTokenFromEnv() string {
	return os.Getenv(EnvAccessToken)
}

// readStringValueFromEnv reads a string value from the supplied environment variable,
// if the value is not set, i.e empty, the supplied default is returned
func readStringValueFromEnv(varName, defaultValue string) string {
	value := os.Getenv(varName)
	if value == "" {
		return defaultValue
	}
	return value
}

// readDurationValueFromEnv reads a duration such as "5s"; unparsable values
// are ignored with a warning.
func readDurationValueFromEnv(varName string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(varName)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("ConfigLoader", "Ignoring %s=%q: %v", varName, value, err)
		return defaultValue
	}
	return d
}
