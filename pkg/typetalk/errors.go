package typetalk

import (
	"errors"
	"fmt"
	"net/http"

	"typetalk/pkg/oauth"
)

// GenericErrorDescription is the description of every API failure other than
// 400 and 401.
const GenericErrorDescription = "An error has occurred while requesting api"

var (
	// ErrNoAccessToken is returned by resource calls made before a token is set.
	ErrNoAccessToken = errors.New("no access token: obtain one with a grant flow or SetToken first")

	// ErrInvalidArgument is returned when endpoint parameters are rejected
	// before any request is sent.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInteractiveAuthUnavailable is returned by AuthorizeInteractive when no
	// Authorizer is configured.
	ErrInteractiveAuthUnavailable = errors.New("interactive authorization is not available: no authorizer configured")

	// ErrAuthorizationCancelled is returned when the user or the authorizer
	// aborts the interactive flow.
	ErrAuthorizationCancelled = errors.New("authorization was cancelled")

	// ErrAuthorizationCodeMissing is returned when the redirect URL carries no
	// code parameter.
	ErrAuthorizationCodeMissing = errors.New("authorization code not found in redirect URL")
)

// APIError describes a failed resource API call that reached the server.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// Code is the error code. For 400 and 401 responses it comes from the
	// WWW-Authenticate header when present, otherwise it is the HTTP status text.
	Code string

	// Description is the error_description from WWW-Authenticate, empty when
	// absent, or GenericErrorDescription for other statuses.
	Description string

	// Challenge is the fully parsed WWW-Authenticate header, if one was sent.
	Challenge *oauth.AuthChallenge
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("typetalk api error (status %d): %s: %s", e.Status, e.Code, e.Description)
	}
	return fmt.Sprintf("typetalk api error (status %d): %s", e.Status, e.Code)
}

// IsAuthError reports whether err is an APIError for a 400 or 401 response.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized
}

// IsInvalidToken reports whether err is an APIError whose code is invalid_token,
// which usually means the access token expired and should be refreshed.
func IsInvalidToken(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "invalid_token"
}

// ConfigError reports a configuration value that prevents an operation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}
