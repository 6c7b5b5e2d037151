package oauth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultExpiryMargin is the default margin when checking token expiry.
const DefaultExpiryMargin = 30 * time.Second

// Grant types sent in the grant_type form field.
const (
	GrantClientCredentials = "client_credentials"
	GrantAuthorizationCode = "authorization_code"
	GrantRefreshToken      = "refresh_token"
)

// Token represents an OAuth access token with associated metadata.
type Token struct {
	// AccessToken is the bearer token used for authorization.
	AccessToken string `json:"access_token"`

	// TokenType is typically "Bearer".
	TokenType string `json:"token_type,omitempty"`

	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresIn is the token lifetime in seconds (from token response).
	ExpiresIn int `json:"expires_in,omitempty"`

	// ExpiresAt is the calculated expiration timestamp.
	ExpiresAt time.Time `json:"expires_at,omitempty"`

	// Scope is the granted scope string as returned by the server.
	Scope string `json:"scope,omitempty"`
}

// IsExpired checks if the token has expired or will within DefaultExpiryMargin.
func (t *Token) IsExpired() bool {
	return t.IsExpiredWithMargin(DefaultExpiryMargin)
}

// IsExpiredWithMargin checks if the token has expired or will expire within the margin.
func (t *Token) IsExpiredWithMargin(margin time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false // Tokens without expiration don't expire
	}
	return time.Now().Add(margin).After(t.ExpiresAt)
}

// SetExpiresAtFromExpiresIn calculates and sets ExpiresAt from ExpiresIn.
func (t *Token) SetExpiresAtFromExpiresIn() {
	if t.ExpiresIn > 0 && t.ExpiresAt.IsZero() {
		t.ExpiresAt = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
}

// Scopes splits the granted scope. Typetalk separates scopes with commas,
// other servers with spaces; both are accepted.
func (t *Token) Scopes() []string {
	if t.Scope == "" {
		return nil
	}
	return strings.FieldsFunc(t.Scope, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

// ToOAuth2Token converts the Token to an oauth2.Token for compatibility with golang.org/x/oauth2.
func (t *Token) ToOAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.ExpiresAt,
	}
}

// ErrorResponse is returned when the token endpoint answers with anything
// other than 200. Code and Description carry the server's error and
// error_description fields verbatim.
type ErrorResponse struct {
	// Status is the HTTP status code of the token response.
	Status int `json:"-"`

	// Code is the OAuth error code, for example "invalid_client".
	Code string `json:"error"`

	// Description is the optional human-readable explanation.
	Description string `json:"error_description,omitempty"`

	// URI points to a page describing the error, if the server sent one.
	URI string `json:"error_uri,omitempty"`

	// Body is the raw response body.
	Body []byte `json:"-"`
}

func (e *ErrorResponse) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("token request failed with status %d: %s: %s", e.Status, e.Code, e.Description)
	}
	return fmt.Sprintf("token request failed with status %d: %s", e.Status, e.Code)
}

// AuthChallenge represents parsed information from a WWW-Authenticate header.
type AuthChallenge struct {
	// Scheme is the authentication scheme (typically "Bearer").
	Scheme string

	// Realm is the protection realm.
	Realm string

	// Scope is the scope required by the resource, if advertised.
	Scope string

	// Error is the error code from the WWW-Authenticate header (if any).
	Error string

	// ErrorDescription is a human-readable error description (if any).
	ErrorDescription string
}

// IsBearer returns true if this is a Bearer challenge.
func (c *AuthChallenge) IsBearer() bool {
	return c != nil && strings.EqualFold(c.Scheme, "Bearer")
}

// StatusText returns the reason phrase of an HTTP response, preferring the one
// the server sent ("401 Unauthorized" -> "Unauthorized") over the canonical text.
func StatusText(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
