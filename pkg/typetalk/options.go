package typetalk

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultAPIBaseURL is the root of the resource API.
	DefaultAPIBaseURL = "https://typetalk.in/api/v1/"

	// DefaultOAuthBaseURL is the root of the authorization server.
	DefaultOAuthBaseURL = "https://typetalk.in/oauth2/"

	// DefaultScope is requested when Options.Scope is empty.
	DefaultScope = "topic.read,topic.post,my"

	// DefaultTimeout bounds every request when Options.Timeout is zero.
	DefaultTimeout = 3 * time.Second
)

// BookmarkEndpoint selects the API revision used by ReadMessagesInTopic.
type BookmarkEndpoint string

const (
	// BookmarkSave marks messages read with POST bookmark/save.
	BookmarkSave BookmarkEndpoint = "bookmark/save"

	// BookmarkPut marks messages read with PUT bookmarks.
	BookmarkPut BookmarkEndpoint = "bookmarks"
)

// Navigator shows an authorization URL to the user, usually by opening it in
// a browser.
type Navigator func(url string) error

// Authorizer runs an interactive authorization: it presents authorizeURL to
// the user and returns the URL the provider redirected back to. An empty
// redirect URL with a nil error means the user cancelled.
type Authorizer interface {
	Authorize(ctx context.Context, authorizeURL string) (redirectURL string, err error)
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, authorizeURL string) (string, error)

// Authorize calls f.
func (f AuthorizerFunc) Authorize(ctx context.Context, authorizeURL string) (string, error) {
	return f(ctx, authorizeURL)
}

// Options configures a Client. Only ClientID and ClientSecret are needed for
// the grant flows; a client created with just AccessToken can call the API
// directly.
type Options struct {
	ClientID     string
	ClientSecret string

	// RedirectURI is sent with the authorization-code grant and the
	// authorization URL.
	RedirectURI string

	// Scope is a comma separated list. Defaults to DefaultScope.
	Scope string

	// AccessToken and RefreshToken seed the credential state.
	AccessToken  string
	RefreshToken string

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient is used for all requests. Defaults to a new http.Client.
	HTTPClient *http.Client

	// APIBaseURL and OAuthBaseURL override the service roots, mainly for
	// tests. A trailing slash is added when missing.
	APIBaseURL   string
	OAuthBaseURL string

	// Navigator opens the authorization URL for RequestAuthorization.
	Navigator Navigator

	// Authorizer enables AuthorizeInteractive.
	Authorizer Authorizer

	// BookmarkEndpoint selects the ReadMessagesInTopic revision.
	// Defaults to BookmarkSave.
	BookmarkEndpoint BookmarkEndpoint
}
