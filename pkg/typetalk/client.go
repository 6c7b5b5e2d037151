package typetalk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"typetalk/pkg/logging"
	"typetalk/pkg/oauth"
)

const subsystemTokens = "TokenManager"

// Client talks to the Typetalk API on behalf of one set of client
// credentials. It is safe for concurrent use; grant flows replace the stored
// tokens while resource calls read them.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scope        string
	timeout      time.Duration
	apiBaseURL   string
	oauthBaseURL string
	bookmark     BookmarkEndpoint
	navigator    Navigator
	authorizer   Authorizer
	httpClient   *http.Client
	oauth        *oauth.Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// New creates a Client from opts, filling in defaults.
func New(opts Options) (*Client, error) {
	if opts.Timeout < 0 {
		return nil, &ConfigError{Field: "Timeout", Reason: "must not be negative"}
	}

	apiBase, err := normalizeBaseURL("APIBaseURL", opts.APIBaseURL, DefaultAPIBaseURL)
	if err != nil {
		return nil, err
	}
	oauthBase, err := normalizeBaseURL("OAuthBaseURL", opts.OAuthBaseURL, DefaultOAuthBaseURL)
	if err != nil {
		return nil, err
	}

	bookmark := opts.BookmarkEndpoint
	switch bookmark {
	case "":
		bookmark = BookmarkSave
	case BookmarkSave, BookmarkPut:
	default:
		return nil, &ConfigError{Field: "BookmarkEndpoint", Reason: fmt.Sprintf("has unknown value %q", bookmark)}
	}

	c := &Client{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		redirectURI:  opts.RedirectURI,
		scope:        opts.Scope,
		timeout:      opts.Timeout,
		apiBaseURL:   apiBase,
		oauthBaseURL: oauthBase,
		bookmark:     bookmark,
		navigator:    opts.Navigator,
		authorizer:   opts.Authorizer,
		httpClient:   opts.HTTPClient,
		accessToken:  opts.AccessToken,
		refreshToken: opts.RefreshToken,
	}
	if c.scope == "" {
		c.scope = DefaultScope
	}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
	}
	if c.navigator == nil {
		c.navigator = oauth.OpenBrowser
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}

	oauthOpts := []oauth.ClientOption{oauth.WithHTTPClient(c.httpClient)}
	if logger := logging.Logger(); logger != nil {
		oauthOpts = append(oauthOpts, oauth.WithLogger(logger.With("subsystem", subsystemTokens)))
	}
	c.oauth = oauth.NewClient(oauthOpts...)

	return c, nil
}

func normalizeBaseURL(field, value, fallback string) (string, error) {
	if value == "" {
		return fallback, nil
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", &ConfigError{Field: field, Reason: fmt.Sprintf("must be an absolute URL, got %q", value)}
	}
	if !strings.HasSuffix(value, "/") {
		value += "/"
	}
	return value, nil
}

// Scope returns the scope requested by the grant flows.
func (c *Client) Scope() string {
	return c.scope
}

// HasToken reports whether both an access token and a refresh token are held.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken != "" && c.refreshToken != ""
}

// ClearToken forgets both tokens.
func (c *Client) ClearToken() {
	c.SetToken("", "")
}

// SetToken replaces the stored tokens. Their expiry is unknown.
func (c *Client) SetToken(accessToken, refreshToken string) {
	c.mu.Lock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

// AccessToken returns the current access token, or "" if none is held.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// RefreshToken returns the current refresh token, or "" if none is held.
func (c *Client) RefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken
}

// Token returns the stored credentials. ExpiresAt is only set when the
// tokens came from a grant made by this client.
func (c *Client) Token() *oauth.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &oauth.Token{
		AccessToken:  c.accessToken,
		TokenType:    "Bearer",
		RefreshToken: c.refreshToken,
		ExpiresAt:    c.expiresAt,
	}
}

// OAuth2Token returns the stored credentials as an oauth2.Token so they can
// be handed to code built on golang.org/x/oauth2.
func (c *Client) OAuth2Token() *oauth2.Token {
	return c.Token().ToOAuth2Token()
}

// TokenSource returns a static oauth2.TokenSource over the current access
// token. It does not refresh.
func (c *Client) TokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(c.OAuth2Token())
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) tokenEndpoint() string {
	return c.oauthBaseURL + "access_token"
}

func (c *Client) requireClientID() error {
	if c.clientID == "" {
		return &ConfigError{Field: "ClientID", Reason: "is required"}
	}
	return nil
}

// storeToken records a successful grant response.
func (c *Client) storeToken(grant string, token *oauth.Token, err error) (*oauth.Token, error) {
	if err != nil {
		logging.Error(subsystemTokens, err, "%s grant failed", grant)
		return nil, err
	}
	c.mu.Lock()
	c.accessToken = token.AccessToken
	c.refreshToken = token.RefreshToken
	c.expiresAt = token.ExpiresAt
	c.mu.Unlock()
	logging.Debug(subsystemTokens, "%s grant succeeded, token expires in %ds", grant, token.ExpiresIn)
	return token, nil
}

// AccessTokenUsingClientCredentials obtains a token for the client itself
// and stores it.
func (c *Client) AccessTokenUsingClientCredentials(ctx context.Context) (*oauth.Token, error) {
	if err := c.requireClientID(); err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	token, err := c.oauth.ClientCredentials(ctx, c.tokenEndpoint(), c.clientID, c.clientSecret, c.scope)
	return c.storeToken(oauth.GrantClientCredentials, token, err)
}

// AccessTokenUsingAuthorizationCode exchanges an authorization code for a
// token and stores it.
func (c *Client) AccessTokenUsingAuthorizationCode(ctx context.Context, code string) (*oauth.Token, error) {
	if err := c.requireClientID(); err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	token, err := c.oauth.ExchangeCode(ctx, c.tokenEndpoint(), code, c.redirectURI, c.clientID, c.clientSecret)
	return c.storeToken(oauth.GrantAuthorizationCode, token, err)
}

// RefreshAccessToken obtains a new token with refreshToken, or with the
// stored refresh token when refreshToken is empty, and stores it.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*oauth.Token, error) {
	if err := c.requireClientID(); err != nil {
		return nil, err
	}
	if refreshToken == "" {
		refreshToken = c.RefreshToken()
	}
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token to use", ErrInvalidArgument)
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	token, err := c.oauth.RefreshToken(ctx, c.tokenEndpoint(), refreshToken, c.clientID, c.clientSecret)
	return c.storeToken(oauth.GrantRefreshToken, token, err)
}

// AuthorizationURL returns the page where a user grants this client access.
func (c *Client) AuthorizationURL() (string, error) {
	if err := c.requireClientID(); err != nil {
		return "", err
	}
	return c.oauth.BuildAuthorizationURL(c.oauthBaseURL+"authorize", c.clientID, c.redirectURI, c.scope)
}

// RequestAuthorization opens the authorization page with the configured
// Navigator and returns its URL. The provider then redirects to RedirectURI
// with a code for AccessTokenUsingAuthorizationCode.
func (c *Client) RequestAuthorization() (string, error) {
	authURL, err := c.AuthorizationURL()
	if err != nil {
		return "", err
	}
	if err := c.navigator(authURL); err != nil {
		return authURL, fmt.Errorf("opening authorization page: %w", err)
	}
	return authURL, nil
}

// AuthorizeInteractive runs the whole authorization-code flow through the
// configured Authorizer and stores the resulting token.
func (c *Client) AuthorizeInteractive(ctx context.Context) (*oauth.Token, error) {
	if c.authorizer == nil {
		return nil, ErrInteractiveAuthUnavailable
	}
	authURL, err := c.AuthorizationURL()
	if err != nil {
		return nil, err
	}

	redirectURL, err := c.authorizer.Authorize(ctx, authURL)
	if err != nil {
		logging.Warn(subsystemTokens, "interactive authorization aborted: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrAuthorizationCancelled, err)
	}
	if redirectURL == "" {
		return nil, ErrAuthorizationCancelled
	}

	code, err := authorizationCode(redirectURL)
	if err != nil {
		return nil, err
	}
	return c.AccessTokenUsingAuthorizationCode(ctx, code)
}

// authorizationCode extracts the code parameter of the redirect. Values are
// percent-decoded only, so a literal '+' stays part of the code.
func authorizationCode(redirectURL string) (string, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthorizationCodeMissing, err)
	}
	for _, pair := range strings.Split(u.RawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key != "code" || value == "" {
			continue
		}
		code, err := url.PathUnescape(value)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrAuthorizationCodeMissing, err)
		}
		return code, nil
	}
	return "", ErrAuthorizationCodeMissing
}

// ValidateAccessToken checks the stored access token by fetching the profile.
func (c *Client) ValidateAccessToken(ctx context.Context) (json.RawMessage, error) {
	return c.GetMyProfile(ctx)
}
