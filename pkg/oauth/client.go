package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"typetalk/pkg/form"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
const DefaultHTTPTimeout = 30 * time.Second

// Client performs OAuth 2.0 token endpoint requests for a confidential client.
// Every grant authenticates with client_id and client_secret in the form body.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures the OAuth client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new OAuth client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ClientCredentials obtains a token for the client itself.
func (c *Client) ClientCredentials(ctx context.Context, tokenEndpoint, clientID, clientSecret, scope string) (*Token, error) {
	var data form.Params
	data.Add("client_id", clientID)
	data.Add("client_secret", clientSecret)
	data.Add("grant_type", GrantClientCredentials)
	data.Add("scope", scope)

	return c.doTokenRequest(ctx, tokenEndpoint, data)
}

// ExchangeCode exchanges an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, tokenEndpoint, code, redirectURI, clientID, clientSecret string) (*Token, error) {
	var data form.Params
	data.Add("client_id", clientID)
	data.Add("client_secret", clientSecret)
	data.Add("redirect_uri", redirectURI)
	data.Add("grant_type", GrantAuthorizationCode)
	data.Add("code", code)

	return c.doTokenRequest(ctx, tokenEndpoint, data)
}

// RefreshToken obtains a new access token using a refresh token.
func (c *Client) RefreshToken(ctx context.Context, tokenEndpoint, refreshToken, clientID, clientSecret string) (*Token, error) {
	var data form.Params
	data.Add("client_id", clientID)
	data.Add("client_secret", clientSecret)
	data.Add("grant_type", GrantRefreshToken)
	data.Add("refresh_token", refreshToken)

	return c.doTokenRequest(ctx, tokenEndpoint, data)
}

// doTokenRequest performs a token endpoint request.
func (c *Client) doTokenRequest(ctx context.Context, tokenEndpoint string, data form.Params) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", form.ContentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		grantType, _ := data.Get("grant_type")
		c.logger.Debug("Token request failed",
			"grant_type", grantType,
			"status", resp.StatusCode)
		return nil, newErrorResponse(resp, body)
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	// Calculate expiration if not set
	token.SetExpiresAtFromExpiresIn()

	return &token, nil
}

// newErrorResponse builds the error for a non-200 token response. A body that
// is not a JSON error object falls back to the HTTP reason phrase.
func newErrorResponse(resp *http.Response, body []byte) *ErrorResponse {
	errResp := &ErrorResponse{}
	if err := json.Unmarshal(body, errResp); err != nil || errResp.Code == "" {
		errResp = &ErrorResponse{Code: StatusText(resp)}
	}
	errResp.Status = resp.StatusCode
	errResp.Body = body
	return errResp
}

// BuildAuthorizationURL constructs the URL of the authorization page. The
// query carries client_id, redirect_uri, scope and response_type=code in that
// order.
func (c *Client) BuildAuthorizationURL(authEndpoint, clientID, redirectURI, scope string) (string, error) {
	authURL, err := url.Parse(authEndpoint)
	if err != nil {
		return "", fmt.Errorf("invalid authorization endpoint: %w", err)
	}
	if authURL.Scheme == "" || authURL.Host == "" {
		return "", fmt.Errorf("invalid authorization endpoint: %q is not absolute", authEndpoint)
	}

	var query form.Params
	query.Add("client_id", clientID)
	query.Add("redirect_uri", redirectURI)
	query.Add("scope", scope)
	query.Add("response_type", "code")

	authURL.RawQuery = query.Encode()
	return authURL.String(), nil
}
