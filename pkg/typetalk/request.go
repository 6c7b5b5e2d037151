package typetalk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"typetalk/pkg/form"
	"typetalk/pkg/logging"
	"typetalk/pkg/oauth"
)

const subsystemRequests = "APIRequest"

// Request sends an authenticated request to rawURL and returns the JSON body
// of a 200 response. Any other status is returned as an *APIError; transport
// failures and timeouts are returned as is.
//
// contentType is only sent when non-empty, and body may be nil.
func (c *Client) Request(ctx context.Context, method, rawURL string, body io.Reader, contentType string) (json.RawMessage, error) {
	token := c.AccessToken()
	if token == "" {
		return nil, ErrNoAccessToken
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+form.Escape(token))
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Debug(subsystemRequests, "[%s] %s %s failed after %s: %v", requestID, method, req.URL.Path, time.Since(start), err)
		return nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response of %s %s: %w", method, req.URL.Path, err)
	}

	logging.Debug(subsystemRequests, "[%s] %s %s -> %d in %s", requestID, method, req.URL.Path, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		if !json.Valid(data) {
			return nil, fmt.Errorf("decoding response of %s %s: body is not valid JSON", method, req.URL.Path)
		}
		return json.RawMessage(data), nil
	case http.StatusBadRequest, http.StatusUnauthorized:
		return nil, newAuthError(resp)
	default:
		return nil, &APIError{
			Status:      resp.StatusCode,
			Code:        oauth.StatusText(resp),
			Description: GenericErrorDescription,
		}
	}
}

// newAuthError classifies a 400 or 401 response from its WWW-Authenticate header.
func newAuthError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	header := resp.Header.Get("WWW-Authenticate")
	code, description := oauth.ClassifyBearerError(header)
	if code == "" {
		code = oauth.StatusText(resp)
	}
	apiErr.Code = code
	apiErr.Description = description

	if challenge, err := oauth.ParseWWWAuthenticate(header); err == nil && challenge.IsBearer() {
		apiErr.Challenge = challenge
	}
	return apiErr
}

func (c *Client) endpoint(path string) string {
	return c.apiBaseURL + path
}

// get sends a GET with params in the query string.
func (c *Client) get(ctx context.Context, path string, params form.Params) (json.RawMessage, error) {
	rawURL := c.endpoint(path)
	if params.Len() > 0 {
		rawURL += "?" + params.Encode()
	}
	return c.Request(ctx, http.MethodGet, rawURL, nil, "")
}

// send issues method with params as a form body. Without params neither a
// body nor a Content-Type is sent.
func (c *Client) send(ctx context.Context, method, path string, params form.Params) (json.RawMessage, error) {
	if params.Len() == 0 {
		return c.Request(ctx, method, c.endpoint(path), nil, "")
	}
	return c.Request(ctx, method, c.endpoint(path), params.Reader(), form.ContentType)
}
