package typetalk

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Body          string
	ContentType   string
	Authorization string
}

// fakeTypetalk serves both the token endpoint and the resource API and keeps
// every request it receives.
type fakeTypetalk struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest

	tokenStatus   int
	tokenResponse string
	apiHandler    http.HandlerFunc
}

func newFakeTypetalk(t *testing.T) *fakeTypetalk {
	t.Helper()
	f := &fakeTypetalk{
		tokenStatus:   http.StatusOK,
		tokenResponse: `{"access_token":"new-access","refresh_token":"new-refresh","token_type":"Bearer","expires_in":3600}`,
		apiHandler: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
		},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeTypetalk) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:        r.Method,
		Path:          r.URL.EscapedPath(),
		RawQuery:      r.URL.RawQuery,
		Body:          string(body),
		ContentType:   r.Header.Get("Content-Type"),
		Authorization: r.Header.Get("Authorization"),
	})
	f.mu.Unlock()

	if r.URL.Path == "/oauth2/access_token" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.tokenStatus)
		_, _ = w.Write([]byte(f.tokenResponse))
		return
	}
	f.apiHandler(w, r)
}

func (f *fakeTypetalk) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeTypetalk) LastRequest(t *testing.T) recordedRequest {
	t.Helper()
	requests := f.Requests()
	require.NotEmpty(t, requests, "expected at least one request")
	return requests[len(requests)-1]
}

// newTestClient points a client at f. Zero-valued fields of opts get test
// credentials.
func newTestClient(t *testing.T, f *fakeTypetalk, opts Options) *Client {
	t.Helper()
	if opts.ClientID == "" {
		opts.ClientID = "client-id"
	}
	if opts.ClientSecret == "" {
		opts.ClientSecret = "client-secret"
	}
	opts.APIBaseURL = f.URL + "/api/v1/"
	opts.OAuthBaseURL = f.URL + "/oauth2"
	opts.HTTPClient = f.Client()

	c, err := New(opts)
	require.NoError(t, err)
	return c
}
