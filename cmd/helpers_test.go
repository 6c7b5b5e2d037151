package cmd

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type apiRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Body          string
	ContentType   string
	Authorization string
}

// fakeAPI serves the token endpoint and a route table for the resource API.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []apiRequest

	routes map[string]string
	status int
	header http.Header
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		routes: map[string]string{
			"/oauth2/access_token": `{"access_token":"granted-token","refresh_token":"granted-refresh","token_type":"Bearer","expires_in":3600}`,
		},
		status: http.StatusOK,
		header: http.Header{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, apiRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		RawQuery:      r.URL.RawQuery,
		Body:          string(body),
		ContentType:   r.Header.Get("Content-Type"),
		Authorization: r.Header.Get("Authorization"),
	})
	response, ok := f.routes[r.URL.Path]
	status := f.status
	for k, v := range f.header {
		w.Header()[k] = v
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/oauth2/access_token" {
		status = http.StatusOK
	}
	if !ok {
		status = http.StatusNotFound
		response = `{}`
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(response))
}

func (f *fakeAPI) route(path, response string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = response
}

func (f *fakeAPI) fail(status int, wwwAuthenticate string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	if wwwAuthenticate != "" {
		f.header.Set("WWW-Authenticate", wwwAuthenticate)
	}
}

func (f *fakeAPI) Requests() []apiRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiRequest(nil), f.requests...)
}

// find returns the first request to path.
func (f *fakeAPI) find(t *testing.T, path string) apiRequest {
	t.Helper()
	for _, r := range f.Requests() {
		if r.Path == path {
			return r
		}
	}
	t.Fatalf("no request to %s, got %+v", path, f.Requests())
	return apiRequest{}
}

// writeConfig writes a config.yaml pointing at f and returns its directory.
func writeConfig(t *testing.T, f *fakeAPI) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`clientId: cli-client
clientSecret: cli-secret
apiBaseUrl: %s/api/v1/
oauthBaseUrl: %s/oauth2/
timeout: 5s
`, f.URL, f.URL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	return dir
}

// resetFlags restores every flag variable to its default between runs of the
// shared root command.
func resetFlags() {
	accessToken = ""
	refreshToken = ""
	outputFlag = ""
	logLevelFlag = ""
	quiet = false

	authOpen = false
	loginNoBrowser = false
	tokenRefresh = ""
	validateShowUser = false

	messagesCount = 0
	messagesFrom = 0
	messagesDirection = ""
	postReplyTo = 0
	postFileKeys = nil
	postTalkIDs = nil
	postAttach = nil

	notificationsCountOnly = false
	notificationsMarkRead = false
	mentionsUnread = false
	mentionsFrom = 0
	dashboardUnreadOnly = false
}

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeCommandWithEnv(t, nil, args...)
}

// executeCommandWithEnv clears the TYPETALK_* variables, sets env and runs the
// root command with args.
func executeCommandWithEnv(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	for _, name := range []string{"TYPETALK_CLIENT_ID", "TYPETALK_CLIENT_SECRET", "TYPETALK_REDIRECT_URI", "TYPETALK_SCOPE", "TYPETALK_TIMEOUT", "TYPETALK_ACCESS_TOKEN"} {
		t.Setenv(name, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
