package oauth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// DefaultCallbackPath is the path used when a redirect URI has none.
const DefaultCallbackPath = "/callback"

// CallbackTimeout is how long to wait for the OAuth callback.
const CallbackTimeout = 10 * time.Minute

var (
	callbackSuccessTemplate = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Typetalk authorization</title>
<style>body{font-family:sans-serif;margin:4em;color:#333}</style></head>
<body><h1>Authorization complete</h1><p>You can close this window and return to the terminal.</p></body></html>
`))

	callbackErrorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Typetalk authorization</title>
<style>body{font-family:sans-serif;margin:4em;color:#333}code{color:#b00}</style></head>
<body><h1>Authorization failed</h1><p><code>{{.Error}}</code></p>{{if .Description}}<p>{{.Description}}</p>{{end}}</body></html>
`))
)

// CallbackResult represents the result of an OAuth callback.
type CallbackResult struct {
	// Code is the authorization code from the OAuth provider.
	Code string

	// State is the state parameter, if the provider echoed one.
	State string

	// Error is the error code if the authorization failed.
	Error string

	// ErrorDescription is a human-readable error description.
	ErrorDescription string

	// RedirectURL is the full URL the provider redirected the browser to.
	RedirectURL string
}

// IsError returns true if the callback result represents an error.
func (r *CallbackResult) IsError() bool {
	return r.Error != ""
}

// CallbackServer is a temporary local HTTP server for receiving OAuth callbacks.
// It starts, waits for a single callback, then shuts down.
type CallbackServer struct {
	addr      string
	path      string
	server    *http.Server
	listener  net.Listener
	resultCh  chan *CallbackResult
	errorCh   chan error
	once      sync.Once
	serverURL string
}

// NewCallbackServer creates a callback server listening on addr (host:port)
// and serving path. Port 0 picks a free port.
func NewCallbackServer(addr, path string) *CallbackServer {
	if path == "" {
		path = DefaultCallbackPath
	}

	return &CallbackServer{
		addr:     addr,
		path:     path,
		resultCh: make(chan *CallbackResult, 1),
		errorCh:  make(chan error, 1),
	}
}

// NewCallbackServerForRedirect creates a callback server bound to the host,
// port and path of a loopback redirect URI such as http://localhost:3000/callback.
func NewCallbackServerForRedirect(redirectURI string) (*CallbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect URI %q must use http to be served locally", redirectURI)
	}

	host := u.Hostname()
	if !isLoopback(host) {
		return nil, fmt.Errorf("redirect URI host %q is not a loopback address", host)
	}
	port := u.Port()
	if port == "" {
		port = "80"
	}

	return NewCallbackServer(net.JoinHostPort(host, port), u.Path), nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Start starts the callback server and begins listening for the OAuth callback.
// The server will automatically stop when the context is cancelled.
// Returns the callback URL.
func (s *CallbackServer) Start(ctx context.Context) (string, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to start callback server on %s: %w", s.addr, err)
	}

	host, _, _ := net.SplitHostPort(s.addr)
	if host == "" {
		host = "localhost"
	}
	port := listener.Addr().(*net.TCPAddr).Port

	s.listener = listener
	s.serverURL = "http://" + net.JoinHostPort(host, fmt.Sprint(port))

	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleCallback)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	// Monitor context for cancellation and stop server when cancelled
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return s.CallbackURL(), nil
}

// WaitForCallback waits for the OAuth callback or timeout.
func (s *CallbackServer) WaitForCallback(ctx context.Context) (*CallbackResult, error) {
	select {
	case result := <-s.resultCh:
		return result, nil
	case err := <-s.errorCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handleCallback handles the OAuth callback request.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	var handled bool
	s.once.Do(func() {
		handled = true
		s.processCallback(w, r)
	})

	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

// processCallback is called exactly once via sync.Once.
func (s *CallbackServer) processCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'unsafe-inline'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")

	query := r.URL.Query()
	result := &CallbackResult{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
		RedirectURL:      s.serverURL + r.URL.RequestURI(),
	}

	var tmpl *template.Template
	var data interface{}

	if result.IsError() {
		tmpl = callbackErrorTemplate
		data = map[string]string{
			"Error":       result.Error,
			"Description": result.ErrorDescription,
		}
	} else {
		tmpl = callbackSuccessTemplate
		data = map[string]string{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}

	select {
	case s.resultCh <- result:
	default:
	}

	// Give the browser time to receive the page before shutting down.
	go func() {
		time.Sleep(1 * time.Second)
		s.Stop()
	}()
}

// Stop gracefully shuts down the callback server.
func (s *CallbackServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

// CallbackURL returns the URL the server is reachable at, including its path.
// It is empty before Start.
func (s *CallbackServer) CallbackURL() string {
	if s.serverURL == "" {
		return ""
	}
	return s.serverURL + s.path
}

// Port returns the port the server is listening on, or 0 before Start.
func (s *CallbackServer) Port() int {
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}
