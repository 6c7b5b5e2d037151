package oauth

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CallbackError is returned when the provider redirects back with an error
// parameter instead of a code, for example when the user denies access.
type CallbackError struct {
	Code        string
	Description string
}

func (e *CallbackError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization failed: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("authorization failed: %s", e.Code)
}

// LoopbackAuthorizer runs an interactive authorization in the user's browser.
// It listens on the loopback redirect URI, opens the authorization page and
// returns the URL the provider redirected to.
type LoopbackAuthorizer struct {
	// RedirectURI must be an http loopback URL and must match the redirect
	// URI registered for the client.
	RedirectURI string

	// Open shows the authorization page to the user. Defaults to OpenBrowser.
	Open func(url string) error

	// Timeout bounds the wait for the callback. Defaults to CallbackTimeout.
	Timeout time.Duration

	// Logger receives progress messages. Defaults to slog.Default().
	Logger *slog.Logger

	// OnListening, if set, is called with the local callback URL once the
	// listener is up and before the page is opened.
	OnListening func(callbackURL string)
}

// Authorize opens authorizeURL and blocks until the provider calls back, the
// timeout elapses or ctx is cancelled.
func (a *LoopbackAuthorizer) Authorize(ctx context.Context, authorizeURL string) (string, error) {
	server, err := NewCallbackServerForRedirect(a.RedirectURI)
	if err != nil {
		return "", err
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = CallbackTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	callbackURL, err := server.Start(ctx)
	if err != nil {
		return "", err
	}
	defer server.Stop()

	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Waiting for authorization callback", "callback_url", callbackURL)

	if a.OnListening != nil {
		a.OnListening(callbackURL)
	}

	open := a.Open
	if open == nil {
		open = OpenBrowser
	}
	if err := open(authorizeURL); err != nil {
		return "", err
	}

	result, err := server.WaitForCallback(ctx)
	if err != nil {
		return "", fmt.Errorf("waiting for authorization callback: %w", err)
	}
	if result.IsError() {
		return "", &CallbackError{Code: result.Error, Description: result.ErrorDescription}
	}

	return result.RedirectURL, nil
}
