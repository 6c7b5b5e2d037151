package typetalk

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Success(t *testing.T) {
	f := newFakeTypetalk(t)
	f.apiHandler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"account":{"id":1,"name":"alice"}}`))
	}
	c := newTestClient(t, f, Options{AccessToken: "tok en/+"})

	body, err := c.Request(context.Background(), http.MethodGet, f.URL+"/api/v1/profile", nil, "")

	require.NoError(t, err)
	assert.JSONEq(t, `{"account":{"id":1,"name":"alice"}}`, string(body))

	req := f.LastRequest(t)
	assert.Equal(t, "Bearer tok%20en%2F%2B", req.Authorization)
	assert.Empty(t, req.ContentType)
	assert.Empty(t, req.Body)
}

func TestRequest_InvalidJSON(t *testing.T) {
	f := newFakeTypetalk(t)
	f.apiHandler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}
	c := newTestClient(t, f, Options{AccessToken: "a"})

	_, err := c.GetMyProfile(context.Background())

	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestRequest_ErrorClassification(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		header          string
		wantCode        string
		wantDescription string
		wantChallenge   bool
	}{
		{
			name:            "401 with bearer error",
			status:          http.StatusUnauthorized,
			header:          `Bearer error="invalid_token", error_description="expired"`,
			wantCode:        "invalid_token",
			wantDescription: "expired",
			wantChallenge:   true,
		},
		{
			name:     "401 without header",
			status:   http.StatusUnauthorized,
			wantCode: "Unauthorized",
		},
		{
			name:          "400 with multi-word description",
			status:        http.StatusBadRequest,
			header:        `Bearer error="invalid_request", error_description="missing topic id"`,
			wantCode:      "invalid_request",
			wantChallenge: true,
		},
		{
			name:          "401 with realm only",
			status:        http.StatusUnauthorized,
			header:        `Bearer realm="Typetalk"`,
			wantCode:      "Unauthorized",
			wantChallenge: true,
		},
		{
			name:     "401 with another scheme",
			status:   http.StatusUnauthorized,
			header:   `Basic realm="Typetalk"`,
			wantCode: "Unauthorized",
		},
		{
			name:            "500",
			status:          http.StatusInternalServerError,
			header:          `Bearer error="ignored"`,
			wantCode:        "Internal Server Error",
			wantDescription: GenericErrorDescription,
		},
		{
			name:            "404",
			status:          http.StatusNotFound,
			wantCode:        "Not Found",
			wantDescription: GenericErrorDescription,
		},
		{
			name:            "204 is not success",
			status:          http.StatusNoContent,
			wantCode:        "No Content",
			wantDescription: GenericErrorDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeTypetalk(t)
			f.apiHandler = func(w http.ResponseWriter, r *http.Request) {
				if tt.header != "" {
					w.Header().Set("WWW-Authenticate", tt.header)
				}
				w.WriteHeader(tt.status)
			}
			c := newTestClient(t, f, Options{AccessToken: "a"})

			_, err := c.GetMyTopics(context.Background())

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantDescription, apiErr.Description)
			assert.Equal(t, tt.wantChallenge, apiErr.Challenge != nil)
		})
	}
}

func TestRequest_ChallengeKeepsFullDescription(t *testing.T) {
	f := newFakeTypetalk(t)
	f.apiHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="The access token expired"`)
		w.WriteHeader(http.StatusUnauthorized)
	}
	c := newTestClient(t, f, Options{AccessToken: "a"})

	_, err := c.GetMyTopics(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Empty(t, apiErr.Description)
	require.NotNil(t, apiErr.Challenge)
	assert.Equal(t, "The access token expired", apiErr.Challenge.ErrorDescription)
	assert.True(t, IsInvalidToken(err))
	assert.True(t, IsAuthError(err))
}

func TestRequest_NoAccessToken(t *testing.T) {
	f := newFakeTypetalk(t)
	c := newTestClient(t, f, Options{})

	_, err := c.GetMyProfile(context.Background())

	assert.ErrorIs(t, err, ErrNoAccessToken)
	assert.Empty(t, f.Requests())
}

func TestRequest_Timeout(t *testing.T) {
	f := newFakeTypetalk(t)
	f.apiHandler = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}
	c := newTestClient(t, f, Options{AccessToken: "a", Timeout: 50 * time.Millisecond})

	_, err := c.GetMyProfile(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestRequest_TransportError(t *testing.T) {
	f := newFakeTypetalk(t)
	c := newTestClient(t, f, Options{AccessToken: "a"})
	f.Close()

	_, err := c.GetMyProfile(context.Background())

	require.Error(t, err)
	assert.False(t, IsAuthError(err))
}

func TestRequest_ClientUsableAfterFailure(t *testing.T) {
	f := newFakeTypetalk(t)
	var fail atomic.Bool
	fail.Store(true)
	f.apiHandler = func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}
	c := newTestClient(t, f, Options{AccessToken: "a"})

	_, err := c.GetTeams(context.Background())
	require.Error(t, err)

	fail.Store(false)
	body, err := c.GetTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}

func TestErrorHelpers(t *testing.T) {
	assert.False(t, IsInvalidToken(nil))
	assert.False(t, IsAuthError(errors.New("plain")))
	assert.False(t, IsAuthError(&APIError{Status: http.StatusInternalServerError}))
	assert.True(t, IsAuthError(&APIError{Status: http.StatusBadRequest}))

	assert.Equal(t, "typetalk api error (status 401): invalid_token: expired", (&APIError{Status: 401, Code: "invalid_token", Description: "expired"}).Error())
	assert.Equal(t, "typetalk api error (status 401): Unauthorized", (&APIError{Status: 401, Code: "Unauthorized"}).Error())
	assert.Equal(t, "invalid configuration: ClientID is required", (&ConfigError{Field: "ClientID", Reason: "is required"}).Error())
}
