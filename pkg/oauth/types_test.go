package oauth

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenExpiry(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		margin    time.Duration
		want      bool
	}{
		{name: "already expired", expiresAt: time.Now().Add(-time.Second), margin: 0, want: true},
		{name: "fresh client credentials token", expiresAt: time.Now().Add(time.Hour), margin: DefaultExpiryMargin, want: false},
		{name: "inside the default margin", expiresAt: time.Now().Add(10 * time.Second), margin: DefaultExpiryMargin, want: true},
		{name: "outside a narrower margin", expiresAt: time.Now().Add(2 * time.Minute), margin: time.Minute, want: false},
		{name: "inside a wider margin", expiresAt: time.Now().Add(2 * time.Minute), margin: 3 * time.Minute, want: true},
		{name: "server sent no expires_in", margin: DefaultExpiryMargin, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &Token{AccessToken: "a", ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, token.IsExpiredWithMargin(tt.margin))
			if tt.margin == DefaultExpiryMargin {
				assert.Equal(t, tt.want, token.IsExpired())
			}
		})
	}
}

func TestSetExpiresAtFromExpiresIn(t *testing.T) {
	fromResponse := &Token{ExpiresIn: 3600}
	fromResponse.SetExpiresAtFromExpiresIn()
	assert.WithinDuration(t, time.Now().Add(time.Hour), fromResponse.ExpiresAt, 5*time.Second)

	fixed := time.Now().Add(2 * time.Hour)
	alreadySet := &Token{ExpiresIn: 3600, ExpiresAt: fixed}
	alreadySet.SetExpiresAtFromExpiresIn()
	assert.True(t, alreadySet.ExpiresAt.Equal(fixed))

	noLifetime := &Token{}
	noLifetime.SetExpiresAtFromExpiresIn()
	assert.True(t, noLifetime.ExpiresAt.IsZero())
}

func TestTokenScopes(t *testing.T) {
	assert.Nil(t, (&Token{}).Scopes())
	assert.Equal(t, []string{"my"}, (&Token{Scope: "my"}).Scopes())
	assert.Equal(t, []string{"topic.read", "topic.post", "my"}, (&Token{Scope: "topic.read,topic.post,my"}).Scopes())
	assert.Equal(t, []string{"topic.read", "topic.post"}, (&Token{Scope: "topic.read topic.post"}).Scopes())
}

func TestToOAuth2Token(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	converted := (&Token{
		AccessToken:  "access",
		TokenType:    "Bearer",
		RefreshToken: "refresh",
		ExpiresAt:    expiry,
	}).ToOAuth2Token()

	assert.Equal(t, "access", converted.AccessToken)
	assert.Equal(t, "refresh", converted.RefreshToken)
	assert.Equal(t, "Bearer", converted.Type())
	assert.True(t, converted.Expiry.Equal(expiry))
	assert.True(t, converted.Valid())
}

func TestErrorResponseMessage(t *testing.T) {
	assert.Equal(t, "token request failed with status 400: invalid_grant: expired",
		(&ErrorResponse{Status: 400, Code: "invalid_grant", Description: "expired"}).Error())
	assert.Equal(t, "token request failed with status 401: invalid_client",
		(&ErrorResponse{Status: 401, Code: "invalid_client"}).Error())
}

func TestAuthChallengeIsBearer(t *testing.T) {
	assert.True(t, (&AuthChallenge{Scheme: "Bearer"}).IsBearer())
	assert.True(t, (&AuthChallenge{Scheme: "bearer"}).IsBearer())
	assert.False(t, (&AuthChallenge{Scheme: "Basic"}).IsBearer())

	var missing *AuthChallenge
	assert.False(t, missing.IsBearer())
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		want string
	}{
		{"nil response", nil, ""},
		{"reason phrase from server", &http.Response{Status: "401 Token Rejected", StatusCode: 401}, "Token Rejected"},
		{"canonical text fallback", &http.Response{StatusCode: 400}, "Bad Request"},
		{"status without reason", &http.Response{Status: "500", StatusCode: 500}, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusText(tt.resp))
		})
	}
}
