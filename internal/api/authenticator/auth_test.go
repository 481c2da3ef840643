package authenticator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/config"
)

func newTestAuthenticator(t *testing.T, secret string) *Authenticator {
	t.Helper()
	auth, err := New(&config.Config{JWT_SECRET: secret})
	require.NoError(t, err)
	return auth
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(&config.Config{})
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newTestAuthenticator(t, "test-secret")

	token, err := auth.GenerateToken("u-1", "alice@example.com", "Alice", "member")
	require.NoError(t, err)

	claims, err := auth.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "member", claims.Role)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	auth := newTestAuthenticator(t, "test-secret")

	token, err := auth.GenerateToken("u-1", "alice@example.com", "Alice", "member")
	require.NoError(t, err)

	_, err = auth.VerifyAccessToken(context.Background(), token+"x")
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := newTestAuthenticator(t, "secret-a")
	verifier := newTestAuthenticator(t, "secret-b")

	token, err := issuer.GenerateToken("u-1", "alice@example.com", "Alice", "admin")
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	auth := newTestAuthenticator(t, "test-secret")

	_, err := auth.VerifyAccessToken(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestSignedStateRoundTrip(t *testing.T) {
	auth := newTestAuthenticator(t, "test-secret")
	auth.stateSecret = "state-secret"

	state := OAuthState{CSRF: "abc", Redirect: "http://localhost:3000", IssuedAt: 1, ExpiresAt: 9999999999}
	encoded, err := auth.GetSignedState(state)
	require.NoError(t, err)

	decoded, err := auth.VerifySignedState(encoded)
	require.NoError(t, err)
	assert.Equal(t, state, *decoded)

	_, err = auth.VerifySignedState(encoded[:len(encoded)-4])
	assert.Error(t, err)
}
