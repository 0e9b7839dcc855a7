package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewaySignInStoresToken(t *testing.T) {
	_, gateway := newFakeBackend(t)
	gateway.SignOut()
	assert.False(t, gateway.Authenticated())

	require.NoError(t, gateway.SignIn(context.Background(), "user@example.com", "secret1"))
	assert.True(t, gateway.Authenticated())

	gateway.SignOut()
	assert.False(t, gateway.Authenticated())
}

func TestGatewayPreservesErrorText(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	fb.fail("POST /auth/signin", http.StatusUnauthorized, "Invalid login credentials")

	err := gateway.SignIn(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)

	// The backend message comes through verbatim so callers can match it.
	assert.Equal(t, "Invalid login credentials", err.Error())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestGatewayUnreachableBackend(t *testing.T) {
	gateway := NewGateway("http://127.0.0.1:1")

	_, err := gateway.Profile(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unreachable")
}

func TestSessionGuardStates(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	guard := &SessionGuard{Gateway: gateway}
	ctx := context.Background()

	// No token: no request is even attempted.
	gateway.SignOut()
	assert.Equal(t, Unauthenticated, guard.Resolve(ctx))
	assert.Equal(t, 0, fb.callCount("GET /auth/session"))

	require.NoError(t, gateway.SignIn(ctx, "user@example.com", "secret1"))

	// Signed in, profile has no country yet.
	assert.Equal(t, AuthenticatedIncomplete, guard.Resolve(ctx))

	fb.setCountry("Portugal")
	assert.Equal(t, AuthenticatedCompleted, guard.Resolve(ctx))

	// A failing session check never panics the guard, it redirects.
	fb.fail("GET /auth/session", http.StatusUnauthorized, "token expired")
	assert.Equal(t, Unauthenticated, guard.Resolve(ctx))
}
