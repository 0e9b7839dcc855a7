package client

import "context"

// SessionState is the session guard's verdict for a protected navigation.
type SessionState int

const (
	// Unauthenticated: no session, or the session check failed. Treated
	// the same either way — redirect to login, no retry.
	Unauthenticated SessionState = iota
	// AuthenticatedIncomplete: valid session but the profile has no
	// country yet; the user belongs on the completion page.
	AuthenticatedIncomplete
	// AuthenticatedCompleted: render the requested view.
	AuthenticatedCompleted
)

func (s SessionState) String() string {
	switch s {
	case AuthenticatedIncomplete:
		return "authenticated (profile incomplete)"
	case AuthenticatedCompleted:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// SessionGuard resolves authentication and profile-completeness before a
// protected view renders.
type SessionGuard struct {
	Gateway *Gateway
}

// Resolve performs the session check. Any failure — expired token, missing
// token, unreachable backend — resolves to Unauthenticated.
func (g *SessionGuard) Resolve(ctx context.Context) SessionState {
	if !g.Gateway.Authenticated() {
		return Unauthenticated
	}

	info, err := g.Gateway.Session(ctx)
	if err != nil {
		return Unauthenticated
	}
	if !info.ProfileCompleted {
		return AuthenticatedIncomplete
	}
	return AuthenticatedCompleted
}
