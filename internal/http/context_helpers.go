package httpx

import (
	"context"

	domainauth "github.com/bountylab/scoring-api/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
func SetSessionInContext(ctx context.Context, session domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(domainauth.Session); ok {
		return session, true
	}
	return domainauth.Session{}, false
}

// GetSessionFromContext retrieves the session from the request context. An
// anonymous request yields the zero session, which every service treats as a
// non-participant viewer.
func GetSessionFromContext(ctx context.Context) domainauth.Session {
	s, _ := GetUserSessionFromContext(ctx)
	return s
}
