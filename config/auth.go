package config

import (
	"strings"
	"time"
)

// AuthConfig contains session resolution configuration. Sessions are issued by
// the marketplace application; this service only resolves them from Redis.
type AuthConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"AUTH_COOKIE_NAME" envDefault:"scoring_session"`

	// SessionPrefix is the Redis key prefix for session records.
	SessionPrefix string `env:"AUTH_SESSION_PREFIX" envDefault:"session:"`

	// SessionTTL is the default lifetime for sessions written by dev tooling.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.CookieName = strings.TrimSpace(a.CookieName)
	if a.CookieName == "" {
		a.CookieName = "scoring_session"
	}
	if a.SessionPrefix == "" {
		a.SessionPrefix = "session:"
	}
	if a.SessionTTL < time.Minute {
		a.SessionTTL = time.Minute
	}
}
