package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/bountylab/scoring-api/internal/domain/auth"
)

// fakeResolver resolves sessions from an in-memory map.
type fakeResolver struct {
	sessions map[string]domainauth.Session
}

func (f *fakeResolver) Get(_ context.Context, id string) (domainauth.Session, error) {
	if sess, ok := f.sessions[id]; ok {
		return sess, nil
	}
	return domainauth.Session{}, errors.New("session not found")
}

func testSession(role domainauth.Role) domainauth.Session {
	return domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Username:  "alice",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestResolveSession_SetsSessionFromCookie(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]domainauth.Session{
		"sess-1": testSession(domainauth.RoleUser),
	}}

	var got domainauth.Session
	var found bool
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, found = GetUserSessionFromContext(r.Context())
	})

	mw := ResolveSession(SessionConfig{Resolver: resolver, CookieName: "scoring_session"})

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	r.AddCookie(&http.Cookie{Name: "scoring_session", Value: "sess-1"})
	mw(next).ServeHTTP(httptest.NewRecorder(), r)

	require.True(t, found)
	assert.Equal(t, "user-1", got.UserID)
}

func TestResolveSession_UnknownCookieIsAnonymous(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]domainauth.Session{}}

	var found bool
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, found = GetUserSessionFromContext(r.Context())
	})

	mw := ResolveSession(SessionConfig{Resolver: resolver, CookieName: "scoring_session"})

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	r.AddCookie(&http.Cookie{Name: "scoring_session", Value: "bogus"})
	mw(next).ServeHTTP(httptest.NewRecorder(), r)

	assert.False(t, found)
}

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	w := httptest.NewRecorder()

	RequireAuth()(next).ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_PassesAuthenticated(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	r = r.WithContext(SetSessionInContext(r.Context(), testSession(domainauth.RoleUser)))
	w := httptest.NewRecorder()

	RequireAuth()(next).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_EnforcesHierarchy(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminOnly := RequireRole(domainauth.RoleAdmin)

	tests := []struct {
		name     string
		role     domainauth.Role
		expected int
	}{
		{name: "admin allowed", role: domainauth.RoleAdmin, expected: http.StatusOK},
		{name: "user forbidden", role: domainauth.RoleUser, expected: http.StatusForbidden},
		{name: "guest forbidden", role: domainauth.RoleGuest, expected: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/jobs/stats", nil)
			r = r.WithContext(SetSessionInContext(r.Context(), testSession(tt.role)))
			w := httptest.NewRecorder()

			adminOnly(next).ServeHTTP(w, r)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestRecover_TurnsPanicInto500(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	})

	r := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	w := httptest.NewRecorder()

	Recover(logger)(next).ServeHTTP(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
