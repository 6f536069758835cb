package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/bountylab/scoring-api/internal/domain/auth"
	"github.com/bountylab/scoring-api/internal/domain/model"
)

func newTestRouter(t *testing.T, sessions SessionResolver) (http.Handler, *jobHandlerFixture) {
	t.Helper()
	f := newJobHandlerFixture(t)
	lf := newLogHandlerFixture(t)

	router := NewRouter(RouterServices{
		Jobs:       f.handlers.Svc,
		Logs:       lf.handlers.Svc,
		Sessions:   sessions,
		CookieName: "scoring_session",
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return router, f
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_JobDetailRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_SessionCookieReachesHandler(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]domainauth.Session{
		"sess-1": testSession(domainauth.RoleAdmin),
	}}
	router, f := newTestRouter(t, resolver)

	f.jobs.EXPECT().Stats(gomock.Any()).Return(&model.JobStats{Scoring: 1}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/stats", nil)
	r.AddCookie(&http.Cookie{Name: "scoring_session", Value: "sess-1"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"scoring":1`)
}

func TestRouter_ScreenerReportIsUnauthenticated(t *testing.T) {
	router, f := newTestRouter(t, nil)

	job := pendingJob()
	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(job, nil)
	f.jobs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	r := httptest.NewRequest(http.MethodPost, "/api/jobs/job-1/status",
		strings.NewReader(`{"status":"assigned"}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_LeaderboardIsPublic(t *testing.T) {
	router, f := newTestRouter(t, nil)

	f.submissions.EXPECT().ListByBounty(gomock.Any(), "bounty-1").Return(nil, nil)
	f.submissions.EXPECT().BountyOwner(gomock.Any(), "bounty-1").Return("owner-1", nil)
	f.submissions.EXPECT().SubmitterNames(gomock.Any(), gomock.Any()).Return(nil, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/bounties/bounty-1/leaderboard", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}
