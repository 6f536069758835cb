package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bountylab/scoring-api/internal/domain/model"
)

func pendingJob() *model.ScoringJob {
	return &model.ScoringJob{
		ID:           "job-1",
		SubmissionID: "sub-1",
		ScreenerID:   "screener-1",
		Status:       model.JobStatusPending,
		MaxRetries:   3,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func submission() *model.Submission {
	return &model.Submission{
		ID:          "sub-1",
		BountyID:    "bounty-1",
		SubmitterID: "alice",
		Title:       "SQL injection in search",
		Kind:        model.ContentKindText,
		Status:      model.SubmissionPending,
	}
}

func TestReport_AssignsJob(t *testing.T) {
	f := newJobHandlerFixture(t)

	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(pendingJob(), nil)
	f.jobs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	r := httptest.NewRequest(http.MethodPost, "/api/jobs/job-1/status",
		bytes.NewBufferString(`{"status":"assigned"}`))
	r.SetPathValue("id", "job-1")
	w := httptest.NewRecorder()

	f.handlers.Report(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.ScoringJob
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, model.JobStatusAssigned, got.Status)
	assert.NotNil(t, got.StartedAt)
}

func TestReport_InvalidJSON(t *testing.T) {
	f := newJobHandlerFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/api/jobs/job-1/status", bytes.NewBufferString("{bad"))
	r.SetPathValue("id", "job-1")
	w := httptest.NewRecorder()

	f.handlers.Report(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReport_BackwardsTransitionConflicts(t *testing.T) {
	f := newJobHandlerFixture(t)

	job := pendingJob()
	job.Status = model.JobStatusScoring
	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(job, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/jobs/job-1/status",
		bytes.NewBufferString(`{"status":"assigned"}`))
	r.SetPathValue("id", "job-1")
	w := httptest.NewRecorder()

	f.handlers.Report(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReport_CompletedWithoutScoreIsRejected(t *testing.T) {
	f := newJobHandlerFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/api/jobs/job-1/status",
		bytes.NewBufferString(`{"status":"completed"}`))
	r.SetPathValue("id", "job-1")
	w := httptest.NewRecorder()

	f.handlers.Report(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGet_SubmitterSeesProjection(t *testing.T) {
	f := newJobHandlerFixture(t)

	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(pendingJob(), nil)
	f.submissions.EXPECT().GetByID(gomock.Any(), "sub-1").Return(submission(), nil)
	f.submissions.EXPECT().BountyOwner(gomock.Any(), "bounty-1").Return("owner-1", nil)
	f.submissions.EXPECT().BountyTasks(gomock.Any(), "bounty-1").
		Return([]model.TaskDefinition{{Name: "static-analysis"}}, nil)
	f.tasks.EXPECT().ListByJob(gomock.Any(), "job-1").Return(nil, nil)
	f.submissions.EXPECT().SubmitterNames(gomock.Any(), []string{"alice"}).
		Return(map[string]string{"alice": "Alice"}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	r = r.WithContext(userContext(r.Context(), "alice"))
	r.SetPathValue("id", "job-1")
	w := httptest.NewRecorder()

	f.handlers.Get(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "job-1", got["id"])
	sub, ok := got["submission"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SQL injection in search", sub["title"])
}

func TestGet_StrangerGetsNotFound(t *testing.T) {
	f := newJobHandlerFixture(t)

	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(pendingJob(), nil)
	f.submissions.EXPECT().GetByID(gomock.Any(), "sub-1").Return(submission(), nil)
	f.submissions.EXPECT().BountyOwner(gomock.Any(), "bounty-1").Return("owner-1", nil)

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	r = r.WithContext(userContext(r.Context(), "mallory"))
	r.SetPathValue("id", "job-1")
	w := httptest.NewRecorder()

	f.handlers.Get(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStats_RequiresAdmin(t *testing.T) {
	f := newJobHandlerFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/stats", nil)
	r = r.WithContext(userContext(r.Context(), "alice"))
	w := httptest.NewRecorder()

	f.handlers.Stats(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStats_AdminGetsCounts(t *testing.T) {
	f := newJobHandlerFixture(t)

	f.jobs.EXPECT().Stats(gomock.Any()).Return(&model.JobStats{Pending: 2, Completed: 5}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/stats", nil)
	r = r.WithContext(adminContext(r.Context()))
	w := httptest.NewRecorder()

	f.handlers.Stats(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.JobStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 2, got.Pending)
	assert.Equal(t, 5, got.Completed)
}

func TestList_PassesFilters(t *testing.T) {
	f := newJobHandlerFixture(t)

	f.jobs.EXPECT().List(gomock.Any(), &model.JobListOptions{
		SubmissionID: "sub-1",
		Status:       model.JobStatusFailed,
		Limit:        10,
		Offset:       20,
	}).Return([]*model.ScoringJob{pendingJob()}, nil)

	r := httptest.NewRequest(http.MethodGet,
		"/api/jobs?submission_id=sub-1&status=failed&limit=10&offset=20", nil)
	r = r.WithContext(adminContext(r.Context()))
	w := httptest.NewRecorder()

	f.handlers.List(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRescore_RequiresAdmin(t *testing.T) {
	f := newJobHandlerFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/api/submissions/sub-1/rescore", nil)
	r = r.WithContext(userContext(r.Context(), "alice"))
	r.SetPathValue("id", "sub-1")
	w := httptest.NewRecorder()

	f.handlers.Rescore(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRescore_CreatesFreshJobs(t *testing.T) {
	f := newJobHandlerFixture(t)

	f.submissions.EXPECT().GetByID(gomock.Any(), "sub-1").Return(submission(), nil)
	f.jobs.EXPECT().ListBySubmission(gomock.Any(), "sub-1").
		Return([]*model.ScoringJob{pendingJob()}, nil)
	f.submissions.EXPECT().BountyTasks(gomock.Any(), "bounty-1").Return(nil, nil)
	f.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(pendingJob(), nil)
	f.submissions.EXPECT().UpdateScoring(gomock.Any(), gomock.Any()).Return(nil)

	r := httptest.NewRequest(http.MethodPost, "/api/submissions/sub-1/rescore", nil)
	r = r.WithContext(adminContext(r.Context()))
	r.SetPathValue("id", "sub-1")
	w := httptest.NewRecorder()

	f.handlers.Rescore(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestLeaderboard_RanksAndRedacts(t *testing.T) {
	f := newJobHandlerFixture(t)

	scoreA, scoreB := 72.0, 95.0
	subA := submission()
	subA.Score = &scoreA
	subB := submission()
	subB.ID = "sub-2"
	subB.SubmitterID = "bob"
	subB.Title = "XSS on profile page"
	subB.Score = &scoreB

	f.submissions.EXPECT().ListByBounty(gomock.Any(), "bounty-1").
		Return([]*model.Submission{subA, subB}, nil)
	f.submissions.EXPECT().BountyOwner(gomock.Any(), "bounty-1").Return("owner-1", nil)
	f.submissions.EXPECT().SubmitterNames(gomock.Any(), []string{"alice", "bob"}).
		Return(map[string]string{"alice": "Alice", "bob": "Bob"}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/bounties/bounty-1/leaderboard", nil)
	r = r.WithContext(userContext(r.Context(), "alice"))
	r.SetPathValue("id", "bounty-1")
	w := httptest.NewRecorder()

	f.handlers.Leaderboard(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Entries []map[string]any `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Entries, 2)

	// Bob's higher-scored entry ranks first, redacted for Alice but keeping the score.
	assert.Equal(t, "sub-2", got.Entries[0]["id"])
	assert.Equal(t, "Anonymous submission", got.Entries[0]["title"])
	assert.InDelta(t, 95.0, got.Entries[0]["score"], 0.001)
	// Alice sees her own entry verbatim.
	assert.Equal(t, "SQL injection in search", got.Entries[1]["title"])
}
