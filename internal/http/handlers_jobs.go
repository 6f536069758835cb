// Package httpx provides the HTTP surface of the scoring pipeline: job detail
// and operator views, screener status reporting, log pagination and export,
// rescoring, and the bounty leaderboard.
package httpx

import (
	"errors"
	"net/http"

	"github.com/bountylab/scoring-api/internal/domain/model"
	"github.com/bountylab/scoring-api/internal/service"
)

// JobHandlers provides HTTP handlers for scoring-job operations.
type JobHandlers struct {
	Svc *service.ScoringJobService
}

// Get handles HTTP requests for one job's detail projection. The response is
// viewer-scoped: non-participants get a 404 rather than a 403.
func (h *JobHandlers) Get(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	sess := GetSessionFromContext(r.Context())
	proj, err := h.Svc.Get(r.Context(), sess, jobID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, proj)
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// List handles the operator job list with status/submission/screener filters.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultListLimit, maxListLimit)
	opts := &model.JobListOptions{
		SubmissionID: r.URL.Query().Get("submission_id"),
		ScreenerID:   r.URL.Query().Get("screener_id"),
		Status:       model.JobStatus(r.URL.Query().Get("status")),
		Limit:        limit,
		Offset:       offset,
	}

	sess := GetSessionFromContext(r.Context())
	jobs, err := h.Svc.List(r.Context(), sess, opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// Stats handles HTTP requests for per-status job counts.
func (h *JobHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	stats, err := h.Svc.Stats(r.Context(), sess)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// Report accepts a screener-reported status update for a job. The screener is
// the sole source of forward transitions; an out-of-order report gets a 409.
func (h *JobHandlers) Report(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	var upd model.JobUpdate
	if !DecodeJSON(w, r, &upd) {
		return
	}
	upd.JobID = jobID

	job, err := h.Svc.ApplyTransition(r.Context(), upd)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Rescore creates a fresh scoring job set for a submission. Admin only.
func (h *JobHandlers) Rescore(w http.ResponseWriter, r *http.Request) {
	submissionID := r.PathValue("id")
	if submissionID == "" {
		WriteError(
			w,
			ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_path",
				Err:     errors.New("submission id is required"),
			},
		)
		return
	}

	sess := GetSessionFromContext(r.Context())
	jobs, err := h.Svc.Rescore(r.Context(), sess, submissionID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"jobs": jobs})
}

// Leaderboard handles the bounty leaderboard: submissions ranked by score with
// the visibility policy applied per entry for the requesting viewer.
func (h *JobHandlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	bountyID := r.PathValue("id")
	if bountyID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("bounty id is required")},
		)
		return
	}

	sess := GetSessionFromContext(r.Context())
	entries, err := h.Svc.Leaderboard(r.Context(), sess, bountyID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
