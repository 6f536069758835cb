package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bountylab/scoring-api/internal/domain/model"
	"github.com/bountylab/scoring-api/internal/service"
)

// LogHandlers provides HTTP handlers for scoring-job log reads.
type LogHandlers struct {
	Svc *service.LogService
}

// Page handles one window of a job's logs. Query params:
//   - limit: page size (defaults to the service's window size)
//   - page: window index counted from the newest entries
//   - before: RFC3339 timestamp; restricts to strictly older entries
//   - task: scope to lines emitted for one task
//
// The read is viewer-scoped like the job detail view: non-participants get a
// 404 rather than a 403.
func (h *LogHandlers) Page(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	q := model.LogQuery{
		JobID:    jobID,
		TaskName: r.URL.Query().Get("task"),
		Limit:    parseIntQuery(r, "limit", 0),
		Page:     parseIntQuery(r, "page", 0),
	}

	if raw := r.URL.Query().Get("before"); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_query",
				Err:     fmt.Errorf("before must be RFC3339: %w", err),
			})
			return
		}
		q.Before = &before
	}

	sess := GetSessionFromContext(r.Context())
	page, err := h.Svc.Page(r.Context(), sess, q)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// Export streams the complete log set for a job as a plain-text download.
// A job with zero log entries yields a 404, never an empty file; so does a
// viewer with no relation to the job.
func (h *LogHandlers) Export(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	sess := GetSessionFromContext(r.Context())
	text, err := h.Svc.Export(r.Context(), sess, jobID, r.URL.Query().Get("task"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "job-"+jobID+".log"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		// Client disconnected mid-download; nothing to recover.
		return
	}
}
