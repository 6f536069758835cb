package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bountylab/scoring-api/internal/domain/model"
	apperrors "github.com/bountylab/scoring-api/internal/errors"
)

// LogRepo implements core.LogSource over the append-only scoring_job_logs
// table. Entries are written by the log ingestion path and never mutated, so
// reads need no locking; (timestamp, message) is the identity key.
type LogRepo struct {
	DB *sql.DB
}

// NewLogRepo creates a new LogRepo.
func NewLogRepo(db *sql.DB) *LogRepo {
	return &LogRepo{DB: db}
}

// List fetches one window of log entries for a job, oldest first within the
// window. Without Before, the window holds the newest entries; with Before it
// holds the newest entries strictly older than that timestamp. Full bypasses
// the window entirely.
func (r *LogRepo) List(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error) {
	if q.JobID == "" {
		return nil, apperrors.Validation("job id is required")
	}

	where := []string{"job_id = $1"}
	args := []any{q.JobID}
	if q.TaskName != "" {
		args = append(args, q.TaskName)
		where = append(where, fmt.Sprintf("task_name = $%d", len(args)))
	}
	if q.Before != nil {
		args = append(args, q.Before.UTC())
		where = append(where, fmt.Sprintf("ts < $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var query string
	if q.Full {
		query = `
			SELECT ts, message, task_name
			FROM scoring_job_logs
			WHERE ` + cond + `
			ORDER BY ts ASC, message ASC`
	} else {
		limit := q.Limit
		if limit <= 0 {
			limit = 100
		}
		args = append(args, limit)
		limitPos := len(args)

		offsetClause := ""
		if q.Page > 0 {
			args = append(args, q.Page*limit)
			offsetClause = fmt.Sprintf(" OFFSET $%d", len(args))
		}

		// Newest window first, then re-ordered ascending for display.
		query = fmt.Sprintf(`
			SELECT ts, message, task_name
			FROM (
				SELECT ts, message, task_name
				FROM scoring_job_logs
				WHERE %s
				ORDER BY ts DESC, message DESC
				LIMIT $%d%s
			) window
			ORDER BY ts ASC, message ASC`, cond, limitPos, offsetClause)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list job logs: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var entries []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		var taskName sql.NullString
		if scanErr := rows.Scan(&e.Timestamp, &e.Message, &taskName); scanErr != nil {
			return nil, fmt.Errorf("scan log entry: %w", scanErr)
		}
		e.Timestamp = e.Timestamp.UTC()
		if taskName.Valid {
			e.TaskName = taskName.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}
	return entries, nil
}

// Append writes entries for a job. Used by the ingestion path that relays
// screener output; duplicate (job, timestamp, message) rows are dropped so
// relays can safely re-send.
func (r *LogRepo) Append(ctx context.Context, jobID string, entries []model.LogEntry) error {
	if jobID == "" {
		return apperrors.Validation("job id is required")
	}
	if len(entries) == 0 {
		return nil
	}

	for _, e := range entries {
		if _, err := r.DB.ExecContext(ctx, `
			INSERT INTO scoring_job_logs(job_id, ts, message, task_name)
			VALUES ($1, $2, $3, NULLIF($4, ''))
			ON CONFLICT (job_id, ts, message) DO NOTHING
		`, jobID, e.Timestamp.UTC(), e.Message, e.TaskName); err != nil {
			return fmt.Errorf("append log entry: %w", apperrors.MapDBError(err))
		}
	}
	return nil
}
