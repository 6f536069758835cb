// Package data implements the core port interfaces against PostgreSQL and
// Redis. Repositories share one *sql.DB pool backed by the pgx stdlib driver.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bountylab/scoring-api/internal/core"
	"github.com/bountylab/scoring-api/internal/data/pgxutil"
	"github.com/bountylab/scoring-api/internal/domain/model"
	apperrors "github.com/bountylab/scoring-api/internal/errors"
)

// jobAddedChannel is the pg_notify channel fired when a new scoring job is
// inserted, so the external assignment process can wake up promptly.
const jobAddedChannel = "scoring_job_added"

// ScoringJobRepoConfig holds construction options for ScoringJobRepo.
type ScoringJobRepoConfig struct {
	Logger *slog.Logger
	Clock  core.Clock
}

// ScoringJobRepo provides database operations for scoring jobs.
type ScoringJobRepo struct {
	DB     *sql.DB
	clock  core.Clock
	logger *slog.Logger
}

// NewScoringJobRepo creates a new ScoringJobRepo with the given pool.
func NewScoringJobRepo(db *sql.DB, cfg ScoringJobRepoConfig) *ScoringJobRepo {
	clock := cfg.Clock
	if clock == nil {
		clock = core.RealClock{}
	}
	return &ScoringJobRepo{DB: db, clock: clock, logger: cfg.Logger}
}

const scoringJobColumns = `
  id,
  submission_id,
  screener_id,
  status,
  score,
  current_score,
  error_message,
  retry_count,
  max_retries,
  created_at,
  started_at,
  completed_at,
  updated_at
`

// Create inserts a pending job and seeds one not_started task row per
// definition, all in one transaction, then notifies the assignment channel.
func (r *ScoringJobRepo) Create(ctx context.Context, req *core.CreateJobParams) (*model.ScoringJob, error) {
	if req == nil {
		return nil, errors.New("create job params are required")
	}
	if strings.TrimSpace(req.SubmissionID) == "" {
		return nil, apperrors.Validation("submission id is required")
	}
	if strings.TrimSpace(req.ScreenerID) == "" {
		return nil, apperrors.Validation("screener id is required")
	}

	id := uuid.NewString()
	now := r.clock.Now().UTC()

	var job *model.ScoringJob
	txErr := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			row := tx.QueryRowContext(ctx, `
				INSERT INTO scoring_jobs(id, submission_id, screener_id, status, max_retries, created_at, updated_at)
				VALUES ($1, $2, $3, 'pending', $4, $5, $5)
				RETURNING `+scoringJobColumns,
				id, req.SubmissionID, req.ScreenerID, req.MaxRetries, now,
			)
			j, scanErr := scanScoringJob(row)
			if scanErr != nil {
				return fmt.Errorf("insert scoring job: %w", apperrors.MapDBError(scanErr))
			}

			for _, def := range req.Tasks {
				if _, execErr := tx.ExecContext(ctx, `
					INSERT INTO scoring_tasks(id, job_id, name, description, status, created_at)
					VALUES ($1, $2, $3, $4, 'not_started', $5)`,
					uuid.NewString(), j.ID, def.Name, def.Description, now,
				); execErr != nil {
					return fmt.Errorf("seed task %q: %w", def.Name, apperrors.MapDBError(execErr))
				}
			}

			if _, notifyErr := tx.ExecContext(ctx, `SELECT pg_notify($1::text, $2::text)`, jobAddedChannel, j.ID); notifyErr != nil {
				return fmt.Errorf("send job notification: %w", notifyErr)
			}

			job = j
			return nil
		},
	})
	if txErr != nil {
		return nil, txErr
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "scoring job created",
			"job_id", job.ID,
			"submission_id", job.SubmissionID,
			"screener_id", job.ScreenerID,
		)
	}
	return job, nil
}

// GetByID retrieves a job by its id.
func (r *ScoringJobRepo) GetByID(ctx context.Context, id string) (*model.ScoringJob, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+scoringJobColumns+`
		FROM scoring_jobs
		WHERE id = $1
	`, id)

	job, err := scanScoringJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("scoring job %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get scoring job: %w", apperrors.MapDBError(err))
	}
	return job, nil
}

// ListBySubmission returns every job ever created for a submission, oldest
// first. Retried and superseded jobs are included for audit.
func (r *ScoringJobRepo) ListBySubmission(ctx context.Context, submissionID string) ([]*model.ScoringJob, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+scoringJobColumns+`
		FROM scoring_jobs
		WHERE submission_id = $1
		ORDER BY created_at ASC, id ASC
	`, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list submission jobs: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	return collectScoringJobs(rows)
}

// List returns jobs matching the filter options, newest first.
func (r *ScoringJobRepo) List(ctx context.Context, opts *model.JobListOptions) ([]*model.ScoringJob, error) {
	if opts == nil {
		opts = &model.JobListOptions{}
	}

	var (
		where []string
		args  []any
	)
	addFilter := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if opts.SubmissionID != "" {
		addFilter("submission_id = $%d", opts.SubmissionID)
	}
	if opts.ScreenerID != "" {
		addFilter("screener_id = $%d", opts.ScreenerID)
	}
	if opts.Status != "" {
		if !opts.Status.Valid() {
			return nil, apperrors.Validationf("invalid job status filter: %q", opts.Status)
		}
		addFilter("status = $%d", opts.Status)
	}

	query := `SELECT ` + scoringJobColumns + ` FROM scoring_jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scoring jobs: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	return collectScoringJobs(rows)
}

// Update persists the mutable fields of a job.
func (r *ScoringJobRepo) Update(ctx context.Context, job *model.ScoringJob) error {
	if job == nil || job.ID == "" {
		return errors.New("job with id is required")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE scoring_jobs
		SET status = $2,
		    score = $3,
		    current_score = $4,
		    error_message = $5,
		    retry_count = $6,
		    started_at = $7,
		    completed_at = $8,
		    updated_at = $9
		WHERE id = $1
	`,
		job.ID,
		job.Status,
		job.Score,
		job.CurrentScore,
		job.ErrorMessage,
		job.RetryCount,
		nullableTime(job.StartedAt),
		nullableTime(job.CompletedAt),
		job.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("update scoring job: %w", apperrors.MapDBError(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("scoring job %s not found", job.ID)
	}
	return nil
}

// Stats returns per-status job counts.
func (r *ScoringJobRepo) Stats(ctx context.Context) (*model.JobStats, error) {
	var s model.JobStats
	err := r.DB.QueryRowContext(ctx, `
  SELECT
    count(*) FILTER (WHERE status = 'pending')   AS pending,
    count(*) FILTER (WHERE status = 'assigned')  AS assigned,
    count(*) FILTER (WHERE status = 'scoring')   AS scoring,
    count(*) FILTER (WHERE status = 'completed') AS completed,
    count(*) FILTER (WHERE status = 'failed')    AS failed,
    count(*) FILTER (WHERE status = 'cancelled') AS cancelled
  FROM scoring_jobs
  `).Scan(
		&s.Pending,
		&s.Assigned,
		&s.Scoring,
		&s.Completed,
		&s.Failed,
		&s.Cancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("scoring job stats: %w", apperrors.MapDBError(err))
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

type scoringJobRowData struct {
	score, currentScore    sql.NullFloat64
	errorMessage           sql.NullString
	startedAt, completedAt sql.NullTime
}

func (d *scoringJobRowData) scanInto(scanner rowScanner, job *model.ScoringJob) error {
	return scanner.Scan(
		&job.ID,
		&job.SubmissionID,
		&job.ScreenerID,
		&job.Status,
		&d.score,
		&d.currentScore,
		&d.errorMessage,
		&job.RetryCount,
		&job.MaxRetries,
		&job.CreatedAt,
		&d.startedAt,
		&d.completedAt,
		&job.UpdatedAt,
	)
}

func (d *scoringJobRowData) apply(job *model.ScoringJob) {
	job.Score = cloneNullableFloat(d.score)
	job.CurrentScore = cloneNullableFloat(d.currentScore)
	job.ErrorMessage = cloneNullableString(d.errorMessage)
	job.StartedAt = cloneNullableTime(d.startedAt)
	job.CompletedAt = cloneNullableTime(d.completedAt)
}

func scanScoringJob(scanner rowScanner) (*model.ScoringJob, error) {
	job := &model.ScoringJob{}
	var data scoringJobRowData
	if err := data.scanInto(scanner, job); err != nil {
		return nil, err
	}
	data.apply(job)
	return job, nil
}

func collectScoringJobs(rows *sql.Rows) ([]*model.ScoringJob, error) {
	var jobs []*model.ScoringJob
	for rows.Next() {
		job, err := scanScoringJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scoring job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scoring jobs: %w", err)
	}
	return jobs, nil
}

func cloneNullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func cloneNullableFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func cloneNullableTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
