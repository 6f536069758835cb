package scoring

import (
	"github.com/bountylab/scoring-api/internal/domain/model"
)

// ScoreKind distinguishes what a displayed score means.
type ScoreKind string

const (
	// ScoreFinal is the terminal score of a completed job.
	ScoreFinal ScoreKind = "final"
	// ScoreProvisional is a running estimate shown with a processing indicator.
	ScoreProvisional ScoreKind = "provisional"
	// ScorePending means no score information exists yet.
	ScorePending ScoreKind = "pending"
)

// DisplayScore is the normalized score projection for one job.
type DisplayScore struct {
	Kind  ScoreKind `json:"kind"`
	Value *float64  `json:"value,omitempty"`
}

// JobDisplayScore derives what score to show for a job: the terminal score
// when completed, a provisional estimate while running, pending otherwise.
func JobDisplayScore(job *model.ScoringJob) DisplayScore {
	if job.Status == model.JobStatusCompleted {
		return DisplayScore{Kind: ScoreFinal, Value: job.Score}
	}
	if job.CurrentScore != nil {
		return DisplayScore{Kind: ScoreProvisional, Value: job.CurrentScore}
	}
	return DisplayScore{Kind: ScorePending}
}

// Outcome is one terminal job result exposed for decision-making.
type Outcome struct {
	JobID        string           `json:"job_id"`
	Status       model.JobStatus  `json:"status"`
	Score        *float64         `json:"score,omitempty"`
	ErrorMessage *string          `json:"error_message,omitempty"`
	RetriesSpent int              `json:"retries_spent"`
}

// TerminalOutcomes returns the set of terminal job outcomes for a submission
// once every job has reached a terminal state, and nil (done=false) while any
// job is still in flight. Mapping outcomes to an approve/reject/winner
// decision is external policy; the core only exposes the set.
func TerminalOutcomes(jobs []*model.ScoringJob) ([]Outcome, bool) {
	if len(jobs) == 0 {
		return nil, false
	}
	outcomes := make([]Outcome, 0, len(jobs))
	for _, job := range jobs {
		if !job.Status.Terminal() {
			return nil, false
		}
		outcomes = append(outcomes, Outcome{
			JobID:        job.ID,
			Status:       job.Status,
			Score:        job.Score,
			ErrorMessage: job.ErrorMessage,
			RetriesSpent: job.RetryCount,
		})
	}
	return outcomes, true
}

// DecisionFunc maps a submission's terminal outcomes to its derived status.
// The scoring-to-decision mapping is a configuration concern owned by the
// caller; when nil, submissions are left as they are.
type DecisionFunc func(outcomes []Outcome) (model.SubmissionStatus, bool)

// DeriveSubmissionStatus applies the caller's decision policy once all jobs
// are terminal. It returns false when no decision applies (jobs still
// running, or no policy configured).
func DeriveSubmissionStatus(jobs []*model.ScoringJob, decide DecisionFunc) (model.SubmissionStatus, bool) {
	outcomes, done := TerminalOutcomes(jobs)
	if !done || decide == nil {
		return "", false
	}
	return decide(outcomes)
}

// BestCompletedScore returns the highest terminal score among the outcomes.
// Convenience for decision policies and leaderboard rollups.
func BestCompletedScore(outcomes []Outcome) (float64, bool) {
	var best float64
	found := false
	for _, o := range outcomes {
		if o.Status != model.JobStatusCompleted || o.Score == nil {
			continue
		}
		if !found || *o.Score > best {
			best = *o.Score
			found = true
		}
	}
	return best, found
}
