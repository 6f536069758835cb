// Package visibility implements the anonymization policy for submissions.
//
// Every surface that renders a submission consults this one package instead of
// re-deriving ownership logic. The decision is a pure function of the viewer
// context, the submission's ownership, and the server-provided flag, so the
// same inputs always yield the same redaction regardless of list order.
package visibility

import (
	"sort"

	"github.com/bountylab/scoring-api/internal/domain/auth"
	"github.com/bountylab/scoring-api/internal/domain/model"
)

const (
	// AnonymousTitle replaces the title of a redacted submission.
	AnonymousTitle = "Anonymous submission"
	// AnonymousSubmitter replaces the submitter identity of a redacted submission.
	AnonymousSubmitter = "Anonymous"
)

// SubmissionView is the render-ready projection of a submission. Redacted
// views withhold content but keep counts, score, and status so leaderboards
// stay useful.
type SubmissionView struct {
	ID          string                 `json:"id"`
	BountyID    string                 `json:"bounty_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Kind        model.ContentKind      `json:"kind"`
	URLs        []string               `json:"urls,omitempty"`
	Body        *string                `json:"body,omitempty"`
	Files       []model.SubmissionFile `json:"files,omitempty"`
	Feedback    *string                `json:"feedback,omitempty"`
	SubmitterID string                 `json:"submitter_id"`
	Submitter   string                 `json:"submitter"`
	URLCount    int                    `json:"url_count"`
	FileCount   int                    `json:"file_count"`
	Status      model.SubmissionStatus `json:"status"`
	Score       *float64               `json:"score,omitempty"`
	Anonymized  bool                   `json:"anonymized"`
}

// Decide reports whether the submission must be anonymized for this viewer.
// A server-provided IsAnonymized flag is authoritative; otherwise the
// submission is anonymized unless the viewer is the submitter, the bounty
// owner, or an admin.
func Decide(viewer auth.VisibilityContext, sub *model.Submission) bool {
	if sub.IsAnonymized != nil {
		return *sub.IsAnonymized
	}
	return !viewer.IsParticipant(sub.SubmitterID)
}

// Render projects a submission for the given viewer, applying redaction when
// Decide says so. Score and status survive redaction.
func Render(viewer auth.VisibilityContext, sub *model.Submission, submitterName string) SubmissionView {
	view := SubmissionView{
		ID:          sub.ID,
		BountyID:    sub.BountyID,
		Title:       sub.Title,
		Description: sub.Description,
		Kind:        sub.Kind,
		URLs:        sub.URLs,
		Body:        sub.Body,
		Files:       sub.Files,
		Feedback:    sub.Feedback,
		SubmitterID: sub.SubmitterID,
		Submitter:   submitterName,
		URLCount:    len(sub.URLs),
		FileCount:   len(sub.Files),
		Status:      sub.Status,
		Score:       sub.Score,
	}

	if !Decide(viewer, sub) {
		return view
	}

	view.Anonymized = true
	view.Title = AnonymousTitle
	view.Description = ""
	view.URLs = nil
	view.Body = nil
	view.Files = nil
	view.Feedback = nil
	view.SubmitterID = ""
	view.Submitter = AnonymousSubmitter
	return view
}

// RenderAll projects a batch of submissions for one viewer. Redaction is
// per-submission; one viewer may see their own entry verbatim in a list that
// is otherwise anonymized.
func RenderAll(viewer auth.VisibilityContext, subs []*model.Submission, names map[string]string) []SubmissionView {
	views := make([]SubmissionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, Render(viewer, sub, names[sub.SubmitterID]))
	}
	return views
}

// Leaderboard re-sorts views by score descending while keeping the redaction
// already applied; entries without a score sink to the bottom. Redaction never
// depends on sort position, so sorting after rendering is safe.
func Leaderboard(views []SubmissionView) []SubmissionView {
	ranked := make([]SubmissionView, len(views))
	copy(ranked, views)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].Score, ranked[j].Score
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return *si > *sj
		}
	})
	return ranked
}
