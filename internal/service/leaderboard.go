package service

import (
	"context"
	"fmt"

	"github.com/bountylab/scoring-api/internal/domain/auth"
	"github.com/bountylab/scoring-api/internal/domain/visibility"
)

// Leaderboard returns the bounty's submissions ranked by score descending,
// with the visibility policy applied per entry before ranking. Redaction never
// depends on sort position: a viewer sees their own entry verbatim wherever it
// lands, and everyone else's entries redacted per policy.
func (s *ScoringJobService) Leaderboard(
	ctx context.Context,
	sess auth.Session,
	bountyID string,
) ([]visibility.SubmissionView, error) {
	subs, err := s.submissions.ListByBounty(ctx, bountyID)
	if err != nil {
		return nil, fmt.Errorf("list bounty submissions: %w", err)
	}

	owner, err := s.submissions.BountyOwner(ctx, bountyID)
	if err != nil {
		return nil, fmt.Errorf("resolve bounty owner: %w", err)
	}
	viewer := auth.ViewerContext(sess, owner)

	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.SubmitterID)
	}
	names, err := s.submissions.SubmitterNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("submitter names: %w", err)
	}

	views := visibility.RenderAll(viewer, subs, names)
	return visibility.Leaderboard(views), nil
}
