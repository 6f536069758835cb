package model

import (
	"fmt"
	"strings"
	"time"
)

// SubmissionStatus represents the review state of a submission.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type SubmissionStatus string

const (
	// SubmissionPending indicates scoring or review has not concluded.
	SubmissionPending SubmissionStatus = "pending"
	// SubmissionApproved indicates the submission was accepted.
	SubmissionApproved SubmissionStatus = "approved"
	// SubmissionRejected indicates the submission was rejected.
	SubmissionRejected SubmissionStatus = "rejected"
	// SubmissionWinner indicates the submission won the bounty.
	SubmissionWinner SubmissionStatus = "winner"
)

// UnmarshalText implements encoding.TextUnmarshaler for SubmissionStatus.
func (s *SubmissionStatus) UnmarshalText(text []byte) error {
	v := SubmissionStatus(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid SubmissionStatus: %q", string(text))
	}
	*s = v
	return nil
}

// Valid returns true if the SubmissionStatus is a known state.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected, SubmissionWinner:
		return true
	}
	return false
}

// ContentKind describes what a submission carries.
type ContentKind string

const (
	ContentKindURL   ContentKind = "url"
	ContentKindFile  ContentKind = "file"
	ContentKindText  ContentKind = "text"
	ContentKindMixed ContentKind = "mixed"
)

// SubmissionFile is a reference to an uploaded attachment. Object storage is
// an external collaborator; only the reference is carried here.
type SubmissionFile struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// Submission is a solution submitted against a bounty. The scoring pipeline
// mutates status and score; everything else is owned by the CRUD surfaces.
type Submission struct {
	ID           string           `json:"id"                     db:"id"`
	BountyID     string           `json:"bounty_id"              db:"bounty_id"`
	SubmitterID  string           `json:"submitter_id"           db:"submitter_id"`
	Title        string           `json:"title"                  db:"title"`
	Description  string           `json:"description,omitempty"  db:"description"`
	Kind         ContentKind      `json:"kind"                   db:"kind"`
	URLs         []string         `json:"urls,omitempty"         db:"-"`
	Body         *string          `json:"body,omitempty"         db:"body"`
	Files        []SubmissionFile `json:"files,omitempty"        db:"-"`
	Feedback     *string          `json:"feedback,omitempty"     db:"feedback"`
	Status       SubmissionStatus `json:"status"                 db:"status"`
	Score        *float64         `json:"score,omitempty"        db:"score"`
	IsAnonymized *bool            `json:"is_anonymized,omitempty" db:"is_anonymized"`
	CreatedAt    time.Time        `json:"created_at"             db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"             db:"updated_at"`
}
