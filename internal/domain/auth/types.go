// Package auth contains domain-level types for viewer identity and sessions.
// It is pure and free of framework/adapter concerns. Session issuance is an
// external collaborator; this core only consumes established sessions.
package auth

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// VisibilityContext is the per-request view of who is looking at a submission.
// It is derived, never persisted, and passed explicitly into every call that
// needs it so no code reaches for ambient session state.
type VisibilityContext struct {
	ViewerID      string
	ViewerIsAdmin bool
	// BountyOwnerID is the owner of the bounty the submission belongs to.
	BountyOwnerID string
}

// ViewerContext builds a VisibilityContext from a session and the owning
// bounty. An empty session yields an anonymous viewer.
func ViewerContext(sess Session, bountyOwnerID string) VisibilityContext {
	return VisibilityContext{
		ViewerID:      sess.UserID,
		ViewerIsAdmin: sess.IsAdmin(),
		BountyOwnerID: bountyOwnerID,
	}
}

// IsOwner reports whether the viewer owns the bounty in scope.
func (v VisibilityContext) IsOwner() bool {
	return v.ViewerID != "" && v.ViewerID == v.BountyOwnerID
}

// IsSubmitter reports whether the viewer submitted the given submission.
func (v VisibilityContext) IsSubmitter(submitterID string) bool {
	return v.ViewerID != "" && v.ViewerID == submitterID
}

// IsParticipant reports whether the viewer has any ownership relation to the
// submission: submitter, bounty owner, or admin. Non-participants must see a
// not-found outcome rather than learn the submission exists.
func (v VisibilityContext) IsParticipant(submitterID string) bool {
	return v.ViewerIsAdmin || v.IsOwner() || v.IsSubmitter(submitterID)
}
