package domain

import "context"

// ProfileID names a client profile. A profile holds at most one session,
// the way a browser profile holds one signed-in user.
type ProfileID string

// DefaultProfile is used by clients that do not name a profile.
const DefaultProfile ProfileID = "default"

// Session identifies the signed-in account of a profile.
type Session struct {
	Email string `json:"email"`
}

// SessionRepository persists the optional session of each profile.
type SessionRepository interface {
	// Load returns nil without error when the profile is signed out.
	Load(ctx context.Context, profile ProfileID) (*Session, error)
	Save(ctx context.Context, profile ProfileID, session *Session) error
	Clear(ctx context.Context, profile ProfileID) error
}
