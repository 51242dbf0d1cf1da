package session

import "time"

// Session is the server-side record behind a session cookie.
// It is immutable once created; the only later operation is deletion.
type Session struct {
	ID        int64
	UserID    *int64 // nil for anonymous sessions
	CreatedAt time.Time
}

// IsAnonymous reports whether the session has no user attached.
func (s Session) IsAnonymous() bool {
	return s.UserID == nil
}
