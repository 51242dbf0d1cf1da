package session

import "context"

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	// Create inserts sess. It returns ErrDuplicateID if the id exists.
	Create(ctx context.Context, sess Session) error
	// Get returns the session with id, or ErrNotFound.
	Get(ctx context.Context, id int64) (Session, error)
	// Delete removes the session. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error
}
