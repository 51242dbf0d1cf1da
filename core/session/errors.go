package session

import "errors"

var (
	// ErrNotFound is returned when no session has the requested id.
	ErrNotFound = errors.New("session not found")

	// ErrDuplicateID is returned by a Store when the id is already taken.
	ErrDuplicateID = errors.New("session id already exists")

	// ErrStorage wraps failures of the backing store.
	ErrStorage = errors.New("session storage failure")

	// ErrInvalidID is returned by ParseID for text that is not a base-10 int64.
	ErrInvalidID = errors.New("invalid session id")
)
