package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultMaxCreateAttempts bounds id regeneration when a generated id collides.
const DefaultMaxCreateAttempts = 3

// Manager implements session lifecycle operations on top of a Store.
type Manager struct {
	store       Store
	generateID  IDGenerator
	now         func() time.Time
	maxAttempts int
}

// Option configures a Manager.
type Option func(*Manager)

// WithIDGenerator replaces GenerateID.
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) {
		if gen != nil {
			m.generateID = gen
		}
	}
}

// WithClock replaces time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithMaxCreateAttempts sets how many ids Create tries before giving up.
func WithMaxCreateAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// NewManager returns a Manager backed by store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		generateID:  GenerateID,
		now:         time.Now,
		maxAttempts: DefaultMaxCreateAttempts,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create stores a new session with a random id. A colliding id is replaced
// by a newly generated one, up to the configured number of attempts.
func (m *Manager) Create(ctx context.Context, userID *int64) (Session, error) {
	var lastErr error
	for range m.maxAttempts {
		id, err := m.generateID()
		if err != nil {
			return Session{}, errors.Join(ErrStorage, err)
		}

		sess := Session{ID: id, UserID: userID, CreatedAt: m.now().UTC()}
		err = m.store.Create(ctx, sess)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return Session{}, errors.Join(ErrStorage, fmt.Errorf("create session: %w", err))
		}
		lastErr = err
	}
	return Session{}, errors.Join(ErrStorage, fmt.Errorf("create session after %d attempts: %w", m.maxAttempts, lastErr))
}

// Get returns the session with id. A missing session yields ErrNotFound;
// any other failure is wrapped with ErrStorage.
func (m *Manager) Get(ctx context.Context, id int64) (Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrNotFound
		}
		return Session{}, errors.Join(ErrStorage, fmt.Errorf("get session: %w", err))
	}
	return sess, nil
}

// Delete removes the session with id. It is idempotent.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return errors.Join(ErrStorage, fmt.Errorf("delete session: %w", err))
	}
	return nil
}
