package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in a map. Contents are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

func (m *MemoryStore) Create(ctx context.Context, sess Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sess.ID]; ok {
		return ErrDuplicateID
	}
	if sess.UserID != nil {
		uid := *sess.UserID
		sess.UserID = &uid
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id int64) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
