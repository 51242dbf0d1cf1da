// Package redis implements session.Store on Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/galleri/core/session"
)

// DefaultTTL matches the session cookie lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// Client is the subset of redis.UniversalClient used by SessionStore.
type Client interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	GetEx(ctx context.Context, key string, expiration time.Duration) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type record struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore keeps each session under "<prefix><id>" as JSON. The key
// expires after the TTL without lookups; every Get restarts it, in step
// with the sliding session cookie.
type SessionStore struct {
	client Client
	prefix string
	ttl    time.Duration
}

// Option configures SessionStore.
type Option func(*SessionStore)

// WithKeyPrefix overrides the "session:" key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *SessionStore) { s.prefix = prefix }
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *SessionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewSessionStore(client Client, opts ...Option) *SessionStore {
	s := &SessionStore{client: client, prefix: "session:", ttl: DefaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) key(id int64) string {
	return s.prefix + strconv.FormatInt(id, 10)
}

func (s *SessionStore) Create(ctx context.Context, sess session.Session) error {
	data, err := json.Marshal(record{ID: sess.ID, UserID: sess.UserID, CreatedAt: sess.CreatedAt})
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(sess.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	if !ok {
		return session.ErrDuplicateID
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id int64) (session.Session, error) {
	data, err := s.client.GetEx(ctx, s.key(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("loading session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return session.Session{}, fmt.Errorf("decoding session: %w", err)
	}
	return session.Session{ID: rec.ID, UserID: rec.UserID, CreatedAt: rec.CreatedAt}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
