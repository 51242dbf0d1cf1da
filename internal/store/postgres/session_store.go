package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrymomot/galleri/core/session"
	"github.com/dmitrymomot/galleri/integration/database/pg"
)

// SessionStore implements session.Store on the pc_session table.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, sess session.Session) error {
	query, args, err := psq.Insert(sessionTable).
		Columns("id", "user_id", "created_at").
		Values(sess.ID, sess.UserID, sess.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("building session insert: %w", err)
	}

	if _, err := pg.Conn(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return session.ErrDuplicateID
		}
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id int64) (session.Session, error) {
	query, args, err := psq.Select("id", "user_id", "created_at").
		From(sessionTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return session.Session{}, fmt.Errorf("building session select: %w", err)
	}

	var (
		sess   session.Session
		userID sql.NullInt64
	)
	err = pg.Conn(ctx, s.db).QueryRowContext(ctx, query, args...).Scan(&sess.ID, &userID, &sess.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("selecting session: %w", err)
	}
	if userID.Valid {
		sess.UserID = &userID.Int64
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id int64) error {
	query, args, err := psq.Delete(sessionTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building session delete: %w", err)
	}
	if _, err := pg.Conn(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
