package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/core/response"
	"github.com/dmitrymomot/galleri/core/session"
	"github.com/dmitrymomot/galleri/core/sessiontransport"
)

// ErrNoSessionInContext is returned by DeleteSession outside the session middleware.
var ErrNoSessionInContext = errors.New("no session in context")

type sessionKey struct{}

// SessionManager is the subset of *session.Manager used by the middleware.
type SessionManager interface {
	Create(ctx context.Context, userID *int64) (session.Session, error)
	Get(ctx context.Context, id int64) (session.Session, error)
	Delete(ctx context.Context, id int64) error
}

// SessionTransport carries the session id on requests and responses.
type SessionTransport interface {
	Name() string
	Extract(r *http.Request) (int64, error)
	Embed(w http.ResponseWriter, id int64) error
	Revoke(w http.ResponseWriter, id int64) error
}

// SessionObserver is notified about resolved and deleted sessions.
type SessionObserver interface {
	SessionResolved(kind string)
	SessionDeleted()
}

// SessionConfig configures the session middleware.
type SessionConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx C) bool
	// Manager resolves and creates sessions (required)
	Manager SessionManager
	// Transport reads and writes the session cookie (required)
	Transport SessionTransport
	// Logger for structured logging (default: slog with io.Discard)
	Logger *slog.Logger
	// Observer receives session events (optional)
	Observer SessionObserver
}

type sessionHolder struct {
	state     session.State
	manager   SessionManager
	transport SessionTransport
	observer  SessionObserver
	deleted   bool
}

// Session resolves the visitor session for every request:
//
//  1. the id is extracted from the signed cookie; any cookie problem counts
//     as no candidate;
//  2. a candidate is looked up and, when found, becomes session.Active;
//  3. otherwise a new session is created and becomes session.Fresh;
//  4. the signed cookie is written with a full lifetime, sliding expiry;
//  5. the state is stored in the context before the handler runs.
//
// Storage failures abort the request with a 500.
func Session[C handler.Context](cfg SessionConfig[C]) handler.Middleware[C] {
	if cfg.Manager == nil {
		panic("session middleware: manager is required")
	}
	if cfg.Transport == nil {
		panic("session middleware: transport is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			state, err := resolveSession(ctx, cfg)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return response.Error(ctxErr)
				}
				cfg.Logger.ErrorContext(ctx, "session middleware: failed to resolve session", logger.Error(err))
				return response.Error(response.ErrInternalServerError.WithError(err))
			}

			id := state.Session().ID
			if err := cfg.Transport.Embed(ctx.ResponseWriter(), id); err != nil {
				cfg.Logger.ErrorContext(ctx, "session middleware: failed to write cookie", logger.Error(err))
				return response.Error(response.ErrInternalServerError.WithError(err))
			}

			ctx.SetValue(sessionKey{}, &sessionHolder{
				state:     state,
				manager:   cfg.Manager,
				transport: cfg.Transport,
				observer:  cfg.Observer,
			})

			if cfg.Observer != nil {
				cfg.Observer.SessionResolved(state.Kind())
			}
			cfg.Logger.DebugContext(ctx, "session resolved",
				logger.SessionID(id),
				slog.String("state", state.Kind()),
			)

			return next(ctx)
		}
	}
}

func resolveSession[C handler.Context](ctx C, cfg SessionConfig[C]) (session.State, error) {
	id, err := cfg.Transport.Extract(ctx.Request())
	switch {
	case err == nil:
		sess, err := cfg.Manager.Get(ctx, id)
		if err == nil {
			return session.Active{Record: sess}, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, err
		}
	case !errors.Is(err, sessiontransport.ErrNoSession):
		cfg.Logger.DebugContext(ctx, "session middleware: ignoring invalid session cookie", logger.Error(err))
	}

	sess, err := cfg.Manager.Create(ctx, nil)
	if err != nil {
		return nil, err
	}
	return session.Fresh{Record: sess}, nil
}

// GetSession returns the session resolved for this request. It reports
// false outside the session middleware and after DeleteSession.
func GetSession(ctx context.Context) (session.State, bool) {
	h, ok := ctx.Value(sessionKey{}).(*sessionHolder)
	if !ok || h.deleted {
		return nil, false
	}
	return h.state, true
}

// DeleteSession removes the current session from the store and replaces
// the session cookie on the response with an expired one carrying the same id.
// Calling it again is a no-op.
func DeleteSession(ctx handler.Context) error {
	h, ok := ctx.Value(sessionKey{}).(*sessionHolder)
	if !ok {
		return ErrNoSessionInContext
	}
	if h.deleted {
		return nil
	}

	id := h.state.Session().ID
	if err := h.manager.Delete(ctx, id); err != nil {
		return err
	}

	w := ctx.ResponseWriter()
	removeSetCookie(w.Header(), h.transport.Name())
	if err := h.transport.Revoke(w, id); err != nil {
		return err
	}

	h.deleted = true
	if h.observer != nil {
		h.observer.SessionDeleted()
	}
	return nil
}

// removeSetCookie drops pending Set-Cookie lines for name.
func removeSetCookie(h http.Header, name string) {
	lines := h.Values("Set-Cookie")
	if len(lines) == 0 {
		return
	}
	var kept []string
	for _, line := range lines {
		if !strings.HasPrefix(line, name+"=") {
			kept = append(kept, line)
		}
	}
	h.Del("Set-Cookie")
	for _, line := range kept {
		h.Add("Set-Cookie", line)
	}
}
