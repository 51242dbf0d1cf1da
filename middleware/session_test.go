package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/galleri/core/cookie"
	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/response"
	"github.com/dmitrymomot/galleri/core/router"
	"github.com/dmitrymomot/galleri/core/session"
	"github.com/dmitrymomot/galleri/core/sessiontransport"
	"github.com/dmitrymomot/galleri/middleware"
)

const testSecret = "test-secret-key-32-characters!!!"

type countingObserver struct {
	mu       sync.Mutex
	resolved map[string]int
	deleted  int
}

func (o *countingObserver) SessionResolved(kind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.resolved == nil {
		o.resolved = map[string]int{}
	}
	o.resolved[kind]++
}

func (o *countingObserver) SessionDeleted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleted++
}

type mockManager struct {
	mock.Mock
}

func (m *mockManager) Create(ctx context.Context, userID *int64) (session.Session, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *mockManager) Get(ctx context.Context, id int64) (session.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *mockManager) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type sessionFixture struct {
	store    *session.MemoryStore
	cookies  *cookie.Manager
	observer *countingObserver
	router   router.Router[*router.Context]
}

// newSessionFixture wires the middleware in front of /whoami, which echoes
// "<kind>:<id>", and /forget, which deletes the session.
func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	f := &sessionFixture{
		store:    session.NewMemoryStore(),
		cookies:  cookies,
		observer: &countingObserver{},
	}

	r := router.New[*router.Context](router.WithErrorHandler(response.ErrorHandler[*router.Context]))
	r.Use(middleware.Session[*router.Context](middleware.SessionConfig[*router.Context]{
		Manager:   session.NewManager(f.store),
		Transport: sessiontransport.NewCookie(cookies),
		Observer:  f.observer,
	}))
	r.Get("/whoami", func(ctx *router.Context) handler.Response {
		st, ok := middleware.GetSession(ctx)
		if !ok {
			return response.Error(errors.New("no session"))
		}
		return response.String(st.Kind() + ":" + session.FormatID(st.Session().ID))
	})
	r.Post("/forget", func(ctx *router.Context) handler.Response {
		if err := middleware.DeleteSession(ctx); err != nil {
			return response.Error(err)
		}
		if err := middleware.DeleteSession(ctx); err != nil {
			return response.Error(err)
		}
		if _, ok := middleware.GetSession(ctx); ok {
			return response.Error(errors.New("session still visible"))
		}
		return response.RedirectSeeOther("/")
	})
	f.router = r
	return f
}

func (f *sessionFixture) do(t *testing.T, method, path string, cookieValue string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: sessiontransport.DefaultCookieName, Value: cookieValue})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func sessionCookies(w *httptest.ResponseRecorder) []string {
	var out []string
	for _, line := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(line, sessiontransport.DefaultCookieName+"=") {
			out = append(out, line)
		}
	}
	return out
}

func TestSession_NoCookieCreatesFreshSession(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	w := f.do(t, http.MethodGet, "/whoami", "")

	require.Equal(t, http.StatusOK, w.Code)
	kind, id, ok := strings.Cut(w.Body.String(), ":")
	require.True(t, ok)
	assert.Equal(t, "fresh", kind)
	assert.Equal(t, 1, f.store.Len())

	lines := sessionCookies(w)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Max-Age=604800")
	assert.Contains(t, lines[0], "HttpOnly")
	assert.Contains(t, lines[0], "Secure")
	assert.Contains(t, lines[0], "Path=/")
	assert.NotContains(t, lines[0], "Domain=")

	c := w.Result().Cookies()[0]
	v, err := f.cookies.Verify(c.Value)
	require.NoError(t, err)
	assert.Equal(t, id, v)
}

func TestSession_ValidCookieReusesSession(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	require.NoError(t, f.store.Create(context.Background(), session.Session{ID: 42}))

	w := f.do(t, http.MethodGet, "/whoami", f.cookies.Sign("42"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active:42", w.Body.String())
	assert.Equal(t, 1, f.store.Len(), "no new row")

	lines := sessionCookies(w)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Max-Age=604800", "expiry slides forward")
	v, err := f.cookies.Verify(w.Result().Cookies()[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	assert.Equal(t, 1, f.observer.resolved["active"])
}

func TestSession_InvalidCookiesCreateFreshSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value func(m *cookie.Manager) string
	}{
		{name: "tampered plain id", value: func(*cookie.Manager) string { return "4242" }},
		{name: "bad mac", value: func(m *cookie.Manager) string { return m.Sign("42") + "A" }},
		{name: "signed non-number", value: func(m *cookie.Manager) string { return m.Sign("42abc") }},
		{name: "signed unknown id", value: func(m *cookie.Manager) string { return m.Sign("4242") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newSessionFixture(t)
			require.NoError(t, f.store.Create(context.Background(), session.Session{ID: 42}))

			w := f.do(t, http.MethodGet, "/whoami", tt.value(f.cookies))

			require.Equal(t, http.StatusOK, w.Code)
			kind, id, _ := strings.Cut(w.Body.String(), ":")
			assert.Equal(t, "fresh", kind)
			assert.NotEqual(t, "4242", id)
			assert.NotEqual(t, "42", id)
			assert.Equal(t, 2, f.store.Len())
			assert.Len(t, sessionCookies(w), 1)
		})
	}
}

func TestSession_DeleteExpiresCookie(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	require.NoError(t, f.store.Create(context.Background(), session.Session{ID: 42}))

	w := f.do(t, http.MethodPost, "/forget", f.cookies.Sign("42"))
	require.Equal(t, http.StatusSeeOther, w.Code)

	lines := sessionCookies(w)
	require.Len(t, lines, 1, "the refreshed cookie is replaced, not duplicated")
	assert.Contains(t, lines[0], "Max-Age=0")

	v, err := f.cookies.Verify(w.Result().Cookies()[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "42", v, "expired cookie carries the same id")

	_, err = f.store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 1, f.observer.deleted)

	// The browser would drop the cookie; replaying it anyway yields a fresh session.
	w = f.do(t, http.MethodGet, "/whoami", f.cookies.Sign("42"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "fresh:"))
}

func TestSession_StorageFailure(t *testing.T) {
	t.Parallel()

	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	mgr := &mockManager{}
	mgr.On("Get", mock.Anything, int64(42)).Return(session.Session{}, errors.Join(session.ErrStorage, errors.New("db down")))
	mgr.On("Create", mock.Anything, mock.Anything).Return(session.Session{}, errors.Join(session.ErrStorage, errors.New("db down")))

	called := false
	r := router.New[*router.Context](router.WithErrorHandler(response.ErrorHandler[*router.Context]))
	r.Use(middleware.Session[*router.Context](middleware.SessionConfig[*router.Context]{
		Manager:   mgr,
		Transport: sessiontransport.NewCookie(cookies),
	}))
	r.Get("/", func(ctx *router.Context) handler.Response {
		called = true
		return response.String("ok")
	})

	for _, value := range []string{cookies.Sign("42"), ""} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if value != "" {
			req.AddCookie(&http.Cookie{Name: sessiontransport.DefaultCookieName, Value: value})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, sessionCookies(w))
	}
	assert.False(t, called)
	mgr.AssertExpectations(t)
}

func TestSession_DeleteOutsideMiddleware(t *testing.T) {
	t.Parallel()

	ctx := router.NewContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.ErrorIs(t, middleware.DeleteSession(ctx), middleware.ErrNoSessionInContext)

	_, ok := middleware.GetSession(ctx)
	assert.False(t, ok)
}

func TestSession_RequiresDependencies(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		middleware.Session[*router.Context](middleware.SessionConfig[*router.Context]{})
	})
}
