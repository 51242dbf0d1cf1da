package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/galleri/core/cookie"
	"github.com/dmitrymomot/galleri/core/health"
	"github.com/dmitrymomot/galleri/core/router"
	"github.com/dmitrymomot/galleri/core/session"
	"github.com/dmitrymomot/galleri/core/sessiontransport"
	"github.com/dmitrymomot/galleri/internal/gallery"
	"github.com/dmitrymomot/galleri/internal/lastviewed"
	"github.com/dmitrymomot/galleri/internal/settings"
	"github.com/dmitrymomot/galleri/internal/web"
	"github.com/dmitrymomot/galleri/middleware"
)

const testSecret = "test-secret-key-32-characters!!!"

type fixture struct {
	handler  http.Handler
	gallery  *gallery.Service
	sessions *session.MemoryStore
	cookies  *cookie.Manager
	seeded   []gallery.Category
}

func newFixture(t *testing.T, checks health.Checks) *fixture {
	t.Helper()

	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	svc := gallery.NewService(gallery.NewMemoryStore())
	seeded, err := gallery.Seed(context.Background(), svc, gallery.DemoData)
	require.NoError(t, err)

	renderer, err := web.NewRenderer(web.Templates())
	require.NoError(t, err)

	h := web.NewHandlers[*router.Context](web.Config{
		Gallery:      svc,
		Tracker:      lastviewed.NewTracker(cookies),
		Renderer:     renderer,
		HealthChecks: checks,
	})

	sessions := session.NewMemoryStore()
	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](h.ErrorHandler))
	r.Use(settings.Middleware[*router.Context]())
	r.Use(middleware.Session(middleware.SessionConfig[*router.Context]{
		Manager:   session.NewManager(sessions),
		Transport: sessiontransport.NewCookie(cookies),
	}))
	h.Register(r)

	return &fixture{handler: r, gallery: svc, sessions: sessions, cookies: cookies, seeded: seeded}
}

func (f *fixture) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *fixture) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var consentAccepted = &http.Cookie{Name: settings.ConsentCookie, Value: "accept"}

func TestIndex(t *testing.T) {
	t.Parallel()

	t.Run("lists categories", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.get("/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		body := w.Body.String()
		assert.Contains(t, body, "complex kitties")
		assert.Contains(t, body, `href="/kitties/emoji"`)
		assert.Contains(t, body, "5 kitties")
		assert.Contains(t, body, `data-theme="light"`)
		assert.Contains(t, body, "/settings/cookies/accept", "consent prompt is shown")
		assert.Contains(t, body, "Session: fresh")
		assert.NotContains(t, body, "Recently viewed")
		assert.NotNil(t, responseCookie(w, sessiontransport.DefaultCookieName))
	})

	t.Run("shows last viewed with consent", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.get("/kitties/emoji", consentAccepted)
		require.Equal(t, http.StatusOK, w.Code)
		last := responseCookie(w, lastviewed.CookieName)
		require.NotNil(t, last)

		w = f.get("/", consentAccepted, last)
		body := w.Body.String()
		assert.Contains(t, body, "Recently viewed")
		assert.NotContains(t, body, "/settings/cookies/accept")
	})

	t.Run("ignores last viewed without consent", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		last := &http.Cookie{Name: lastviewed.CookieName, Value: f.cookies.Sign("1")}
		w := f.get("/", last)
		assert.NotContains(t, w.Body.String(), "Recently viewed")
	})

	t.Run("dark theme", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.get("/?theme=dark")
		assert.Contains(t, w.Body.String(), `data-theme="dark"`)
	})
}

func TestCategoryPage(t *testing.T) {
	t.Parallel()

	t.Run("renders escaped art", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.get("/kitties/emoji")
		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "&gt;:3")
		assert.Contains(t, body, "3:&lt;")
		assert.Nil(t, responseCookie(w, lastviewed.CookieName), "no tracking without consent")
	})

	t.Run("records visit with consent", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.get("/kitties/emoji", consentAccepted)
		c := responseCookie(w, lastviewed.CookieName)
		require.NotNil(t, c)

		value, err := f.cookies.Verify(c.Value)
		require.NoError(t, err)
		assert.Equal(t, strconv.FormatInt(f.seeded[1].ID, 10), value)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.get("/kitties/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "<h1>404</h1>")
	})
}

func TestCreateCategory(t *testing.T) {
	t.Parallel()

	t.Run("form", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.get("/new_category")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `action="/new_category"`)
	})

	t.Run("creates and redirects", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.post("/new_category", url.Values{"name": {"Sleepy Cats"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/kitties/sleepy-cats", w.Header().Get("Location"))

		c, err := f.gallery.CategoryBySlug(context.Background(), "sleepy-cats")
		require.NoError(t, err)
		assert.Equal(t, "Sleepy Cats", c.Name)
	})

	t.Run("shows validation problems", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.post("/new_category", url.Values{"name": {"  "}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Category name is required")

		w = f.post("/new_category", url.Values{"name": {"Emoji"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Category id is already taken")
		assert.Contains(t, w.Body.String(), `value="Emoji"`)
	})
}

func TestEditCategory(t *testing.T) {
	t.Parallel()

	t.Run("form", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.get("/kitties/edit/emoji")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `action="/kitties/delete/emoji/`)

		assert.Equal(t, http.StatusNotFound, f.get("/kitties/edit/nope").Code)
	})

	t.Run("rename moves slug", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.post("/kitties/edit/emoji", url.Values{"name": {"Emoticons"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/kitties/emoticons", w.Header().Get("Location"))
		assert.Equal(t, http.StatusNotFound, f.get("/kitties/emoji").Code)
		assert.Equal(t, http.StatusOK, f.get("/kitties/emoticons").Code)
	})

	t.Run("rename conflict", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.post("/kitties/edit/emoji", url.Values{"name": {"Complex Cats"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Category id is already taken")
	})
}

func TestKitties(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("add", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.post("/kitties/add_kitty/emoji", url.Values{"ascii_art": {"=^.^="}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/kitties/emoji", w.Header().Get("Location"))

		c, err := f.gallery.CategoryBySlug(ctx, "emoji")
		require.NoError(t, err)
		require.Len(t, c.Kitties, 6)
		assert.Equal(t, "=^.^=", c.Kitties[5].ASCIIArt)
	})

	t.Run("add empty art", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		w := f.post("/kitties/add_kitty/emoji", url.Values{"ascii_art": {""}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ASCII art is required")

		w = f.post("/kitties/add_kitty/nope", url.Values{"ascii_art": {":3"}})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		kitty := f.seeded[1].Kitties[0]

		target := "/kitties/edit/emoji/" + strconv.FormatInt(kitty.ID, 10)
		w := f.post(target, url.Values{"ascii_art": {"^_^"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/kitties/edit/emoji", w.Header().Get("Location"))

		c, err := f.gallery.CategoryBySlug(ctx, "emoji")
		require.NoError(t, err)
		got, ok := c.Kitty(kitty.ID)
		require.True(t, ok)
		assert.Equal(t, "^_^", got.ASCIIArt)
	})

	t.Run("update with bad id", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		assert.Equal(t, http.StatusNotFound, f.post("/kitties/edit/emoji/abc", url.Values{"ascii_art": {"x"}}).Code)
		assert.Equal(t, http.StatusNotFound, f.post("/kitties/edit/emoji/999999", url.Values{"ascii_art": {"x"}}).Code)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		kitty := f.seeded[0].Kitties[0]

		w := f.post("/kitties/delete/complex-cats/"+strconv.FormatInt(kitty.ID, 10), nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/kitties/edit/complex-cats", w.Header().Get("Location"))

		c, err := f.gallery.CategoryBySlug(ctx, "complex-cats")
		require.NoError(t, err)
		assert.Len(t, c.Kitties, 4)

		assert.Equal(t, http.StatusNotFound, f.post("/kitties/delete/complex-cats/abc", nil).Code)
	})
}

func TestForgetSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	w := f.post("/session/forget", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	c := responseCookie(w, sessiontransport.DefaultCookieName)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)
	assert.Zero(t, f.sessions.Len())
}

func TestHealth(t *testing.T) {
	t.Parallel()

	f := newFixture(t, health.Checks{
		"store": func(context.Context) error { return nil },
	})
	w := f.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	f = newFixture(t, health.Checks{
		"store": func(context.Context) error { return errors.New("down") },
	})
	w = f.get("/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>503</h1>")
	assert.NotContains(t, w.Body.String(), "down")

	assert.Equal(t, http.StatusOK, f.get("/healthz/live").Code)
}

func TestStatic(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	w := f.get("/static/style.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), "data-theme")

	w = f.get("/favicon.ico")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotZero(t, w.Body.Len())

	assert.Equal(t, http.StatusNotFound, f.get("/static/").Code)
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	w := f.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<h1>404</h1>")
	assert.Contains(t, body, "Not Found")
	assert.Contains(t, body, "Back to the gallery")
}
