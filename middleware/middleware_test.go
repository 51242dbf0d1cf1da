package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/core/response"
	"github.com/dmitrymomot/galleri/core/router"
	"github.com/dmitrymomot/galleri/middleware"
)

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates id", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestID[*router.Context]())
		r.Get("/", func(ctx *router.Context) handler.Response {
			id, ok := middleware.GetRequestID(ctx)
			if !ok {
				return response.Error(errors.New("missing request id"))
			}
			return response.String(id)
		})

		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, w.Body.String(), 36)
		assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
	})

	t.Run("reuses incoming id", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{UseExisting: true}))
		r.Get("/", func(ctx *router.Context) handler.Response {
			return response.String(middleware.RequestIDFromRequest(ctx.Request()))
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc")
		w := serve(r, req)
		assert.Equal(t, "abc", w.Body.String())
		assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	})

	t.Run("custom generator and header", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			HeaderName: "X-Trace",
			Generator:  func() string { return "fixed" },
		}))
		r.Get("/", func(ctx *router.Context) handler.Response { return response.Status(http.StatusNoContent) })

		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "fixed", w.Header().Get("X-Trace"))
		assert.Empty(t, w.Header().Get("X-Request-ID"))
	})
}

type logLine struct {
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status_code"`
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithJSONFormatter(),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	)

	r := router.New[*router.Context](router.WithErrorHandler(response.ErrorHandler[*router.Context]))
	r.Use(
		middleware.Logging[*router.Context](log),
		middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{Generator: func() string { return "rid-1" }}),
	)
	r.Get("/ok", func(ctx *router.Context) handler.Response { return response.String("ok") })
	r.Get("/created", func(ctx *router.Context) handler.Response {
		return response.StringWithStatus("made", http.StatusCreated)
	})
	r.Get("/boom", func(ctx *router.Context) handler.Response {
		return response.Error(errors.New("boom"))
	})

	for _, path := range []string{"/ok", "/created", "/boom"} {
		serve(r, httptest.NewRequest(http.MethodGet, path, nil))
	}

	dec := json.NewDecoder(&buf)
	var lines []logLine
	for {
		var l logLine
		if err := dec.Decode(&l); err == io.EOF {
			break
		} else {
			require.NoError(t, err)
		}
		lines = append(lines, l)
	}
	require.Len(t, lines, 3)

	assert.Equal(t, "INFO", lines[0].Level)
	assert.Equal(t, "/ok", lines[0].Path)
	assert.Equal(t, http.MethodGet, lines[0].Method)
	assert.Equal(t, http.StatusOK, lines[0].Status)
	assert.Equal(t, "rid-1", lines[0].RequestID)

	assert.Equal(t, http.StatusCreated, lines[1].Status)

	assert.Equal(t, "ERROR", lines[2].Level)
	assert.Equal(t, "request failed", lines[2].Msg)
	assert.Equal(t, http.StatusInternalServerError, lines[2].Status)
	assert.Contains(t, lines[2].Error, "boom")
}

type recordedObservation struct {
	method string
	route  string
	status int
}

type fakeHTTPObserver struct {
	mu   sync.Mutex
	seen []recordedObservation
}

func (o *fakeHTTPObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, recordedObservation{method, route, status})
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	obs := &fakeHTTPObserver{}
	r := router.New[*router.Context](router.WithErrorHandler(response.ErrorHandler[*router.Context]))
	r.Use(middleware.Metrics[*router.Context](obs))
	r.Get("/categories/{slug}", func(ctx *router.Context) handler.Response {
		if ctx.Param("slug") == "missing" {
			return response.Error(response.ErrNotFound)
		}
		return response.String(ctx.Param("slug"))
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/categories/emoji", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/categories/missing", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, obs.seen, 3)
	assert.Equal(t, recordedObservation{http.MethodGet, "/categories/{slug}", http.StatusOK}, obs.seen[0])
	assert.Equal(t, recordedObservation{http.MethodGet, "/categories/{slug}", http.StatusNotFound}, obs.seen[1])
	assert.Equal(t, http.StatusNotFound, obs.seen[2].status)
	assert.NotContains(t, obs.seen[2].route, "nowhere")
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context](router.WithErrorHandler(response.ErrorHandler[*router.Context]))
	r.Use(middleware.BodyLimit[*router.Context](8))
	r.Post("/", func(ctx *router.Context) handler.Response {
		body, err := io.ReadAll(ctx.Request().Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return response.Error(response.ErrRequestEntityTooLarge)
			}
			return response.Error(err)
		}
		return response.String(string(body))
	})

	t.Run("within limit", func(t *testing.T) {
		t.Parallel()
		w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "small", w.Body.String())
	})

	t.Run("declared length too large", func(t *testing.T) {
		t.Parallel()
		w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this is far too long")))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("unknown length too large", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this is far too long"))
		req.ContentLength = -1
		w := serve(r, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(middleware.SecurityHeaders[*router.Context]())
	r.Get("/", func(ctx *router.Context) handler.Response { return response.String("ok") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "same-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")

	custom := router.New[*router.Context]()
	custom.Use(middleware.SecurityHeadersWithConfig[*router.Context](middleware.SecurityHeadersConfig{FrameOptions: "SAMEORIGIN"}))
	custom.Get("/", func(ctx *router.Context) handler.Response { return response.String("ok") })

	w = serve(custom, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(middleware.ClientIP[*router.Context]())
	r.Get("/", func(ctx *router.Context) handler.Response {
		ip, _ := middleware.GetClientIP(ctx)
		return response.String(ip)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := serve(r, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())
}
