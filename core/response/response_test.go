package response_test

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/response"
	"github.com/dmitrymomot/galleri/core/router"
)

type teapotError struct{}

func (teapotError) Error() string   { return "short and stout" }
func (teapotError) StatusCode() int { return http.StatusNotFound }

func TestStringWithStatus(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	require.NoError(t, response.StringWithStatus("created", http.StatusCreated)(w, req))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "created", w.Body.String())
}

func TestTemplateName(t *testing.T) {
	t.Parallel()

	tmpl := template.Must(template.New("root").Parse(
		`{{define "page"}}<p>{{.}}</p>{{end}}{{define "broken"}}{{.Missing.Field}}{{end}}`,
	))

	t.Run("renders named template", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		require.NoError(t, response.TemplateName(tmpl, "page", ":3 <b>", http.StatusOK)(w, req))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "<p>:3 &lt;b&gt;</p>", w.Body.String())
	})

	t.Run("writes nothing on failure", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		err := response.TemplateName(tmpl, "broken", "string has no fields", http.StatusOK)(w, req)
		require.Error(t, err)
		assert.Empty(t, w.Body.String())
		assert.Empty(t, w.Header().Get("Content-Type"))
	})

	t.Run("nil template", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		err := response.TemplateName(nil, "page", nil, 0)(httptest.NewRecorder(), req)
		assert.ErrorIs(t, err, response.ErrNilTemplate)
	})
}

func TestRedirectBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		referer  string
		expected string
	}{
		{name: "no referer", referer: "", expected: "/"},
		{name: "same host", referer: "http://example.com/kitties/emoji?theme=dark", expected: "/kitties/emoji?theme=dark"},
		{name: "relative path", referer: "/kitties/emoji", expected: "/kitties/emoji"},
		{name: "foreign host", referer: "https://evil.example/phish", expected: "/"},
		{name: "protocol relative", referer: "//evil.example/phish", expected: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "http://example.com/settings/theme", nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			w := httptest.NewRecorder()

			require.NoError(t, response.RedirectBack("/")(w, req))
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.expected, w.Header().Get("Location"))
		})
	}
}

func TestRedirectWithStatus(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	require.NoError(t, response.RedirectWithStatus("/elsewhere", http.StatusOK)(w, req))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/elsewhere", w.Header().Get("Location"))
}

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("http error passes through", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("wrapped: %w", response.ErrConflict.WithMessage("taken"))
		got := response.AsHTTPError(err)
		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, "taken", got.Message)
	})

	t.Run("status code interface", func(t *testing.T) {
		t.Parallel()

		got := response.AsHTTPError(fmt.Errorf("lookup: %w", teapotError{}))
		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, "not_found", got.Code)
		assert.Contains(t, got.Details["cause"], "short and stout")
	})

	t.Run("router errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, http.StatusMethodNotAllowed, response.AsHTTPError(router.ErrMethodNotAllowed).Status)
	})

	t.Run("plain error is 500", func(t *testing.T) {
		t.Parallel()

		got := response.AsHTTPError(errors.New("disk on fire"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "internal_server_error", got.Code)
	})

	t.Run("with error does not mutate the shared value", func(t *testing.T) {
		t.Parallel()

		_ = response.ErrBadRequest.WithError(errors.New("x"))
		assert.Nil(t, response.ErrBadRequest.Details)
	})
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context](router.WithErrorHandler(response.ErrorHandler[*router.Context]))
	r.Get("/", func(ctx *router.Context) handler.Response {
		return response.Error(response.ErrNotFound.WithMessage("no such kitty"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no such kitty", w.Body.String())
}
