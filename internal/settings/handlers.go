package settings

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/galleri/core/cookie"
	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/core/response"
	"github.com/dmitrymomot/galleri/core/router"
)

// Handlers serves the settings endpoints.
type Handlers[C handler.Context] struct {
	cookies   *cookie.Manager
	onDecline []func(w http.ResponseWriter) error
	log       *slog.Logger
}

// HandlerOption configures Handlers.
type HandlerOption[C handler.Context] func(*Handlers[C])

// OnDecline registers a callback run when consent is declined, used to
// remove optional cookies.
func OnDecline[C handler.Context](fn func(w http.ResponseWriter) error) HandlerOption[C] {
	return func(h *Handlers[C]) {
		if fn != nil {
			h.onDecline = append(h.onDecline, fn)
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger[C handler.Context](log *slog.Logger) HandlerOption[C] {
	return func(h *Handlers[C]) {
		if log != nil {
			h.log = log
		}
	}
}

func NewHandlers[C handler.Context](cookies *cookie.Manager, opts ...HandlerOption[C]) *Handlers[C] {
	h := &Handlers[C]{cookies: cookies, log: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the settings routes under /settings for GET and POST.
func (h *Handlers[C]) Register(r router.Router[C]) {
	r.Route("/settings", func(r router.Router[C]) {
		r.Method("/toggle-theme", h.ToggleTheme, http.MethodGet, http.MethodPost)
		r.Method("/cookies/accept", h.AcceptCookies, http.MethodGet, http.MethodPost)
		r.Method("/cookies/decline", h.DeclineCookies, http.MethodGet, http.MethodPost)
	})
}

// ToggleTheme flips the theme cookie and redirects back.
func (h *Handlers[C]) ToggleTheme(ctx C) handler.Response {
	theme := FromRequest(ctx.Request()).Theme.Toggle()
	if err := h.set(ctx.ResponseWriter(), ThemeCookie, string(theme)); err != nil {
		return response.Error(err)
	}
	return response.RedirectBack("/")
}

// AcceptCookies records consent and redirects back.
func (h *Handlers[C]) AcceptCookies(ctx C) handler.Response {
	if err := h.set(ctx.ResponseWriter(), ConsentCookie, consentAccept); err != nil {
		return response.Error(err)
	}
	h.log.DebugContext(ctx, "cookie consent accepted", logger.Event("consent_accepted"))
	return response.RedirectBack("/")
}

// DeclineCookies records the refusal, removes optional cookies and redirects back.
func (h *Handlers[C]) DeclineCookies(ctx C) handler.Response {
	w := ctx.ResponseWriter()
	if err := h.set(w, ConsentCookie, consentDecline); err != nil {
		return response.Error(err)
	}
	for _, fn := range h.onDecline {
		if err := fn(w); err != nil {
			return response.Error(err)
		}
	}
	h.log.DebugContext(ctx, "cookie consent declined", logger.Event("consent_declined"))
	return response.RedirectBack("/")
}

// set writes a plain session-lifetime cookie.
func (h *Handlers[C]) set(w http.ResponseWriter, name, value string) error {
	return h.cookies.Set(w, name, value, cookie.WithPath("/"), cookie.WithMaxAge(0))
}
