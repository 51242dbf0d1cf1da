package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/galleri/core/handler"
)

// mux adapts typed handlers onto a chi router.
type mux[C handler.Context] struct {
	chi          chi.Router
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	hasRoutes    bool
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		chi:          chi.NewRouter(),
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	// Unmatched requests still pass through the router middlewares so that
	// error pages see the same request state as regular pages.
	m.chi.NotFound(m.fallback(ErrNotFound))
	m.chi.MethodNotAllowed(m.fallback(ErrMethodNotAllowed))

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.chi.ServeHTTP(newResponseWriter(w), r)
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPatch, pattern, h)
}

func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodHead, pattern, h)
}

func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodOptions, pattern, h)
}

func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.validate(pattern, h)
	m.hasRoutes = true
	m.chi.Handle(pattern, m.adapt(handler.Chain(h, m.middlewares...)))
}

func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods for %q", ErrInvalidMethod, pattern))
	}
	for _, method := range methods {
		m.handle(strings.ToUpper(method), pattern, h)
	}
}

func (m *mux[C]) Mount(pattern string, h http.Handler) {
	if h == nil {
		panic(fmt.Errorf("%w: mount %q", ErrNilRouter, pattern))
	}
	m.hasRoutes = true
	m.chi.Mount(pattern, h)
}

// Use appends middlewares. It must be called before any route is registered.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.hasRoutes {
		panic("router: all middlewares must be defined before routes")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With returns a router that shares routes with m and adds middlewares on top.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	child := m.child(m.chi)
	child.middlewares = append(child.middlewares, middlewares...)
	return child
}

// Group runs fn against a router that shares routes with m and
// keeps its own middleware stack.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	child := m.child(m.chi)
	if fn != nil {
		fn(child)
	}
	return child
}

// Route mounts a sub-router under pattern.
func (m *mux[C]) Route(pattern string, fn func(r Router[C])) Router[C] {
	if fn == nil {
		panic(fmt.Errorf("%w: route %q", ErrNilRouter, pattern))
	}
	m.hasRoutes = true
	var child *mux[C]
	m.chi.Route(pattern, func(sub chi.Router) {
		child = m.child(sub)
		fn(child)
	})
	return child
}

// Routes lists every registered method and pattern.
func (m *mux[C]) Routes() []Route {
	var routes []Route
	_ = chi.Walk(m.chi, func(method, pattern string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, Route{Method: method, Pattern: pattern})
		return nil
	})
	return routes
}

func (m *mux[C]) child(r chi.Router) *mux[C] {
	mws := make([]handler.Middleware[C], len(m.middlewares))
	copy(mws, m.middlewares)
	return &mux[C]{
		chi:          r,
		middlewares:  mws,
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
}

func (m *mux[C]) handle(method, pattern string, h handler.HandlerFunc[C]) {
	m.validate(pattern, h)
	m.hasRoutes = true
	m.chi.Method(method, pattern, m.adapt(handler.Chain(h, m.middlewares...)))
}

func (m *mux[C]) validate(pattern string, h handler.HandlerFunc[C]) {
	if !strings.HasPrefix(pattern, "/") {
		panic(fmt.Errorf("%w: %q must begin with '/'", ErrInvalidPattern, pattern))
	}
	if h == nil {
		panic(fmt.Errorf("router: nil handler for %q", pattern))
	}
}

// fallback answers unmatched requests with err, through the router middlewares.
func (m *mux[C]) fallback(err error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := handler.Chain(func(C) handler.Response {
			return func(http.ResponseWriter, *http.Request) error { return err }
		}, m.middlewares...)
		m.adapt(h).ServeHTTP(w, r)
	}
}

// adapt converts a typed handler into an http.Handler.
func (m *mux[C]) adapt(h handler.HandlerFunc[C]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := newResponseWriter(w)
		ctx := m.newContext(ww, r, urlParams(r))

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			perr := &panicError{value: rec, stack: debug.Stack()}
			if ww.Written() {
				m.logger.ErrorContext(r.Context(), "panic after response was written",
					slog.Any("panic", rec),
					slog.String("stack", string(perr.stack)),
				)
				return
			}
			m.errorHandler(ctx, perr)
		}()

		resp := h(ctx)
		if resp == nil {
			m.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
			m.errorHandler(ctx, err)
		}
	})
}

func urlParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.URLParams.Keys) == 0 {
		return nil
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}

// RoutePattern returns the matched route pattern, e.g. "/kitties/{slug}",
// or "" when the request did not match a route.
func RoutePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
