package handler

import "net/http"

// Response renders an HTTP response.
// It sets headers, status code and body. Rendering errors are passed to the
// router's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc is a request handler bound to a concrete context type.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler handles errors returned by handlers or raised by the router.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps a handler with cross-cutting behavior.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]

// Chain applies middlewares to h so that the first middleware is the outermost.
func Chain[C Context](h HandlerFunc[C], middlewares ...Middleware[C]) HandlerFunc[C] {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
