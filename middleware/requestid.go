package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/logger"
)

type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName for the response header (default: "X-Request-ID")
	HeaderName string
	// UseExisting reuses an incoming header value when present
	UseExisting bool
}

// RequestID assigns a UUID to every request.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return RequestIDWithConfig[C](RequestIDConfig{})
}

// RequestIDWithConfig assigns an id to every request, stores it in the
// context and echoes it in a response header.
func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string { return uuid.New().String() }
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			var requestID string
			if cfg.UseExisting {
				requestID = ctx.Request().Header.Get(cfg.HeaderName)
			}
			if requestID == "" {
				requestID = cfg.Generator()
			}

			ctx.SetValue(requestIDContextKey{}, requestID)
			ctx.ResponseWriter().Header().Set(cfg.HeaderName, requestID)

			return next(ctx)
		}
	}
}

// GetRequestID returns the request id stored by RequestID.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok && id != ""
}

// RequestIDExtractor is a logger.ContextExtractor adding request_id to log records.
func RequestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := GetRequestID(ctx)
	return logger.RequestID(id), ok
}

// RequestIDFromRequest reads the id from a plain *http.Request.
func RequestIDFromRequest(r *http.Request) string {
	id, _ := GetRequestID(r.Context())
	return id
}
