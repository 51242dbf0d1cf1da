package middleware

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/response"
)

// DefaultBodyLimit caps form submissions.
const DefaultBodyLimit int64 = 64 << 10

// BodyLimit rejects requests whose body exceeds maxSize bytes. Requests
// announcing a larger Content-Length fail with 413 immediately; otherwise
// the body is wrapped in http.MaxBytesReader and reading past the limit
// returns *http.MaxBytesError.
func BodyLimit[C handler.Context](maxSize int64) handler.Middleware[C] {
	if maxSize <= 0 {
		maxSize = DefaultBodyLimit
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			req := ctx.Request()
			if req.ContentLength > maxSize {
				return response.Error(response.ErrRequestEntityTooLarge.
					WithMessage(fmt.Sprintf("Request body too large. Maximum allowed: %d bytes", maxSize)).
					WithDetails(map[string]any{"limit": maxSize, "size": req.ContentLength}))
			}
			if req.Body != nil && req.Body != http.NoBody {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, maxSize)
			}
			return next(ctx)
		}
	}
}
