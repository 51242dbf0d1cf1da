package response

import (
	"errors"

	"github.com/dmitrymomot/galleri/core/handler"
)

type statusCode interface {
	StatusCode() int
}

// AsHTTPError converts any error into an HTTPError. Errors exposing a
// StatusCode method keep their status; unknown statuses become 500.
func AsHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var sc statusCode
	if errors.As(err, &sc) {
		if base, ok := httpErrorsByStatus[sc.StatusCode()]; ok {
			return base.WithError(err)
		}
	}
	return ErrInternalServerError.WithError(err)
}

// ErrorHandler is a plain-text error handler for any context type.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := AsHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}
