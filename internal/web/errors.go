package web

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/core/response"
	"github.com/dmitrymomot/galleri/core/router"
)

// ErrorHandler renders error.html with the status of err. Server errors
// are logged with their cause and shown with a generic message.
func (h *Handlers[C]) ErrorHandler(ctx C, err error) {
	httpErr := response.AsHTTPError(err)
	status := httpErr.Status

	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(ctx, "request failed",
			logger.Error(err),
			logger.StatusCode(status),
			slog.Any("details", httpErr.Details),
		)
	}

	w := ctx.ResponseWriter()
	if router.IsWritten(w) {
		return
	}

	message := httpErr.Message
	if status >= http.StatusInternalServerError || message == "" {
		message = "Something went wrong. Please try again later."
	}

	data := errorPage{Page: h.page(ctx, http.StatusText(status)), Status: status, Message: message}
	if renderErr := h.renderer.Page(pageError, data, status)(w, ctx.Request()); renderErr != nil {
		h.log.ErrorContext(ctx, "failed to render error page", logger.Error(renderErr))
		http.Error(w, http.StatusText(status), status)
	}
}
