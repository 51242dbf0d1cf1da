package router

import (
	"net/http"
)

// responseWriter tracks whether the response has been started.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	if ww, ok := w.(*responseWriter); ok {
		return ww
	}
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Written reports whether WriteHeader has been called.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the HTTP status code, or 0 if nothing was written.
func (w *responseWriter) Status() int {
	return w.status
}

// Flush implements http.Flusher when the underlying writer supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// StatusOf returns the status written through a router-managed writer.
// Zero means nothing was written yet or w is not managed by the router.
func StatusOf(w http.ResponseWriter) int {
	if ww, ok := w.(*responseWriter); ok {
		return ww.Status()
	}
	return 0
}

// IsWritten reports whether a router-managed writer already sent headers.
func IsWritten(w http.ResponseWriter) bool {
	if ww, ok := w.(*responseWriter); ok {
		return ww.Written()
	}
	return false
}
