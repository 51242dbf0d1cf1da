package response

import (
	"net/http"

	"github.com/dmitrymomot/galleri/core/handler"
)

// Render executes resp with the context's writer and request.
// A failing response produces a 500 unless headers were already sent.
func Render(ctx handler.Context, resp handler.Response) {
	if resp == nil {
		return
	}
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with a custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return write("text/plain; charset=utf-8", []byte(content), status)
}

// HTML creates a text/html response from a pre-rendered string.
func HTML(content string, status int) handler.Response {
	return write("text/html; charset=utf-8", []byte(content), status)
}

// Status creates an empty response with the given status code.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		return nil
	}
}

// Error returns a response that hands err to the router's error handler.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}

func write(contentType string, body []byte, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", contentType)
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(body) == 0 || r.Method == http.MethodHead {
			return nil
		}
		_, err := w.Write(body)
		return err
	}
}
