package response

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/dmitrymomot/galleri/core/handler"
)

// ErrNilTemplate is returned when a template response has nothing to execute.
var ErrNilTemplate = errors.New("response: template is nil")

// TemplateName renders the named template from a parsed template set.
// Output is buffered; nothing is written if execution fails.
func TemplateName(tmpl *template.Template, name string, data any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if tmpl == nil {
			return ErrNilTemplate
		}

		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if r.Method == http.MethodHead {
			return nil
		}
		_, err := buf.WriteTo(w)
		return err
	}
}
