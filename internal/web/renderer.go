package web

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"sync"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/response"
)

const layoutFile = "layout.html"

// Page template files. Each is parsed together with the layout.
const (
	pageCategories   = "categories.html"
	pageCategory     = "category.html"
	pageCategoryNew  = "category_new.html"
	pageCategoryEdit = "category_edit.html"
	pageError        = "error.html"
)

var pageFiles = []string{pageCategories, pageCategory, pageCategoryNew, pageCategoryEdit, pageError}

// ErrUnknownPage is returned when rendering a page that was not parsed.
var ErrUnknownPage = errors.New("web: unknown page")

// Renderer holds one parsed template set per page and can reparse them
// from its filesystem at runtime.
type Renderer struct {
	fsys  fs.FS
	mu    sync.RWMutex
	pages map[string]*template.Template
}

// NewRenderer parses every page from fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{fsys: fsys}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload reparses all pages. On failure the previous set stays active.
func (r *Renderer) Reload() error {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		t, err := template.New(name).ParseFS(r.fsys, layoutFile, name)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		pages[name] = t
	}

	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
	return nil
}

// Page renders the page through the layout with the given status.
func (r *Renderer) Page(name string, data any, status int) handler.Response {
	r.mu.RLock()
	t := r.pages[name]
	r.mu.RUnlock()

	if t == nil {
		return response.Error(fmt.Errorf("%w: %s", ErrUnknownPage, name))
	}
	return response.TemplateName(t, "layout", data, status)
}
