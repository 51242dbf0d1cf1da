package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/health"
	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/core/response"
	"github.com/dmitrymomot/galleri/core/router"
	"github.com/dmitrymomot/galleri/core/static"
	"github.com/dmitrymomot/galleri/internal/gallery"
	"github.com/dmitrymomot/galleri/internal/lastviewed"
	"github.com/dmitrymomot/galleri/internal/settings"
	"github.com/dmitrymomot/galleri/middleware"
)

// Config lists the dependencies of Handlers.
type Config struct {
	Gallery  *gallery.Service
	Tracker  *lastviewed.Tracker
	Renderer *Renderer
	Logger   *slog.Logger
	// HealthChecks are run by /healthz.
	HealthChecks health.Checks
}

// Handlers serves the gallery pages.
type Handlers[C handler.Context] struct {
	gallery  *gallery.Service
	tracker  *lastviewed.Tracker
	renderer *Renderer
	log      *slog.Logger
	checks   health.Checks
}

func NewHandlers[C handler.Context](cfg Config) *Handlers[C] {
	if cfg.Gallery == nil || cfg.Tracker == nil || cfg.Renderer == nil {
		panic("web: gallery, tracker and renderer are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handlers[C]{
		gallery:  cfg.Gallery,
		tracker:  cfg.Tracker,
		renderer: cfg.Renderer,
		log:      cfg.Logger,
		checks:   cfg.HealthChecks,
	}
}

// Register mounts all page routes, static assets and the health endpoint.
func (h *Handlers[C]) Register(r router.Router[C]) {
	r.Get("/", h.Index)
	r.Get("/kitties/{slug}", h.Category)

	r.Get("/new_category", h.NewCategory)
	r.Post("/new_category", h.CreateCategory)

	r.Get("/kitties/edit/{slug}", h.EditCategory)
	r.Post("/kitties/edit/{slug}", h.UpdateCategory)

	r.Post("/kitties/add_kitty/{slug}", h.AddKitty)
	r.Post("/kitties/edit/{slug}/{kitty}", h.UpdateKitty)
	r.Post("/kitties/delete/{slug}/{kitty}", h.DeleteKitty)

	r.Post("/session/forget", h.ForgetSession)

	r.Get("/healthz", health.Ready[C](h.log, h.checks))
	r.Get("/healthz/live", health.Live[C])
	r.Get("/favicon.ico", static.File[C](Static(), "favicon.ico"))
	r.Mount("/static", static.FS(Static(), static.WithStripPrefix("/static"), static.WithMaxAge(time.Hour)))
}

// Index lists all categories and, with consent, the recently viewed ones.
func (h *Handlers[C]) Index(ctx C) handler.Response {
	sums, err := h.gallery.Summaries(ctx)
	if err != nil {
		return h.fail(err)
	}

	var last []gallery.Summary
	if settings.Get(ctx).ConsentAccepted() {
		last, err = h.gallery.SummariesByIDs(ctx, h.tracker.Read(ctx.Request()))
		if err != nil {
			return h.fail(err)
		}
	}

	return h.renderer.Page(pageCategories, categoriesPage{
		Page:       h.page(ctx, "Categories"),
		Categories: sums,
		LastViewed: last,
	}, http.StatusOK)
}

// Category shows one category and records the visit.
func (h *Handlers[C]) Category(ctx C) handler.Response {
	c, err := h.gallery.CategoryBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		return h.fail(err)
	}
	if err := h.tracker.Record(ctx.ResponseWriter(), ctx.Request(), settings.Get(ctx), c.ID); err != nil {
		h.log.WarnContext(ctx, "failed to record last viewed category", logger.Error(err))
	}
	return h.renderer.Page(pageCategory, categoryPage{Page: h.page(ctx, c.Name), Category: c}, http.StatusOK)
}

// NewCategory shows the empty category form.
func (h *Handlers[C]) NewCategory(ctx C) handler.Response {
	return h.renderer.Page(pageCategoryNew, categoryFormPage{Page: h.page(ctx, "New category")}, http.StatusOK)
}

// CreateCategory validates the form and creates the category.
func (h *Handlers[C]) CreateCategory(ctx C) handler.Response {
	if err := parseForm(ctx.Request()); err != nil {
		return response.Error(err)
	}
	name := ctx.Request().PostForm.Get("name")

	c, err := h.gallery.AddCategory(ctx, name)
	if problems, ok := validationProblems(err); ok {
		page := categoryFormPage{Page: h.page(ctx, "New category"), Name: name}
		page.Errors = problems
		return h.renderer.Page(pageCategoryNew, page, http.StatusBadRequest)
	}
	if err != nil {
		return h.fail(err)
	}
	return response.RedirectSeeOther(categoryURL(c.Slug))
}

// EditCategory shows the edit form of a category.
func (h *Handlers[C]) EditCategory(ctx C) handler.Response {
	c, err := h.gallery.CategoryBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		return h.fail(err)
	}
	return h.renderEdit(ctx, c, c.Name, nil)
}

// UpdateCategory renames a category; its slug follows the new name.
func (h *Handlers[C]) UpdateCategory(ctx C) handler.Response {
	slug := ctx.Param("slug")
	if err := parseForm(ctx.Request()); err != nil {
		return response.Error(err)
	}
	name := ctx.Request().PostForm.Get("name")

	c, err := h.gallery.UpdateCategory(ctx, slug, name)
	if problems, ok := validationProblems(err); ok {
		return h.reshowEdit(ctx, slug, name, problems)
	}
	if err != nil {
		return h.fail(err)
	}
	return response.RedirectSeeOther(categoryURL(c.Slug))
}

// AddKitty adds a kitty to a category.
func (h *Handlers[C]) AddKitty(ctx C) handler.Response {
	slug := ctx.Param("slug")
	if err := parseForm(ctx.Request()); err != nil {
		return response.Error(err)
	}

	_, err := h.gallery.AddKitty(ctx, slug, ctx.Request().PostForm.Get("ascii_art"))
	if problems, ok := validationProblems(err); ok {
		return h.reshowEdit(ctx, slug, "", problems)
	}
	if err != nil {
		return h.fail(err)
	}
	return response.RedirectSeeOther(categoryURL(slug))
}

// UpdateKitty replaces the art of a kitty.
func (h *Handlers[C]) UpdateKitty(ctx C) handler.Response {
	slug := ctx.Param("slug")
	kittyID, ok := parseID(ctx.Param("kitty"))
	if !ok {
		return response.Error(response.ErrNotFound)
	}
	if err := parseForm(ctx.Request()); err != nil {
		return response.Error(err)
	}

	err := h.gallery.UpdateKitty(ctx, slug, kittyID, ctx.Request().PostForm.Get("ascii_art"))
	if problems, ok := validationProblems(err); ok {
		return h.reshowEdit(ctx, slug, "", problems)
	}
	if err != nil {
		return h.fail(err)
	}
	return response.RedirectSeeOther(editURL(slug))
}

// DeleteKitty removes a kitty.
func (h *Handlers[C]) DeleteKitty(ctx C) handler.Response {
	slug := ctx.Param("slug")
	kittyID, ok := parseID(ctx.Param("kitty"))
	if !ok {
		return response.Error(response.ErrNotFound)
	}
	if err := h.gallery.DeleteKitty(ctx, slug, kittyID); err != nil {
		return h.fail(err)
	}
	return response.RedirectSeeOther(editURL(slug))
}

// ForgetSession deletes the visitor session and expires its cookie.
func (h *Handlers[C]) ForgetSession(ctx C) handler.Response {
	if err := middleware.DeleteSession(ctx); err != nil {
		return h.fail(err)
	}
	return response.RedirectBack("/")
}

// reshowEdit renders the edit page of slug again with problems. An empty
// name falls back to the stored one.
func (h *Handlers[C]) reshowEdit(ctx C, slug, name string, problems []string) handler.Response {
	c, err := h.gallery.CategoryBySlug(ctx, slug)
	if err != nil {
		return h.fail(err)
	}
	if name == "" {
		name = c.Name
	}
	return h.renderEdit(ctx, c, name, problems)
}

func (h *Handlers[C]) renderEdit(ctx C, c gallery.Category, name string, problems []string) handler.Response {
	page := categoryFormPage{Page: h.page(ctx, "Edit category"), Name: name, Category: c}
	page.Errors = problems
	status := http.StatusOK
	if len(problems) > 0 {
		status = http.StatusBadRequest
	}
	return h.renderer.Page(pageCategoryEdit, page, status)
}

func (h *Handlers[C]) page(ctx C, title string) Page {
	p := Page{
		Title:    title,
		Path:     ctx.Request().URL.Path,
		Settings: settings.Get(ctx),
	}
	if st, ok := middleware.GetSession(ctx); ok {
		p.Session = st.Kind()
	}
	return p
}

// fail maps domain errors to HTTP errors for the error handler.
func (h *Handlers[C]) fail(err error) handler.Response {
	if errors.Is(err, gallery.ErrCategoryNotFound) || errors.Is(err, gallery.ErrKittyNotFound) {
		return response.Error(response.ErrNotFound.WithError(err))
	}
	return response.Error(err)
}

func validationProblems(err error) ([]string, bool) {
	var verr *gallery.ValidationError
	if errors.As(err, &verr) {
		return verr.Problems, true
	}
	return nil, false
}

func parseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return response.ErrRequestEntityTooLarge.WithError(err)
		}
		return response.ErrBadRequest.WithError(err)
	}
	return nil
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

func categoryURL(slug string) string { return "/kitties/" + slug }

func editURL(slug string) string { return "/kitties/edit/" + slug }
