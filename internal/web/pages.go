package web

import (
	"github.com/dmitrymomot/galleri/internal/gallery"
	"github.com/dmitrymomot/galleri/internal/settings"
)

// Page is the data shared by every page.
type Page struct {
	Title    string
	Path     string
	Settings settings.Settings
	Session  string // state kind of the visitor session, empty when none
	Errors   []string
}

type categoriesPage struct {
	Page
	Categories []gallery.Summary
	LastViewed []gallery.Summary
}

type categoryPage struct {
	Page
	Category gallery.Category
}

type categoryFormPage struct {
	Page
	Name     string
	Category gallery.Category
}

type errorPage struct {
	Page
	Status  int
	Message string
}
