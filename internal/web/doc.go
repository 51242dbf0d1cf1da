// Package web serves the gallery pages.
//
// Handlers renders html/template pages embedded from templates/ through a
// shared layout, serves the embedded static assets and maps domain errors
// to the error page. When templates are loaded from disk, TemplateWatcher
// reparses them on change.
package web
