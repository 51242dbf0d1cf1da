// Package gallery holds categories of ASCII-art kitties.
//
// Service validates input and derives category slugs from names with
// pkg/slug; Store implementations persist the data. MemoryStore backs
// tests and the in-memory driver, internal/store/postgres backs production.
//
// Validation failures are returned as *ValidationError whose Problems are
// shown to the user next to the form.
package gallery
