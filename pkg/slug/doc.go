// Package slug turns free-form titles into URL-safe identifiers.
//
//	slug.Make("Complex kitties")     // "complex-kitties"
//	slug.Make("Koty z Łodzi & Kraków") // "koty-z-lodzi-and-krakow"
//	slug.Make("Long title", slug.MaxLength(4)) // "long"
//
// Diacritics are folded with golang.org/x/text; characters outside
// a-z and 0-9 are dropped.
package slug
