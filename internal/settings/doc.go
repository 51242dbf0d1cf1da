// Package settings reads and updates visitor preferences: the page theme
// and the answer to the cookie consent banner.
//
// Both live in plain cookies without an expiry. Middleware parses them once
// per request and Get returns the result; Handlers toggles the theme and
// records consent, then redirects back to the referring page.
package settings
