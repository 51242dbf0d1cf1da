// Package sessiontransport moves session ids between server and browser.
//
// Cookie stores the id as a signed decimal string in the "__Host-kit-id"
// cookie with HttpOnly, Secure, Path=/, SameSite=Lax and a one-week
// Max-Age. Every failure to read a usable id is reported as ErrInvalid.
package sessiontransport
