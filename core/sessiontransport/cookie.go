package sessiontransport

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/galleri/core/cookie"
	"github.com/dmitrymomot/galleri/core/session"
)

const (
	// DefaultCookieName is host-locked by the "__Host-" prefix: the browser
	// only accepts it with Secure, Path=/ and no Domain.
	DefaultCookieName = "__Host-kit-id"

	// DefaultMaxAge is one week in seconds.
	DefaultMaxAge = 604800
)

// Cookie carries the session id in a signed cookie.
type Cookie struct {
	cookies *cookie.Manager
	name    string
	maxAge  int
}

// Option configures Cookie.
type Option func(*Cookie)

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) Option {
	return func(c *Cookie) {
		if name != "" {
			c.name = name
		}
	}
}

// WithMaxAge overrides DefaultMaxAge.
func WithMaxAge(seconds int) Option {
	return func(c *Cookie) {
		if seconds > 0 {
			c.maxAge = seconds
		}
	}
}

// NewCookie returns a cookie transport signing with cookies.
func NewCookie(cookies *cookie.Manager, opts ...Option) *Cookie {
	c := &Cookie{cookies: cookies, name: DefaultCookieName, maxAge: DefaultMaxAge}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the cookie name.
func (c *Cookie) Name() string { return c.name }

// Extract returns the session id carried by the request. A missing cookie
// yields ErrNoSession; a bad signature, bad encoding or a value that is not
// a base-10 int64 yields ErrInvalid.
func (c *Cookie) Extract(r *http.Request) (int64, error) {
	raw, err := c.cookies.GetSigned(r, c.name)
	if err != nil {
		if errors.Is(err, cookie.ErrCookieNotFound) {
			return 0, ErrNoSession
		}
		return 0, ErrInvalid
	}
	id, err := session.ParseID(raw)
	if err != nil {
		return 0, ErrInvalid
	}
	return id, nil
}

// Embed writes the signed id with the full lifetime, sliding the expiry forward.
func (c *Cookie) Embed(w http.ResponseWriter, id int64) error {
	return c.write(w, id, c.maxAge)
}

// Revoke expires the cookie. The value still carries the same signed id.
func (c *Cookie) Revoke(w http.ResponseWriter, id int64) error {
	return c.write(w, id, -1)
}

func (c *Cookie) write(w http.ResponseWriter, id int64, maxAge int) error {
	return c.cookies.SetSigned(w, c.name, session.FormatID(id),
		cookie.WithPath("/"),
		cookie.WithDomain(""),
		cookie.WithSecure(true),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithMaxAge(maxAge),
	)
}
