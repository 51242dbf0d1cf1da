package cookie

import "net/http"

// Options holds the attributes written with a cookie.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Option modifies cookie attributes for a single call.
type Option func(*Options)

// WithPath sets the cookie path attribute.
func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

// WithDomain sets the cookie domain attribute.
// Host-only cookies (including "__Host-" names) must leave it empty.
func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithMaxAge sets the cookie max-age in seconds.
// Zero leaves it a session cookie; negative values expire it immediately.
func WithMaxAge(seconds int) Option {
	return func(o *Options) { o.MaxAge = seconds }
}

// WithSecure restricts the cookie to HTTPS.
func WithSecure(secure bool) Option {
	return func(o *Options) { o.Secure = secure }
}

// WithHTTPOnly hides the cookie from scripts.
func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) { o.HttpOnly = httpOnly }
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) { o.SameSite = sameSite }
}

func applyOptions(base Options, opts []Option) Options {
	result := base
	for _, opt := range opts {
		opt(&result)
	}
	return result
}
