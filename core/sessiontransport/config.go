package sessiontransport

import "github.com/dmitrymomot/galleri/core/cookie"

// Config provides environment-based configuration for the cookie transport.
type Config struct {
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"__Host-kit-id"`
	MaxAge     int    `env:"SESSION_MAX_AGE" envDefault:"604800"`
}

// NewFromConfig returns a cookie transport configured from cfg.
// Extra options are applied after the config values.
func NewFromConfig(cookies *cookie.Manager, cfg Config, opts ...Option) *Cookie {
	all := append([]Option{WithCookieName(cfg.CookieName), WithMaxAge(cfg.MaxAge)}, opts...)
	return NewCookie(cookies, all...)
}
