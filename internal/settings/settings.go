package settings

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/galleri/core/handler"
)

const (
	ThemeCookie   = "theme"
	ConsentCookie = "cookie_consent"

	consentAccept  = "accept"
	consentDecline = "decline"
)

// Theme is the page color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" and "dark".
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	}
	return "", false
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Consent is the visitor's answer to the cookie banner.
type Consent int

const (
	ConsentUnset Consent = iota
	ConsentAccepted
	ConsentDeclined
)

func (c Consent) String() string {
	switch c {
	case ConsentAccepted:
		return "accepted"
	case ConsentDeclined:
		return "declined"
	}
	return "unset"
}

// Settings are the per-visitor preferences carried in plain cookies.
type Settings struct {
	Theme   Theme
	Consent Consent
}

// Default is used when no cookies are present.
var Default = Settings{Theme: ThemeLight, Consent: ConsentUnset}

// ConsentAccepted reports whether optional cookies may be written.
func (s Settings) ConsentAccepted() bool { return s.Consent == ConsentAccepted }

// ConsentPending reports whether the visitor has not answered yet.
func (s Settings) ConsentPending() bool { return s.Consent == ConsentUnset }

// FromRequest reads settings from cookies. A valid ?theme= query value
// overrides the theme cookie for this request.
func FromRequest(r *http.Request) Settings {
	s := Default

	if c, err := r.Cookie(ThemeCookie); err == nil {
		if t, ok := ParseTheme(c.Value); ok {
			s.Theme = t
		}
	}
	if t, ok := ParseTheme(r.URL.Query().Get("theme")); ok {
		s.Theme = t
	}

	if c, err := r.Cookie(ConsentCookie); err == nil {
		switch c.Value {
		case consentAccept:
			s.Consent = ConsentAccepted
		case consentDecline:
			s.Consent = ConsentDeclined
		}
	}
	return s
}

type contextKey struct{}

// Middleware stores the request settings in the context.
func Middleware[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			ctx.SetValue(contextKey{}, FromRequest(ctx.Request()))
			return next(ctx)
		}
	}
}

// Get returns the settings stored by Middleware, or Default.
func Get(ctx context.Context) Settings {
	if s, ok := ctx.Value(contextKey{}).(Settings); ok {
		return s
	}
	return Default
}
