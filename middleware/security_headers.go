package middleware

import (
	"github.com/dmitrymomot/galleri/core/handler"
)

// SecurityHeadersConfig lists response headers to add; empty fields are skipped.
type SecurityHeadersConfig struct {
	ContentTypeOptions      string
	FrameOptions            string
	ReferrerPolicy          string
	ContentSecurityPolicy   string
	StrictTransportSecurity string
	CrossOriginOpenerPolicy string
}

// PageSecurity suits server-rendered pages that only load same-origin assets.
var PageSecurity = SecurityHeadersConfig{
	ContentTypeOptions:      "nosniff",
	FrameOptions:            "DENY",
	ReferrerPolicy:          "same-origin",
	ContentSecurityPolicy:   "default-src 'self'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'; base-uri 'self'",
	StrictTransportSecurity: "max-age=31536000; includeSubDomains",
	CrossOriginOpenerPolicy: "same-origin",
}

// SecurityHeaders adds PageSecurity headers.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](PageSecurity)
}

// SecurityHeadersWithConfig adds the configured headers to every response.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	headers := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			headers[k] = v
		}
	}
	set("X-Content-Type-Options", cfg.ContentTypeOptions)
	set("X-Frame-Options", cfg.FrameOptions)
	set("Referrer-Policy", cfg.ReferrerPolicy)
	set("Content-Security-Policy", cfg.ContentSecurityPolicy)
	set("Strict-Transport-Security", cfg.StrictTransportSecurity)
	set("Cross-Origin-Opener-Policy", cfg.CrossOriginOpenerPolicy)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			h := ctx.ResponseWriter().Header()
			for k, v := range headers {
				h.Set(k, v)
			}
			return next(ctx)
		}
	}
}
