package middleware

import (
	"context"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/pkg/clientip"
)

type clientIPContextKey struct{}

// ClientIP stores the client address, as resolved by clientip.GetIP, in the context.
func ClientIP[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			ctx.SetValue(clientIPContextKey{}, clientip.GetIP(ctx.Request()))
			return next(ctx)
		}
	}
}

// GetClientIP returns the address stored by ClientIP.
func GetClientIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}
