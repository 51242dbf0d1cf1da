package middleware

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/response"
	"github.com/dmitrymomot/galleri/core/router"
)

// HTTPObserver records finished requests.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// Metrics reports every request to obs. The route label is the matched
// pattern, so path parameters do not inflate cardinality.
func Metrics[C handler.Context](obs HTTPObserver) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			start := time.Now()
			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				err := resp(w, r)

				status := router.StatusOf(w)
				if err != nil {
					status = response.AsHTTPError(err).Status
				}
				if status == 0 {
					status = http.StatusOK
				}

				route := router.RoutePattern(r)
				if route == "" {
					route = "unmatched"
				}
				obs.ObserveHTTP(r.Method, route, status, time.Since(start))
				return err
			}
		}
	}
}
