// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Live: the process is running (no dependency checks)
//   - Ready: all registered dependencies respond
//
// Usage:
//
//	r.Get("/healthz/live", health.Live[*router.Context])
//	r.Get("/healthz", health.Ready[*router.Context](logger, health.Checks{
//		"postgres": pg.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//	}))
package health
