package health

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/core/response"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Checks maps dependency names to their checks.
type Checks map[string]Check

// Live always answers "ok" with 200.
func Live[C handler.Context](C) handler.Response {
	return response.String("ok")
}

// Ready runs every check in name order and answers "ok" when all pass.
// The first failure is logged and answered with 503.
func Ready[C handler.Context](log *slog.Logger, checks Checks) handler.HandlerFunc[C] {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	names := slices.Sorted(maps.Keys(checks))

	return func(ctx C) handler.Response {
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					slog.String("dependency", name),
					logger.Error(err),
				)
				return response.Error(response.ErrServiceUnavailable.
					WithMessage(name + " unavailable").
					WithError(err))
			}
		}
		return response.String("ok")
	}
}
