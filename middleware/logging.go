package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/galleri/core/handler"
	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/core/response"
	"github.com/dmitrymomot/galleri/core/router"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger
	// SlowRequestThreshold logs slower requests at warning level (default: 2s)
	SlowRequestThreshold time.Duration
	// Component name for structured logging (default: "http")
	Component string
}

// Logging logs one line per request with log.
func Logging[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig logs method, path, status and duration of every request.
// Server errors are logged at error level, slow requests at warning level.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 2 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				err := router.ErrNilResponse
				if resp != nil {
					err = resp(w, r)
				}

				status := router.StatusOf(w)
				if err != nil {
					status = response.AsHTTPError(err).Status
				}
				if status == 0 {
					status = http.StatusOK
				}
				elapsed := time.Since(start)

				ip, _ := GetClientIP(ctx)
				attrs := []slog.Attr{
					logger.Component(cfg.Component),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.StatusCode(status),
					logger.Duration(elapsed),
					logger.ClientIP(ip),
					logger.Error(err),
				}

				level := slog.LevelInfo
				msg := "request completed"
				switch {
				case status >= http.StatusInternalServerError:
					level = slog.LevelError
					msg = "request failed"
				case elapsed > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					msg = "slow request"
				}
				cfg.Logger.LogAttrs(r.Context(), level, msg, attrs...)
				return err
			}
		}
	}
}
