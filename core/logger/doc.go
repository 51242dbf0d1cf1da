// Package logger builds log/slog loggers and provides attribute helpers.
//
//	log := logger.New(
//		logger.WithProduction("galleri"),
//		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
//		logger.WithContextExtractors(middleware.RequestIDExtractor),
//	)
//	log.InfoContext(ctx, "category created", logger.Component("gallery"), logger.Error(err))
//
// Extractors add attributes from the context given to the *Context methods,
// which is how per-request values such as the request id reach every line.
package logger
