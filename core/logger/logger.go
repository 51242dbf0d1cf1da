package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ContextExtractor pulls log attributes out of a context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type config struct {
	level      slog.Level
	json       bool
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
	addSource  bool
}

// Option configures New.
type Option func(*config)

// New creates a slog.Logger. Without options it writes text at info level to stdout.
func New(opts ...Option) *slog.Logger {
	cfg := &config{level: slog.LevelInfo, output: os.Stdout}
	for _, opt := range opts {
		opt(cfg)
	}

	hopts := &slog.HandlerOptions{Level: cfg.level, AddSource: cfg.addSource}
	var h slog.Handler
	if cfg.json {
		h = slog.NewJSONHandler(cfg.output, hopts)
	} else {
		h = slog.NewTextHandler(cfg.output, hopts)
	}
	if len(cfg.attrs) > 0 {
		h = h.WithAttrs(cfg.attrs)
	}
	if len(cfg.extractors) > 0 {
		h = &contextHandler{Handler: h, extractors: cfg.extractors}
	}
	return slog.New(h)
}

// WithDevelopment sets debug-level text output tagged with the app name.
func WithDevelopment(app string) Option {
	return func(c *config) {
		c.level = slog.LevelDebug
		c.json = false
		c.addSource = true
		c.attrs = append(c.attrs, slog.String("app", app), slog.String("env", "development"))
	}
}

// WithProduction sets info-level JSON output tagged with the app name.
func WithProduction(app string) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		c.json = true
		c.attrs = append(c.attrs, slog.String("app", app), slog.String("env", "production"))
	}
}

// WithLevel overrides the minimum level.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithJSONFormatter switches output to JSON.
func WithJSONFormatter() Option {
	return func(c *config) { c.json = true }
}

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithContextExtractors adds attributes taken from the context passed to *Context log calls.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) { c.extractors = append(c.extractors, extractors...) }
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		for _, extract := range h.extractors {
			if attr, ok := extract(ctx); ok {
				r.AddAttrs(attr)
			}
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
