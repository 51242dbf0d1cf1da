package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/galleri/core/cookie"
	"github.com/dmitrymomot/galleri/core/health"
	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/core/router"
	"github.com/dmitrymomot/galleri/core/server"
	"github.com/dmitrymomot/galleri/core/session"
	"github.com/dmitrymomot/galleri/core/sessiontransport"
	"github.com/dmitrymomot/galleri/integration/database/pg"
	"github.com/dmitrymomot/galleri/integration/database/redis"
	"github.com/dmitrymomot/galleri/internal/gallery"
	"github.com/dmitrymomot/galleri/internal/lastviewed"
	"github.com/dmitrymomot/galleri/internal/metrics"
	"github.com/dmitrymomot/galleri/internal/settings"
	"github.com/dmitrymomot/galleri/internal/store/postgres"
	"github.com/dmitrymomot/galleri/internal/store/postgres/migrations"
	redisstore "github.com/dmitrymomot/galleri/internal/store/redis"
	"github.com/dmitrymomot/galleri/internal/web"
	"github.com/dmitrymomot/galleri/middleware"
)

const metricsNamespace = "galleri"

// App is the assembled web application.
type App struct {
	config   Config
	logger   *slog.Logger
	cookies  *cookie.Manager
	gallery  gallery.Store
	sessions session.Store
	server   *server.Server

	service *gallery.Service
	metrics *metrics.Metrics
	watcher *web.TemplateWatcher
	handler http.Handler
	checks  health.Checks
	closers []func() error
}

type Option func(*App) error

// New connects storage, runs migrations and builds the router.
// On error everything opened so far is closed again.
func New(ctx context.Context, cfg Config, opts ...Option) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{config: cfg, checks: health.Checks{}}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = newLogger(cfg)
	}

	if app.cookies == nil {
		cm, err := cookie.NewFromConfig(cfg.Cookie)
		if err != nil {
			return nil, fmt.Errorf("cookies: %w", err)
		}
		app.cookies = cm
	}

	if err := app.openStorage(ctx); err != nil {
		return nil, err
	}

	app.service = gallery.NewService(app.gallery, gallery.WithLogger(app.logger.With(logger.Component("gallery"))))
	if cfg.SeedOnStart {
		created, err := gallery.Seed(ctx, app.service, gallery.DemoData)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		app.logger.InfoContext(ctx, "gallery seeded", logger.Count("categories", len(created)))
	}

	if app.server == nil {
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	app.metrics = metrics.New(metricsNamespace)
	if err := app.buildRouter(); err != nil {
		return nil, err
	}
	return app, nil
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{logger.WithContextExtractors(middleware.RequestIDExtractor)}
	if cfg.IsProduction() {
		opts = append(opts, logger.WithProduction(cfg.AppName))
	} else {
		opts = append(opts, logger.WithDevelopment(cfg.AppName))
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	return logger.New(opts...)
}

// openStorage fills the stores not provided through options.
func (a *App) openStorage(ctx context.Context) error {
	if a.gallery == nil || a.sessions == nil {
		switch a.config.StorageDriver {
		case DriverPostgres:
			if err := a.openPostgres(ctx); err != nil {
				return err
			}
		case DriverMemory:
			if a.gallery == nil {
				a.gallery = gallery.NewMemoryStore()
			}
			if a.sessions == nil && a.config.SessionStore == "" {
				a.sessions = session.NewMemoryStore()
			}
		}
	}

	if a.config.SessionStore == SessionStoreRedis && a.sessions == nil {
		client, err := redis.Connect(ctx, a.config.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.checks["redis"] = redis.Healthcheck(client)
		a.sessions = redisstore.NewSessionStore(client,
			redisstore.WithTTL(time.Duration(a.config.Session.MaxAge)*time.Second))
	}
	return nil
}

func (a *App) openPostgres(ctx context.Context) error {
	pool, err := pg.Connect(ctx, a.config.DB)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	a.closers = append(a.closers, func() error { pool.Close(); return nil })

	db := pg.OpenDB(pool)
	a.closers = append(a.closers, db.Close)
	a.checks["postgres"] = pg.Healthcheck(pool)

	if err := pg.Migrate(ctx, db, migrations.FS, a.config.DB, a.logger); err != nil {
		return err
	}

	if a.gallery == nil {
		a.gallery = postgres.NewGalleryStore(db)
	}
	if a.sessions == nil && a.config.SessionStore == "" {
		a.sessions = postgres.NewSessionStore(db)
	}
	return nil
}

func (a *App) buildRouter() error {
	templates := web.Templates()
	if dir := a.config.TemplatesDir; dir != "" {
		templates = os.DirFS(dir)
	}
	renderer, err := web.NewRenderer(templates)
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	if dir := a.config.TemplatesDir; dir != "" {
		w, err := web.NewTemplateWatcher(renderer, dir, a.logger)
		if err != nil {
			return fmt.Errorf("templates: %w", err)
		}
		a.watcher = w
		a.closers = append(a.closers, w.Close)
	}

	tracker := lastviewed.NewTracker(a.cookies)
	pages := web.NewHandlers[*router.Context](web.Config{
		Gallery:      a.service,
		Tracker:      tracker,
		Renderer:     renderer,
		Logger:       a.logger.With(logger.Component("web")),
		HealthChecks: a.checks,
	})

	r := router.New[*router.Context](
		router.WithErrorHandler[*router.Context](pages.ErrorHandler),
		router.WithLogger[*router.Context](a.logger),
	)
	r.Use(
		middleware.RequestID[*router.Context](),
		middleware.Logging[*router.Context](a.logger),
		middleware.Metrics[*router.Context](a.metrics),
		middleware.SecurityHeaders[*router.Context](),
		middleware.ClientIP[*router.Context](),
		middleware.BodyLimit[*router.Context](a.config.BodyLimit),
		settings.Middleware[*router.Context](),
		middleware.Session(middleware.SessionConfig[*router.Context]{
			Skip:      skipSession,
			Manager:   session.NewManager(a.sessions),
			Transport: sessiontransport.NewFromConfig(a.cookies, a.config.Session),
			Logger:    a.logger.With(logger.Component("session")),
			Observer:  a.metrics,
		}),
	)

	settings.NewHandlers(a.cookies,
		settings.OnDecline[*router.Context](tracker.Clear),
		settings.WithLogger[*router.Context](a.logger),
	).Register(r)
	pages.Register(r)
	if a.config.MetricsPath != "" {
		r.Mount(a.config.MetricsPath, a.metrics.Handler())
	}

	a.handler = r
	return nil
}

// skipSession exempts endpoints polled by machines and browsers.
func skipSession(ctx *router.Context) bool {
	return slices.Contains([]string{"/healthz", "/healthz/live", "/favicon.ico"}, ctx.Request().URL.Path)
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Gallery returns the gallery service.
func (a *App) Gallery() *gallery.Service { return a.service }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Run serves HTTP and, when enabled, watches templates until ctx is done.
// Storage is closed before it returns.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(ctx, a.handler))
	if a.watcher != nil {
		g.Go(func() error { return a.watcher.Run(ctx) })
	}
	return errors.Join(g.Wait(), a.Close())
}

// Close releases storage connections in reverse order of opening. It is
// safe to call more than once.
func (a *App) Close() error {
	var errs []error
	for _, c := range slices.Backward(a.closers) {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func WithLogger(log *slog.Logger) Option {
	return func(a *App) error {
		if log == nil {
			return fmt.Errorf("%w: logger", ErrNilOption)
		}
		a.logger = log
		return nil
	}
}

func WithCookieManager(cm *cookie.Manager) Option {
	return func(a *App) error {
		if cm == nil {
			return fmt.Errorf("%w: cookie manager", ErrNilOption)
		}
		a.cookies = cm
		return nil
	}
}

// WithGalleryStore replaces the store chosen by STORAGE_DRIVER.
func WithGalleryStore(s gallery.Store) Option {
	return func(a *App) error {
		if s == nil {
			return fmt.Errorf("%w: gallery store", ErrNilOption)
		}
		a.gallery = s
		return nil
	}
}

// WithSessionStore replaces the store chosen by STORAGE_DRIVER and SESSION_STORE.
func WithSessionStore(s session.Store) Option {
	return func(a *App) error {
		if s == nil {
			return fmt.Errorf("%w: session store", ErrNilOption)
		}
		a.sessions = s
		return nil
	}
}

func WithServer(s *server.Server) Option {
	return func(a *App) error {
		if s == nil {
			return fmt.Errorf("%w: server", ErrNilOption)
		}
		a.server = s
		return nil
	}
}
