package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/galleri/core/logger"
)

// goose keeps dialect, filesystem and table name in package state.
var gooseMu sync.Mutex

// Migrate applies all pending migrations found at the root of fsys.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, cfg Config, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	table := cfg.MigrationsTable
	if table == "" {
		table = "schema_migrations"
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	goose.SetTableName(table)
	goose.SetLogger(gooseLogger{log: log.With(logger.Component("migrations"))})
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
