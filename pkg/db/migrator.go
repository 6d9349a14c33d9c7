package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/llama/pkg/logger"
)

// Migrate applies pending goose migrations found at the root of migrations.
// goose keeps package-level state, so concurrent calls are not supported.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect, migrations fs.FS, migrationTable string, log *slog.Logger) error {
	if log == nil {
		log = logger.NewNope()
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(migrationTable)

	if err := goose.SetDialect(dialect.Name()); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// goose returns an error that propagates up, so no os.Exit here.
	g.log.Error(fmt.Sprintf(format, args...))
}
