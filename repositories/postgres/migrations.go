package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// gooseLogger routes goose output through zap
type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.sugar.Fatalf(format, v...)
}

func (db *DB) prepareGoose() error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{sugar: db.logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return nil
}

// Migrate applies every pending migration, including the seed data
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.prepareGoose(); err != nil {
		return err
	}

	db.logger.Info("running database migrations")
	if err := goose.UpContext(ctx, db.DB, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db.logger.Info("migrations completed successfully")
	return nil
}

// Reset rolls back every migration and applies them again, leaving a
// freshly seeded schema
func (db *DB) Reset(ctx context.Context) error {
	if err := db.prepareGoose(); err != nil {
		return err
	}

	db.logger.Warn("resetting database schema")
	if err := goose.ResetContext(ctx, db.DB, migrationsDir); err != nil {
		return fmt.Errorf("failed to reset schema: %w", err)
	}

	return db.Migrate(ctx)
}
