package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver
	"github.com/upb/coffee-shop/backend/config"
	"go.uber.org/zap"
)

const (
	connectTimeout = 5 * time.Second
	readyTimeout   = 2 * time.Second
)

// DB is the drinks store connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB opens the pool described by cfg and refuses to return until the
// server answers a ping
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	pool, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	configurePool(pool, cfg)

	db := WrapDB(pool, logger)
	if err := db.ping(context.Background(), connectTimeout); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("reach %s: %w", cfg.LogString(), err)
	}

	logger.Info("connected to drinks store",
		zap.String("connection", cfg.LogString()),
		zap.Int("max_open_conns", cfg.MaxOpenConns))
	return db, nil
}

// WrapDB adopts a pool opened elsewhere, such as a sqlmock handle
func WrapDB(pool *sql.DB, logger *zap.Logger) *DB {
	return &DB{DB: pool, logger: logger}
}

func configurePool(pool *sql.DB, cfg config.DatabaseConfig) {
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
}

func (db *DB) ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}

// Close releases every pooled connection
func (db *DB) Close() error {
	db.logger.Info("closing drinks store pool")
	return db.DB.Close()
}

// HealthCheck reports whether the store accepts connections and answers a
// trivial query within the readiness deadline
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("drinks store unreachable: %w", err)
	}
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("drinks store not answering queries: %w", err)
	}
	return nil
}
