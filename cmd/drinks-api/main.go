package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/upb/coffee-shop/backend/app"
	"github.com/upb/coffee-shop/backend/config"
	"github.com/upb/coffee-shop/backend/routes"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "drinks-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := initLogger(cfg.Observability)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting drinks api",
		zap.String("environment", cfg.Environment),
		zap.String("log_format", cfg.Observability.LogFormat))

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", zap.Error(err))
		return err
	}
	defer func() { _ = deps.Close(context.Background()) }()

	srv := newServer(cfg.Server, routes.SetupRoutes(deps))
	return serve(ctx, srv, cfg.Server, logger)
}

// initLogger builds the process logger: json uses the production encoder,
// console the development encoder
func initLogger(cfg config.ObservabilityConfig) (*zap.Logger, error) {
	levelName := cfg.LogLevel
	if levelName == "" {
		levelName = "info"
	}
	level, err := zapcore.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zcfg zap.Config
	switch strings.ToLower(cfg.LogFormat) {
	case "", "json":
		zcfg = zap.NewProductionConfig()
	case "console":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

func newServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// serve runs srv until it fails or ctx is cancelled, then drains in-flight
// requests within the shutdown timeout
func serve(ctx context.Context, srv *http.Server, cfg config.ServerConfig, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("drinks api listening",
			zap.String("addr", srv.Addr),
			zap.Bool("tls", cfg.TLS.Enabled))

		var err error
		if cfg.TLS.Enabled {
			err = srv.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
