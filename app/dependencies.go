package app

import (
	"context"
	"fmt"

	"github.com/upb/coffee-shop/backend/auth"
	"github.com/upb/coffee-shop/backend/config"
	"github.com/upb/coffee-shop/backend/handlers"
	"github.com/upb/coffee-shop/backend/middleware"
	"github.com/upb/coffee-shop/backend/repositories"
	"github.com/upb/coffee-shop/backend/repositories/postgres"
	"github.com/upb/coffee-shop/backend/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Drinks    repositories.DrinkRepository
	TxManager repositories.TransactionManager

	// Services
	DrinkService *services.DrinkService

	// Auth
	KeySource      auth.KeySource
	Verifier       *auth.Verifier
	AuthMiddleware *middleware.AuthMiddleware

	// Handlers
	DrinkHandler  *handlers.DrinkHandler
	HealthHandler *handlers.HealthHandler
}

// NewDependencies opens the database and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := Assemble(ctx, cfg, factory, NewKeySource(cfg.Auth), logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	return deps, nil
}

// Assemble wires dependencies around an existing repository factory and key source
func Assemble(ctx context.Context, cfg *config.Config, factory *postgres.RepositoryFactory, keys auth.KeySource, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	if err := factory.PrepareSchema(ctx, cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	deps.initRepositories()
	deps.initServices()
	deps.initAuth(cfg.Auth, keys)
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewKeySource builds the JWKS source for cfg; the cache is used only with a positive TTL
func NewKeySource(cfg config.AuthConfig) auth.KeySource {
	var source auth.KeySource = auth.NewRemoteKeySource(cfg.JWKSURL, cfg.JWKSHTTPTimeout)
	if cfg.JWKSCacheTTL > 0 {
		source = auth.NewCachedKeySource(source, cfg.JWKSCacheTTL)
	}
	return source
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Drinks = repos.Drinks
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.DrinkService = services.NewDrinkService(d.Drinks, d.TxManager, d.Logger)
}

func (d *Dependencies) initAuth(cfg config.AuthConfig, keys auth.KeySource) {
	d.KeySource = keys
	d.Verifier = auth.NewVerifier(keys, auth.Config{
		Audience:   cfg.Audience,
		Issuer:     cfg.Issuer,
		Algorithms: cfg.Algorithms,
		Leeway:     cfg.Leeway,
	})
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Verifier, d.Logger)

	d.Logger.Info("token verification configured",
		zap.String("issuer", cfg.Issuer),
		zap.String("audience", cfg.Audience),
		zap.Strings("algorithms", cfg.Algorithms),
		zap.String("jwks_url", cfg.JWKSURL),
		zap.Duration("jwks_cache_ttl", cfg.JWKSCacheTTL))
}

func (d *Dependencies) initHandlers() {
	d.DrinkHandler = handlers.NewDrinkHandler(d.DrinkService, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.healthChecker(), d.Logger)
}

// healthChecker keeps a nil pool from becoming a non-nil interface
func (d *Dependencies) healthChecker() handlers.HealthChecker {
	if d.DB == nil {
		return nil
	}
	return d.DB
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("closing dependencies")

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			d.Logger.Error("failed to close database", zap.Error(err))
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	d.Logger.Info("all dependencies closed successfully")
	return nil
}
