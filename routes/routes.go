package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/coffee-shop/backend/app"
	"github.com/upb/coffee-shop/backend/middleware"
	"github.com/upb/coffee-shop/backend/utils"
)

// Permissions required by the protected drink routes
const (
	PermissionGetDrinksDetail = "get:drinks-detail"
	PermissionPostDrinks      = "post:drinks"
	PermissionPatchDrinks     = "patch:drinks"
	PermissionDeleteDrinks    = "delete:drinks"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	drinks := deps.DrinkHandler
	authz := deps.AuthMiddleware

	r.Get("/drinks", drinks.HandleList)
	r.Get("/drinks-detail", authz.Require(PermissionGetDrinksDetail, drinks.HandleListDetail))
	r.Post("/drinks", authz.Require(PermissionPostDrinks, drinks.HandleCreate))
	r.Patch("/drinks/{id}", authz.Require(PermissionPatchDrinks, drinks.HandleUpdate))
	r.Delete("/drinks/{id}", authz.Require(PermissionDeleteDrinks, drinks.HandleDelete))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteMethodNotAllowed(w)
	})

	return r
}
