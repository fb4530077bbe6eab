package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/coffee-shop/backend/utils"
	"go.uber.org/zap"
)

// HealthChecker reports whether the database can serve queries
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	db     HealthChecker
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler; db may be nil
func NewHealthHandler(db HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// HandleHealth handles GET /healthz
// Basic health check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteSuccess(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles GET /readyz
// Readiness check - validates that the database is reachable
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"database": "healthy"}
	status := "healthy"
	httpStatus := http.StatusOK

	if h.db == nil {
		checks["database"] = "not_configured"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	} else if err := h.db.HealthCheck(ctx); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		checks["database"] = "unhealthy"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	if err := utils.WriteJSON(w, httpStatus, map[string]interface{}{
		"success":   httpStatus == http.StatusOK,
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
