package middleware

import (
	"errors"
	"net/http"

	"github.com/upb/coffee-shop/backend/auth"
	"github.com/upb/coffee-shop/backend/utils"
	"go.uber.org/zap"
)

// ProtectedHandler is an HTTP handler that receives the verified claims of the caller
type ProtectedHandler func(w http.ResponseWriter, r *http.Request, claims auth.Claims)

// AuthMiddleware gates handlers behind a bearer token carrying a permission
type AuthMiddleware struct {
	authorizer *auth.Authorizer
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier auth.TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authorizer: auth.NewAuthorizer(verifier),
		logger:     logger,
	}
}

// Require wraps next so that it only runs for requests whose token verifies
// and grants permission. The claims are passed to next and also stored on
// the request context.
func (m *AuthMiddleware) Require(permission string, next ProtectedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		claims, err := m.authorizer.Authorize(ctx, r.Header.Get("Authorization"), permission)
		if err != nil {
			m.writeAuthError(w, err, requestID, permission)
			return
		}

		m.logger.Debug("authorization successful",
			zap.String("request_id", requestID),
			zap.String("sub", claims.Subject()),
			zap.String("permission", permission))

		next(w, r.WithContext(WithClaims(ctx, claims)), claims)
	}
}

// RequirePermission is Require in the func(http.Handler) http.Handler shape
// used by router groups; handlers read the claims from the context.
func (m *AuthMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Require(permission, func(w http.ResponseWriter, r *http.Request, _ auth.Claims) {
			next.ServeHTTP(w, r)
		})
	}
}

func (m *AuthMiddleware) writeAuthError(w http.ResponseWriter, err error, requestID, permission string) {
	var authErr *auth.AuthError
	if !errors.As(err, &authErr) {
		authErr = auth.ErrTokenUnparseable
	}

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("code", authErr.Code),
		zap.String("kind", string(authErr.Kind)),
		zap.String("permission", permission),
	}
	if authErr.Err != nil {
		fields = append(fields, zap.NamedError("cause", authErr.Err))
	}
	if authErr.StatusCode >= http.StatusInternalServerError {
		m.logger.Error("authorization unavailable", fields...)
	} else {
		m.logger.Warn("authorization failed", fields...)
	}

	if err := utils.WriteAuthError(w, authErr.StatusCode, authErr.Code, authErr.Description); err != nil {
		m.logger.Error("failed to write auth error response", zap.Error(err))
	}
}
