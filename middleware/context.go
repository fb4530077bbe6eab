package middleware

import (
	"context"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/coffee-shop/backend/auth"
)

// Context key type to avoid collisions
type contextKey string

// ClaimsKey is the context key for verified token claims
const ClaimsKey contextKey = "claims"

// GetRequestIDFromContext retrieves the request ID stored by chi's RequestID
func GetRequestIDFromContext(ctx context.Context) string {
	return chimiddleware.GetReqID(ctx)
}

// WithRequestID adds a request ID to the context under chi's key
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, chimiddleware.RequestIDKey, requestID)
}

// GetClaimsFromContext retrieves verified claims from context, nil on public routes
func GetClaimsFromContext(ctx context.Context) auth.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(auth.Claims); ok {
		return claims
	}
	return nil
}

// WithClaims adds verified claims to the context
func WithClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
