package auth

import (
	"fmt"
	"net/http"
)

// ErrorKind identifies a failure mode of the authorization flow
type ErrorKind string

const (
	KindMissingHeader           ErrorKind = "missing_header"
	KindMalformedHeader         ErrorKind = "malformed_header"
	KindSigningKeyNotFound      ErrorKind = "signing_key_not_found"
	KindTokenExpired            ErrorKind = "token_expired"
	KindInvalidClaims           ErrorKind = "invalid_claims"
	KindTokenUnparseable        ErrorKind = "token_unparseable"
	KindPermissionsClaimMissing ErrorKind = "permissions_claim_missing"
	KindPermissionDenied        ErrorKind = "permission_denied"
	KindJWKSUnavailable         ErrorKind = "jwks_unavailable"
)

// AuthError is the single structured failure raised by the authorization flow.
// Code and Description form the machine-readable pair rendered to clients;
// StatusCode is the HTTP status the failure maps to.
type AuthError struct {
	Kind        ErrorKind
	Code        string
	Description string
	StatusCode  int
	Err         error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap implements errors.Unwrap
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches on Kind, so every variant of a failure mode satisfies errors.Is
// against the package sentinel.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// withDescription returns a copy of e carrying a more specific description
func (e *AuthError) withDescription(description string) *AuthError {
	c := *e
	c.Description = description
	return &c
}

// withStatus returns a copy of e rendered with a different HTTP status
func (e *AuthError) withStatus(status int) *AuthError {
	c := *e
	c.StatusCode = status
	return &c
}

// wrap returns a copy of e carrying the underlying cause
func (e *AuthError) wrap(err error) *AuthError {
	c := *e
	c.Err = err
	return &c
}

func newAuthError(kind ErrorKind, code, description string) *AuthError {
	return &AuthError{
		Kind:        kind,
		Code:        code,
		Description: description,
		StatusCode:  http.StatusUnauthorized,
	}
}

var (
	ErrMissingHeader           = newAuthError(KindMissingHeader, "authorization_header_missing", "authorization header expected")
	ErrMalformedHeader         = newAuthError(KindMalformedHeader, "invalid_header", "invalid header format")
	ErrSigningKeyNotFound      = newAuthError(KindSigningKeyNotFound, "invalid_header", "unable to find the appropriate key")
	ErrTokenExpired            = newAuthError(KindTokenExpired, "token_expired", "token expired")
	ErrInvalidClaims           = newAuthError(KindInvalidClaims, "invalid_claims", "incorrect claims, check audience and issuer")
	ErrTokenUnparseable        = newAuthError(KindTokenUnparseable, "invalid_header", "unable to parse authentication token")
	ErrPermissionsClaimMissing = newAuthError(KindPermissionsClaimMissing, "invalid_claims", "permissions not in JWT")
	ErrPermissionDenied        = newAuthError(KindPermissionDenied, "unauthorized", "permission not found")

	// ErrJWKSUnavailable is an upstream failure and renders as 503
	ErrJWKSUnavailable = newAuthError(KindJWKSUnavailable, "jwks_unavailable", "unable to fetch signing keys").withStatus(http.StatusServiceUnavailable)
)
