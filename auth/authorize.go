package auth

import "context"

// Authorize runs the full check for a protected operation: extract the bearer
// token from header, verify it, then require permission. The first failure
// short-circuits the rest.
func Authorize(ctx context.Context, verifier TokenVerifier, header, permission string) (Claims, error) {
	token, err := ExtractToken(header)
	if err != nil {
		return nil, err
	}

	payload, err := verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := CheckPermission(permission, payload); err != nil {
		return nil, err
	}

	return payload, nil
}

// Authorizer binds a verifier so callers only supply the header and permission
type Authorizer struct {
	verifier TokenVerifier
}

// NewAuthorizer creates an authorizer backed by verifier
func NewAuthorizer(verifier TokenVerifier) *Authorizer {
	return &Authorizer{verifier: verifier}
}

// Authorize is Authorize with the bound verifier
func (a *Authorizer) Authorize(ctx context.Context, header, permission string) (Claims, error) {
	return Authorize(ctx, a.verifier, header, permission)
}
