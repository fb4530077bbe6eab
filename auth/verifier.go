package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
)

// TokenVerifier verifies a raw token and returns its decoded payload
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Config holds the expected token properties for a deployment
type Config struct {
	Audience   string
	Issuer     string
	Algorithms []string
	Leeway     time.Duration
}

// Verifier checks tokens against keys from a KeySource
type Verifier struct {
	keys       KeySource
	audience   string
	issuer     string
	algorithms []string
	leeway     time.Duration
}

// NewVerifier creates a verifier; Algorithms defaults to RS256
func NewVerifier(keys KeySource, config Config) *Verifier {
	algorithms := config.Algorithms
	if len(algorithms) == 0 {
		algorithms = []string{"RS256"}
	}
	return &Verifier{
		keys:       keys,
		audience:   config.Audience,
		issuer:     config.Issuer,
		algorithms: algorithms,
		leeway:     config.Leeway,
	}
}

// Verify fetches the current key set, selects the key named by the token's
// kid header, verifies the signature and validates audience, issuer and expiry.
func (v *Verifier) Verify(ctx context.Context, token string) (Claims, error) {
	set, err := v.keys.Keys(ctx)
	if err != nil {
		return nil, ErrJWKSUnavailable.wrap(err)
	}

	unverified, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, ErrTokenUnparseable.wrap(err)
	}

	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, ErrMalformedHeader.withDescription("authorization malformed")
	}

	key, ok := set.LookupKeyID(kid)
	if !ok || key.KeyType() != jwa.RSA {
		return nil, ErrSigningKeyNotFound
	}

	var publicKey interface{}
	if err := key.Raw(&publicKey); err != nil {
		return nil, ErrTokenUnparseable.wrap(fmt.Errorf("failed to convert JWK %s: %w", kid, err))
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(v.algorithms),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
		jwt.WithLeeway(v.leeway),
	)

	claims := jwt.MapClaims{}
	_, err = parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return publicKey, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return Claims(claims), nil
}

// classify maps a parser failure onto the flow's failure kinds. Expiry is
// checked first because the parser reports every failed claim at once.
func classify(err error) *AuthError {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenUnparseable.wrap(err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired.wrap(err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		// a token from the future has no dedicated code
		return ErrTokenUnparseable.wrap(err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrInvalidClaims.wrap(err)
	default:
		return ErrTokenUnparseable.wrap(err)
	}
}
