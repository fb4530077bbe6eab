package auth

import "strings"

// ExtractToken returns the raw token from an Authorization header value of
// the form "Bearer <token>". Only the scheme word is matched case-insensitively.
func ExtractToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingHeader
	}

	parts := strings.Split(header, " ")
	switch {
	case len(parts) == 1:
		return "", ErrMalformedHeader.withDescription("token not found")
	case len(parts) > 2:
		return "", ErrMalformedHeader
	case strings.ToLower(parts[0]) != "bearer":
		return "", ErrMalformedHeader.withDescription("authorization header must be Bearer token")
	}

	return parts[1], nil
}
