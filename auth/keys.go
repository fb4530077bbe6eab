package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// ErrJWKSFetchFailed is returned when the key set cannot be retrieved
var ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")

// KeySource provides the identity provider's current signing keys
type KeySource interface {
	Keys(ctx context.Context) (jwk.Set, error)
}

// JWKSURL returns the well-known key set location for an issuer domain
func JWKSURL(domain string) string {
	return fmt.Sprintf("https://%s/.well-known/jwks.json", domain)
}

// RemoteKeySource fetches the key set over HTTP on every call
type RemoteKeySource struct {
	url        string
	httpClient *http.Client
}

// NewRemoteKeySource creates a key source for the given JWKS endpoint
func NewRemoteKeySource(url string, timeout time.Duration) *RemoteKeySource {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &RemoteKeySource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// URL returns the endpoint the source reads from
func (s *RemoteKeySource) URL() string {
	return s.url
}

// Keys fetches and parses the JWKS document
func (s *RemoteKeySource) Keys(ctx context.Context) (jwk.Set, error) {
	set, err := jwk.Fetch(ctx, s.url, jwk.WithHTTPClient(s.httpClient))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	return set, nil
}

// StaticKeySource serves a fixed key set
type StaticKeySource struct {
	set jwk.Set
}

// NewStaticKeySource wraps an already parsed key set
func NewStaticKeySource(set jwk.Set) *StaticKeySource {
	return &StaticKeySource{set: set}
}

// ParseStaticKeySource builds a static source from a raw JWKS document
func ParseStaticKeySource(document []byte) (*StaticKeySource, error) {
	set, err := jwk.Parse(document)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}
	return &StaticKeySource{set: set}, nil
}

// Keys returns the configured set
func (s *StaticKeySource) Keys(context.Context) (jwk.Set, error) {
	return s.set, nil
}

// CachedKeySource keeps the last successful result of another source for a TTL.
// Failed fetches are never cached.
type CachedKeySource struct {
	source KeySource
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	cached    jwk.Set
	expiresAt time.Time
}

// NewCachedKeySource wraps source with a TTL cache
func NewCachedKeySource(source KeySource, ttl time.Duration) *CachedKeySource {
	return &CachedKeySource{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Keys returns the cached set while fresh, otherwise refreshes from the source
func (c *CachedKeySource) Keys(ctx context.Context) (jwk.Set, error) {
	c.mu.RLock()
	if c.cached != nil && c.now().Before(c.expiresAt) {
		defer c.mu.RUnlock()
		return c.cached, nil
	}
	c.mu.RUnlock()

	set, err := c.source.Keys(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = set
	c.expiresAt = c.now().Add(c.ttl)
	c.mu.Unlock()

	return set, nil
}

// Invalidate drops the cached set so the next call refreshes
func (c *CachedKeySource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.expiresAt = time.Time{}
}
