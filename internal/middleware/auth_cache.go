package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	tenantCacheTTL   = 5 * time.Minute
	negativeCacheTTL = 30 * time.Second
	maxCacheEntries  = 10000
)

// errCachedNotFound is returned for negative cache hits.
var errCachedNotFound = errors.New("tenant not found (cached)")

// hashKey returns a hex-encoded SHA-256 hash of the API key so raw keys
// are never stored in memory.
func hashKey(apiKey string) string {
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:])
}

// CachedTenantLookup wraps a TenantLookup with bounded positive and negative
// caches. Concurrent lookups of one key reach the inner lookup once.
type CachedTenantLookup struct {
	inner    TenantLookup
	tenants  *expirable.LRU[string, string]
	negative *expirable.LRU[string, struct{}]
	flight   singleflight.Group
}

// NewCachedTenantLookup creates a caching wrapper around the given TenantLookup.
func NewCachedTenantLookup(inner TenantLookup) *CachedTenantLookup {
	return &CachedTenantLookup{
		inner:    inner,
		tenants:  expirable.NewLRU[string, string](maxCacheEntries, nil, tenantCacheTTL),
		negative: expirable.NewLRU[string, struct{}](maxCacheEntries, nil, negativeCacheTTL),
	}
}

// GetTenantByAPIKey returns a cached tenant ID or delegates to the inner lookup.
// Failed lookups are remembered for 30s so bad keys do not reach the database.
func (c *CachedTenantLookup) GetTenantByAPIKey(ctx context.Context, apiKey string) (string, error) {
	hk := hashKey(apiKey)

	if tid, ok := c.tenants.Get(hk); ok {
		return tid, nil
	}

	if c.negative.Contains(hk) {
		return "", errCachedNotFound
	}

	v, err, _ := c.flight.Do(hk, func() (any, error) {
		tid, err := c.inner.GetTenantByAPIKey(ctx, apiKey)
		if err != nil {
			if ctx.Err() == nil {
				c.negative.Add(hk, struct{}{})
			}
			return "", err
		}

		c.tenants.Add(hk, tid)

		return tid, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}
