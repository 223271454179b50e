package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/persistorai/promiscuity/internal/metrics"
)

// resultKey identifies one search result. gen is the tenant's write
// generation when the search started, so a write anywhere in the tenant makes
// every earlier key unreachable without scanning the cache.
type resultKey struct {
	tenant string
	gen    uint64
	op     string
	source string
	tail   string
	k      int
	n      int
}

func (k resultKey) String() string {
	return fmt.Sprintf("%s/%d/%s/%s/%s/%d/%d", k.tenant, k.gen, k.op, k.source, k.tail, k.k, k.n)
}

// ResultCache memoises search results per tenant and collapses identical
// concurrent searches into one. It is safe for concurrent use.
type ResultCache struct {
	lru    *expirable.LRU[resultKey, any] // nil when caching is disabled
	flight singleflight.Group

	mu   sync.Mutex
	gens map[string]uint64
}

// NewResultCache returns a cache of at most size results, each kept for ttl.
// A size of 0 disables storage; concurrent identical searches are still
// collapsed.
func NewResultCache(size int, ttl time.Duration) *ResultCache {
	c := &ResultCache{gens: make(map[string]uint64)}

	if size > 0 {
		c.lru = expirable.NewLRU[resultKey, any](size, nil, ttl)
	}

	return c
}

// InvalidateTenant forgets every cached result of tenantID.
func (c *ResultCache) InvalidateTenant(tenantID string) {
	c.mu.Lock()
	c.gens[tenantID]++
	c.mu.Unlock()
}

func (c *ResultCache) generation(tenantID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gens[tenantID]
}

// Len returns the number of stored results, including unreachable ones not yet
// evicted.
func (c *ResultCache) Len() int {
	if c.lru == nil {
		return 0
	}

	return c.lru.Len()
}

// do returns the cached value for key or runs fn to produce it. fn runs
// detached from ctx's cancellation because callers that join an in-flight
// search share its result; each caller stops waiting when its own ctx ends.
// cached is true when fn did not run for this caller.
func (c *ResultCache) do(ctx context.Context, key resultKey, fn func(context.Context) (any, error)) (any, bool, error) {
	if c.lru != nil {
		if v, ok := c.lru.Get(key); ok {
			metrics.CacheHits.Inc()
			return v, true, nil
		}
	}

	metrics.CacheMisses.Inc()

	// ran is only written by the leader's closure, before its result is sent.
	ran := false
	detached := context.WithoutCancel(ctx)

	ch := c.flight.DoChan(key.String(), func() (any, error) {
		ran = true

		v, err := fn(detached)
		if err == nil && c.lru != nil {
			c.lru.Add(key, v)
		}

		return v, err
	})

	select {
	case res := <-ch:
		return res.Val, !ran, res.Err
	case <-ctx.Done():
		return nil, false, fmt.Errorf("waiting for search: %w", ctx.Err())
	}
}
