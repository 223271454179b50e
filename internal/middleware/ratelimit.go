// Package middleware provides the gin middleware of the promiscuity server.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	// maxClients bounds the number of tracked IPs; the least recently seen
	// are dropped first.
	maxClients = 100_000

	// clientIdle is how long an IP's limiter is kept after its last request.
	clientIdle = 10 * time.Minute
)

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients *expirable.LRU[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

// NewRateLimiter creates a RateLimiter allowing perSec requests per second
// with bursts of up to burst requests.
func NewRateLimiter(perSec float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: expirable.NewLRU[string, *rate.Limiter](maxClients, nil, clientIdle),
		limit:   rate.Limit(perSec),
		burst:   burst,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.clients.Get(ip)
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
	}

	// Re-adding refreshes the idle timer.
	rl.clients.Add(ip, l)

	return l
}

// Handler returns Gin middleware that applies rate limiting per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// ClientIP ignores X-Forwarded-For because the router trusts no proxies.
		l := rl.limiter(c.ClientIP())

		r := l.Reserve()
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			respondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")

			return
		}

		c.Next()
	}
}
