package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/httputil"
)

// TenantIDKey is the gin context key holding the authenticated tenant.
const TenantIDKey = "tenant_id"

// authTimingFloor is the minimum duration of a rejected authentication, so
// response times do not tell valid keys from invalid ones.
const authTimingFloor = 50 * time.Millisecond

// TenantLookup resolves an API key to its tenant ID.
type TenantLookup interface {
	GetTenantByAPIKey(ctx context.Context, apiKey string) (string, error)
}

// truncateKey returns at most the first 4 characters of key followed by "...".
func truncateKey(key string) string {
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return key
}

// AuthMiddleware authenticates requests by Bearer API key and stores the
// tenant ID under TenantIDKey. A nil guard disables lockout tracking.
func AuthMiddleware(lookup TenantLookup, log *logrus.Logger, guard *BruteForceGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() != http.StatusUnauthorized {
				return
			}
			if elapsed := time.Since(start); elapsed < authTimingFloor {
				time.Sleep(authTimingFloor - elapsed)
			}
		}()

		apiKey := ExtractBearerToken(c)
		if apiKey == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		if guard != nil && guard.IsBlocked(apiKey) {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many failed authentication attempts")
			return
		}

		tenantID, err := lookup.GetTenantByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			log.WithFields(logrus.Fields{
				"client_ip":  c.ClientIP(),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"request_id": httputil.RequestID(c),
				"key_prefix": truncateKey(apiKey),
			}).Warn("authentication failed: invalid api key")

			if guard != nil {
				guard.RecordFailure(apiKey)
			}

			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid api key")
			return
		}

		if guard != nil {
			guard.ResetKey(apiKey)
		}

		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

// ExtractBearerToken extracts the API key from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
