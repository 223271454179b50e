package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/httputil"
	"github.com/persistorai/promiscuity/internal/middleware"
)

// getTenantID extracts the authenticated tenant ID from the Gin context
// and validates it is a proper UUID.
func getTenantID(c *gin.Context) string {
	tid := c.GetString(middleware.TenantIDKey)

	if _, err := uuid.Parse(tid); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid tenant id")

		return ""
	}

	return tid
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid := httputil.RequestID(c); rid != "" {
			fields["request_id"] = rid
		}
		if tid := c.GetString(middleware.TenantIDKey); tid != "" {
			fields["tenant_id"] = tid
		}
		log.WithFields(fields).Info("request")
	}
}

// maxPaginationLimit caps the maximum number of items per page.
const maxPaginationLimit = 1000

// maxPaginationOffset caps the maximum offset for paginated queries.
const maxPaginationOffset = 100000

// maxPathIDLen bounds ids taken from the URL path.
const maxPathIDLen = 255

func parseLimit(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}

	return min(v, maxPaginationLimit)
}

func parseOffset(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}

	return min(v, maxPaginationOffset)
}

var (
	errEmptyID   = errors.New("id must not be empty")
	errIDTooLong = errors.New("id exceeds maximum length of 255")
)

// validatePathID checks that a path parameter ID is non-empty and within length limits.
func validatePathID(id string) error {
	if id == "" {
		return errEmptyID
	}
	if len(id) > maxPathIDLen {
		return errIDTooLong
	}
	return nil
}
