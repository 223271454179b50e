// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// RequestIDKey is the gin context key the request ID middleware sets.
const RequestIDKey = "request_id"

// RequestID returns the request ID stored on c, or "".
func RequestID(c *gin.Context) string {
	if rid, ok := c.Get(RequestIDKey); ok {
		if s, ok := rid.(string); ok {
			return s
		}
	}

	return ""
}

// RespondError writes a standardized JSON error response and aborts the request.
func RespondError(c *gin.Context, status int, code, message string) {
	resp := gin.H{"code": code, "message": message}

	if rid := RequestID(c); rid != "" {
		resp["request_id"] = rid
	}

	c.AbortWithStatusJSON(status, resp)
}
