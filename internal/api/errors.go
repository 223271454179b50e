package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/httputil"
	"github.com/persistorai/promiscuity/internal/metrics"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeValidationError = "validation_error"
	ErrCodeConflict        = "conflict"
	ErrCodeBudgetExceeded  = "search_budget_exceeded"
	ErrCodeSearchTimeout   = "search_timeout"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondInternal logs err with the failed action and hides it behind a
// generic 500.
func respondInternal(c *gin.Context, log logrus.FieldLogger, err error, action string) {
	log.WithError(err).WithField(httputil.RequestIDKey, httputil.RequestID(c)).Error(action)
	respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
