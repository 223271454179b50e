package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/promiscuity/internal/httputil"
	"github.com/persistorai/promiscuity/internal/metrics"
)

// respondError delegates to the shared httputil.RespondError helper.
func respondError(c *gin.Context, code int, errCode, message string) {
	metrics.ErrorsTotal.WithLabelValues(errCode).Inc()
	httputil.RespondError(c, code, errCode, message)
}
