package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/httputil"
)

// RequestIDHeader is the HTTP header used to propagate the request ID.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a server-generated UUID. A client-supplied
// X-Request-ID is logged alongside it for correlation but never trusted as
// the canonical ID.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()

		if clientID := c.GetHeader(RequestIDHeader); clientID != "" {
			if len(clientID) > 128 {
				clientID = clientID[:128]
			}

			log.WithFields(logrus.Fields{
				"request_id":        id,
				"client_request_id": clientID,
			}).Debug("client request id")
			c.Set("client_request_id", clientID)
		}

		c.Set(httputil.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
