package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/moto-showroom/pkg/logger"
)

const (
	// CorrelationIDHeader carries the request ID in both directions
	CorrelationIDHeader = "X-Request-ID"
	// CorrelationIDKey is the gin context key for the request ID
	CorrelationIDKey = "correlation_id"
)

// CorrelationID accepts a caller-supplied UUID request ID or mints one,
// and threads it into the request context for logging.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := strings.TrimSpace(c.GetHeader(CorrelationIDHeader))
		if _, err := uuid.Parse(correlationID); err != nil {
			correlationID = uuid.NewString()
		}

		c.Set(CorrelationIDKey, correlationID)
		c.Request = c.Request.WithContext(logger.ContextWithCorrelationID(c.Request.Context(), correlationID))
		c.Writer.Header().Set(CorrelationIDHeader, correlationID)

		c.Next()
	}
}

// GetCorrelationID returns the request ID set by CorrelationID
func GetCorrelationID(c *gin.Context) string {
	if correlationID := c.GetString(CorrelationIDKey); correlationID != "" {
		return correlationID
	}
	return logger.CorrelationIDFromContext(c.Request.Context())
}
