package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"go.uber.org/zap"
)

// RequestTimeout sets a deadline on the request context. Handlers are expected
// to honor ctx; if the deadline passed and nothing was written, the client
// gets 504 Gateway Timeout.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Writer.Written() {
			return
		}

		logger.WithContext(ctx).Warn("Request timeout",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Duration("timeout", timeout),
		)
		c.Header("X-Timeout", "true")
		common.ErrorResponse(c, http.StatusGatewayTimeout, "request timeout")
		c.Abort()
	}
}
