package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/richxcame/moto-showroom/pkg/config"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"github.com/richxcame/moto-showroom/pkg/ratelimit"
	"go.uber.org/zap"
)

// RateLimit applies per-client token buckets to the routes it guards.
func RateLimit(limiter *ratelimit.Limiter, cfg config.RateLimitConfig) gin.HandlerFunc {
	if limiter == nil || !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		identity := c.ClientIP()
		if identity == "" {
			identity = "unknown"
		}

		result := limiter.Allow(identity)
		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if result.Allowed {
			c.Next()
			return
		}

		retrySeconds := int(math.Ceil(result.RetryAfter.Seconds()))
		if retrySeconds <= 0 {
			retrySeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retrySeconds))

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		rateLimitedTotal.WithLabelValues(endpoint).Inc()

		logger.WarnContext(c.Request.Context(), "rate limit exceeded",
			zap.String("endpoint", endpoint),
			zap.String("identity", identity),
			zap.Int("retry_after_seconds", retrySeconds),
		)

		common.AppErrorResponse(c, common.NewTooManyRequestsError("rate limit exceeded"))
		c.Abort()
	}
}
