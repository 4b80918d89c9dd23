package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS handles Cross-Origin Resource Sharing for the storefront. A "*" entry
// allows any origin; an empty list falls back to http://localhost:3000.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", CorrelationIDHeader, "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{CorrelationIDHeader, TraceIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins

	return cors.New(cfg)
}
