package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/richxcame/moto-showroom/pkg/errors"
)

// TraceIDHeader echoes the request's trace ID back to the caller
const TraceIDHeader = "X-Trace-ID"

// SentryMiddleware attaches a Sentry hub to each request and reports panics
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// ErrorHandler leaves a breadcrumb for every request and reports
// unexpected failures to Sentry. Place it last in the chain.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		errors.AddBreadcrumbForRequest(c.Request.Method, c.Request.URL.Path, status, duration)

		reported := false
		for _, err := range c.Errors {
			if errors.ShouldReportError(err.Err, status) {
				requestHub(c, status, duration).CaptureException(err.Err)
				reported = true
			}
		}

		// 5xx written straight to the response without a gin error
		if !reported && len(c.Errors) == 0 && status >= http.StatusInternalServerError {
			requestHub(c, status, duration).CaptureMessage(
				fmt.Sprintf("HTTP %d: %s %s", status, c.Request.Method, c.FullPath()))
		}
	}
}

// RecoveryWithSentry recovers from panics, reports them and answers 500
func RecoveryWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				hub := hubFor(c)
				hub.Scope().SetRequest(c.Request)
				hub.Scope().SetContext("panic", map[string]interface{}{
					"value":      fmt.Sprintf("%v", recovered),
					"stacktrace": string(debug.Stack()),
				})
				hub.RecoverWithContext(c.Request.Context(), recovered)
				hub.Flush(2 * time.Second)

				common.ErrorResponse(c, http.StatusInternalServerError, "an unexpected error occurred")
				c.Abort()
			}
		}()

		c.Next()
	}
}

func hubFor(c *gin.Context) *sentry.Hub {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		return hub
	}
	return sentry.CurrentHub().Clone()
}

// requestHub returns a hub whose scope describes the finished request
func requestHub(c *gin.Context, status int, duration time.Duration) *sentry.Hub {
	hub := hubFor(c)
	scope := hub.Scope()

	scope.SetRequest(c.Request)
	scope.SetLevel(sentryLevel(status))
	scope.SetTag("http.method", c.Request.Method)
	scope.SetTag("http.status_code", fmt.Sprintf("%d", status))
	scope.SetTag("route", c.FullPath())

	if sessionID := c.Param("id"); sessionID != "" {
		scope.SetTag("session_id", sessionID)
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		scope.SetTag("correlation_id", correlationID)
	}
	if traceID := c.Writer.Header().Get(TraceIDHeader); traceID != "" {
		scope.SetTag("trace_id", traceID)
	}

	scope.SetContext("http", map[string]interface{}{
		"url":         c.Request.URL.String(),
		"duration_ms": duration.Milliseconds(),
		"remote_addr": c.ClientIP(),
		"user_agent":  c.Request.UserAgent(),
		"handler":     c.HandlerName(),
	})

	return hub
}

func sentryLevel(status int) sentry.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return sentry.LevelError
	case status == http.StatusTooManyRequests:
		return sentry.LevelWarning
	default:
		return sentry.LevelInfo
	}
}
