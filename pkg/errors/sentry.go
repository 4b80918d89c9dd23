package errors

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/richxcame/moto-showroom/pkg/logger"
)

// Breadcrumb and extra keys that may carry a customer's contact details
var sensitiveKeys = []string{"Authorization", "Cookie", "email", "phone", "firstName", "lastName"}

// SentryConfig holds configuration for Sentry integration
type SentryConfig struct {
	DSN              string
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
	EnableTracing    bool
	ServerName       string
	AttachStacktrace bool
}

// DefaultSentryConfig reads SENTRY_* variables. Traces are sampled at 10%
// in production and fully elsewhere unless SENTRY_TRACES_SAMPLE_RATE says
// otherwise.
func DefaultSentryConfig(serviceName string) *SentryConfig {
	env := firstNonEmpty(os.Getenv("ENVIRONMENT"), os.Getenv("SENTRY_ENVIRONMENT"), "development")

	tracesDefault := 1.0
	if env == "production" {
		tracesDefault = 0.1
	}

	return &SentryConfig{
		DSN:              os.Getenv("SENTRY_DSN"),
		Environment:      env,
		Release:          os.Getenv("SENTRY_RELEASE"),
		SampleRate:       envRate("SENTRY_SAMPLE_RATE", 1.0),
		TracesSampleRate: envRate("SENTRY_TRACES_SAMPLE_RATE", tracesDefault),
		Debug:            os.Getenv("SENTRY_DEBUG") == "true",
		EnableTracing:    os.Getenv("SENTRY_ENABLE_TRACING") != "false",
		ServerName:       serviceName,
		AttachStacktrace: true,
	}
}

// InitSentry initializes the Sentry SDK. Info and debug events are dropped
// and contact details are scrubbed from breadcrumbs.
func InitSentry(config *SentryConfig) error {
	if config.DSN == "" {
		return fmt.Errorf("sentry DSN is not configured")
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              config.DSN,
		Environment:      config.Environment,
		Release:          config.Release,
		SampleRate:       config.SampleRate,
		TracesSampleRate: config.TracesSampleRate,
		Debug:            config.Debug,
		EnableTracing:    config.EnableTracing,
		ServerName:       config.ServerName,
		AttachStacktrace: config.AttachStacktrace,
		BeforeSend:       dropLowSeverity,
		BeforeBreadcrumb: scrubBreadcrumb,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}
	return nil
}

func dropLowSeverity(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Level == sentry.LevelInfo || event.Level == sentry.LevelDebug {
		return nil
	}
	return event
}

func scrubBreadcrumb(breadcrumb *sentry.Breadcrumb, _ *sentry.BreadcrumbHint) *sentry.Breadcrumb {
	for _, key := range sensitiveKeys {
		delete(breadcrumb.Data, key)
	}
	return breadcrumb
}

// Flush flushes the Sentry buffer
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// CaptureErrorWithContext reports err outside an HTTP request, tagged with
// the correlation and session IDs carried by ctx
func CaptureErrorWithContext(ctx context.Context, err error, extras map[string]interface{}) *sentry.EventID {
	if err == nil {
		return nil
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}

	var eventID *sentry.EventID
	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
			scope.SetTag("correlation_id", correlationID)
		}
		if sessionID := logger.SessionIDFromContext(ctx); sessionID != "" {
			scope.SetTag("session_id", sessionID)
		}
		eventID = hub.CaptureException(err)
	})
	return eventID
}

// AddBreadcrumb records a domain event on the current hub
func AddBreadcrumb(breadcrumb *sentry.Breadcrumb) {
	sentry.AddBreadcrumb(breadcrumb)
}

// AddBreadcrumbForRequest adds a breadcrumb for HTTP request
func AddBreadcrumbForRequest(method, url string, statusCode int, duration time.Duration) {
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "http",
		Category:  "http.request",
		Level:     sentry.LevelInfo,
		Message:   method + " " + url,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"method":      method,
			"url":         url,
			"status_code": statusCode,
			"duration_ms": duration.Milliseconds(),
		},
	})
}

// IsBusinessError reports expected outcomes such as a blocked step, an
// unknown bike or a missing session
func IsBusinessError(err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := common.AsAppError(err); ok {
		return appErr.Code < http.StatusInternalServerError && appErr.Code != http.StatusTooManyRequests
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"validation failed", "invalid input", "not found", "conflict"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ShouldReportError reports server-side failures and throttling.
// Other 4xx are the caller's problem.
func ShouldReportError(err error, statusCode int) bool {
	if err == nil || IsBusinessError(err) {
		return false
	}
	if statusCode >= 400 && statusCode < 500 && statusCode != http.StatusTooManyRequests {
		return false
	}
	return true
}

func envRate(key string, fallback float64) float64 {
	rate, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || rate < 0 || rate > 1 {
		return fallback
	}
	return rate
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
