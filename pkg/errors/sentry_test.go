package errors

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/stretchr/testify/assert"
)

func TestShouldReportError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   bool
	}{
		{"nil error", nil, http.StatusInternalServerError, false},
		{"unexpected failure", stderrors.New("broker unreachable"), http.StatusInternalServerError, true},
		{"client error", stderrors.New("boom"), http.StatusBadRequest, false},
		{"rate limited", stderrors.New("slow down"), http.StatusTooManyRequests, true},
		{"validation app error", common.NewValidationError("validation failed", nil), http.StatusInternalServerError, false},
		{"not found message", stderrors.New("bike Not Found"), http.StatusInternalServerError, false},
		{"internal app error", common.NewInternalError("failed", stderrors.New("x")), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldReportError(tt.err, tt.status))
		})
	}
}

func TestInitSentry_RequiresDSN(t *testing.T) {
	cfg := DefaultSentryConfig("showroom")
	cfg.DSN = ""
	assert.Error(t, InitSentry(cfg))
	assert.Equal(t, "showroom", cfg.ServerName)
}

func TestCaptureErrorWithContext_NilError(t *testing.T) {
	assert.Nil(t, CaptureErrorWithContext(context.Background(), nil, nil))
}

func TestDefaultSentryConfig_Rates(t *testing.T) {
	t.Setenv("SENTRY_SAMPLE_RATE", "0.25")
	t.Setenv("SENTRY_TRACES_SAMPLE_RATE", "")
	t.Setenv("ENVIRONMENT", "production")

	cfg := DefaultSentryConfig("showroom")
	assert.Equal(t, "production", cfg.Environment)
	assert.InDelta(t, 0.25, cfg.SampleRate, 1e-9)
	assert.InDelta(t, 0.1, cfg.TracesSampleRate, 1e-9)

	t.Setenv("SENTRY_SAMPLE_RATE", "7")
	assert.InDelta(t, 1.0, DefaultSentryConfig("showroom").SampleRate, 1e-9, "out of range falls back")
}

func TestScrubBreadcrumb(t *testing.T) {
	crumb := scrubBreadcrumb(&sentry.Breadcrumb{Data: map[string]interface{}{
		"email":      "asha@example.com",
		"phone":      "5551234567",
		"Cookie":     "s=1",
		"session_id": "abc",
	}}, nil)

	assert.Equal(t, map[string]interface{}{"session_id": "abc"}, crumb.Data)
	assert.NotNil(t, scrubBreadcrumb(&sentry.Breadcrumb{}, nil), "nil data is fine")
}

func TestDropLowSeverity(t *testing.T) {
	assert.Nil(t, dropLowSeverity(&sentry.Event{Level: sentry.LevelInfo}, nil))
	assert.NotNil(t, dropLowSeverity(&sentry.Event{Level: sentry.LevelError}, nil))
}
