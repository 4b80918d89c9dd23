package booking

import (
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/richxcame/moto-showroom/internal/wizard"
	"github.com/richxcame/moto-showroom/pkg/errors"
)

var (
	sessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "showroom_wizard_sessions_created_total",
		Help: "Wizard sessions started",
	}, []string{"wizard"})

	advanceOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "showroom_wizard_advance_total",
		Help: "Advance attempts by step and outcome",
	}, []string{"wizard", "step", "outcome"})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "showroom_wizard_submissions_total",
		Help: "Lead submissions by result",
	}, []string{"wizard", "result"})

	submitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "showroom_wizard_submit_duration_seconds",
		Help:    "Time spent handing a lead to the submitter",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5, 10},
	}, []string{"wizard"})
)

func recordCreated(kind Kind) {
	sessionsCreated.WithLabelValues(string(kind)).Inc()
}

func recordAdvance(kind Kind, step int, outcome wizard.Outcome) {
	advanceOutcomes.WithLabelValues(string(kind), strconv.Itoa(step), string(outcome)).Inc()
}

// recordSubmission counts the attempt and leaves a breadcrumb for error reports
func recordSubmission(kind Kind, sessionID string, took time.Duration, err error) {
	result, level := "success", sentry.LevelInfo
	if err != nil {
		result, level = "failure", sentry.LevelWarning
	}
	submissions.WithLabelValues(string(kind), result).Inc()
	submitDuration.WithLabelValues(string(kind)).Observe(took.Seconds())

	data := map[string]interface{}{
		"wizard":      string(kind),
		"session_id":  sessionID,
		"duration_ms": took.Milliseconds(),
	}
	if err != nil {
		data["error"] = err.Error()
	}
	errors.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "default",
		Category:  "booking.submit",
		Level:     level,
		Message:   "lead submission " + result,
		Timestamp: time.Now(),
		Data:      data,
	})
}
