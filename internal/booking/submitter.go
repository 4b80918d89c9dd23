package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/richxcame/moto-showroom/internal/wizard"
	"github.com/richxcame/moto-showroom/pkg/eventbus"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"github.com/richxcame/moto-showroom/pkg/resilience"
	"github.com/richxcame/moto-showroom/pkg/tracing"
	"go.uber.org/zap"
)

const (
	tracerName = "booking"

	// DefaultSubmitLatency is the simulated hand-off time of LogSubmitter
	DefaultSubmitLatency = 1500 * time.Millisecond

	eventSource = "moto-showroom"
)

var ErrSubmissionCancelled = errors.New("submission cancelled")

// publish failures that a retry cannot fix
var unrecoverablePublishErrors = []error{eventbus.ErrEncode, nats.ErrMaxPayload, nats.ErrBadSubject}

// LogSubmitter accepts every lead after a fixed delay and logs it
type LogSubmitter struct {
	latency time.Duration
}

// NewLogSubmitter creates a LogSubmitter. A negative latency uses the default.
func NewLogSubmitter(latency time.Duration) *LogSubmitter {
	if latency < 0 {
		latency = DefaultSubmitLatency
	}
	return &LogSubmitter{latency: latency}
}

func (l *LogSubmitter) Submit(ctx context.Context, sub wizard.Submission) wizard.Result {
	if l.latency > 0 {
		timer := time.NewTimer(l.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			logger.WarnContext(ctx, "lead submission cancelled",
				zap.String("wizard", sub.Wizard),
				zap.String("session_id", sub.SessionID),
			)
			return wizard.Result{Err: fmt.Errorf("%w: %v", ErrSubmissionCancelled, ctx.Err())}
		case <-timer.C:
		}
	}

	id := uuid.NewString()
	logger.InfoContext(ctx, "lead submitted",
		zap.String("wizard", sub.Wizard),
		zap.String("session_id", sub.SessionID),
		zap.String("submission_id", id),
		zap.Any("values", sub.Values),
	)
	return wizard.Result{ID: id}
}

// EventSubmitter publishes leads to the event bus
type EventSubmitter struct {
	publisher eventbus.Publisher
	ref       *Reference
	retry     resilience.RetryConfig
}

// NewEventSubmitter creates an EventSubmitter that tries each publish up to attempts times
func NewEventSubmitter(publisher eventbus.Publisher, ref *Reference, attempts int) *EventSubmitter {
	if attempts <= 0 {
		attempts = 3
	}
	return &EventSubmitter{
		publisher: publisher,
		ref:       ref,
		retry:     resilience.SubmissionRetryConfig(attempts),
	}
}

func (e *EventSubmitter) Submit(ctx context.Context, sub wizard.Submission) wizard.Result {
	id := uuid.NewString()

	subject, data, err := e.payload(id, sub)
	if err != nil {
		return wizard.Result{Err: err}
	}
	event, err := eventbus.NewEvent(subject, eventSource, data)
	if err != nil {
		return wizard.Result{Err: err}
	}

	err = tracing.TraceExternalAPI(ctx, tracerName, "nats", "publish "+subject, func(ctx context.Context) error {
		return resilience.Do(ctx, e.retry, "leads.publish", func(ctx context.Context) error {
			return classifyPublish(e.publisher.Publish(ctx, subject, event))
		})
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to publish lead",
			zap.String("subject", subject),
			zap.String("session_id", sub.SessionID),
			zap.Error(err),
		)
		return wizard.Result{Err: fmt.Errorf("publish lead: %w", err)}
	}

	logger.InfoContext(ctx, "lead published",
		zap.String("subject", subject),
		zap.String("event_id", event.ID),
		zap.String("submission_id", id),
	)
	return wizard.Result{ID: id}
}

func classifyPublish(err error) error {
	for _, target := range unrecoverablePublishErrors {
		if errors.Is(err, target) {
			return resilience.Permanent(err)
		}
	}
	return err
}

func (e *EventSubmitter) payload(id string, sub wizard.Submission) (string, interface{}, error) {
	v := sub.Values
	contact := eventbus.LeadContact{
		FirstName: str(v, "firstName"),
		LastName:  str(v, "lastName"),
		Email:     str(v, "email"),
		Phone:     str(v, "phone"),
	}

	switch Kind(sub.Wizard) {
	case KindTestRide:
		data := eventbus.TestRideRequestedData{
			SubmissionID:     id,
			SessionID:        sub.SessionID,
			Contact:          contact,
			BikeModel:        str(v, "bikeModel"),
			Dealership:       str(v, "dealership"),
			Date:             str(v, "date"),
			Time:             str(v, "time"),
			LicenseType:      str(v, "licenseType"),
			RidingExperience: str(v, "ridingExperience"),
			AdditionalInfo:   str(v, "additionalInfo"),
			RequestedAt:      sub.SubmittedAt,
		}
		if m, ok := e.ref.Model(data.BikeModel); ok {
			data.BikeName = m.Name
		}
		if l, ok := findLocation(e.ref.Dealerships, data.Dealership); ok {
			data.DealershipName = l.Name
		}
		return eventbus.SubjectTestRideRequested, data, nil
	case KindService:
		extras := list(v, "additionalServices")
		return eventbus.SubjectServiceRequested, eventbus.ServiceRequestedData{
			SubmissionID:       id,
			SessionID:          sub.SessionID,
			Contact:            contact,
			BikeModel:          str(v, "bikeModel"),
			Year:               str(v, "year"),
			VIN:                str(v, "vin"),
			Mileage:            str(v, "mileage"),
			RegistrationNumber: str(v, "registrationNumber"),
			ServiceType:        str(v, "serviceType"),
			AdditionalServices: extras,
			ServiceLocation:    str(v, "serviceLocation"),
			Date:               str(v, "date"),
			Time:               str(v, "time"),
			Issues:             str(v, "issues"),
			DropOff:            flag(v, "dropOff"),
			WaitOnsite:         flag(v, "waitOnsite"),
			EstimatedPrice:     e.ref.EstimateFrom(str(v, "serviceType"), extras),
			RequestedAt:        sub.SubmittedAt,
		}, nil
	}
	return "", nil, fmt.Errorf("%w: %s", ErrUnknownKind, sub.Wizard)
}
