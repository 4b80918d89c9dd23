package tracing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Redis span attributes
const (
	RedisCommandKey = attribute.Key("redis.command")
	RedisKeyKey     = attribute.Key("redis.key")
)

// Business logic span attributes
const (
	WizardKey        = attribute.Key("wizard.name")
	SessionIDKey     = attribute.Key("wizard.session_id")
	WizardStepKey    = attribute.Key("wizard.step")
	SubmissionIDKey  = attribute.Key("lead.submission_id")
	BikeIDKey        = attribute.Key("bike.id")
	PrincipalKey     = attribute.Key("finance.principal")
	TenureMonthsKey  = attribute.Key("finance.months")
	AnnualRateKey    = attribute.Key("finance.annual_rate")
	CatalogResultKey = attribute.Key("catalog.result_count")
)

// TraceRedisCommand wraps a Redis command with tracing
func TraceRedisCommand(ctx context.Context, tracerName, command, key string, fn func(context.Context) error) error {
	ctx, span := StartSpan(ctx, tracerName, fmt.Sprintf("redis.%s", command),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", "redis"),
		RedisCommandKey.String(command),
		RedisKeyKey.String(key),
	)

	err := fn(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return err
}

// TraceBusinessLogic wraps business logic with tracing
func TraceBusinessLogic(ctx context.Context, tracerName, operation string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	ctx, span := StartSpan(ctx, tracerName, operation,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}

	start := time.Now()
	err := fn(ctx)
	span.SetAttributes(attribute.Int64("duration_ms", time.Since(start).Milliseconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return err
}

// TraceExternalAPI wraps calls to external systems (the event broker) with tracing
func TraceExternalAPI(ctx context.Context, tracerName, serviceName, operation string, fn func(context.Context) error) error {
	ctx, span := StartSpan(ctx, tracerName, fmt.Sprintf("%s.%s", serviceName, operation),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	span.SetAttributes(
		attribute.String("external.service", serviceName),
		attribute.String("external.operation", operation),
	)

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return err
}

// WizardAttributes describes a wizard session
func WizardAttributes(wizard, sessionID string, step int) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if wizard != "" {
		attrs = append(attrs, WizardKey.String(wizard))
	}
	if sessionID != "" {
		attrs = append(attrs, SessionIDKey.String(sessionID))
	}
	if step > 0 {
		attrs = append(attrs, WizardStepKey.Int(step))
	}
	return attrs
}

// QuoteAttributes describes a finance quote request
func QuoteAttributes(principal float64, months int, annualRate float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		PrincipalKey.Float64(principal),
		TenureMonthsKey.Int(months),
		AnnualRateKey.Float64(annualRate),
	}
}
