package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"go.uber.org/zap"
)

// Subjects for showroom lead events.
const (
	SubjectTestRideRequested = "leads.test_ride.requested"
	SubjectServiceRequested  = "leads.service.requested"

	// SubjectLeadsAll matches every lead subject.
	SubjectLeadsAll = "leads.>"
)

const defaultStreamName = "SHOWROOM"

// ErrEncode is returned when an event or its payload cannot be marshalled
var ErrEncode = errors.New("encode event")

// Event is the envelope for all events published through the bus.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent creates a new event with a unique ID and current timestamp.
func NewEvent(eventType, source string, data interface{}) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w data: %v", ErrEncode, err)
	}
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// HandlerFunc processes a received event. Return nil to ack, error to nack.
type HandlerFunc func(ctx context.Context, event *Event) error

// Publisher is the publishing side of the bus.
type Publisher interface {
	Publish(ctx context.Context, subject string, event *Event) error
}

// Config holds NATS connection settings.
type Config struct {
	URL        string
	Name       string // client connection name
	StreamName string // JetStream stream name (default: "SHOWROOM")
	// MaxAge bounds how long leads stay in the stream
	MaxAge time.Duration
	// MaxDeliver is how often a consumer sees a message before it is dropped
	MaxDeliver int
}

// DefaultConfig returns sensible defaults for local development.
func DefaultConfig() Config {
	return Config{
		URL:        nats.DefaultURL,
		Name:       "moto-showroom",
		StreamName: defaultStreamName,
		MaxAge:     7 * 24 * time.Hour,
		MaxDeliver: 5,
	}
}

// Bus wraps a NATS JetStream connection for publishing and subscribing.
type Bus struct {
	conn *nats.Conn
	js   jetstream.JetStream
	cfg  Config
	subs []jetstream.ConsumeContext
}

// New connects to NATS and ensures the lead stream exists.
func New(cfg Config) (*Bus, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(ctx, cfg.streamConfig()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("create stream: %w", err)
	}

	logger.Info("NATS event bus connected",
		zap.String("url", cfg.URL),
		zap.String("stream", cfg.stream()),
	)

	return &Bus{conn: nc, js: js, cfg: cfg}, nil
}

// Publish sends an event to the given subject. The event ID doubles as the
// JetStream message ID so a retried publish is stored once.
func (b *Bus) Publish(ctx context.Context, subject string, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if _, err := b.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.ID)); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	logger.DebugContext(ctx, "event published",
		zap.String("subject", subject),
		zap.String("event_id", event.ID),
		zap.String("type", event.Type),
	)
	return nil
}

// Subscribe creates a durable consumer and processes messages with the handler.
// The consumerName should be unique per subscribing service (e.g., "showroom-lead-log").
func (b *Bus) Subscribe(ctx context.Context, subject, consumerName string, handler HandlerFunc) error {
	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.cfg.stream(), b.cfg.consumerConfig(subject, consumerName))
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", consumerName, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		b.dispatch(ctx, msg, handler)
	})
	if err != nil {
		return fmt.Errorf("consume %s: %w", consumerName, err)
	}

	b.subs = append(b.subs, cc)
	logger.Info("subscribed to events",
		zap.String("subject", subject),
		zap.String("consumer", consumerName),
	)
	return nil
}

// dispatch acks handled messages, naks failures for redelivery and
// terminates malformed or exhausted ones.
func (b *Bus) dispatch(ctx context.Context, msg jetstream.Msg, handler HandlerFunc) {
	var event Event
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Warn("dropping malformed event", zap.String("subject", msg.Subject()), zap.Error(err))
		_ = msg.Term()
		return
	}

	err := handler(ctx, &event)
	if err == nil {
		_ = msg.Ack()
		return
	}

	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("type", event.Type),
		zap.Error(err),
	}
	if meta, metaErr := msg.Metadata(); metaErr == nil && b.cfg.MaxDeliver > 0 && meta.NumDelivered >= uint64(b.cfg.MaxDeliver) {
		logger.Error("event handler failed on final delivery, dropping", fields...)
		_ = msg.Term()
		return
	}

	logger.Warn("event handler error, will retry", fields...)
	_ = msg.Nak()
}

// Close drains subscriptions and closes the NATS connection.
func (b *Bus) Close() {
	for _, sub := range b.subs {
		sub.Stop()
	}
	if b.conn != nil {
		_ = b.conn.Drain()
	}
	logger.Info("NATS event bus closed")
}

// Connected returns true if the NATS connection is active.
func (b *Bus) Connected() bool {
	return b.conn != nil && b.conn.IsConnected()
}

func (c Config) stream() string {
	if c.StreamName == "" {
		return defaultStreamName
	}
	return c.StreamName
}

func (c Config) streamConfig() jetstream.StreamConfig {
	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return jetstream.StreamConfig{
		Name:       c.stream(),
		Subjects:   []string{SubjectLeadsAll},
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     maxAge,
		Duplicates: 2 * time.Minute,
		Replicas:   1,
	}
}

func (c Config) consumerConfig(subject, name string) jetstream.ConsumerConfig {
	return jetstream.ConsumerConfig{
		Name:          name,
		Durable:       name,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    c.MaxDeliver,
		DeliverPolicy: jetstream.DeliverNewPolicy,
	}
}
