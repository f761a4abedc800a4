package kafka

import (
	"context"
	"time"

	"eventbook/pkg/logger"
)

const (
	EventTypeEventCreated   = "event.created"
	EventTypeEventUpdated   = "event.updated"
	EventTypeEventDeleted   = "event.deleted"
	EventTypeBookingCreated = "booking.created"

	SchemaVersion = "1"
)

// Publisher announces committed writes. Publish never fails the caller:
// errors are logged and dropped.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any)
	Close() error
}

type producerPublisher struct {
	producer *Producer
	source   string
	timeout  time.Duration
	log      *logger.Logger
}

func NewPublisher(producer *Producer, source string, timeout time.Duration, log *logger.Logger) Publisher {
	return &producerPublisher{
		producer: producer,
		source:   source,
		timeout:  timeout,
		log:      log,
	}
}

func (p *producerPublisher) Publish(ctx context.Context, eventType, key string, payload any) {
	msg, err := NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		WithSchemaVersion(SchemaVersion).
		Build()
	if err != nil {
		p.log.Error("Failed to build message", "event_type", eventType, "key", key, "error", err)
		return
	}

	// The write already committed; a cancelled request must not drop the message.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish domain event",
			"topic", p.producer.Topic(),
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}

func (p *producerPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, string, any) {}
func (noopPublisher) Close() error                                 { return nil }
