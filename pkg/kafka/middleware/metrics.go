package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"eventbook/pkg/kafka"
)

type Metrics struct {
	MessagesPublished       atomic.Int64
	MessagesPublishedFailed atomic.Int64
	PublishDurationTotal    atomic.Int64 // nanoseconds
}

type MetricsSnapshot struct {
	MessagesPublished       int64         `json:"messages_published"`
	MessagesPublishedFailed int64         `json:"messages_failed"`
	AvgPublishDuration      time.Duration `json:"avg_publish_duration_ns"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	published := m.MessagesPublished.Load()
	snap := MetricsSnapshot{
		MessagesPublished:       published,
		MessagesPublishedFailed: m.MessagesPublishedFailed.Load(),
	}
	if published > 0 {
		snap.AvgPublishDuration = time.Duration(m.PublishDurationTotal.Load() / published)
	}
	return snap
}

func (m *Metrics) Reset() {
	m.MessagesPublished.Store(0)
	m.MessagesPublishedFailed.Store(0)
	m.PublishDurationTotal.Store(0)
}

func MetricsProducerMiddleware(m *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		if err != nil {
			m.MessagesPublishedFailed.Add(1)
			return err
		}
		m.MessagesPublished.Add(1)
		m.PublishDurationTotal.Add(int64(time.Since(start)))
		return nil
	}
}
