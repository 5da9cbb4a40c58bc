// Package kafka publishes scored events to the audit event stream topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/health-risk-service/internal/domain"
)

// Stream produces scored events to a Kafka topic, keyed by session ID.
// Publishing is best-effort from the scoring session's point of view:
// failures surface as warnings, never as scoring failures.
type Stream struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewStream creates a Kafka producer for the audit event stream topic.
func NewStream(brokers []string, topic string, logger *slog.Logger) *Stream {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Stream{writer: w, logger: logger}
}

// Publish serializes and writes one scored event.
func (s *Stream) Publish(ctx context.Context, event domain.ScoredEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, msg)
}

// Close flushes and closes the underlying producer.
func (s *Stream) Close() error {
	return s.writer.Close()
}

// serializeToMessage marshals a ScoredEvent into a Kafka message keyed by
// session ID so replays of the same session land in the same partition.
func serializeToMessage(event domain.ScoredEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize scored event: %w", err)
	}
	ts := event.ScoredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return kafkago.Message{
		Key:   []byte(event.SessionID),
		Value: data,
		Time:  ts,
		Headers: []kafkago.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}, nil
}
