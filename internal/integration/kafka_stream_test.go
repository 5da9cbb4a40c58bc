//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/health-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/health-risk-service/internal/domain"
)

const testTopic = "scored-risk-events-test"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("health-risk-test"))
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start kafka container")

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestStreamPublish verifies the producer adapter against a real broker: a
// published scored event arrives on the topic keyed by session ID, with the
// JSON payload and content-type header intact.
func TestStreamPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	stream := kafka.NewStream([]string{broker}, testTopic, discardLogger())
	t.Cleanup(func() { _ = stream.Close() })

	tempC := 15.0
	humidity := 62.0
	event := domain.ScoredEvent{
		SessionID:    "11111111-2222-3333-4444-555555555555",
		PinCode:      "02101",
		RiskScore:    42.5,
		WeatherUsed:  true,
		TemperatureC: &tempC,
		HumidityPct:  &humidity,
		ScoredAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, stream.Publish(ctx, event))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from audit stream topic")

	assert.Equal(t, []byte(event.SessionID), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "application/json", headers["content-type"])

	var decoded domain.ScoredEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.SessionID, decoded.SessionID)
	assert.Equal(t, event.PinCode, decoded.PinCode)
	assert.Equal(t, event.RiskScore, decoded.RiskScore)
	assert.True(t, decoded.WeatherUsed)
	require.NotNil(t, decoded.TemperatureC)
	assert.Equal(t, tempC, *decoded.TemperatureC)
}

// TestStreamPublish_SequentialSessions verifies that events from distinct
// sessions all land on the topic and keep their own keys.
func TestStreamPublish_SequentialSessions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	stream := kafka.NewStream([]string{broker}, testTopic, discardLogger())
	t.Cleanup(func() { _ = stream.Close() })

	const sessions = 5
	for i := range sessions {
		event := domain.ScoredEvent{
			SessionID: fmt.Sprintf("session-%d", i),
			PinCode:   "02105",
			RiskScore: 40 + float64(i),
			ScoredAt:  time.Now().UTC(),
		}
		require.NoError(t, stream.Publish(ctx, event))
	}

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	seen := make(map[string]float64, sessions)
	for len(seen) < sessions {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from audit stream topic")

		var decoded domain.ScoredEvent
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, decoded.SessionID, string(msg.Key))
		seen[decoded.SessionID] = decoded.RiskScore
	}

	for i := range sessions {
		assert.Equal(t, 40+float64(i), seen[fmt.Sprintf("session-%d", i)])
	}
}
