package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *capturingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaAlertPublisher_PublishHighRisk(t *testing.T) {
	writer := &capturingWriter{}
	pub := NewKafkaAlertPublisherWithWriter(writer, logger.NewWithWriter("error", io.Discard))

	rec := &domain.AuditRecord{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		EventType:    domain.AuditEventWalletDebit,
		FraudScore:   80,
		FraudSignals: []string{"high_value_debit", "debit_velocity"},
		CreatedAt:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishHighRisk(context.Background(), rec))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, rec.UserID.String(), string(msg.Key), "partitioned by user")

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "high_risk_record", payload["event"])
	assert.Equal(t, rec.ID.String(), payload["record_id"])
	assert.Equal(t, float64(80), payload["fraud_score"])
	assert.Equal(t, "critical", payload["risk_band"])
}

func TestKafkaAlertPublisher_PublishChainBreak(t *testing.T) {
	writer := &capturingWriter{}
	pub := NewKafkaAlertPublisherWithWriter(writer, logger.NewWithWriter("error", io.Discard))

	userID := uuid.New()
	brokenID := uuid.New()
	require.NoError(t, pub.PublishChainBreak(context.Background(), userID, brokenID))
	require.Len(t, writer.messages, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &payload))
	assert.Equal(t, "chain_integrity_violation", payload["event"])
	assert.Equal(t, userID.String(), payload["user_id"])
	assert.Equal(t, brokenID.String(), payload["broken_record_id"])
}

func TestKafkaAlertPublisher_WriteFailure(t *testing.T) {
	writer := &capturingWriter{err: errors.New("broker down")}
	pub := NewKafkaAlertPublisherWithWriter(writer, logger.NewWithWriter("error", io.Discard))

	err := pub.PublishChainBreak(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestKafkaAlertPublisher_Close(t *testing.T) {
	writer := &capturingWriter{}
	pub := NewKafkaAlertPublisherWithWriter(writer, logger.NewWithWriter("error", io.Discard))

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}
