package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter is the kafka-go writer abstraction, mockable in tests.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaAlertPublisher implements ports.AlertPublisher over a Kafka topic.
// The ledger never depends on Kafka availability: callers treat publish
// failures as log-and-continue.
type KafkaAlertPublisher struct {
	writer KafkaWriter
	log    zerolog.Logger
}

// NewKafkaAlertPublisher creates a publisher for the configured alert topic.
func NewKafkaAlertPublisher(cfg config.KafkaConfig, log zerolog.Logger) *KafkaAlertPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaAlertPublisher{writer: writer, log: log}
}

// NewKafkaAlertPublisherWithWriter wires a custom writer (used in tests).
func NewKafkaAlertPublisherWithWriter(writer KafkaWriter, log zerolog.Logger) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{writer: writer, log: log}
}

// highRiskAlert is the payload for records that cross the alert threshold.
type highRiskAlert struct {
	Event      string          `json:"event"`
	RecordID   string          `json:"record_id"`
	UserID     string          `json:"user_id"`
	EventType  string          `json:"event_type"`
	FraudScore int             `json:"fraud_score"`
	Signals    []string        `json:"signals,omitempty"`
	RiskBand   domain.RiskBand `json:"risk_band"`
	CreatedAt  string          `json:"created_at"`
}

// chainBreakAlert is the payload for chain integrity violations.
type chainBreakAlert struct {
	Event          string `json:"event"`
	UserID         string `json:"user_id"`
	BrokenRecordID string `json:"broken_record_id"`
}

// PublishHighRisk emits a high-risk transaction alert keyed by user, so all
// of one user's alerts land in the same partition.
func (p *KafkaAlertPublisher) PublishHighRisk(ctx context.Context, rec *domain.AuditRecord) error {
	payload, err := json.Marshal(highRiskAlert{
		Event:      "high_risk_record",
		RecordID:   rec.ID.String(),
		UserID:     rec.UserID.String(),
		EventType:  string(rec.EventType),
		FraudScore: rec.FraudScore,
		Signals:    rec.FraudSignals,
		RiskBand:   domain.BandForScore(rec.FraudScore),
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal high-risk alert: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(rec.UserID.String()),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish high-risk alert: %w", err)
	}

	p.log.Info().
		Str("record_id", rec.ID.String()).
		Int("fraud_score", rec.FraudScore).
		Msg("high-risk alert published")
	return nil
}

// PublishChainBreak emits a chain integrity alert. This is the path to the
// operator: broken chains require manual review and are never auto-corrected.
func (p *KafkaAlertPublisher) PublishChainBreak(ctx context.Context, userID uuid.UUID, brokenRecordID uuid.UUID) error {
	payload, err := json.Marshal(chainBreakAlert{
		Event:          "chain_integrity_violation",
		UserID:         userID.String(),
		BrokenRecordID: brokenRecordID.String(),
	})
	if err != nil {
		return fmt.Errorf("marshal chain-break alert: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(userID.String()),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish chain-break alert: %w", err)
	}

	p.log.Error().
		Str("user_id", userID.String()).
		Str("broken_record_id", brokenRecordID.String()).
		Msg("chain integrity alert published")
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaAlertPublisher) Close() error {
	return p.writer.Close()
}
