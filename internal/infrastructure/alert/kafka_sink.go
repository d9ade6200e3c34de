// Package alert implements the fire-and-forget alert sink: a
// best-effort publish of the structured high-severity payload onto a
// Kafka topic. Alert delivery itself (consumption, routing, escalation)
// belongs to downstream consumers.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// Payload is the minimal structured alert body.
type Payload struct {
	AssessmentID string          `json:"assessment_id"`
	UserID       string          `json:"user_id"`
	Score        float64         `json:"score"`
	RiskLevel    risk.RiskLevel  `json:"risk_level"`
	EmittedAt    time.Time       `json:"emitted_at"`
}

// KafkaSink publishes alert payloads to a single Kafka topic. Writes are
// best-effort: a publish failure is returned to the caller to log, never
// to fail the assessment that triggered it.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink constructs a sink writing to topic on the given brokers.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 2 * time.Second,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish implements assessment.AlertSink.
func (s *KafkaSink) Publish(ctx context.Context, assessmentID, userID string, score float64, level risk.RiskLevel) error {
	payload := Payload{
		AssessmentID: assessmentID,
		UserID:       userID,
		Score:        score,
		RiskLevel:    level,
		EmittedAt:    time.Now().UTC(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode alert payload: %w", err)
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID),
		Value: body,
	})
}

// Close releases the underlying Kafka connection.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// NoopSink discards every alert; used in standalone mode when no broker
// is configured.
type NoopSink struct{}

func (NoopSink) Publish(ctx context.Context, assessmentID, userID string, score float64, level risk.RiskLevel) error {
	return nil
}
