package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/msardana94/momentumbot/internal/portfolio"
)

// Publisher appends saved portfolio snapshots to a remote log. Publishing is
// best-effort; the run never depends on it.
type Publisher struct {
	writer *kafka.Writer
}

type snapshotEnvelope struct {
	RunID     string              `json:"run_id"`
	Portfolio portfolio.Portfolio `json:"portfolio"`
	SavedAt   time.Time           `json:"saved_at"`
}

// NewPublisher constructs a kafka publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 200 * time.Millisecond,
		RequiredAcks: int(kafka.RequireOne),
		Dialer: &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
		},
	})
	return &Publisher{writer: w}
}

// Publish writes one snapshot keyed by run id.
func (p *Publisher) Publish(ctx context.Context, runID string, pf portfolio.Portfolio) error {
	payload, err := json.Marshal(snapshotEnvelope{
		RunID:     runID,
		Portfolio: pf,
		SavedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal state snapshot: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(runID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("publish state snapshot: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error { return p.writer.Close() }
