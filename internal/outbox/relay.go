package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/infrastructure/kafka"
	"storefront/internal/infrastructure/metrics"
)

type Store interface {
	ProcessBatch(ctx context.Context, limit int, fn func(ctx context.Context, events []domain.OutboxEvent) error) (int, error)
}

type Publisher interface {
	Publish(ctx context.Context, msgs ...kafka.Message) error
}

type envelope struct {
	EventID     string          `json:"eventId"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

// Relay moves committed outbox events to the broker.
type Relay struct {
	store        Store
	publisher    Publisher
	logger       *zap.Logger
	pollInterval time.Duration
	batchSize    int
}

func NewRelay(store Store, publisher Publisher, logger *zap.Logger, pollInterval time.Duration, batchSize int) *Relay {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Relay{
		store:        store,
		publisher:    publisher,
		logger:       logger.Named("outbox"),
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}
}

// Run polls until ctx is cancelled. A full batch is followed immediately by
// another poll so a backlog drains without waiting for the ticker.
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("outbox relay started", zap.Duration("pollInterval", r.pollInterval), zap.Int("batchSize", r.batchSize))

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		for {
			n, err := r.RunOnce(ctx)
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Error("outbox relay batch failed", zap.Error(err))
				}
				break
			}
			if n < r.batchSize {
				break
			}
		}

		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce publishes at most one batch and returns how many events were sent.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	n, err := r.store.ProcessBatch(ctx, r.batchSize, r.publish)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.OutboxPublished.Add(float64(n))
		r.logger.Debug("outbox events published", zap.Int("count", n))
	}
	return n, nil
}

func (r *Relay) publish(ctx context.Context, events []domain.OutboxEvent) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(envelope{
			EventID:     e.EventID,
			Type:        e.Type,
			AggregateID: e.AggregateID,
			OccurredAt:  e.CreatedAt.UTC(),
			Payload:     e.Payload,
		})
		if err != nil {
			return fmt.Errorf("encoding event %s: %w", e.EventID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   e.AggregateID,
			Value: value,
			Headers: map[string]string{
				"event-type": e.Type,
				"event-id":   e.EventID,
			},
		})
	}
	return r.publisher.Publish(ctx, msgs...)
}
