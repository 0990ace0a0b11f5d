package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/domain"
)

// GormRecorder appends events to outbox_events using the caller's
// transaction, so an event exists exactly when its state change commits.
type GormRecorder struct{}

func NewGormRecorder() *GormRecorder {
	return &GormRecorder{}
}

func (r *GormRecorder) Record(ctx context.Context, tx *gorm.DB, eventType, aggregateID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", eventType, err)
	}

	event := domain.OutboxEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		Payload:     body,
	}
	if err := tx.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("inserting outbox event: %w", err)
	}
	return nil
}

// NopRecorder drops events. Used when the outbox is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, *gorm.DB, string, string, interface{}) error {
	return nil
}
