package outbox

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/domain"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ProcessBatch locks up to limit unsent events, skipping rows other relays
// hold, hands them to fn and marks them sent when fn succeeds. Everything
// happens in one transaction so a failed publish leaves the rows unsent.
func (s *GormStore) ProcessBatch(ctx context.Context, limit int, fn func(ctx context.Context, events []domain.OutboxEvent) error) (int, error) {
	processed := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var events []domain.OutboxEvent
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("sent_at IS NULL").
			Order("id ASC").
			Limit(limit).
			Find(&events).Error
		if err != nil {
			return fmt.Errorf("claiming outbox events: %w", err)
		}
		if len(events) == 0 {
			return nil
		}

		if err := fn(ctx, events); err != nil {
			return err
		}

		ids := make([]uint64, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		err = tx.Model(&domain.OutboxEvent{}).
			Where("id IN ?", ids).
			Update("sent_at", time.Now().UTC()).Error
		if err != nil {
			return fmt.Errorf("marking outbox events sent: %w", err)
		}

		processed = len(events)
		return nil
	})

	return processed, err
}
