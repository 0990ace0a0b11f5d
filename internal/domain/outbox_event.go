package domain

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

// OutboxEvent is written in the same transaction as the order change it
// describes and relayed to the broker afterwards.
type OutboxEvent struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	EventID     string          `gorm:"type:varchar(36);uniqueIndex;not null"`
	Type        string          `gorm:"type:varchar(64);not null"`
	AggregateID string          `gorm:"type:varchar(36);not null;index"`
	Payload     json.RawMessage `gorm:"type:json;not null"`
	CreatedAt   time.Time
	SentAt      *time.Time `gorm:"index"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}
