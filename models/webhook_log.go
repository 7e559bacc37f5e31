package models

import (
	"time"

	"gorm.io/datatypes"
)

// Webhook log status constants
const (
	WebhookStatusReceived  = "received"
	WebhookStatusProcessed = "processed"
	WebhookStatusFailed    = "failed"
)

// WebhookLog is the append-only audit record of every inbound webhook call.
// The entry is written before any validation, with the order identifier as
// received, and its status moves exactly once from received to
// processed/failed. The raw payload is stored opaque and is never parsed
// back into the typed model.
type WebhookLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OrderID      string         `gorm:"index" json:"order_id"`
	Payload      datatypes.JSON `json:"webhook_payload"`
	Status       string         `gorm:"default:received" json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	ProcessedAt  *time.Time     `json:"processed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
