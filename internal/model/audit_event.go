package model

import "time"

// AuditEvent is an append-only compliance record. EventData is
// PII-redacted before it ever reaches the store. RetentionUntil is
// set at creation from the fixed audit window; the sweep additionally
// deletes audit rows under the owning user's own horizon.
type AuditEvent struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	EventType string `gorm:"size:100;not null" json:"event_type"`
	EventData string `gorm:"type:text" json:"event_data"`

	IPAddress string `gorm:"size:45" json:"ip_address"`
	UserAgent string `gorm:"size:500" json:"user_agent"`

	CreatedAt      time.Time `json:"created_at"`
	RetentionUntil time.Time `json:"retention_until"`
}
