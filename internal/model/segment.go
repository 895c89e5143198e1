package model

import "time"

// Segment is one transcript segment of a session. Append-only.
type Segment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	SessionID uint `gorm:"not null;index" json:"session_id"`

	StartMs int `gorm:"not null" json:"start_ms"`
	EndMs   int `gorm:"not null" json:"end_ms"`

	Text       string `gorm:"type:text;not null" json:"text"`
	Speaker    string `gorm:"size:50" json:"speaker"`
	Confidence int    `json:"confidence"` // 0-100
	IsFinal    bool   `gorm:"default:false" json:"is_final"`

	CreatedAt time.Time `json:"created_at"`
}
