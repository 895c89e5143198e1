package model

import "time"

// Session is one interview session. A session is closed once EndedAt
// is set; only closed sessions are eligible for expiry.
type Session struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	Platform    string `gorm:"size:50" json:"platform"`
	SessionType string `gorm:"size:50;default:interview" json:"session_type"`

	StartedAt       time.Time  `gorm:"autoCreateTime" json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationMinutes int        `json:"duration_minutes"`

	SettingsJSON string `gorm:"type:text" json:"-"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	PrivacyMode  bool   `gorm:"default:false" json:"privacy_mode"`
}
