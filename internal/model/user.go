package model

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	AuthProvider string `gorm:"size:50;default:email" json:"auth_provider"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	IsVerified   bool   `gorm:"default:false" json:"is_verified"`

	// Retention settings. RetentionHours <= 0 means "never auto-delete".
	AutoDeleteEnabled bool `gorm:"default:true" json:"auto_delete_enabled"`
	RetentionHours    int  `gorm:"default:24" json:"retention_hours"`

	PreferredModel  string `gorm:"size:50;default:gpt-4o-mini" json:"preferred_model"`
	OverlayPosition string `gorm:"size:20;default:bottom-right" json:"overlay_position"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
