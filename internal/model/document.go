package model

import "time"

// Document is an uploaded resume. SHA256Hash deduplicates identical
// uploads. IsActive is a soft-delete flag; rows are hard-deleted only
// by the erasure engine.
type Document struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Filename   string `gorm:"size:255;not null" json:"filename"`
	FileSize   int64  `gorm:"not null" json:"file_size"`
	MimeType   string `gorm:"size:100;not null" json:"mime_type"`
	StorageURI string `gorm:"size:500" json:"storage_uri"`
	SHA256Hash string `gorm:"size:64;not null;uniqueIndex" json:"sha256_hash"`

	ParsedJSON string `gorm:"type:text" json:"-"`

	// Extracted attributes, display only.
	Skills          string `gorm:"type:text" json:"skills"`
	ExperienceYears int    `json:"experience_years"`
	EducationLevel  string `gorm:"size:100" json:"education_level"`
	CurrentRole     string `gorm:"size:200" json:"current_role"`

	IsActive   bool      `gorm:"default:true" json:"is_active"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
