package repository

import (
	"fmt"

	"gorm.io/gorm"

	"interviewai-backend/internal/model"
)

type SegmentRepository struct {
	db *gorm.DB
}

func NewSegmentRepository(db *gorm.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

func (r *SegmentRepository) Create(segment *model.Segment) error {
	if err := r.db.Create(segment).Error; err != nil {
		return fmt.Errorf("create segment failed: %w", err)
	}
	return nil
}

func (r *SegmentRepository) ListBySessionID(sessionID uint) ([]model.Segment, error) {
	var segments []model.Segment
	if err := r.db.Where("session_id = ?", sessionID).Order("start_ms ASC").Find(&segments).Error; err != nil {
		return nil, fmt.Errorf("list segments failed: %w", err)
	}
	return segments, nil
}
