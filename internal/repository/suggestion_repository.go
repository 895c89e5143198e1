package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interviewai-backend/internal/model"
)

type SuggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

func (r *SuggestionRepository) Create(suggestion *model.Suggestion) error {
	if err := r.db.Create(suggestion).Error; err != nil {
		return fmt.Errorf("create suggestion failed: %w", err)
	}
	return nil
}

func (r *SuggestionRepository) ListBySessionID(sessionID uint) ([]model.Suggestion, error) {
	var suggestions []model.Suggestion
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&suggestions).Error; err != nil {
		return nil, fmt.Errorf("list suggestions failed: %w", err)
	}
	return suggestions, nil
}

func (r *SuggestionRepository) GetByIDAndSessionID(id, sessionID uint) (*model.Suggestion, error) {
	var suggestion model.Suggestion
	if err := r.db.Where("id = ? AND session_id = ?", id, sessionID).First(&suggestion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get suggestion failed: %w", err)
	}
	return &suggestion, nil
}

// UpdateFeedback mutates the only writable fields of a suggestion.
func (r *SuggestionRepository) UpdateFeedback(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.Model(&model.Suggestion{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update suggestion feedback failed: %w", err)
	}
	return nil
}
