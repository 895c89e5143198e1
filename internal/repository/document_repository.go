package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interviewai-backend/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByIDAndUserID(id, userID uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

// GetBySHA256 looks up a prior upload with the same content hash.
func (r *DocumentRepository) GetBySHA256(hash string) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("sha256_hash = ?", hash).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query document by hash failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByUserID(userID uint, activeOnly bool) ([]model.Document, error) {
	q := r.db.Where("user_id = ?", userID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var list []model.Document
	if err := q.Order("uploaded_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return list, nil
}

// Deactivate marks a document inactive. Hard deletion of document
// rows happens only through the erasure engine.
func (r *DocumentRepository) Deactivate(id, userID uint) error {
	if err := r.db.Model(&model.Document{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("deactivate document failed: %w", err)
	}
	return nil
}
