package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interviewai-backend/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// ListAutoDeleteEnabled returns all users eligible for the expiry sweep.
func (r *UserRepository) ListAutoDeleteEnabled() ([]model.User, error) {
	var users []model.User
	if err := r.db.Where("auto_delete_enabled = ?", true).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list auto-delete users failed: %w", err)
	}
	return users, nil
}

// UpdateProfile applies the given column values to the user row.
func (r *UserRepository) UpdateProfile(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.Model(&model.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update user profile failed: %w", err)
	}
	return nil
}

// Deactivate soft-deletes the account. The row itself is removed only
// by the erasure engine.
func (r *UserRepository) Deactivate(id uint) error {
	if err := r.db.Model(&model.User{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("deactivate user failed: %w", err)
	}
	return nil
}

// SetRetentionPolicy persists the horizon and enables auto-delete.
func (r *UserRepository) SetRetentionPolicy(id uint, retentionHours int) error {
	updates := map[string]interface{}{
		"retention_hours":     retentionHours,
		"auto_delete_enabled": true,
	}
	if err := r.db.Model(&model.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("set retention policy failed: %w", err)
	}
	return nil
}
