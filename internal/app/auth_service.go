package app

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"interviewai-backend/internal/model"
	"interviewai-backend/internal/pkg/jwtutil"
	"interviewai-backend/internal/repository"
)

type AuthService struct {
	userRepo              *repository.UserRepository
	jwtSecret             string
	jwtExpiration         time.Duration
	defaultRetentionHours int
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, defaultRetentionHours int) *AuthService {
	if defaultRetentionHours <= 0 {
		defaultRetentionHours = 24
	}
	return &AuthService{
		userRepo:              userRepo,
		jwtSecret:             jwtSecret,
		jwtExpiration:         jwtExpiration,
		defaultRetentionHours: defaultRetentionHours,
	}
}

func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if username == "" || email == "" || password == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existingByName, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:          username,
		Email:             email,
		PasswordHash:      string(hash),
		AuthProvider:      "email",
		IsActive:          true,
		AutoDeleteEnabled: true,
		RetentionHours:    s.defaultRetentionHours,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}

// UpdateProfileInput carries the writable preference fields. Retention
// settings are deliberately absent: the policy has its own validated
// operation.
type UpdateProfileInput struct {
	PreferredModel  *string
	OverlayPosition *string
}

func (s *AuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	updates := map[string]interface{}{}
	if input.PreferredModel != nil {
		updates["preferred_model"] = strings.TrimSpace(*input.PreferredModel)
	}
	if input.OverlayPosition != nil {
		updates["overlay_position"] = strings.TrimSpace(*input.OverlayPosition)
	}
	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}

// DeactivateAccount is the soft delete behind DELETE /users/me. It
// flips is_active only; hard erasure is a separate privacy operation.
func (s *AuthService) DeactivateAccount(userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.Deactivate(userID)
}
