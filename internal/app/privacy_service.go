package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"interviewai-backend/internal/index"
	"interviewai-backend/internal/model"
	"interviewai-backend/internal/repository"
)

// SummaryCache caches per-user data summaries. Implementations must
// treat a miss as (nil, false, nil).
type SummaryCache interface {
	GetSummary(ctx context.Context, userID uint) (*DataSummary, bool, error)
	SetSummary(ctx context.Context, userID uint, summary *DataSummary) error
	DeleteSummary(ctx context.Context, userID uint) error
}

// PrivacyService is the single point of deletion truth: every hard
// delete of user data goes through its cascade transactions. It holds
// the gorm handle directly because the cascade and the export snapshot
// must each run inside one transaction.
type PrivacyService struct {
	db                *gorm.DB
	userRepo          *repository.UserRepository
	gateway           index.Gateway
	cache             SummaryCache
	maxRetentionHours int
}

func NewPrivacyService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	gateway index.Gateway,
	cache SummaryCache,
	maxRetentionHours int,
) *PrivacyService {
	if maxRetentionHours <= 0 {
		maxRetentionHours = 168
	}
	if gateway == nil {
		gateway = index.Noop{}
	}
	return &PrivacyService{
		db:                db,
		userRepo:          userRepo,
		gateway:           gateway,
		cache:             cache,
		maxRetentionHours: maxRetentionHours,
	}
}

// RetentionPolicy is the per-user sweep configuration.
type RetentionPolicy struct {
	Enabled        bool `json:"enabled"`
	RetentionHours int  `json:"retention_hours"`
}

func (s *PrivacyService) GetPolicy(userID uint) (*RetentionPolicy, error) {
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
	return &RetentionPolicy{
		Enabled:        user.AutoDeleteEnabled,
		RetentionHours: user.RetentionHours,
	}, nil
}

// SetPolicy validates the horizon, persists it and enables auto-delete.
func (s *PrivacyService) SetPolicy(ctx context.Context, userID uint, retentionHours int) (*RetentionPolicy, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if retentionHours < 1 || retentionHours > s.maxRetentionHours {
		return nil, ErrRetentionOutOfRange
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := s.userRepo.SetRetentionPolicy(userID, retentionHours); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, userID)
	return &RetentionPolicy{Enabled: true, RetentionHours: retentionHours}, nil
}

// EraseUser removes everything owned by the user: index entries
// (best-effort, outside the transaction), then audit events, segments,
// suggestions, sessions, documents and the user row itself, in one
// atomic transaction. Calling it again after success is a NotFound
// no-op.
func (s *PrivacyService) EraseUser(ctx context.Context, userID uint) (*DeletionReport, error) {
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

	report := &DeletionReport{UserID: userID}

	// The index is a derived cache, not a source of truth. Its failure
	// is logged and reported, never raised, and no store locks are held
	// across this call.
	if err := s.gateway.DeleteByOwner(ctx, userID); err != nil {
		log.Printf("index delete by owner failed for user %d: %v", userID, err)
		report.IndexError = err.Error()
	} else {
		report.IndexDeleted = true
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&model.AuditEvent{})
		if res.Error != nil {
			return fmt.Errorf("delete audit events failed: %w", res.Error)
		}
		report.AuditEvents = res.RowsAffected

		var sessionIDs []uint
		if err := tx.Model(&model.Session{}).Where("user_id = ?", userID).Pluck("id", &sessionIDs).Error; err != nil {
			return fmt.Errorf("list session ids failed: %w", err)
		}

		if len(sessionIDs) > 0 {
			res = tx.Where("session_id IN ?", sessionIDs).Delete(&model.Segment{})
			if res.Error != nil {
				return fmt.Errorf("delete segments failed: %w", res.Error)
			}
			report.Segments = res.RowsAffected

			res = tx.Where("session_id IN ?", sessionIDs).Delete(&model.Suggestion{})
			if res.Error != nil {
				return fmt.Errorf("delete suggestions failed: %w", res.Error)
			}
			report.Suggestions = res.RowsAffected
		}

		res = tx.Where("user_id = ?", userID).Delete(&model.Session{})
		if res.Error != nil {
			return fmt.Errorf("delete sessions failed: %w", res.Error)
		}
		report.Sessions = res.RowsAffected

		res = tx.Where("user_id = ?", userID).Delete(&model.Document{})
		if res.Error != nil {
			return fmt.Errorf("delete documents failed: %w", res.Error)
		}
		report.Documents = res.RowsAffected

		// The user row goes last so concurrent readers never see
		// dependents without their owner.
		res = tx.Where("id = ?", userID).Delete(&model.User{})
		if res.Error != nil {
			return fmt.Errorf("delete user failed: %w", res.Error)
		}
		report.Users = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.DeletedAt = time.Now().UTC()
	s.invalidateSummary(ctx, userID)
	return report, nil
}

// EraseExpired applies the same cascade scoped to records older than
// cutoff: audit events by created_at, closed sessions by ended_at,
// their segments and suggestions. Open sessions, documents and the
// user row are never touched by expiry.
func (s *PrivacyService) EraseExpired(ctx context.Context, userID uint, cutoff time.Time) (*DeletionReport, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	report := &DeletionReport{UserID: userID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND created_at < ?", userID, cutoff).Delete(&model.AuditEvent{})
		if res.Error != nil {
			return fmt.Errorf("delete expired audit events failed: %w", res.Error)
		}
		report.AuditEvents = res.RowsAffected

		var sessionIDs []uint
		if err := tx.Model(&model.Session{}).
			Where("user_id = ? AND ended_at IS NOT NULL AND ended_at < ?", userID, cutoff).
			Pluck("id", &sessionIDs).Error; err != nil {
			return fmt.Errorf("list expired session ids failed: %w", err)
		}
		if len(sessionIDs) == 0 {
			return nil
		}

		res = tx.Where("session_id IN ?", sessionIDs).Delete(&model.Segment{})
		if res.Error != nil {
			return fmt.Errorf("delete expired segments failed: %w", res.Error)
		}
		report.Segments = res.RowsAffected

		res = tx.Where("session_id IN ?", sessionIDs).Delete(&model.Suggestion{})
		if res.Error != nil {
			return fmt.Errorf("delete expired suggestions failed: %w", res.Error)
		}
		report.Suggestions = res.RowsAffected

		res = tx.Where("id IN ?", sessionIDs).Delete(&model.Session{})
		if res.Error != nil {
			return fmt.Errorf("delete expired sessions failed: %w", res.Error)
		}
		report.Sessions = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.DeletedAt = time.Now().UTC()
	if report.Sessions > 0 || report.AuditEvents > 0 {
		s.invalidateSummary(ctx, userID)
	}
	return report, nil
}

// EraseSession cascades one explicit session: segments, suggestions,
// then the session row, in one transaction. This is the deletion path
// behind the session CRUD surface.
func (s *PrivacyService) EraseSession(ctx context.Context, userID, sessionID uint) (*DeletionReport, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}

	report := &DeletionReport{UserID: userID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.Session
		if err := tx.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("get session failed: %w", err)
		}

		res := tx.Where("session_id = ?", sessionID).Delete(&model.Segment{})
		if res.Error != nil {
			return fmt.Errorf("delete segments failed: %w", res.Error)
		}
		report.Segments = res.RowsAffected

		res = tx.Where("session_id = ?", sessionID).Delete(&model.Suggestion{})
		if res.Error != nil {
			return fmt.Errorf("delete suggestions failed: %w", res.Error)
		}
		report.Suggestions = res.RowsAffected

		res = tx.Where("id = ?", sessionID).Delete(&model.Session{})
		if res.Error != nil {
			return fmt.Errorf("delete session failed: %w", res.Error)
		}
		report.Sessions = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.DeletedAt = time.Now().UTC()
	s.invalidateSummary(ctx, userID)
	return report, nil
}

// DataSummary is the privacy-dashboard view of what the store holds
// for one user.
type DataSummary struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`

	Documents   int64 `json:"documents"`
	Sessions    int64 `json:"sessions"`
	Segments    int64 `json:"segments"`
	Suggestions int64 `json:"suggestions"`
	AuditEvents int64 `json:"audit_events"`

	AutoDeleteEnabled bool   `json:"auto_delete_enabled"`
	RetentionHours    int    `json:"retention_hours"`
	GeneratedAt       string `json:"generated_at"`
}

func (s *PrivacyService) DataSummary(ctx context.Context, userID uint) (*DataSummary, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	if s.cache != nil {
		if cached, hit, err := s.cache.GetSummary(ctx, userID); err == nil && hit {
			return cached, nil
		}
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	summary := &DataSummary{
		UserID:            userID,
		Email:             user.Email,
		CreatedAt:         formatTime(user.CreatedAt),
		AutoDeleteEnabled: user.AutoDeleteEnabled,
		RetentionHours:    user.RetentionHours,
		GeneratedAt:       formatTime(time.Now()),
	}

	db := s.db.WithContext(ctx)
	if err := db.Model(&model.Document{}).Where("user_id = ? AND is_active = ?", userID, true).Count(&summary.Documents).Error; err != nil {
		return nil, fmt.Errorf("count documents failed: %w", err)
	}
	if err := db.Model(&model.Session{}).Where("user_id = ?", userID).Count(&summary.Sessions).Error; err != nil {
		return nil, fmt.Errorf("count sessions failed: %w", err)
	}

	var sessionIDs []uint
	if err := db.Model(&model.Session{}).Where("user_id = ?", userID).Pluck("id", &sessionIDs).Error; err != nil {
		return nil, fmt.Errorf("list session ids failed: %w", err)
	}
	if len(sessionIDs) > 0 {
		if err := db.Model(&model.Segment{}).Where("session_id IN ?", sessionIDs).Count(&summary.Segments).Error; err != nil {
			return nil, fmt.Errorf("count segments failed: %w", err)
		}
		if err := db.Model(&model.Suggestion{}).Where("session_id IN ?", sessionIDs).Count(&summary.Suggestions).Error; err != nil {
			return nil, fmt.Errorf("count suggestions failed: %w", err)
		}
	}
	if err := db.Model(&model.AuditEvent{}).Where("user_id = ?", userID).Count(&summary.AuditEvents).Error; err != nil {
		return nil, fmt.Errorf("count audit events failed: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.SetSummary(ctx, userID, summary)
	}
	return summary, nil
}

func (s *PrivacyService) invalidateSummary(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteSummary(ctx, userID); err != nil {
		log.Printf("invalidate summary cache failed for user %d: %v", userID, err)
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
