package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interviewai-backend/internal/model"
)

const exportDataVersion = "1.0"

// ExportDocument is the portable snapshot of everything a user owns.
// Timestamps are RFC3339 UTC strings so the document is unambiguous
// outside the system.
type ExportDocument struct {
	ExportInfo  ExportInfo         `json:"export_info"`
	UserProfile ExportProfile      `json:"user_profile"`
	Documents   []ExportedDocument `json:"documents"`
	Sessions    []ExportedSession  `json:"sessions"`
	AuditEvents []ExportedAudit    `json:"audit_events"`
}

type ExportInfo struct {
	ExportID    string `json:"export_id"`
	UserID      uint   `json:"user_id"`
	ExportDate  string `json:"export_date"`
	DataVersion string `json:"data_version"`
}

type ExportProfile struct {
	ID                uint   `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	AuthProvider      string `json:"auth_provider"`
	CreatedAt         string `json:"created_at"`
	IsActive          bool   `json:"is_active"`
	IsVerified        bool   `json:"is_verified"`
	AutoDeleteEnabled bool   `json:"auto_delete_enabled"`
	RetentionHours    int    `json:"retention_hours"`
	PreferredModel    string `json:"preferred_model"`
	OverlayPosition   string `json:"overlay_position"`
}

type ExportedDocument struct {
	ID              uint   `json:"id"`
	Filename        string `json:"filename"`
	FileSize        int64  `json:"file_size"`
	MimeType        string `json:"mime_type"`
	SHA256Hash      string `json:"sha256_hash"`
	Skills          string `json:"skills"`
	ExperienceYears int    `json:"experience_years"`
	EducationLevel  string `json:"education_level"`
	CurrentRole     string `json:"current_role"`
	IsActive        bool   `json:"is_active"`
	UploadedAt      string `json:"uploaded_at"`
}

type ExportedSession struct {
	ID              uint                 `json:"id"`
	Platform        string               `json:"platform"`
	SessionType     string               `json:"session_type"`
	StartedAt       string               `json:"started_at"`
	EndedAt         *string              `json:"ended_at"`
	DurationMinutes int                  `json:"duration_minutes"`
	IsActive        bool                 `json:"is_active"`
	PrivacyMode     bool                 `json:"privacy_mode"`
	Segments        []ExportedSegment    `json:"segments"`
	Suggestions     []ExportedSuggestion `json:"suggestions"`
}

type ExportedSegment struct {
	ID         uint   `json:"id"`
	StartMs    int    `json:"start_ms"`
	EndMs      int    `json:"end_ms"`
	Text       string `json:"text"`
	Speaker    string `json:"speaker"`
	Confidence int    `json:"confidence"`
	IsFinal    bool   `json:"is_final"`
	CreatedAt  string `json:"created_at"`
}

type ExportedSuggestion struct {
	ID             uint   `json:"id"`
	SegmentID      *uint  `json:"segment_id"`
	Content        string `json:"content"`
	SuggestionType string `json:"suggestion_type"`
	LLMModel       string `json:"llm_model"`
	Accepted       bool   `json:"accepted"`
	Dismissed      bool   `json:"dismissed"`
	FeedbackRating *int   `json:"feedback_rating"`
	CreatedAt      string `json:"created_at"`
}

type ExportedAudit struct {
	ID             uint   `json:"id"`
	EventType      string `json:"event_type"`
	EventData      string `json:"event_data"`
	IPAddress      string `json:"ip_address"`
	UserAgent      string `json:"user_agent"`
	CreatedAt      string `json:"created_at"`
	RetentionUntil string `json:"retention_until"`
}

// ExportUser assembles the snapshot inside one transaction so a
// concurrent erasure or sweep can never produce a torn document: the
// reader observes either the pre- or the post-delete state.
func (s *PrivacyService) ExportUser(ctx context.Context, userID uint) (*ExportDocument, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	var doc *ExportDocument
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("query user failed: %w", err)
		}

		var documents []model.Document
		if err := tx.Where("user_id = ?", userID).Order("uploaded_at ASC").Find(&documents).Error; err != nil {
			return fmt.Errorf("list documents failed: %w", err)
		}

		var sessions []model.Session
		if err := tx.Where("user_id = ?", userID).Order("started_at ASC").Find(&sessions).Error; err != nil {
			return fmt.Errorf("list sessions failed: %w", err)
		}

		sessionIDs := make([]uint, len(sessions))
		for i := range sessions {
			sessionIDs[i] = sessions[i].ID
		}

		segmentsBySession := make(map[uint][]model.Segment)
		suggestionsBySession := make(map[uint][]model.Suggestion)
		if len(sessionIDs) > 0 {
			var segments []model.Segment
			if err := tx.Where("session_id IN ?", sessionIDs).Order("start_ms ASC").Find(&segments).Error; err != nil {
				return fmt.Errorf("list segments failed: %w", err)
			}
			for _, seg := range segments {
				segmentsBySession[seg.SessionID] = append(segmentsBySession[seg.SessionID], seg)
			}

			var suggestions []model.Suggestion
			if err := tx.Where("session_id IN ?", sessionIDs).Order("created_at ASC").Find(&suggestions).Error; err != nil {
				return fmt.Errorf("list suggestions failed: %w", err)
			}
			for _, sug := range suggestions {
				suggestionsBySession[sug.SessionID] = append(suggestionsBySession[sug.SessionID], sug)
			}
		}

		var audits []model.AuditEvent
		if err := tx.Where("user_id = ?", userID).Order("created_at ASC").Find(&audits).Error; err != nil {
			return fmt.Errorf("list audit events failed: %w", err)
		}

		doc = assembleExport(&user, documents, sessions, segmentsBySession, suggestionsBySession, audits)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func assembleExport(
	user *model.User,
	documents []model.Document,
	sessions []model.Session,
	segmentsBySession map[uint][]model.Segment,
	suggestionsBySession map[uint][]model.Suggestion,
	audits []model.AuditEvent,
) *ExportDocument {
	doc := &ExportDocument{
		ExportInfo: ExportInfo{
			ExportID:    uuid.NewString(),
			UserID:      user.ID,
			ExportDate:  formatTime(time.Now()),
			DataVersion: exportDataVersion,
		},
		UserProfile: ExportProfile{
			ID:                user.ID,
			Username:          user.Username,
			Email:             user.Email,
			AuthProvider:      user.AuthProvider,
			CreatedAt:         formatTime(user.CreatedAt),
			IsActive:          user.IsActive,
			IsVerified:        user.IsVerified,
			AutoDeleteEnabled: user.AutoDeleteEnabled,
			RetentionHours:    user.RetentionHours,
			PreferredModel:    user.PreferredModel,
			OverlayPosition:   user.OverlayPosition,
		},
		Documents:   make([]ExportedDocument, 0, len(documents)),
		Sessions:    make([]ExportedSession, 0, len(sessions)),
		AuditEvents: make([]ExportedAudit, 0, len(audits)),
	}

	for _, d := range documents {
		doc.Documents = append(doc.Documents, ExportedDocument{
			ID:              d.ID,
			Filename:        d.Filename,
			FileSize:        d.FileSize,
			MimeType:        d.MimeType,
			SHA256Hash:      d.SHA256Hash,
			Skills:          d.Skills,
			ExperienceYears: d.ExperienceYears,
			EducationLevel:  d.EducationLevel,
			CurrentRole:     d.CurrentRole,
			IsActive:        d.IsActive,
			UploadedAt:      formatTime(d.UploadedAt),
		})
	}

	for _, sess := range sessions {
		exported := ExportedSession{
			ID:              sess.ID,
			Platform:        sess.Platform,
			SessionType:     sess.SessionType,
			StartedAt:       formatTime(sess.StartedAt),
			EndedAt:         formatTimePtr(sess.EndedAt),
			DurationMinutes: sess.DurationMinutes,
			IsActive:        sess.IsActive,
			PrivacyMode:     sess.PrivacyMode,
			Segments:        make([]ExportedSegment, 0, len(segmentsBySession[sess.ID])),
			Suggestions:     make([]ExportedSuggestion, 0, len(suggestionsBySession[sess.ID])),
		}
		for _, seg := range segmentsBySession[sess.ID] {
			exported.Segments = append(exported.Segments, ExportedSegment{
				ID:         seg.ID,
				StartMs:    seg.StartMs,
				EndMs:      seg.EndMs,
				Text:       seg.Text,
				Speaker:    seg.Speaker,
				Confidence: seg.Confidence,
				IsFinal:    seg.IsFinal,
				CreatedAt:  formatTime(seg.CreatedAt),
			})
		}
		for _, sug := range suggestionsBySession[sess.ID] {
			exported.Suggestions = append(exported.Suggestions, ExportedSuggestion{
				ID:             sug.ID,
				SegmentID:      sug.SegmentID,
				Content:        sug.Content,
				SuggestionType: sug.SuggestionType,
				LLMModel:       sug.LLMModel,
				Accepted:       sug.Accepted,
				Dismissed:      sug.Dismissed,
				FeedbackRating: sug.FeedbackRating,
				CreatedAt:      formatTime(sug.CreatedAt),
			})
		}
		doc.Sessions = append(doc.Sessions, exported)
	}

	for _, a := range audits {
		doc.AuditEvents = append(doc.AuditEvents, ExportedAudit{
			ID:             a.ID,
			EventType:      a.EventType,
			EventData:      a.EventData,
			IPAddress:      a.IPAddress,
			UserAgent:      a.UserAgent,
			CreatedAt:      formatTime(a.CreatedAt),
			RetentionUntil: formatTime(a.RetentionUntil),
		})
	}

	return doc
}
