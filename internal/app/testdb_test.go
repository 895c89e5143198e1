package app

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"interviewai-backend/internal/model"
)

// newTestDB opens an isolated sqlite database in a per-test temp dir
// with the full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.Session{},
		&model.Segment{},
		&model.Suggestion{},
		&model.AuditEvent{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:          username,
		Email:             username + "@example.com",
		PasswordHash:      "x",
		AuthProvider:      "email",
		IsActive:          true,
		AutoDeleteEnabled: true,
		RetentionHours:    24,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedSession(t *testing.T, db *gorm.DB, userID uint, endedAt *time.Time) *model.Session {
	t.Helper()
	session := &model.Session{
		UserID:      userID,
		Platform:    "zoom",
		SessionType: "interview",
		EndedAt:     endedAt,
		IsActive:    endedAt == nil,
	}
	require.NoError(t, db.Create(session).Error)
	return session
}

func seedSegment(t *testing.T, db *gorm.DB, sessionID uint, text string) *model.Segment {
	t.Helper()
	segment := &model.Segment{
		SessionID: sessionID,
		StartMs:   0,
		EndMs:     1500,
		Text:      text,
		Speaker:   "interviewer",
		IsFinal:   true,
	}
	require.NoError(t, db.Create(segment).Error)
	return segment
}

func seedSuggestion(t *testing.T, db *gorm.DB, sessionID uint) *model.Suggestion {
	t.Helper()
	suggestion := &model.Suggestion{
		SessionID:      sessionID,
		Content:        "mention the migration project",
		SuggestionType: "answer",
		LLMModel:       "gpt-4o-mini",
	}
	require.NoError(t, db.Create(suggestion).Error)
	return suggestion
}

func seedDocument(t *testing.T, db *gorm.DB, userID uint, hash string) *model.Document {
	t.Helper()
	doc := &model.Document{
		UserID:     userID,
		Filename:   "resume.pdf",
		FileSize:   2048,
		MimeType:   "application/pdf",
		SHA256Hash: hash,
		IsActive:   true,
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func seedAuditEvent(t *testing.T, db *gorm.DB, userID uint, createdAt time.Time) *model.AuditEvent {
	t.Helper()
	event := &model.AuditEvent{
		UserID:         userID,
		EventType:      "login",
		CreatedAt:      createdAt,
		RetentionUntil: createdAt.Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func countRows(t *testing.T, db *gorm.DB, value interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(value).Where(query, args...).Count(&n).Error)
	return n
}

// fakeGateway records calls and optionally fails deletes, standing in
// for the vector index.
type fakeGateway struct {
	deleteOwnerCalls []uint
	deleteDocCalls   []string
	indexedDocs      []string
	failDelete       bool
}

func (g *fakeGateway) IndexDocument(_ context.Context, userID, documentID uint, _ string) error {
	g.indexedDocs = append(g.indexedDocs, fmt.Sprintf("%d:%d", userID, documentID))
	return nil
}

func (g *fakeGateway) DeleteByOwner(_ context.Context, userID uint) error {
	if g.failDelete {
		return fmt.Errorf("index unavailable")
	}
	g.deleteOwnerCalls = append(g.deleteOwnerCalls, userID)
	return nil
}

func (g *fakeGateway) DeleteByDocument(_ context.Context, userID, documentID uint) error {
	if g.failDelete {
		return fmt.Errorf("index unavailable")
	}
	g.deleteDocCalls = append(g.deleteDocCalls, fmt.Sprintf("%d:%d", userID, documentID))
	return nil
}
