package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"interviewai-backend/internal/model"
	"interviewai-backend/internal/repository"
)

type capturePublisher struct {
	events []model.AuditEvent
}

func (p *capturePublisher) Publish(_ context.Context, event model.AuditEvent) error {
	p.events = append(p.events, event)
	return nil
}

func TestRecordNowRedactsPII(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewAuditEventRepository(db)
	svc := NewAuditService(repo, nil, 24*time.Hour)
	user := seedUser(t, db, "alice")

	err := svc.RecordNow(user.ID, "profile_updated", map[string]interface{}{
		"contact": "reach me at alice@example.com or 555-123-4567",
	}, "203.0.113.9", "test-agent")
	require.NoError(t, err)

	events, err := repo.ListByUserID(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	stored := events[0]
	require.Equal(t, "profile_updated", stored.EventType)
	require.Contains(t, stored.EventData, "[EMAIL]")
	require.Contains(t, stored.EventData, "[PHONE]")
	require.NotContains(t, stored.EventData, "alice@example.com")
	require.NotContains(t, stored.EventData, "555-123-4567")
}

func TestRecordSetsRetentionWindow(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewAuditEventRepository(db)
	svc := NewAuditService(repo, nil, 48*time.Hour)
	user := seedUser(t, db, "alice")

	before := time.Now()
	require.NoError(t, svc.Record(context.Background(), user.ID, "login", nil, "", ""))

	events, err := repo.ListByUserID(user.ID, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)

	until := events[0].RetentionUntil
	require.True(t, until.After(before.Add(47*time.Hour)))
	require.True(t, until.Before(before.Add(49*time.Hour)))
}

func TestRecordUsesPublisherWhenWired(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewAuditEventRepository(db)
	publisher := &capturePublisher{}
	svc := NewAuditService(repo, publisher, 24*time.Hour)
	user := seedUser(t, db, "alice")

	err := svc.Record(context.Background(), user.ID, "data_exported", map[string]interface{}{
		"export_id": "abc",
	}, "", "")
	require.NoError(t, err)

	// The event went to the queue, not straight to the store.
	require.Len(t, publisher.events, 1)
	require.Equal(t, "data_exported", publisher.events[0].EventType)
	require.Zero(t, countRows(t, db, &model.AuditEvent{}, "user_id = ?", user.ID))
}

func TestRecordRejectsEmptyEventType(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(repository.NewAuditEventRepository(db), nil, 24*time.Hour)

	err := svc.Record(context.Background(), 1, "", nil, "", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}
