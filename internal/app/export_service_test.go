package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"interviewai-backend/internal/repository"
)

func TestExportUserSnapshot(t *testing.T) {
	db := newTestDB(t)
	svc := newPrivacyService(db, &fakeGateway{})
	user := seedUser(t, db, "alice")

	endedAt := time.Now().Add(-time.Hour)
	closed := seedSession(t, db, user.ID, &endedAt)
	open := seedSession(t, db, user.ID, nil)
	seedSegment(t, db, closed.ID, "walk me through your last project")
	seedSuggestion(t, db, closed.ID)
	seedDocument(t, db, user.ID, "fff666")
	seedAuditEvent(t, db, user.ID, time.Now())

	export, err := svc.ExportUser(context.Background(), user.ID)
	require.NoError(t, err)

	require.NotEmpty(t, export.ExportInfo.ExportID)
	require.Equal(t, user.ID, export.ExportInfo.UserID)
	require.Equal(t, "1.0", export.ExportInfo.DataVersion)

	_, err = time.Parse(time.RFC3339, export.ExportInfo.ExportDate)
	require.NoError(t, err)
	_, err = time.Parse(time.RFC3339, export.UserProfile.CreatedAt)
	require.NoError(t, err)

	require.Equal(t, "alice", export.UserProfile.Username)
	require.Equal(t, "alice@example.com", export.UserProfile.Email)
	require.Len(t, export.Documents, 1)
	require.Len(t, export.Sessions, 2)
	require.Len(t, export.AuditEvents, 1)

	// Segments and suggestions are nested under their session.
	var closedExport *ExportedSession
	for i := range export.Sessions {
		if export.Sessions[i].ID == closed.ID {
			closedExport = &export.Sessions[i]
		}
	}
	require.NotNil(t, closedExport)
	require.Len(t, closedExport.Segments, 1)
	require.Len(t, closedExport.Suggestions, 1)
	require.NotNil(t, closedExport.EndedAt)
	_, err = time.Parse(time.RFC3339, *closedExport.EndedAt)
	require.NoError(t, err)

	var openExport *ExportedSession
	for i := range export.Sessions {
		if export.Sessions[i].ID == open.ID {
			openExport = &export.Sessions[i]
		}
	}
	require.NotNil(t, openExport)
	require.Nil(t, openExport.EndedAt)
	require.Empty(t, openExport.Segments)
}

func TestExportUserNotFoundAfterErase(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrivacyService(db, repository.NewUserRepository(db), &fakeGateway{}, nil, 168)
	user := seedUser(t, db, "alice")

	_, err := svc.ExportUser(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.EraseUser(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.ExportUser(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}
