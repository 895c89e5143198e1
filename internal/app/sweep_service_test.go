package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"interviewai-backend/internal/model"
	"interviewai-backend/internal/repository"
)

func TestRunSweepAppliesPerUserHorizon(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	privacy := NewPrivacyService(db, userRepo, &fakeGateway{}, nil, 168)
	sweep := NewSweepService(userRepo, privacy)

	now := time.Now()

	// alice keeps the 24h default: her 30h-old closed session expires,
	// the 1h-old one survives.
	alice := seedUser(t, db, "alice")
	aliceOld := now.Add(-30 * time.Hour)
	aliceRecent := now.Add(-time.Hour)
	expired := seedSession(t, db, alice.ID, &aliceOld)
	kept := seedSession(t, db, alice.ID, &aliceRecent)
	seedSegment(t, db, expired.ID, "stale transcript")

	// bob has a 72h horizon, so his 30h-old session survives.
	bob := seedUser(t, db, "bob")
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", bob.ID).
		Update("retention_hours", 72).Error)
	bobOld := now.Add(-30 * time.Hour)
	bobSession := seedSession(t, db, bob.ID, &bobOld)

	// carol opted out with the never-delete sentinel.
	carol := seedUser(t, db, "carol")
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", carol.ID).
		Update("retention_hours", 0).Error)
	carolOld := now.Add(-200 * time.Hour)
	carolSession := seedSession(t, db, carol.ID, &carolOld)

	report, err := sweep.RunSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.UsersSwept)
	require.Equal(t, 1, report.UsersSkipped)
	require.Empty(t, report.FailedUserIDs)
	require.Equal(t, int64(1), report.Sessions)
	require.Equal(t, int64(1), report.Segments)

	require.Zero(t, countRows(t, db, &model.Session{}, "id = ?", expired.ID))
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "id = ?", kept.ID))
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "id = ?", bobSession.ID))
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "id = ?", carolSession.ID))
}

func TestRunSweepNeverTouchesOpenSessions(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	privacy := NewPrivacyService(db, userRepo, &fakeGateway{}, nil, 168)
	sweep := NewSweepService(userRepo, privacy)

	user := seedUser(t, db, "alice")
	open := seedSession(t, db, user.ID, nil)
	// Push the start time far behind any horizon.
	require.NoError(t, db.Model(&model.Session{}).Where("id = ?", open.ID).
		Update("started_at", time.Now().Add(-500*time.Hour)).Error)

	report, err := sweep.RunSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.UsersSwept)
	require.Zero(t, report.Sessions)
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "id = ?", open.ID))
}

func TestRunSweepDeletesExpiredAuditEvents(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	privacy := NewPrivacyService(db, userRepo, &fakeGateway{}, nil, 168)
	sweep := NewSweepService(userRepo, privacy)

	user := seedUser(t, db, "alice")
	seedAuditEvent(t, db, user.ID, time.Now().Add(-30*time.Hour))
	seedAuditEvent(t, db, user.ID, time.Now().Add(-time.Minute))

	report, err := sweep.RunSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), report.AuditEvents)
	require.Equal(t, int64(1), countRows(t, db, &model.AuditEvent{}, "user_id = ?", user.ID))
}

func TestRunSweepIsolatesPerUserFailures(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	privacy := NewPrivacyService(db, userRepo, &fakeGateway{}, nil, 168)
	sweep := NewSweepService(userRepo, privacy)

	now := time.Now()
	old := now.Add(-30 * time.Hour)

	alice := seedUser(t, db, "alice")
	aliceSession := seedSession(t, db, alice.ID, &old)
	seedSegment(t, db, aliceSession.ID, "doomed transcript")
	seedAuditEvent(t, db, alice.ID, old)

	bob := seedUser(t, db, "bob")
	bobSession := seedSession(t, db, bob.ID, &old)
	seedSegment(t, db, bobSession.ID, "bob transcript")

	// Make alice's session undeletable so her whole erase transaction
	// fails mid-cascade.
	require.NoError(t, db.Exec(fmt.Sprintf(
		`CREATE TRIGGER block_session_delete BEFORE DELETE ON sessions
		 WHEN OLD.id = %d BEGIN SELECT RAISE(ABORT, 'induced failure'); END`,
		aliceSession.ID)).Error)

	report, err := sweep.RunSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.UsersSwept)
	require.Equal(t, []uint{alice.ID}, report.FailedUserIDs)
	require.Equal(t, int64(1), report.Sessions)
	require.Equal(t, int64(1), report.Segments)
	require.Zero(t, report.AuditEvents)

	// alice's transaction rolled back in full: the audit delete that
	// ran before the session delete is undone too.
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "id = ?", aliceSession.ID))
	require.Equal(t, int64(1), countRows(t, db, &model.Segment{}, "session_id = ?", aliceSession.ID))
	require.Equal(t, int64(1), countRows(t, db, &model.AuditEvent{}, "user_id = ?", alice.ID))

	// bob's expired rows are still gone.
	require.Zero(t, countRows(t, db, &model.Session{}, "id = ?", bobSession.ID))
	require.Zero(t, countRows(t, db, &model.Segment{}, "session_id = ?", bobSession.ID))
}

func TestRunSweepSkipsUsersWithAutoDeleteDisabled(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	privacy := NewPrivacyService(db, userRepo, &fakeGateway{}, nil, 168)
	sweep := NewSweepService(userRepo, privacy)

	user := seedUser(t, db, "alice")
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).
		Update("auto_delete_enabled", false).Error)
	old := time.Now().Add(-100 * time.Hour)
	session := seedSession(t, db, user.ID, &old)

	report, err := sweep.RunSweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, report.UsersSwept)
	require.Zero(t, report.UsersSkipped)
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "id = ?", session.ID))
}
