package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"interviewai-backend/internal/model"
	"interviewai-backend/internal/repository"
)

func newPrivacyService(db *gorm.DB, gateway *fakeGateway) *PrivacyService {
	return NewPrivacyService(db, repository.NewUserRepository(db), gateway, nil, 168)
}

func TestEraseUserCascades(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	svc := newPrivacyService(db, gateway)

	user := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")

	endedAt := time.Now().Add(-time.Hour)
	s1 := seedSession(t, db, user.ID, &endedAt)
	s2 := seedSession(t, db, user.ID, nil)
	seedSegment(t, db, s1.ID, "tell me about yourself")
	seedSegment(t, db, s2.ID, "what is a goroutine")
	seedSuggestion(t, db, s1.ID)
	seedDocument(t, db, user.ID, "aaa111")
	seedAuditEvent(t, db, user.ID, time.Now())

	otherSession := seedSession(t, db, other.ID, nil)
	seedSegment(t, db, otherSession.ID, "unrelated")
	seedDocument(t, db, other.ID, "bbb222")

	report, err := svc.EraseUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), report.Sessions)
	require.Equal(t, int64(2), report.Segments)
	require.Equal(t, int64(1), report.Suggestions)
	require.Equal(t, int64(1), report.Documents)
	require.Equal(t, int64(1), report.AuditEvents)
	require.Equal(t, int64(1), report.Users)
	require.True(t, report.IndexDeleted)
	require.Equal(t, []uint{user.ID}, gateway.deleteOwnerCalls)

	require.Zero(t, countRows(t, db, &model.Session{}, "user_id = ?", user.ID))
	require.Zero(t, countRows(t, db, &model.Segment{}, "session_id IN ?", []uint{s1.ID, s2.ID}))
	require.Zero(t, countRows(t, db, &model.Document{}, "user_id = ?", user.ID))
	require.Zero(t, countRows(t, db, &model.AuditEvent{}, "user_id = ?", user.ID))
	require.Zero(t, countRows(t, db, &model.User{}, "id = ?", user.ID))

	// Other users are untouched.
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "user_id = ?", other.ID))
	require.Equal(t, int64(1), countRows(t, db, &model.Segment{}, "session_id = ?", otherSession.ID))
	require.Equal(t, int64(1), countRows(t, db, &model.Document{}, "user_id = ?", other.ID))
}

func TestEraseUserIsNotFoundAfterSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := newPrivacyService(db, &fakeGateway{})
	user := seedUser(t, db, "alice")

	_, err := svc.EraseUser(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.EraseUser(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestEraseUserSurvivesIndexFailure(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{failDelete: true}
	svc := newPrivacyService(db, gateway)

	user := seedUser(t, db, "alice")
	seedDocument(t, db, user.ID, "ccc333")

	report, err := svc.EraseUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, report.IndexDeleted)
	require.NotEmpty(t, report.IndexError)

	// The relational cascade still ran to completion.
	require.Zero(t, countRows(t, db, &model.User{}, "id = ?", user.ID))
	require.Zero(t, countRows(t, db, &model.Document{}, "user_id = ?", user.ID))
}

func TestEraseExpiredDeletesOnlyClosedOldSessions(t *testing.T) {
	db := newTestDB(t)
	svc := newPrivacyService(db, &fakeGateway{})
	user := seedUser(t, db, "alice")

	now := time.Now()
	oldEnd := now.Add(-30 * time.Hour)
	recentEnd := now.Add(-time.Hour)

	expired := seedSession(t, db, user.ID, &oldEnd)
	recent := seedSession(t, db, user.ID, &recentEnd)
	open := seedSession(t, db, user.ID, nil)
	seedSegment(t, db, expired.ID, "expired transcript")
	seedSegment(t, db, recent.ID, "recent transcript")
	seedSuggestion(t, db, expired.ID)

	seedAuditEvent(t, db, user.ID, now.Add(-30*time.Hour))
	seedAuditEvent(t, db, user.ID, now.Add(-time.Minute))

	cutoff := now.Add(-24 * time.Hour)
	report, err := svc.EraseExpired(context.Background(), user.ID, cutoff)
	require.NoError(t, err)
	require.Equal(t, int64(1), report.Sessions)
	require.Equal(t, int64(1), report.Segments)
	require.Equal(t, int64(1), report.Suggestions)
	require.Equal(t, int64(1), report.AuditEvents)

	require.Zero(t, countRows(t, db, &model.Session{}, "id = ?", expired.ID))
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "id = ?", recent.ID))
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "id = ?", open.ID))
	require.Equal(t, int64(1), countRows(t, db, &model.AuditEvent{}, "user_id = ?", user.ID))

	// Expiry never touches documents or the user row.
	require.Equal(t, int64(1), countRows(t, db, &model.User{}, "id = ?", user.ID))
}

func TestEraseExpiredNoMatchesIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := newPrivacyService(db, &fakeGateway{})
	user := seedUser(t, db, "alice")
	seedSession(t, db, user.ID, nil)

	report, err := svc.EraseExpired(context.Background(), user.ID, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Zero(t, report.Sessions)
	require.Zero(t, report.AuditEvents)
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "user_id = ?", user.ID))
}

func TestEraseSessionChecksOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newPrivacyService(db, &fakeGateway{})
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	session := seedSession(t, db, alice.ID, nil)
	seedSegment(t, db, session.ID, "private transcript")
	seedSuggestion(t, db, session.ID)

	_, err := svc.EraseSession(context.Background(), bob.ID, session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.Equal(t, int64(1), countRows(t, db, &model.Session{}, "id = ?", session.ID))

	report, err := svc.EraseSession(context.Background(), alice.ID, session.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), report.Sessions)
	require.Equal(t, int64(1), report.Segments)
	require.Equal(t, int64(1), report.Suggestions)
	require.Zero(t, countRows(t, db, &model.Session{}, "id = ?", session.ID))
	require.Zero(t, countRows(t, db, &model.Segment{}, "session_id = ?", session.ID))
}

func TestSetPolicyBounds(t *testing.T) {
	db := newTestDB(t)
	svc := newPrivacyService(db, &fakeGateway{})
	user := seedUser(t, db, "alice")

	_, err := svc.SetPolicy(context.Background(), user.ID, 0)
	require.ErrorIs(t, err, ErrRetentionOutOfRange)

	_, err = svc.SetPolicy(context.Background(), user.ID, 169)
	require.ErrorIs(t, err, ErrRetentionOutOfRange)

	policy, err := svc.SetPolicy(context.Background(), user.ID, 48)
	require.NoError(t, err)
	require.True(t, policy.Enabled)
	require.Equal(t, 48, policy.RetentionHours)

	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, 48, stored.RetentionHours)
	require.True(t, stored.AutoDeleteEnabled)
}

func TestGetPolicyUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newPrivacyService(db, &fakeGateway{})

	_, err := svc.GetPolicy(9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

// memorySummaryCache is a map-backed SummaryCache for tests.
type memorySummaryCache struct {
	entries map[uint]*DataSummary
}

func (c *memorySummaryCache) GetSummary(_ context.Context, userID uint) (*DataSummary, bool, error) {
	s, ok := c.entries[userID]
	return s, ok, nil
}

func (c *memorySummaryCache) SetSummary(_ context.Context, userID uint, summary *DataSummary) error {
	c.entries[userID] = summary
	return nil
}

func (c *memorySummaryCache) DeleteSummary(_ context.Context, userID uint) error {
	delete(c.entries, userID)
	return nil
}

func TestDataSummaryCountsAndCaches(t *testing.T) {
	db := newTestDB(t)
	cache := &memorySummaryCache{entries: map[uint]*DataSummary{}}
	svc := NewPrivacyService(db, repository.NewUserRepository(db), &fakeGateway{}, cache, 168)

	user := seedUser(t, db, "alice")
	session := seedSession(t, db, user.ID, nil)
	seedSegment(t, db, session.ID, "hello")
	seedSegment(t, db, session.ID, "world")
	seedSuggestion(t, db, session.ID)
	seedDocument(t, db, user.ID, "ddd444")
	seedAuditEvent(t, db, user.ID, time.Now())

	summary, err := svc.DataSummary(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), summary.Documents)
	require.Equal(t, int64(1), summary.Sessions)
	require.Equal(t, int64(2), summary.Segments)
	require.Equal(t, int64(1), summary.Suggestions)
	require.Equal(t, int64(1), summary.AuditEvents)
	require.True(t, summary.AutoDeleteEnabled)
	require.Equal(t, 24, summary.RetentionHours)
	require.Contains(t, cache.entries, user.ID)

	// A second read comes from the cache even after the store changes.
	seedDocument(t, db, user.ID, "eee555")
	again, err := svc.DataSummary(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), again.Documents)

	// Erasure invalidates the cached entry.
	_, err = svc.EraseUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotContains(t, cache.entries, user.ID)
}
