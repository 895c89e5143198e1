package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"interviewai-backend/internal/pkg/jwtutil"
	"interviewai-backend/internal/repository"
)

const testJWTSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testJWTSecret, time.Hour, 24)

	result, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "alice@example.com", result.User.Email)
	require.True(t, result.User.AutoDeleteEnabled)
	require.Equal(t, 24, result.User.RetentionHours)

	claims, err := jwtutil.ParseToken(testJWTSecret, result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)
	require.Equal(t, "alice", claims.Username)

	login, err := svc.Login(LoginInput{Username: "alice", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, result.User.ID, login.User.ID)

	_, err = svc.Login(LoginInput{Username: "alice", Password: "wrongpassword"})
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testJWTSecret, time.Hour, 24)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrUsernameExists)

	_, err = svc.Register(RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testJWTSecret, time.Hour, 24)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testJWTSecret, time.Hour, 24)

	result, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateAccount(result.User.ID))

	_, err = svc.Login(LoginInput{Username: "alice", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredential)

	// Deactivation is soft: the row still exists for export or erasure.
	user, err := svc.GetUserByID(result.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.False(t, user.IsActive)
}

func TestUpdateProfileLeavesRetentionAlone(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testJWTSecret, time.Hour, 24)

	result, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	modelName := "gpt-4o"
	position := "top-left"
	updated, err := svc.UpdateProfile(result.User.ID, UpdateProfileInput{
		PreferredModel:  &modelName,
		OverlayPosition: &position,
	})
	require.NoError(t, err)
	require.Equal(t, "gpt-4o", updated.PreferredModel)
	require.Equal(t, "top-left", updated.OverlayPosition)
	require.Equal(t, 24, updated.RetentionHours)
	require.True(t, updated.AutoDeleteEnabled)
}
