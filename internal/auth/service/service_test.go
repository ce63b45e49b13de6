package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/wasafinance/internal/auth/domain"
	"github.com/smallbiznis/wasafinance/internal/auth/repository"
	"github.com/smallbiznis/wasafinance/internal/clock"
	"github.com/smallbiznis/wasafinance/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (authdomain.Service, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&authdomain.User{}, &authdomain.Session{}))

	repo, sessionRepo := repository.New(dbConn)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2024, 10, 15, 1, 0, 0, 0, time.UTC))
	return New(Params{
		Log:         zap.NewNop(),
		Repo:        repo,
		SessionRepo: sessionRepo,
		GenID:       node,
		Clock:       clk,
	}), clk
}

func createUser(t *testing.T, svc authdomain.Service, email, role string) *authdomain.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    email,
		Password: "correct-password",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, authdomain.CreateUserRequest{Email: "not-an-email", Password: "correct-password"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidEmail)

	_, err = svc.CreateUser(ctx, authdomain.CreateUserRequest{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, authdomain.ErrWeakPassword)

	_, err = svc.CreateUser(ctx, authdomain.CreateUserRequest{Email: "a@example.com", Password: "correct-password", Role: "owner"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidRole)

	user := createUser(t, svc, "  Alice@Example.com ", "")
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.DisplayName)
	assert.Equal(t, authdomain.RoleViewer, user.Role)
	assert.NotContains(t, user.PasswordHash, "correct-password")

	_, err = svc.CreateUser(ctx, authdomain.CreateUserRequest{Email: "alice@example.com", Password: "correct-password"})
	assert.ErrorIs(t, err, authdomain.ErrUserExists)

	count, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	createUser(t, svc, "alice@example.com", "admin")

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-password",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLoginAuthenticateLogout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice@example.com", "admin")

	result, err := svc.Login(ctx, authdomain.LoginRequest{
		Email:     "ALICE@example.com",
		Password:  "correct-password",
		IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RawToken)
	assert.Equal(t, user.ID, result.Principal.UserID)
	assert.Equal(t, authdomain.RoleAdmin, result.Principal.Role)

	principal, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", principal.Email)
	assert.Equal(t, result.SessionID, principal.SessionID)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, authdomain.ErrSessionRevoked)

	_, err = svc.Authenticate(ctx, "unknown-token")
	assert.ErrorIs(t, err, authdomain.ErrInvalidSession)
}

func TestSessionExpires(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	createUser(t, svc, "alice@example.com", "viewer")

	result, err := svc.Login(ctx, authdomain.LoginRequest{Email: "alice@example.com", Password: "correct-password"})
	require.NoError(t, err)

	clk.Advance(sessionTTL + time.Minute)
	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, authdomain.ErrSessionExpired)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice@example.com", "admin")

	result, err := svc.Login(ctx, authdomain.LoginRequest{Email: "alice@example.com", Password: "correct-password"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, authdomain.ChangePasswordRequest{UserID: user.ID, CurrentPassword: "nope", NewPassword: "brand-new-password"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, authdomain.ChangePasswordRequest{
		UserID:          user.ID,
		CurrentPassword: "correct-password",
		NewPassword:     "brand-new-password",
	}))

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, authdomain.ErrSessionRevoked)

	_, err = svc.Login(ctx, authdomain.LoginRequest{Email: "alice@example.com", Password: "brand-new-password"})
	assert.NoError(t, err)
}
