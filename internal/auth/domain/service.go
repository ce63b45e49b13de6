package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Principal, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	CountUsers(ctx context.Context) (int64, error)
}

type CreateUserRequest struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	Principal Principal
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}

// ChangePasswordRequest revokes every session of the user on success.
type ChangePasswordRequest struct {
	UserID          snowflake.ID
	CurrentPassword string
	NewPassword     string
}
