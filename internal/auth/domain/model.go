// Package domain contains core types for the auth service.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role decides which dashboard actions a user may perform.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case "", RoleViewer:
		return RoleViewer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}

// User represents a dashboard account.
type User struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id"`
	Email               string       `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	DisplayName         string       `gorm:"type:varchar(255)" json:"display_name"`
	PasswordHash        string       `gorm:"type:text;not null" json:"-"`
	Role                Role         `gorm:"type:varchar(32);not null" json:"role"`
	LastPasswordChanged *time.Time   `json:"last_password_changed,omitempty"`
	LastLoginAt         *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt           time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Session represents a persisted login session. Only the sha256 of the
// cookie token is stored.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:varchar(64);not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:varchar(64)"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// Principal is the authenticated identity attached to a request.
type Principal struct {
	SessionID   snowflake.ID `json:"-"`
	UserID      snowflake.ID `json:"user_id"`
	Email       string       `json:"email"`
	DisplayName string       `json:"display_name"`
	Role        Role         `json:"role"`
}
