package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/wasafinance/pkg/db/pagination"
)

// Actions recorded by the domain services.
const (
	ActionCustomerCreate       = "customer.create"
	ActionCustomerUpdate       = "customer.update"
	ActionCustomerStatusChange = "customer.status_change"
	ActionCustomerDelete       = "customer.delete"
	ActionPackageCreate        = "package.create"
	ActionPackageUpdate        = "package.update"
	ActionPackageDelete        = "package.delete"
	ActionExpenseCreate        = "expense.create"
	ActionExpenseUpdate        = "expense.update"
	ActionExpenseDelete        = "expense.delete"
	ActionReportGenerate       = "report.generate"
	ActionUserLogin            = "user.login"
	ActionUserLoginFailed      = "user.login_failed"
	ActionUserPasswordChange   = "user.password_change"
	ActionUserLogout           = "user.logout"
)

type ListAuditLogRequest struct {
	pagination.Pagination
	Action     string
	TargetType string
	TargetID   string
	ActorType  string
	StartAt    *time.Time
	EndAt      *time.Time
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

type Service interface {
	// AuditLog records an action by the actor found in ctx, or the system
	// actor when there is none.
	AuditLog(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
	ErrInvalidAction    = errors.New("invalid_action")
)
