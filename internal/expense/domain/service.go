package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/wasafinance/internal/period"
)

type CreateExpenseRequest struct {
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
}

// UpdateExpenseRequest is a partial patch; nil fields are left untouched.
type UpdateExpenseRequest struct {
	Description *string    `json:"description"`
	Amount      *int64     `json:"amount"`
	Category    *string    `json:"category"`
	Date        *time.Time `json:"date"`
}

// ListExpenseRequest filters the full collection in memory.
type ListExpenseRequest struct {
	Category string
	Period   *period.Period
}

type Service interface {
	Create(ctx context.Context, req CreateExpenseRequest) (Expense, error)
	List(ctx context.Context, req ListExpenseRequest) ([]Expense, error)
	GetByID(ctx context.Context, id string) (Expense, error)
	Update(ctx context.Context, id string, req UpdateExpenseRequest) (Expense, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidDate        = errors.New("invalid_date")
	ErrNotFound           = errors.New("not_found")
)
