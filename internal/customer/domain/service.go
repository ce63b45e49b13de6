package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/wasafinance/internal/period"
)

type CreateCustomerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Address        string `json:"address"`
	PackageID      string `json:"package_id"`
	DiscountAmount int64  `json:"discount_amount"`
	Status         string `json:"status"`
	PaymentTarget  string `json:"payment_target"`
	Notes          string `json:"notes"`
	PaymentNotes   string `json:"payment_notes"`
	// CreatedAt backdates imported customers; defaults to now.
	CreatedAt *time.Time `json:"created_at"`
}

// UpdateCustomerRequest is a partial patch; nil fields are left untouched.
// Changing PackageID re-snapshots the package name and price.
type UpdateCustomerRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	PhoneNumber    *string `json:"phone_number"`
	Address        *string `json:"address"`
	PackageID      *string `json:"package_id"`
	DiscountAmount *int64  `json:"discount_amount"`
	Status         *string `json:"status"`
	PaymentTarget  *string `json:"payment_target"`
	Notes          *string `json:"notes"`
	PaymentNotes   *string `json:"payment_notes"`
}

// ListCustomerRequest filters the full collection in memory.
type ListCustomerRequest struct {
	Status        string
	PaymentTarget string
	Search        string
	Period        *period.Period
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	List(ctx context.Context, req ListCustomerRequest) ([]Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	Update(ctx context.Context, id string, req UpdateCustomerRequest) (Customer, error)
	SetStatus(ctx context.Context, id string, status Status) (Customer, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidEmail         = errors.New("invalid_email")
	ErrInvalidPackage       = errors.New("invalid_package")
	ErrPackageInactive      = errors.New("package_inactive")
	ErrInvalidDiscount      = errors.New("invalid_discount")
	ErrDiscountExceedsPrice = errors.New("discount_exceeds_price")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidPaymentTarget = errors.New("invalid_payment_target")
	ErrNotFound             = errors.New("not_found")
)
