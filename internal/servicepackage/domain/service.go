package domain

import (
	"context"
	"errors"
)

type CreatePackageRequest struct {
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Description string   `json:"description"`
	Duration    int      `json:"duration"`
	Features    []string `json:"features"`
	IsActive    *bool    `json:"is_active"`
}

// UpdatePackageRequest is a partial patch; nil fields are left untouched.
type UpdatePackageRequest struct {
	Name        *string   `json:"name"`
	Price       *int64    `json:"price"`
	Description *string   `json:"description"`
	Duration    *int      `json:"duration"`
	Features    *[]string `json:"features"`
	IsActive    *bool     `json:"is_active"`
}

type ListPackageRequest struct {
	ActiveOnly bool
}

type Service interface {
	Create(ctx context.Context, req CreatePackageRequest) (Package, error)
	List(ctx context.Context, req ListPackageRequest) ([]Package, error)
	GetByID(ctx context.Context, id string) (Package, error)
	Update(ctx context.Context, id string, req UpdatePackageRequest) (Package, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidDuration = errors.New("invalid_duration")
	ErrNotFound        = errors.New("not_found")
	ErrInactive        = errors.New("package_inactive")
)
