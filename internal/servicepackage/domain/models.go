package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Package is a subscription offering. Customers snapshot its price at
// purchase, so edits here never reach existing customers.
type Package struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"type:varchar(128);not null" json:"name"`
	Price       int64                       `gorm:"not null" json:"price"`
	Description string                      `json:"description"`
	Duration    int                         `gorm:"not null" json:"duration"`
	Features    datatypes.JSONSlice[string] `json:"features"`
	IsActive    bool                        `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Package) TableName() string { return "packages" }
