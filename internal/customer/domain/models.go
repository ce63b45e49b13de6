package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Customer struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name           string        `gorm:"type:varchar(255);not null" json:"name"`
	Email          string        `gorm:"type:varchar(255)" json:"email,omitempty"`
	PhoneNumber    string        `gorm:"type:varchar(32)" json:"phone_number,omitempty"`
	Address        string        `json:"address,omitempty"`
	PackageID      snowflake.ID  `gorm:"index" json:"package_id"`
	PackageName    string        `gorm:"type:varchar(128)" json:"package_name"`
	PackagePrice   int64         `gorm:"not null" json:"package_price"`
	DiscountAmount int64         `gorm:"not null" json:"discount_amount"`
	Status         Status        `gorm:"type:varchar(32);not null;index" json:"status"`
	PaymentTarget  PaymentTarget `gorm:"type:varchar(16)" json:"payment_target"`
	Notes          string        `json:"notes,omitempty"`
	PaymentNotes   string        `json:"payment_notes,omitempty"`
	CreatedAt      time.Time     `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// NetPrice is the package price after discount.
func (c Customer) NetPrice() int64 {
	return c.PackagePrice - c.DiscountAmount
}
