package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Expense struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Description string       `gorm:"not null" json:"description"`
	Amount      int64        `gorm:"not null" json:"amount"`
	Category    string       `gorm:"type:varchar(64);index" json:"category"`
	Date        time.Time    `gorm:"not null;index" json:"date"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (Expense) TableName() string { return "expenses" }
