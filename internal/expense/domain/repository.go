package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Insert(ctx context.Context, expense *Expense) error
	FindByID(ctx context.Context, id snowflake.ID) (*Expense, error)
	List(ctx context.Context) ([]*Expense, error)
	Update(ctx context.Context, id snowflake.ID, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id snowflake.ID) (int64, error)
}
