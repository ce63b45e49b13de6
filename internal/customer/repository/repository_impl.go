package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/wasafinance/internal/customer/domain"
	"github.com/smallbiznis/wasafinance/pkg/db/option"
	"github.com/smallbiznis/wasafinance/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	store repository.Repository[domain.Customer]
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{store: repository.ProvideStore[domain.Customer](db)}
}

func (r *repo) Insert(ctx context.Context, customer *domain.Customer) error {
	return r.store.Create(ctx, customer)
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Customer, error) {
	return r.store.FindOne(ctx, nil, option.WithWhere("id = ?", id))
}

// List returns every customer in insertion order; report rankings break
// ties on this order.
func (r *repo) List(ctx context.Context) ([]*domain.Customer, error) {
	return r.store.Find(ctx, nil, option.QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc, id asc")
	}))
}

func (r *repo) Update(ctx context.Context, id snowflake.ID, fields map[string]any) (int64, error) {
	return r.store.Update(ctx, id, fields)
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) (int64, error) {
	return r.store.Delete(ctx, id)
}
