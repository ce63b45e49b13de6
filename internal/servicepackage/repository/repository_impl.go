package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/wasafinance/internal/servicepackage/domain"
	"github.com/smallbiznis/wasafinance/pkg/db/option"
	"github.com/smallbiznis/wasafinance/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	store repository.Repository[domain.Package]
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{store: repository.ProvideStore[domain.Package](db)}
}

func (r *repo) Insert(ctx context.Context, pkg *domain.Package) error {
	return r.store.Create(ctx, pkg)
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Package, error) {
	return r.store.FindOne(ctx, &domain.Package{ID: id})
}

func (r *repo) List(ctx context.Context) ([]*domain.Package, error) {
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
