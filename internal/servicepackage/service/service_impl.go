package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/wasafinance/internal/audit/domain"
	"github.com/smallbiznis/wasafinance/internal/cache"
	"github.com/smallbiznis/wasafinance/internal/clock"
	obsmetrics "github.com/smallbiznis/wasafinance/internal/observability/metrics"
	"github.com/smallbiznis/wasafinance/internal/servicepackage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const collectionKey = "packages"

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Cache    *cache.Collections
	AuditSvc auditdomain.Service `optional:"true"`
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	cache    *cache.Collection[domain.Package]
	auditSvc auditdomain.Service
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("package.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		cache:    cache.NewCollection[domain.Package](p.Cache, collectionKey),
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePackageRequest) (domain.Package, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Package{}, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return domain.Package{}, domain.ErrInvalidPrice
	}
	if req.Duration <= 0 {
		return domain.Package{}, domain.ErrInvalidDuration
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.clock.Now()
	pkg := domain.Package{
		ID:          s.genID.Generate(),
		Name:        name,
		Price:       req.Price,
		Description: strings.TrimSpace(req.Description),
		Duration:    req.Duration,
		Features:    normalizeFeatures(req.Features),
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, &pkg); err != nil {
		return domain.Package{}, fmt.Errorf("insert package: %w", err)
	}

	s.afterMutation(ctx, auditdomain.ActionPackageCreate, "create", &pkg, nil)
	return pkg, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPackageRequest) ([]domain.Package, error) {
	items, err := s.cache.Load(ctx, s.fetchAll)
	if err != nil {
		return nil, err
	}
	if !req.ActiveOnly {
		return items, nil
	}

	active := make([]domain.Package, 0, len(items))
	for _, item := range items {
		if item.IsActive {
			active = append(active, item)
		}
	}
	return active, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Package, error) {
	pkgID, err := parseID(id)
	if err != nil {
		return domain.Package{}, err
	}
	item, err := s.repo.FindByID(ctx, pkgID)
	if err != nil {
		return domain.Package{}, fmt.Errorf("find package: %w", err)
	}
	if item == nil {
		return domain.Package{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdatePackageRequest) (domain.Package, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Package{}, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Package{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return domain.Package{}, domain.ErrInvalidPrice
		}
		fields["price"] = *req.Price
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Duration != nil {
		if *req.Duration <= 0 {
			return domain.Package{}, domain.ErrInvalidDuration
		}
		fields["duration"] = *req.Duration
	}
	if req.Features != nil {
		fields["features"] = normalizeFeatures(*req.Features)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = s.clock.Now()

	affected, err := s.repo.Update(ctx, current.ID, fields)
	if err != nil {
		return domain.Package{}, fmt.Errorf("update package: %w", err)
	}
	if affected == 0 {
		return domain.Package{}, domain.ErrNotFound
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Package{}, err
	}
	s.afterMutation(ctx, auditdomain.ActionPackageUpdate, "update", &updated, changedKeys(fields))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	s.afterMutation(ctx, auditdomain.ActionPackageDelete, "delete", &current, nil)
	return nil
}

func (s *Service) fetchAll(ctx context.Context) ([]domain.Package, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	out := make([]domain.Package, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *Service) afterMutation(ctx context.Context, action, operation string, pkg *domain.Package, changed []string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("failed to invalidate package cache", zap.Error(err))
	}
	s.metrics.RecordStoreOperation(ctx, "package", operation)

	if s.auditSvc == nil || pkg == nil {
		return
	}
	metadata := map[string]any{
		"name":      pkg.Name,
		"price":     pkg.Price,
		"is_active": pkg.IsActive,
	}
	if len(changed) > 0 {
		metadata["changed"] = changed
	}
	targetID := pkg.ID.String()
	_ = s.auditSvc.AuditLog(ctx, action, "package", &targetID, metadata)
}

func normalizeFeatures(features []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(features))
	for _, feature := range features {
		if trimmed := strings.TrimSpace(feature); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func changedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key != "updated_at" {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
