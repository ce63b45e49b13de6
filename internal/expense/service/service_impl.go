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
	"github.com/smallbiznis/wasafinance/internal/expense/domain"
	obsmetrics "github.com/smallbiznis/wasafinance/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const collectionKey = "expenses"

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
	cache    *cache.Collection[domain.Expense]
	auditSvc auditdomain.Service
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("expense.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		cache:    cache.NewCollection[domain.Expense](p.Cache, collectionKey),
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Expense{}, domain.ErrInvalidDescription
	}
	if req.Amount < 0 {
		return domain.Expense{}, domain.ErrInvalidAmount
	}
	if req.Date.IsZero() {
		return domain.Expense{}, domain.ErrInvalidDate
	}

	now := s.clock.Now()
	expense := domain.Expense{
		ID:          s.genID.Generate(),
		Description: description,
		Amount:      req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Date:        req.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, &expense); err != nil {
		return domain.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	s.afterMutation(ctx, auditdomain.ActionExpenseCreate, "create", &expense, nil)
	return expense, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpenseRequest) ([]domain.Expense, error) {
	items, err := s.cache.Load(ctx, s.fetchAll)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(req.Category)
	if category == "" && req.Period == nil {
		return items, nil
	}

	filtered := make([]domain.Expense, 0, len(items))
	for _, item := range items {
		if category != "" && !strings.EqualFold(item.Category, category) {
			continue
		}
		if req.Period != nil && !req.Period.Contains(item.Date) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Expense, error) {
	expenseID, err := parseID(id)
	if err != nil {
		return domain.Expense{}, err
	}
	item, err := s.repo.FindByID(ctx, expenseID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("find expense: %w", err)
	}
	if item == nil {
		return domain.Expense{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateExpenseRequest) (domain.Expense, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Expense{}, err
	}

	fields := map[string]any{}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return domain.Expense{}, domain.ErrInvalidDescription
		}
		fields["description"] = description
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return domain.Expense{}, domain.ErrInvalidAmount
		}
		fields["amount"] = *req.Amount
	}
	if req.Category != nil {
		fields["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Date != nil {
		if req.Date.IsZero() {
			return domain.Expense{}, domain.ErrInvalidDate
		}
		fields["date"] = *req.Date
	}
	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = s.clock.Now()

	affected, err := s.repo.Update(ctx, current.ID, fields)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if affected == 0 {
		return domain.Expense{}, domain.ErrNotFound
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Expense{}, err
	}
	s.afterMutation(ctx, auditdomain.ActionExpenseUpdate, "update", &updated, changedKeys(fields))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	s.afterMutation(ctx, auditdomain.ActionExpenseDelete, "delete", &current, nil)
	return nil
}

func (s *Service) fetchAll(ctx context.Context) ([]domain.Expense, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]domain.Expense, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *Service) afterMutation(ctx context.Context, action, operation string, expense *domain.Expense, changed []string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("failed to invalidate expense cache", zap.Error(err))
	}
	s.metrics.RecordStoreOperation(ctx, "expense", operation)

	if s.auditSvc == nil || expense == nil {
		return
	}
	metadata := map[string]any{
		"description": expense.Description,
		"amount":      expense.Amount,
		"category":    expense.Category,
		"date":        expense.Date.Format("2006-01-02"),
	}
	if len(changed) > 0 {
		metadata["changed"] = changed
	}
	targetID := expense.ID.String()
	_ = s.auditSvc.AuditLog(ctx, action, "expense", &targetID, metadata)
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
