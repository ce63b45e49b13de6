package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/wasafinance/internal/audit/domain"
	"github.com/smallbiznis/wasafinance/internal/cache"
	"github.com/smallbiznis/wasafinance/internal/clock"
	"github.com/smallbiznis/wasafinance/internal/customer/domain"
	obsmetrics "github.com/smallbiznis/wasafinance/internal/observability/metrics"
	packagedomain "github.com/smallbiznis/wasafinance/internal/servicepackage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const collectionKey = "customers"

type Params struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	PackageSvc packagedomain.Service
	Cache      *cache.Collections
	AuditSvc   auditdomain.Service `optional:"true"`
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	packageSvc packagedomain.Service
	cache      *cache.Collection[domain.Customer]
	auditSvc   auditdomain.Service
	metrics    *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("customer.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		packageSvc: p.PackageSvc,
		cache:      cache.NewCollection[domain.Customer](p.Cache, collectionKey),
		auditSvc:   p.AuditSvc,
		metrics:    p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.Customer{}, err
	}

	status := domain.StatusActive
	if strings.TrimSpace(req.Status) != "" {
		if status, err = domain.ParseStatus(req.Status); err != nil {
			return domain.Customer{}, domain.ErrInvalidStatus
		}
	}
	target, err := domain.ParsePaymentTarget(req.PaymentTarget)
	if err != nil {
		return domain.Customer{}, domain.ErrInvalidPaymentTarget
	}

	pkg, err := s.resolvePackage(ctx, req.PackageID)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := validateDiscount(pkg.Price, req.DiscountAmount); err != nil {
		return domain.Customer{}, err
	}

	now := s.clock.Now()
	createdAt := now
	if req.CreatedAt != nil && !req.CreatedAt.IsZero() {
		createdAt = req.CreatedAt.UTC()
	}

	customer := domain.Customer{
		ID:             s.genID.Generate(),
		Name:           name,
		Email:          email,
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
		Address:        strings.TrimSpace(req.Address),
		PackageID:      pkg.ID,
		PackageName:    pkg.Name,
		PackagePrice:   pkg.Price,
		DiscountAmount: req.DiscountAmount,
		Status:         status,
		PaymentTarget:  target,
		Notes:          strings.TrimSpace(req.Notes),
		PaymentNotes:   strings.TrimSpace(req.PaymentNotes),
		CreatedAt:      createdAt,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, &customer); err != nil {
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}

	s.afterMutation(ctx, auditdomain.ActionCustomerCreate, "create", &customer, nil)
	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) ([]domain.Customer, error) {
	items, err := s.cache.Load(ctx, s.fetchAll)
	if err != nil {
		return nil, err
	}

	var status domain.Status
	if raw := strings.TrimSpace(req.Status); raw != "" {
		if status, err = domain.ParseStatus(raw); err != nil {
			return nil, domain.ErrInvalidStatus
		}
	}
	var target domain.PaymentTarget
	if raw := strings.TrimSpace(req.PaymentTarget); raw != "" {
		if target, err = domain.ParsePaymentTarget(raw); err != nil {
			return nil, domain.ErrInvalidPaymentTarget
		}
	}
	search := strings.ToLower(strings.TrimSpace(req.Search))

	if status == "" && target == "" && search == "" && req.Period == nil {
		return items, nil
	}

	filtered := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if status != "" && item.Status != status {
			continue
		}
		if target != "" && item.PaymentTarget.Normalized() != target {
			continue
		}
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		if req.Period != nil && !req.Period.Contains(item.CreatedAt) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	customerID, err := parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}
	item, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("find customer: %w", err)
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Customer{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return domain.Customer{}, err
		}
		fields["email"] = email
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Address != nil {
		fields["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Notes != nil {
		fields["notes"] = strings.TrimSpace(*req.Notes)
	}
	if req.PaymentNotes != nil {
		fields["payment_notes"] = strings.TrimSpace(*req.PaymentNotes)
	}
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return domain.Customer{}, domain.ErrInvalidStatus
		}
		fields["status"] = status
	}
	if req.PaymentTarget != nil {
		target, err := domain.ParsePaymentTarget(*req.PaymentTarget)
		if err != nil {
			return domain.Customer{}, domain.ErrInvalidPaymentTarget
		}
		fields["payment_target"] = target
	}

	price := current.PackagePrice
	if req.PackageID != nil {
		pkg, err := s.resolvePackage(ctx, *req.PackageID)
		if err != nil {
			return domain.Customer{}, err
		}
		if pkg.ID != current.PackageID {
			fields["package_id"] = pkg.ID
			fields["package_name"] = pkg.Name
			fields["package_price"] = pkg.Price
			price = pkg.Price
		}
	}
	discount := current.DiscountAmount
	if req.DiscountAmount != nil {
		discount = *req.DiscountAmount
		fields["discount_amount"] = discount
	}
	if req.PackageID != nil || req.DiscountAmount != nil {
		if err := validateDiscount(price, discount); err != nil {
			return domain.Customer{}, err
		}
	}

	return s.applyPatch(ctx, current, fields, auditdomain.ActionCustomerUpdate)
}

// SetStatus backs the mark-unpaid, activate and deactivate shortcuts.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Customer, error) {
	if !status.Valid() {
		return domain.Customer{}, domain.ErrInvalidStatus
	}
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if current.Status == status {
		return current, nil
	}
	return s.applyPatch(ctx, current, map[string]any{"status": status}, auditdomain.ActionCustomerStatusChange)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	s.afterMutation(ctx, auditdomain.ActionCustomerDelete, "delete", &current, nil)
	return nil
}

func (s *Service) applyPatch(ctx context.Context, current domain.Customer, fields map[string]any, action string) (domain.Customer, error) {
	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = s.clock.Now()

	affected, err := s.repo.Update(ctx, current.ID, fields)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	if affected == 0 {
		return domain.Customer{}, domain.ErrNotFound
	}

	updated, err := s.GetByID(ctx, current.ID.String())
	if err != nil {
		return domain.Customer{}, err
	}

	changed := changedKeys(fields)
	extra := map[string]any{"changed": changed}
	if slices.Contains(changed, "status") {
		extra["previous_status"] = string(current.Status)
	}
	s.afterMutation(ctx, action, "update", &updated, extra)
	return updated, nil
}

func (s *Service) resolvePackage(ctx context.Context, rawID string) (packagedomain.Package, error) {
	if strings.TrimSpace(rawID) == "" {
		return packagedomain.Package{}, domain.ErrInvalidPackage
	}
	pkg, err := s.packageSvc.GetByID(ctx, rawID)
	if err != nil {
		if errors.Is(err, packagedomain.ErrNotFound) || errors.Is(err, packagedomain.ErrInvalidID) {
			return packagedomain.Package{}, domain.ErrInvalidPackage
		}
		return packagedomain.Package{}, err
	}
	if !pkg.IsActive {
		return packagedomain.Package{}, domain.ErrPackageInactive
	}
	return pkg, nil
}

func (s *Service) fetchAll(ctx context.Context) ([]domain.Customer, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *Service) afterMutation(ctx context.Context, action, operation string, customer *domain.Customer, extra map[string]any) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("failed to invalidate customer cache", zap.Error(err))
	}
	s.metrics.RecordStoreOperation(ctx, "customer", operation)

	if s.auditSvc == nil || customer == nil {
		return
	}
	metadata := map[string]any{
		"name":            customer.Name,
		"email":           customer.Email,
		"status":          string(customer.Status),
		"payment_target":  string(customer.PaymentTarget),
		"package_name":    customer.PackageName,
		"package_price":   customer.PackagePrice,
		"discount_amount": customer.DiscountAmount,
	}
	for key, value := range extra {
		if key == "" {
			continue
		}
		metadata[key] = value
	}
	targetID := customer.ID.String()
	_ = s.auditSvc.AuditLog(ctx, action, "customer", &targetID, metadata)
}

func validateDiscount(price, discount int64) error {
	if discount < 0 {
		return domain.ErrInvalidDiscount
	}
	if discount > price {
		return domain.ErrDiscountExceedsPrice
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", domain.ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

func matchesSearch(c domain.Customer, needle string) bool {
	return strings.Contains(strings.ToLower(c.Name), needle) ||
		strings.Contains(strings.ToLower(c.Email), needle) ||
		strings.Contains(c.PhoneNumber, needle)
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

