package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/smallbiznis/wasafinance/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectCustomer  = "customer"
	ObjectPackage   = "package"
	ObjectExpense   = "expense"
	ObjectDashboard = "dashboard"
	ObjectReport    = "report"
	ObjectAuditLog  = "audit_log"
)

const (
	ActionCustomerView   = "customer.view"
	ActionCustomerCreate = "customer.create"
	ActionCustomerUpdate = "customer.update"
	ActionCustomerDelete = "customer.delete"

	ActionPackageView   = "package.view"
	ActionPackageCreate = "package.create"
	ActionPackageUpdate = "package.update"
	ActionPackageDelete = "package.delete"

	ActionExpenseView   = "expense.view"
	ActionExpenseCreate = "expense.create"
	ActionExpenseUpdate = "expense.update"
	ActionExpenseDelete = "expense.delete"

	ActionDashboardView  = "dashboard.view"
	ActionReportGenerate = "report.generate"
	ActionAuditLogView   = "audit_log.view"
)

const (
	roleAdmin  = "role:admin"
	roleViewer = "role:viewer"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, userID string, role string, object string, action string) error {
	userID = strings.TrimSpace(userID)
	role = strings.ToLower(strings.TrimSpace(role))
	if userID == "" || role == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := "user:" + userID
	if err := s.ensureGrouping(subject, "role:"+role); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Info("authorization denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		s.auditDenied(ctx, subject, object, action)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps exactly one role link per user so a role change in
// the users table takes effect on the next request.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, subject string, object string, action string) {
	if s.auditSvc == nil {
		return
	}
	targetID := fmt.Sprintf("%s:%s", object, action)
	_ = s.auditSvc.AuditLog(ctx, "authorization.denied", "authorization", &targetID, map[string]any{
		"object":  object,
		"action":  action,
		"subject": subject,
	})
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Viewer permissions (read + reports)
		{roleViewer, ObjectCustomer, ActionCustomerView},
		{roleViewer, ObjectPackage, ActionPackageView},
		{roleViewer, ObjectExpense, ActionExpenseView},
		{roleViewer, ObjectDashboard, ActionDashboardView},
		{roleViewer, ObjectReport, ActionReportGenerate},

		// Admin permissions
		{roleAdmin, ObjectCustomer, ActionCustomerView},
		{roleAdmin, ObjectCustomer, ActionCustomerCreate},
		{roleAdmin, ObjectCustomer, ActionCustomerUpdate},
		{roleAdmin, ObjectCustomer, ActionCustomerDelete},

		{roleAdmin, ObjectPackage, ActionPackageView},
		{roleAdmin, ObjectPackage, ActionPackageCreate},
		{roleAdmin, ObjectPackage, ActionPackageUpdate},
		{roleAdmin, ObjectPackage, ActionPackageDelete},

		{roleAdmin, ObjectExpense, ActionExpenseView},
		{roleAdmin, ObjectExpense, ActionExpenseCreate},
		{roleAdmin, ObjectExpense, ActionExpenseUpdate},
		{roleAdmin, ObjectExpense, ActionExpenseDelete},

		{roleAdmin, ObjectDashboard, ActionDashboardView},
		{roleAdmin, ObjectReport, ActionReportGenerate},
		{roleAdmin, ObjectAuditLog, ActionAuditLogView},
	}

	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
