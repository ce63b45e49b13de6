package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	auditdomain "github.com/smallbiznis/wasafinance/internal/audit/domain"
	"github.com/smallbiznis/wasafinance/internal/clock"
	"github.com/smallbiznis/wasafinance/internal/config"
	customerdomain "github.com/smallbiznis/wasafinance/internal/customer/domain"
	"github.com/smallbiznis/wasafinance/internal/dashboard/calc"
	dashboardservice "github.com/smallbiznis/wasafinance/internal/dashboard/service"
	expensedomain "github.com/smallbiznis/wasafinance/internal/expense/domain"
	obsmetrics "github.com/smallbiznis/wasafinance/internal/observability/metrics"
	"github.com/smallbiznis/wasafinance/internal/period"
	"github.com/smallbiznis/wasafinance/internal/providers/pdf"
	"github.com/smallbiznis/wasafinance/internal/report/domain"
	"github.com/smallbiznis/wasafinance/internal/report/shaper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Cfg         config.Config
	Finance     *config.FinanceConfigHolder
	Clock       clock.Clock
	CustomerSvc customerdomain.Service
	ExpenseSvc  expensedomain.Service
	Renderer    pdf.Provider
	AuditSvc    auditdomain.Service `optional:"true"`
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log         *zap.Logger
	loc         *time.Location
	finance     *config.FinanceConfigHolder
	clock       clock.Clock
	customerSvc customerdomain.Service
	expenseSvc  expensedomain.Service
	renderer    pdf.Provider
	auditSvc    auditdomain.Service
	metrics     *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("report.service"),
		loc:         p.Cfg.Location(),
		finance:     p.Finance,
		clock:       p.Clock,
		customerSvc: p.CustomerSvc,
		expenseSvc:  p.ExpenseSvc,
		renderer:    p.Renderer,
		auditSvc:    p.AuditSvc,
		metrics:     p.Metrics,
	}
}

func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (domain.Report, error) {
	reportType, err := shaper.ParseReportType(req.Type)
	if err != nil {
		return domain.Report{}, err
	}

	now := s.clock.Now()
	selected, err := period.Resolve(req.Year, req.Month, now, s.loc)
	if err != nil {
		return domain.Report{}, err
	}

	// Metrics need the unfiltered lists; tables show only the report's scope.
	allCustomers, err := s.customerSvc.List(ctx, customerdomain.ListCustomerRequest{})
	if err != nil {
		return domain.Report{}, err
	}
	allExpenses, err := s.expenseSvc.List(ctx, expensedomain.ListExpenseRequest{})
	if err != nil {
		return domain.Report{}, err
	}

	policy := dashboardservice.ProfitShare(s.finance)
	input := shaper.Input{
		Type:         reportType,
		BusinessName: s.businessName(),
		Period:       selected,
		GeneratedAt:  now,
		Metrics:      calc.Compute(allCustomers, allExpenses, selected, policy),
		ProfitShare:  policy,
	}
	switch reportType {
	case shaper.TypeCustomers:
		input.Customers = allCustomers
	case shaper.TypeExpenses:
		input.Expenses = inPeriodExpenses(allExpenses, selected)
	default:
		input.Customers = inPeriodCustomers(allCustomers, selected)
		input.Expenses = inPeriodExpenses(allExpenses, selected)
	}

	doc, err := shaper.Shape(input)
	if err != nil {
		return domain.Report{}, err
	}

	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
	r, err := s.renderer.GenerateReport(ctx, doc, id)
	if err != nil {
		s.log.Error("failed to render report",
			zap.String("report_id", id),
			zap.String("type", string(reportType)),
			zap.Error(err),
		)
		return domain.Report{}, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	var body bytes.Buffer
	if r != nil {
		if _, err := body.ReadFrom(r); err != nil {
			return domain.Report{}, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
		}
	}

	s.metrics.RecordReportGenerated(ctx, string(reportType))
	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(ctx, auditdomain.ActionReportGenerate, "report", &id, map[string]any{
			"type":      string(reportType),
			"period":    selected.String(),
			"filename":  doc.Filename,
			"customers": len(input.Customers),
			"expenses":  len(input.Expenses),
		})
	}

	s.log.Info("generated report",
		zap.String("report_id", id),
		zap.String("type", string(reportType)),
		zap.String("period", selected.String()),
		zap.Int("bytes", body.Len()),
	)

	return domain.Report{
		ID:          id,
		Type:        reportType,
		Filename:    doc.Filename,
		ContentType: domain.ContentTypePDF,
		GeneratedAt: now,
		Body:        body.Bytes(),
	}, nil
}

func (s *Service) businessName() string {
	if s.finance == nil {
		return config.DefaultFinanceConfig().BusinessName
	}
	return s.finance.Get().BusinessName
}

func inPeriodCustomers(items []customerdomain.Customer, p period.Period) []customerdomain.Customer {
	out := make([]customerdomain.Customer, 0, len(items))
	for _, c := range items {
		if p.Contains(c.CreatedAt) {
			out = append(out, c)
		}
	}
	return out
}

func inPeriodExpenses(items []expensedomain.Expense, p period.Period) []expensedomain.Expense {
	out := make([]expensedomain.Expense, 0, len(items))
	for _, e := range items {
		if p.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}
