package service

import (
	"context"
	"time"

	"github.com/smallbiznis/wasafinance/internal/clock"
	"github.com/smallbiznis/wasafinance/internal/config"
	customerdomain "github.com/smallbiznis/wasafinance/internal/customer/domain"
	"github.com/smallbiznis/wasafinance/internal/dashboard/calc"
	"github.com/smallbiznis/wasafinance/internal/dashboard/domain"
	expensedomain "github.com/smallbiznis/wasafinance/internal/expense/domain"
	"github.com/smallbiznis/wasafinance/internal/period"
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
}

type Service struct {
	log         *zap.Logger
	loc         *time.Location
	finance     *config.FinanceConfigHolder
	clock       clock.Clock
	customerSvc customerdomain.Service
	expenseSvc  expensedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("dashboard.service"),
		loc:         p.Cfg.Location(),
		finance:     p.Finance,
		clock:       p.Clock,
		customerSvc: p.CustomerSvc,
		expenseSvc:  p.ExpenseSvc,
	}
}

func (s *Service) Summary(ctx context.Context, req domain.SummaryRequest) (domain.Summary, error) {
	selected, err := period.Resolve(req.Year, req.Month, s.clock.Now(), s.loc)
	if err != nil {
		return domain.Summary{}, err
	}

	customers, err := s.customerSvc.List(ctx, customerdomain.ListCustomerRequest{})
	if err != nil {
		return domain.Summary{}, err
	}
	expenses, err := s.expenseSvc.List(ctx, expensedomain.ListExpenseRequest{})
	if err != nil {
		return domain.Summary{}, err
	}

	policy := ProfitShare(s.finance)
	metrics := calc.Compute(customers, expenses, selected, policy)
	comparison := calc.Compare(metrics, customers, expenses, selected, policy)

	s.log.Debug("computed dashboard",
		zap.String("period", selected.String()),
		zap.Int("customers", len(customers)),
		zap.Int("expenses", len(expenses)),
	)

	return domain.Summary{
		Metrics:    metrics,
		Comparison: comparison,
		Period: domain.PeriodInfo{
			Year:          selected.Year,
			Month:         selected.Month,
			Label:         selected.Label(),
			PreviousLabel: selected.Previous().Label(),
		},
		ProfitShare: policy,
	}, nil
}

// ProfitShare reads the current policy from the hot-reloaded finance config.
func ProfitShare(holder *config.FinanceConfigHolder) calc.ProfitShare {
	if holder == nil {
		return calc.DefaultProfitShare()
	}
	cfg := holder.Get().ProfitShare
	policy := calc.ProfitShare{
		WasaBasisPoints:   cfg.WasaBasisPoints,
		OfficeBasisPoints: cfg.OfficeBasisPoints,
	}
	if policy.Validate() != nil {
		return calc.DefaultProfitShare()
	}
	return policy
}
