package calc

import (
	customerdomain "github.com/smallbiznis/wasafinance/internal/customer/domain"
	expensedomain "github.com/smallbiznis/wasafinance/internal/expense/domain"
	"github.com/smallbiznis/wasafinance/internal/period"
)

// ComparisonMetrics is the month-over-month delta of four headline figures.
type ComparisonMetrics struct {
	RevenueChange          int64   `json:"revenue_change"`
	RevenueChangePercent   float64 `json:"revenue_change_percent"`
	ExpensesChange         int64   `json:"expenses_change"`
	ExpensesChangePercent  float64 `json:"expenses_change_percent"`
	CustomersChange        int64   `json:"customers_change"`
	CustomersChangePercent float64 `json:"customers_change_percent"`
	ProfitChange           int64   `json:"profit_change"`
	ProfitChangePercent    float64 `json:"profit_change_percent"`
}

// Compare recomputes the month before p and diffs it against current.
func Compare(current DashboardMetrics, customers []customerdomain.Customer, expenses []expensedomain.Expense, p period.Period, policy ProfitShare) ComparisonMetrics {
	previous := Compute(customers, expenses, p.Previous(), policy)
	return Diff(current, previous)
}

func Diff(current, previous DashboardMetrics) ComparisonMetrics {
	var c ComparisonMetrics
	c.RevenueChange, c.RevenueChangePercent = change(current.TotalRevenueBeforeDiscount, previous.TotalRevenueBeforeDiscount)
	c.ExpensesChange, c.ExpensesChangePercent = change(current.TotalExpenses, previous.TotalExpenses)
	c.CustomersChange, c.CustomersChangePercent = change(int64(current.NewCustomers), int64(previous.NewCustomers))
	c.ProfitChange, c.ProfitChangePercent = change(current.WasaNetProfitAfterDiscount, previous.WasaNetProfitAfterDiscount)
	return c
}

// change returns current-previous and the percentage against previous,
// which is 0 when previous is 0.
func change(current, previous int64) (int64, float64) {
	delta := current - previous
	if previous == 0 {
		return delta, 0
	}
	return delta, float64(delta) / float64(previous) * 100
}
