// Package calc computes dashboard KPIs from full customer and expense
// lists. Everything here is pure: no I/O and inputs are never mutated.
package calc

import (
	customerdomain "github.com/smallbiznis/wasafinance/internal/customer/domain"
	expensedomain "github.com/smallbiznis/wasafinance/internal/expense/domain"
	"github.com/smallbiznis/wasafinance/internal/period"
)

// DashboardMetrics holds one period's KPIs. Revenue, discount and expense
// figures cover the period only; the three customer counts without a
// period qualifier are all-time.
type DashboardMetrics struct {
	TotalRevenueBeforeDiscount int64 `json:"total_revenue_before_discount"`
	TotalRevenueAfterDiscount  int64 `json:"total_revenue_after_discount"`
	WasaRevenue                int64 `json:"wasa_revenue"`
	OfficeRevenue              int64 `json:"office_revenue"`

	WasaProfit   int64 `json:"wasa_profit"`
	OfficeProfit int64 `json:"office_profit"`

	TotalDiscount       int64 `json:"total_discount"`
	WasaTotalDiscount   int64 `json:"wasa_total_discount"`
	OfficeTotalDiscount int64 `json:"office_total_discount"`

	TotalExpenses int64 `json:"total_expenses"`
	ExpenseCount  int   `json:"expense_count"`

	WasaNetProfitBeforeDiscount int64 `json:"wasa_net_profit_before_discount"`
	WasaNetProfitAfterDiscount  int64 `json:"wasa_net_profit_after_discount"`

	TotalActiveCustomers int `json:"total_active_customers"`
	PaidCustomers        int `json:"paid_customers"`
	UnpaidCustomers      int `json:"unpaid_customers"`

	NewCustomers            int `json:"new_customers"`
	ActiveCustomersInPeriod int `json:"active_customers_in_period"`
}

// Compute derives the KPIs for p.
func Compute(customers []customerdomain.Customer, expenses []expensedomain.Expense, p period.Period, policy ProfitShare) DashboardMetrics {
	var m DashboardMetrics

	for _, c := range customers {
		if c.Status != customerdomain.StatusOff {
			m.TotalActiveCustomers++
		}
		switch c.Status {
		case customerdomain.StatusActive:
			m.PaidCustomers++
		case customerdomain.StatusOff:
			m.UnpaidCustomers++
		}

		if !p.Contains(c.CreatedAt) {
			continue
		}
		m.NewCustomers++
		if c.Status != customerdomain.StatusActive {
			continue
		}
		m.ActiveCustomersInPeriod++

		m.TotalRevenueBeforeDiscount += c.PackagePrice
		m.TotalDiscount += c.DiscountAmount
		if c.PaymentTarget.IsKantor() {
			m.OfficeRevenue += c.PackagePrice
			m.OfficeTotalDiscount += c.DiscountAmount
		} else {
			m.WasaRevenue += c.PackagePrice
			m.WasaTotalDiscount += c.DiscountAmount
		}
	}

	for _, e := range expenses {
		if !p.Contains(e.Date) {
			continue
		}
		m.TotalExpenses += e.Amount
		m.ExpenseCount++
	}

	m.TotalRevenueAfterDiscount = m.TotalRevenueBeforeDiscount - m.TotalDiscount
	m.WasaProfit, m.OfficeProfit = policy.Split(m.WasaRevenue + m.OfficeRevenue)
	m.WasaNetProfitBeforeDiscount = m.WasaProfit - m.TotalExpenses
	m.WasaNetProfitAfterDiscount = m.WasaNetProfitBeforeDiscount - m.WasaTotalDiscount
	return m
}
