package domain

import (
	"context"

	"github.com/smallbiznis/wasafinance/internal/dashboard/calc"
)

// SummaryRequest selects a month. Zero Year and Month mean the current
// month in the business timezone.
type SummaryRequest struct {
	Year  int
	Month int
}

type PeriodInfo struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Label         string `json:"label"`
	PreviousLabel string `json:"previous_label"`
}

type Summary struct {
	Metrics     calc.DashboardMetrics  `json:"metrics"`
	Comparison  calc.ComparisonMetrics `json:"comparison"`
	Period      PeriodInfo             `json:"period"`
	ProfitShare calc.ProfitShare       `json:"profit_share"`
}

type Service interface {
	Summary(ctx context.Context, req SummaryRequest) (Summary, error)
}
