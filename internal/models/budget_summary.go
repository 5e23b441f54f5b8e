package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryBudgetSummary is the aggregated view of one budget category for
// the requested period
type CategoryBudgetSummary struct {
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	Target    decimal.Decimal `json:"target"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Rollover  bool            `json:"rollover"`
	Status    string          `json:"status"`
}

// BudgetTotals aggregates spend and income across the whole filtered set
type BudgetTotals struct {
	Spent  decimal.Decimal `json:"spent"`
	Income decimal.Decimal `json:"income"`
}

// BudgetSummary is the final aggregation output. It is computed fresh on
// every call and never mutated afterwards.
type BudgetSummary struct {
	Period      string                  `json:"period"`
	GeneratedAt time.Time               `json:"generated_at"`
	Categories  []CategoryBudgetSummary `json:"categories"`
	Totals      BudgetTotals            `json:"totals"`
	// CoveragePct is the fraction of non-transfer, non-duplicate
	// transactions in the period that received a category, in [0, 1].
	CoveragePct float64 `json:"coverage_pct"`
}
