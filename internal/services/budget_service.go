package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"budget-engine/internal/models"
	"budget-engine/internal/stores"

	"github.com/shopspring/decimal"
)

var ErrInvalidPeriod = errors.New("period must be in YYYY-MM format")

var periodPattern = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

type budgetService struct {
	categories      stores.CategoryStoreInterface
	atRiskThreshold float64
	now             func() time.Time

	logger  *slog.Logger
	metrics MetricsRecorderInterface
}

// NewBudgetService creates a BudgetServiceInterface. Categories whose spend
// exceeds the given fraction of their target are reported as at risk.
func NewBudgetService(categories stores.CategoryStoreInterface, atRiskThreshold float64, logger *slog.Logger, metrics MetricsRecorderInterface) BudgetServiceInterface {
	return &budgetService{
		categories:      categories,
		atRiskThreshold: atRiskThreshold,
		now:             time.Now,
		logger:          logger,
		metrics:         metrics,
	}
}

// BuildSummary aggregates the period's spending against the user's budget.
// Transfers and confirmed duplicates never count toward spend; inflows count
// toward income, not category spend. A user with no configured categories
// gets an empty summary back, not an error.
func (s *budgetService) BuildSummary(ctx context.Context, userID, period string, txs []models.NormalizedTransaction) (*models.BudgetSummary, error) {
	year, month, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading budget categories: %w", err)
	}

	spentByCategory := make(map[string]decimal.Decimal)
	totalSpent := decimal.Zero
	totalIncome := decimal.Zero
	inPeriod := 0
	categorized := 0

	for i := range txs {
		tx := &txs[i]
		if !tx.CountsTowardSpend() || !tx.PostedInMonth(year, month) {
			continue
		}
		inPeriod++
		if tx.IsCategorized() {
			categorized++
		}

		if tx.IsInflow() {
			totalIncome = totalIncome.Add(tx.Amount)
			continue
		}

		// Uncategorized outflows count toward coverage but not spend totals;
		// they surface to the caller as low-confidence review items instead.
		if tx.Category != "" {
			magnitude := tx.Amount.Abs()
			totalSpent = totalSpent.Add(magnitude)
			spentByCategory[tx.Category] = spentByCategory[tx.Category].Add(magnitude)
		}
	}

	summaries := make([]models.CategoryBudgetSummary, 0, len(categories))
	for i := range categories {
		cat := &categories[i]
		spent := spentByCategory[cat.Key]

		status := models.BudgetStatusOK
		if cat.Target.IsPositive() {
			ratio, _ := spent.Div(cat.Target).Float64()
			if ratio > s.atRiskThreshold {
				status = models.BudgetStatusAtRisk
			}
		} else if spent.IsPositive() {
			// Any spend against a zero target is over budget
			status = models.BudgetStatusAtRisk
		}

		summaries = append(summaries, models.CategoryBudgetSummary{
			Key:       cat.Key,
			Label:     cat.Label,
			Target:    cat.Target,
			Spent:     spent,
			Remaining: cat.Target.Sub(spent),
			Rollover:  cat.Rollover,
			Status:    status,
		})
	}

	coverage := 0.0
	if inPeriod > 0 {
		coverage = float64(categorized) / float64(inPeriod)
	}

	summary := &models.BudgetSummary{
		Period:      period,
		GeneratedAt: s.now().UTC(),
		Categories:  summaries,
		Totals: models.BudgetTotals{
			Spent:  totalSpent,
			Income: totalIncome,
		},
		CoveragePct: coverage,
	}

	s.logger.Info("built budget summary",
		"user_id", userID,
		"period", period,
		"transactions_in_period", inPeriod,
		"total_spent", totalSpent.String(),
		"coverage", coverage)
	s.metrics.RecordGauge("budget_coverage", coverage, map[string]string{"period": period})

	return summary, nil
}

func parsePeriod(period string) (int, time.Month, error) {
	match := periodPattern.FindStringSubmatch(period)
	if match == nil {
		return 0, 0, ErrInvalidPeriod
	}

	year, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, ErrInvalidPeriod
	}
	month, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, 0, ErrInvalidPeriod
	}

	return year, time.Month(month), nil
}
