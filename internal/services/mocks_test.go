package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"budget-engine/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// noopMetrics discards every recording. Counter names are remembered so
// tests can assert a metric was emitted without a registry.
type noopMetrics struct {
	counters map[string]int
}

func newNoopMetrics() *noopMetrics {
	return &noopMetrics{counters: make(map[string]int)}
}

func (m *noopMetrics) IncrementCounter(name string, tags map[string]string) {
	m.counters[name]++
}

func (m *noopMetrics) RecordProcessingTime(name string, duration time.Duration) {}

func (m *noopMetrics) RecordGauge(name string, value float64, tags map[string]string) {}

// stubRateProvider returns a fixed rate or error for every currency
type stubRateProvider struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (p *stubRateProvider) GetRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	p.calls++
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return p.rate, nil
}

// stubRuleStore serves a fixed rule set sorted by priority, like the real store
type stubRuleStore struct {
	rules []models.CategorizationRule
	err   error
}

func (s *stubRuleStore) ListByUser(ctx context.Context, userID string) ([]models.CategorizationRule, error) {
	if s.err != nil {
		return nil, s.err
	}
	sorted := make([]models.CategorizationRule, len(s.rules))
	copy(sorted, s.rules)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return sorted, nil
}

func (s *stubRuleStore) GetByID(ctx context.Context, id uuid.UUID) (*models.CategorizationRule, error) {
	return nil, nil
}

func (s *stubRuleStore) Create(ctx context.Context, rule *models.CategorizationRule) error { return nil }

func (s *stubRuleStore) Update(ctx context.Context, rule *models.CategorizationRule) error { return nil }

func (s *stubRuleStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }

// stubCategoryStore serves a fixed category set
type stubCategoryStore struct {
	categories []models.BudgetCategory
	err        error
}

func (s *stubCategoryStore) ListByUser(ctx context.Context, userID string) ([]models.BudgetCategory, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.categories, nil
}

func (s *stubCategoryStore) GetByKey(ctx context.Context, userID, key string) (*models.BudgetCategory, error) {
	return nil, nil
}

func (s *stubCategoryStore) Create(ctx context.Context, category *models.BudgetCategory) error {
	return nil
}

func (s *stubCategoryStore) Update(ctx context.Context, category *models.BudgetCategory) error {
	return nil
}

func (s *stubCategoryStore) Delete(ctx context.Context, userID, key string) error { return nil }

// stubDetectionStore records what the detector asked it to persist
type stubDetectionStore struct {
	savedPairs []models.TransferPairRecord
	savedDupes []models.DuplicateSubscriptionRecord
	err        error
}

func (s *stubDetectionStore) SaveTransferPairs(ctx context.Context, pairs []models.TransferPairRecord) error {
	if s.err != nil {
		return s.err
	}
	s.savedPairs = append(s.savedPairs, pairs...)
	return nil
}

func (s *stubDetectionStore) SaveDuplicateSubscriptions(ctx context.Context, dupes []models.DuplicateSubscriptionRecord) error {
	if s.err != nil {
		return s.err
	}
	s.savedDupes = append(s.savedDupes, dupes...)
	return nil
}

func (s *stubDetectionStore) ListDuplicateSubscriptions(ctx context.Context, userID string) ([]models.DuplicateSubscriptionRecord, error) {
	return s.savedDupes, nil
}

func (s *stubDetectionStore) GetDuplicateSubscription(ctx context.Context, id uuid.UUID) (*models.DuplicateSubscriptionRecord, error) {
	return nil, nil
}

func (s *stubDetectionStore) ConfirmDuplicateSubscription(ctx context.Context, id uuid.UUID) (*models.DuplicateSubscriptionRecord, error) {
	return nil, nil
}

func (s *stubDetectionStore) ListTransferPairs(ctx context.Context, userID string) ([]models.TransferPairRecord, error) {
	return s.savedPairs, nil
}
