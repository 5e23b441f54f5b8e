package services

import (
	"context"
	"testing"
	"time"

	"budget-engine/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CategorizerServiceTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestCategorizerServiceSuite(t *testing.T) {
	suite.Run(t, new(CategorizerServiceTestSuite))
}

func (s *CategorizerServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *CategorizerServiceTestSuite) newService(rules ...models.CategorizationRule) CategorizerServiceInterface {
	return NewCategorizerService(&stubRuleStore{rules: rules}, testLogger(), newNoopMetrics())
}

func spendTx(id, merchant, description string) models.NormalizedTransaction {
	return models.NormalizedTransaction{
		ID:          id,
		PostedAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-25.00"),
		Currency:    "GBP",
		Merchant:    merchant,
		Description: description,
		AccountID:   "acc-1",
	}
}

func (s *CategorizerServiceTestSuite) TestCategorize_KeywordHeuristics() {
	testCases := []struct {
		merchant string
		category string
	}{
		{"TESCO STORES", models.CategoryGroceries},
		{"SHELL PETROL", models.CategoryTransport},
		{"BRITISH GAS", models.CategoryUtilities},
		{"NETFLIX", models.CategoryEntertainment},
		{"AMAZON UK", models.CategoryShopping},
	}

	svc := s.newService()
	for _, tc := range testCases {
		s.Run(tc.merchant, func() {
			txs, err := svc.Categorize(s.ctx, "user-1", []models.NormalizedTransaction{
				spendTx("tx-1", tc.merchant, tc.merchant+" 0042"),
			})
			s.NoError(err)
			s.Equal(tc.category, txs[0].Category)
			s.Equal(models.ConfidenceHigh, txs[0].CategoryConfidence)
		})
	}
}

func (s *CategorizerServiceTestSuite) TestCategorize_ShortKeywordsNeedWholeWords() {
	testCases := []struct {
		name     string
		merchant string
		category string
	}{
		{"tfl as a word", "TFL TRAVEL CHARGE", models.CategoryTransport},
		{"bp as a word", "BP CONNECT LEEDS", models.CategoryTransport},
		{"tfl inside netflix does not fire", "NETFLIX.COM", models.CategoryEntertainment},
	}

	svc := s.newService()
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			txs, err := svc.Categorize(s.ctx, "user-1", []models.NormalizedTransaction{
				spendTx("tx-1", tc.merchant, tc.merchant),
			})
			s.NoError(err)
			s.Equal(tc.category, txs[0].Category)
		})
	}
}

func (s *CategorizerServiceTestSuite) TestCategorize_SkipsFlaggedTransactions() {
	svc := s.newService()

	transfer := spendTx("tx-1", "TESCO STORES", "TESCO STORES 3021")
	transfer.IsTransfer = true
	duplicate := spendTx("tx-2", "TESCO STORES", "TESCO STORES 3021")
	duplicate.IsDuplicate = true

	txs, err := svc.Categorize(s.ctx, "user-1", []models.NormalizedTransaction{transfer, duplicate})

	s.NoError(err)
	s.Empty(txs[0].Category)
	s.Empty(txs[0].CategoryConfidence)
	s.Empty(txs[1].Category)
	s.Empty(txs[1].CategoryConfidence)
}

func (s *CategorizerServiceTestSuite) TestCategorize_RuleBeatsKeyword() {
	rule := models.CategorizationRule{
		UserID:           "user-1",
		CategoryKey:      models.CategoryShopping,
		Priority:         10,
		MerchantContains: "tesco",
	}
	svc := s.newService(rule)

	txs, err := svc.Categorize(s.ctx, "user-1", []models.NormalizedTransaction{
		spendTx("tx-1", "TESCO STORES", "TESCO STORES 3021"),
	})

	s.NoError(err)
	s.Equal(models.CategoryShopping, txs[0].Category)
	s.Equal(models.ConfidenceHigh, txs[0].CategoryConfidence)
}

func (s *CategorizerServiceTestSuite) TestCategorize_LowestPriorityNumberWins() {
	svc := s.newService(
		models.CategorizationRule{
			UserID: "user-1", CategoryKey: models.CategoryEntertainment,
			Priority: 50, MerchantContains: "tesco",
		},
		models.CategorizationRule{
			UserID: "user-1", CategoryKey: models.CategoryGroceries,
			Priority: 5, MerchantContains: "tesco",
		},
	)

	txs, err := svc.Categorize(s.ctx, "user-1", []models.NormalizedTransaction{
		spendTx("tx-1", "TESCO STORES", ""),
	})

	s.NoError(err)
	s.Equal(models.CategoryGroceries, txs[0].Category)
}

func (s *CategorizerServiceTestSuite) TestCategorize_AmountBoundedRule() {
	min := decimal.RequireFromString("-100")
	max := decimal.RequireFromString("-50")
	svc := s.newService(models.CategorizationRule{
		UserID:      "user-1",
		CategoryKey: models.CategoryShopping,
		Priority:    1,
		AmountMin:   &min,
		AmountMax:   &max,
	})

	inRange := spendTx("tx-1", "SOMETHING", "")
	inRange.Amount = decimal.RequireFromString("-75")
	outOfRange := spendTx("tx-2", "SOMETHING", "")
	outOfRange.Amount = decimal.RequireFromString("-25")

	txs, err := svc.Categorize(s.ctx, "user-1", []models.NormalizedTransaction{inRange, outOfRange})

	s.NoError(err)
	s.Equal(models.CategoryShopping, txs[0].Category)
	s.Empty(txs[1].Category)
}

func (s *CategorizerServiceTestSuite) TestCategorize_UnmatchedStaysUncategorized() {
	svc := s.newService()

	txs, err := svc.Categorize(s.ctx, "user-1", []models.NormalizedTransaction{
		spendTx("tx-1", "UNKNOWN SHOP 99", "UNKNOWN SHOP 99"),
	})

	s.NoError(err)
	s.Empty(txs[0].Category)
	s.Equal(models.ConfidenceLow, txs[0].CategoryConfidence)
}

func (s *CategorizerServiceTestSuite) TestCategorize_StoreFailurePropagates() {
	svc := NewCategorizerService(&stubRuleStore{err: context.DeadlineExceeded}, testLogger(), newNoopMetrics())

	_, err := svc.Categorize(s.ctx, "user-1", []models.NormalizedTransaction{
		spendTx("tx-1", "TESCO", ""),
	})

	s.Error(err)
}
