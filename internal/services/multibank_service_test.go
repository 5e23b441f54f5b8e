package services

import (
	"context"
	"testing"
	"time"

	"budget-engine/internal/models"

	"github.com/stretchr/testify/suite"
)

type MultiBankServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *stubDetectionStore
	svc   MultiBankServiceInterface
}

func TestMultiBankServiceSuite(t *testing.T) {
	suite.Run(t, new(MultiBankServiceTestSuite))
}

func (s *MultiBankServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = &stubDetectionStore{}
	s.svc = NewMultiBankService(s.store, testLogger(), newNoopMetrics())
}

func (s *MultiBankServiceTestSuite) TestDetectTransfers_CrossInstitution() {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	txs := []models.NormalizedTransaction{
		normalizedTx("tx-out", "monzo-acc", "-500", "SAVINGS", day),
		normalizedTx("tx-in", "barclays-acc", "500", "TOP UP", day.AddDate(0, 0, 1)),
	}

	pairs := s.svc.DetectTransfers(s.ctx, txs)

	s.Require().Len(pairs, 1)
	s.Equal("monzo-acc", pairs[0].SourceAccountID)
	s.Equal("barclays-acc", pairs[0].DestinationAccountID)
	s.True(txs[0].IsTransfer)
	s.True(txs[1].IsTransfer)
}

func (s *MultiBankServiceTestSuite) TestDetectTransfers_PennyTolerance() {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	withinTolerance := []models.NormalizedTransaction{
		normalizedTx("tx-out", "acc-1", "-100.00", "", day),
		normalizedTx("tx-in", "acc-2", "99.99", "", day),
	}
	s.Len(s.svc.DetectTransfers(s.ctx, withinTolerance), 1)

	beyondTolerance := []models.NormalizedTransaction{
		normalizedTx("tx-out", "acc-1", "-100.00", "", day),
		normalizedTx("tx-in", "acc-2", "99.97", "", day),
	}
	s.Empty(s.svc.DetectTransfers(s.ctx, beyondTolerance))
}

func (s *MultiBankServiceTestSuite) TestDetectTransfers_MerchantPhraseExcluded() {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	txs := []models.NormalizedTransaction{
		normalizedTx("tx-out", "acc-1", "-100", "PAYMENT TO JOHN SMITH", day),
		normalizedTx("tx-in", "acc-2", "100", "", day),
	}

	s.Empty(s.svc.DetectTransfers(s.ctx, txs))
	s.False(txs[0].IsTransfer)
}

func (s *MultiBankServiceTestSuite) TestDetectTransfers_TooFarApart() {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	txs := []models.NormalizedTransaction{
		normalizedTx("tx-out", "acc-1", "-100", "", day),
		normalizedTx("tx-in", "acc-2", "100", "", day.AddDate(0, 0, 5)),
	}

	s.Empty(s.svc.DetectTransfers(s.ctx, txs))
}

func (s *MultiBankServiceTestSuite) TestDetectTransfers_NoDoublePairing() {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	txs := []models.NormalizedTransaction{
		normalizedTx("tx-out", "acc-1", "-100", "", day),
		normalizedTx("tx-in-1", "acc-2", "100", "", day),
		normalizedTx("tx-in-2", "acc-2", "100", "", day.Add(time.Hour)),
	}

	pairs := s.svc.DetectTransfers(s.ctx, txs)

	s.Len(pairs, 1, "an outflow pairs with at most one inflow")
}

func (s *MultiBankServiceTestSuite) TestNormalizeMerchantName() {
	testCases := []struct {
		in       string
		expected string
	}{
		{"DD NETFLIX", "NETFLIX"},
		{"PAYMENT TO ACME LTD", "ACME"},
		{"DIRECT DEBIT BRITISH GAS PLC", "BRITISH GAS"},
		{"  netflix  ", "NETFLIX"},
		{"STANDING ORDER PUREGYM LIMITED", "PUREGYM"},
	}

	for _, tc := range testCases {
		s.Equal(tc.expected, NormalizeMerchantName(tc.in), "input %q", tc.in)
	}
}

func (s *MultiBankServiceTestSuite) TestDetectDuplicateSubscriptions() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tx1 := normalizedTx("tx-1", "acc-monzo", "-10.99", "DD NETFLIX", day)
	tx1.Merchant = "NETFLIX"
	tx2 := normalizedTx("tx-2", "acc-barclays", "-10.99", "NETFLIX.COM", day.AddDate(0, 0, 3))
	tx2.Merchant = "DD NETFLIX"

	candidates := s.svc.DetectDuplicateSubscriptions(s.ctx, []models.NormalizedTransaction{tx1, tx2})

	s.Require().Len(candidates, 1)
	s.Equal("NETFLIX", candidates[0].Merchant)
	s.False(candidates[0].UserConfirmed, "detector never auto-confirms")
	s.InDelta(0.87, candidates[0].SimilarityScore, 0.02)
	s.NotEqual(candidates[0].Tx1Hash, candidates[0].Tx2Hash)
}

func (s *MultiBankServiceTestSuite) TestDetectDuplicateSubscriptions_SameAccountIgnored() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tx1 := normalizedTx("tx-1", "acc-1", "-10.99", "DD NETFLIX", day)
	tx1.Merchant = "NETFLIX"
	tx2 := normalizedTx("tx-2", "acc-1", "-10.99", "DD NETFLIX", day.AddDate(0, 0, 1))
	tx2.Merchant = "NETFLIX"

	s.Empty(s.svc.DetectDuplicateSubscriptions(s.ctx, []models.NormalizedTransaction{tx1, tx2}))
}

func (s *MultiBankServiceTestSuite) TestDetectDuplicateSubscriptions_AmountTooDifferent() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tx1 := normalizedTx("tx-1", "acc-1", "-10.99", "", day)
	tx1.Merchant = "NETFLIX"
	tx2 := normalizedTx("tx-2", "acc-2", "-15.99", "", day)
	tx2.Merchant = "NETFLIX"

	s.Empty(s.svc.DetectDuplicateSubscriptions(s.ctx, []models.NormalizedTransaction{tx1, tx2}))
}

func (s *MultiBankServiceTestSuite) TestDetectDebtPayments() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []models.NormalizedTransaction{
		normalizedTx("tx-1", "acc-1", "-250", "PAYMENT TO VISA CARD", day),
		normalizedTx("tx-2", "acc-1", "-400", "PAYMENT TO SANTANDER LOAN", day),
		normalizedTx("tx-3", "acc-1", "-1200", "HALIFAX MORTGAGE PAYMENT TO HALIFAX MORTGAGE", day),
		normalizedTx("tx-4", "acc-1", "250", "PAYMENT TO VISA CARD", day), // inflow ignored
		normalizedTx("tx-5", "acc-1", "-45.50", "TESCO STORES", day),
	}

	payments := s.svc.DetectDebtPayments(s.ctx, txs)

	s.Require().Len(payments, 3)
	s.Equal("VISA", payments[0].AccountName)
	s.Equal(models.DebtTypeCreditCard, payments[0].DebtType)
	s.Equal("250", payments[0].Amount.String())
	s.Equal("SANTANDER", payments[1].AccountName)
	s.Equal(models.DebtTypeLoan, payments[1].DebtType)
	s.Equal(models.DebtTypeLoan, payments[2].DebtType)
}

func (s *MultiBankServiceTestSuite) TestCategorizeUtilities() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []models.NormalizedTransaction{
		normalizedTx("tx-1", "acc-1", "-145", "LAMBETH BOROUGH COUNCIL TAX", day),
		normalizedTx("tx-2", "acc-1", "-38", "THAMES WATER", day),
		normalizedTx("tx-3", "acc-1", "-85", "OCTOPUS ENERGY", day),
		normalizedTx("tx-4", "acc-1", "-31", "VIRGIN MEDIA", day),
		normalizedTx("tx-5", "acc-1", "-900", "HALIFAX MTG 00012345", day),
	}

	categorized, count := s.svc.CategorizeUtilities(s.ctx, txs)

	s.Equal(5, count)
	s.Equal(models.CategoryCouncilTax, categorized[0].Category)
	s.Equal(models.CategoryWater, categorized[1].Category)
	s.Equal(models.CategoryEnergy, categorized[2].Category)
	s.Equal(models.CategoryBroadband, categorized[3].Category)
	s.Equal(models.CategoryMortgage, categorized[4].Category)
}

func (s *MultiBankServiceTestSuite) TestCategorizeUtilities_ConfidenceByPatternSpecificity() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	specific := normalizedTx("tx-1", "acc-1", "-145", "LB HACKNEY COUNCIL TAX", day)
	generic := normalizedTx("tx-2", "acc-1", "-38", "RENT MARCH", day)

	categorized, _ := s.svc.CategorizeUtilities(s.ctx, []models.NormalizedTransaction{specific, generic})

	s.Equal(models.ConfidenceHigh, categorized[0].CategoryConfidence)
	s.Equal(models.ConfidenceMedium, categorized[1].CategoryConfidence)
}

func (s *MultiBankServiceTestSuite) TestCategorizeUtilities_ExistingCategoryKept() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tx := normalizedTx("tx-1", "acc-1", "-85", "BRITISH GAS", day)
	tx.Category = models.CategoryUtilities

	categorized, count := s.svc.CategorizeUtilities(s.ctx, []models.NormalizedTransaction{tx})

	s.Zero(count)
	s.Equal(models.CategoryUtilities, categorized[0].Category)
}

func (s *MultiBankServiceTestSuite) TestAnalyze_PersistsEvidenceAndSummarizes() {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	sub1 := normalizedTx("tx-3", "acc-1", "-10.99", "NETFLIX SUBSCRIPTION", day)
	sub1.Merchant = "NETFLIX"
	sub2 := normalizedTx("tx-4", "acc-2", "-10.99", "NETFLIX.COM", day.AddDate(0, 0, 2))
	sub2.Merchant = "NETFLIX"

	txs := []models.NormalizedTransaction{
		normalizedTx("tx-1", "acc-1", "-500", "SAVINGS", day),
		normalizedTx("tx-2", "acc-2", "500", "SAVINGS", day),
		sub1,
		sub2,
		normalizedTx("tx-5", "acc-1", "-250", "PAYMENT TO AMEX CARD", day),
		normalizedTx("tx-6", "acc-1", "-38", "THAMES WATER", day),
	}

	_, summary, err := s.svc.Analyze(s.ctx, "user-1", txs)

	s.Require().NoError(err)
	s.Equal(1, summary.TransfersDetected)
	s.Equal(1, summary.DuplicatesDetected)
	s.Equal(1, summary.DebtPaymentsDetected)
	s.Len(summary.DebtPayments, 1)
	s.GreaterOrEqual(summary.UtilitiesCategorized, 1)
	s.Equal(6, summary.TotalProcessed)

	s.Require().Len(s.store.savedPairs, 1)
	s.Equal("user-1", s.store.savedPairs[0].UserID)
	s.Require().Len(s.store.savedDupes, 1)
	s.Equal("user-1", s.store.savedDupes[0].UserID)
}
