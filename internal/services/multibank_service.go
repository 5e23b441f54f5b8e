package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"budget-engine/internal/models"
	"budget-engine/internal/stores"

	"github.com/shopspring/decimal"
)

// Descriptions carrying these phrases are merchant payments, not transfers
// between a user's own accounts.
var merchantPhrases = []string{
	"PAYMENT TO", "PAYMENT FROM", "TRANSFER TO", "TRANSFER FROM",
	"DD ", "DIRECT DEBIT", "STANDING ORDER", "FASTER PAYMENT",
}

var merchantPrefixes = []string{
	"PAYMENT TO ", "PAYMENT FROM ", "DD ", "DIRECT DEBIT ",
	"STANDING ORDER ", "FASTER PAYMENT ", "TRANSFER TO ",
}

var merchantSuffixes = []string{
	" LTD", " LIMITED", " PLC", " INC", " CORP", " CORPORATION",
}

var debtPatterns = []*regexp.Regexp{
	regexp.MustCompile(`PAYMENT TO (.+) CARD`),
	regexp.MustCompile(`PAYMENT TO (.+) CREDIT`),
	regexp.MustCompile(`PAYMENT TO (.+) LOAN`),
	regexp.MustCompile(`PAYMENT TO (.+) MORTGAGE`),
	regexp.MustCompile(`(.+) CARD PAYMENT`),
	regexp.MustCompile(`(.+) LOAN PAYMENT`),
}

type utilityPattern struct {
	category string
	patterns []*regexp.Regexp
}

func initUtilityPatterns() []utilityPattern {
	compile := func(exprs ...string) []*regexp.Regexp {
		compiled := make([]*regexp.Regexp, 0, len(exprs))
		for _, expr := range exprs {
			compiled = append(compiled, regexp.MustCompile(`(?i)`+expr))
		}
		return compiled
	}

	return []utilityPattern{
		{models.CategoryCouncilTax, compile(`COUNCIL TAX`, `\bCOUNCIL\b`, `LOCAL AUTHORITY`, `BOROUGH`, `DISTRICT COUNCIL`, `CITY COUNCIL`)},
		{models.CategoryWater, compile(`WATER`, `THAMES`, `ANGLIAN`, `SEVERN TRENT`, `UNITED UTILITIES`, `YORKSHIRE WATER`)},
		{models.CategoryEnergy, compile(`BRITISH GAS`, `EDF ENERGY`, `E\.ON`, `OCTOPUS`, `BULB`, `OVO`, `UTILITA`)},
		{models.CategoryBroadband, compile(`BT\b`, `SKY`, `VIRGIN MEDIA`, `TALKTALK`, `PLUSNET`, `EE\b`)},
		{models.CategoryMortgage, compile(`MORTGAGE`, `HALIFAX MTG`, `SANTANDER MTG`, `NATIONWIDE BS`, `BARCLAYS MTG`)},
		{models.CategoryRent, compile(`RENT`, `LETTING`, `ESTATE AGENT`, `PROPERTY MANAGEMENT`, `LANDLORD`)},
		{models.CategoryInsurance, compile(`INSURANCE`, `ADMIRAL`, `DIRECT LINE`, `AVIVA`, `CHURCHILL`)},
		{models.CategoryMobile, compile(`VODAFONE`, `O2\b`, `THREE\b`, `EE MOBILE`, `GIFFGAFF`)},
	}
}

type multiBankService struct {
	detections stores.DetectionStoreInterface
	utilities  []utilityPattern

	logger  *slog.Logger
	metrics MetricsRecorderInterface
}

// NewMultiBankService creates a MultiBankServiceInterface that analyzes a
// user's combined history across institutions.
func NewMultiBankService(detections stores.DetectionStoreInterface, logger *slog.Logger, metrics MetricsRecorderInterface) MultiBankServiceInterface {
	return &multiBankService{
		detections: detections,
		utilities:  initUtilityPatterns(),
		logger:     logger,
		metrics:    metrics,
	}
}

// DetectTransfers finds likely transfers between accounts at different
// institutions: opposite signs, magnitudes within a penny of each other,
// posted within three days, and neither description phrased like a merchant
// payment. Both legs are flagged in place.
func (s *multiBankService) DetectTransfers(ctx context.Context, txs []models.NormalizedTransaction) []models.TransferPairRecord {
	byAccount := make(map[string][]int)
	var accountIDs []string
	for i := range txs {
		if _, ok := byAccount[txs[i].AccountID]; !ok {
			accountIDs = append(accountIDs, txs[i].AccountID)
		}
		byAccount[txs[i].AccountID] = append(byAccount[txs[i].AccountID], i)
	}

	var pairs []models.TransferPairRecord
	paired := make(map[int]bool)

	for a := 0; a < len(accountIDs); a++ {
		for b := a + 1; b < len(accountIDs); b++ {
			for _, i := range byAccount[accountIDs[a]] {
				for _, j := range byAccount[accountIDs[b]] {
					if paired[i] || paired[j] {
						continue
					}
					if !isTransferCandidate(&txs[i], &txs[j]) {
						continue
					}

					txs[i].IsTransfer = true
					txs[j].IsTransfer = true
					paired[i], paired[j] = true, true

					source, dest := &txs[i], &txs[j]
					if source.Amount.IsPositive() {
						source, dest = dest, source
					}
					pairs = append(pairs, models.TransferPairRecord{
						SourceAccountID:          source.AccountID,
						DestinationAccountID:     dest.AccountID,
						SourceTransactionID:      source.ID,
						DestinationTransactionID: dest.ID,
						Amount:                   source.Amount.Abs().Round(2),
					})

					s.logger.Info("detected cross-account transfer",
						"source_account", source.AccountID,
						"destination_account", dest.AccountID,
						"amount", source.Amount.Abs().String())
				}
			}
		}
	}

	return pairs
}

func isTransferCandidate(tx1, tx2 *models.NormalizedTransaction) bool {
	// Opposite signs only
	if tx1.Amount.Mul(tx2.Amount).Sign() >= 0 {
		return false
	}

	// Magnitudes may differ by up to a penny to absorb fees
	diff := tx1.Amount.Abs().Sub(tx2.Amount.Abs()).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(0.01)) {
		return false
	}

	if daysBetween(tx1.PostedAt, tx2.PostedAt) > 3 {
		return false
	}

	if containsMerchantPhrase(tx1.Description) || containsMerchantPhrase(tx2.Description) {
		return false
	}

	if tx1.IsDuplicate || tx2.IsDuplicate {
		return false
	}

	return true
}

func containsMerchantPhrase(description string) bool {
	upper := strings.ToUpper(description)
	for _, phrase := range merchantPhrases {
		if strings.Contains(upper, phrase) {
			return true
		}
	}
	return false
}

func daysBetween(t1, t2 time.Time) int {
	diff := t1.Sub(t2)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}

// DetectDuplicateSubscriptions finds the same recurring payment charged
// through two different accounts. Candidates only: nothing here sets the
// duplicate flag, confirmation is a human decision.
func (s *multiBankService) DetectDuplicateSubscriptions(ctx context.Context, txs []models.NormalizedTransaction) []models.DuplicateSubscriptionRecord {
	merchantGroups := make(map[string][]int)
	for i := range txs {
		if txs[i].Merchant == "" || txs[i].IsTransfer {
			continue
		}
		normalized := NormalizeMerchantName(txs[i].Merchant)
		merchantGroups[normalized] = append(merchantGroups[normalized], i)
	}

	var candidates []models.DuplicateSubscriptionRecord
	for merchant, indices := range merchantGroups {
		if len(indices) < 2 {
			continue
		}

		byAccount := make(map[string][]int)
		var accountIDs []string
		for _, i := range indices {
			if _, ok := byAccount[txs[i].AccountID]; !ok {
				accountIDs = append(accountIDs, txs[i].AccountID)
			}
			byAccount[txs[i].AccountID] = append(byAccount[txs[i].AccountID], i)
		}

		for a := 0; a < len(accountIDs); a++ {
			for b := a + 1; b < len(accountIDs); b++ {
				for _, i := range byAccount[accountIDs[a]] {
					for _, j := range byAccount[accountIDs[b]] {
						if !isDuplicateCandidate(&txs[i], &txs[j]) {
							continue
						}

						candidates = append(candidates, models.DuplicateSubscriptionRecord{
							Tx1Hash:         evidenceHash(&txs[i]),
							Tx2Hash:         evidenceHash(&txs[j]),
							Merchant:        merchant,
							SimilarityScore: similarityScore(&txs[i], &txs[j]),
						})

						s.logger.Info("detected potential duplicate subscription",
							"merchant", merchant,
							"account_1", txs[i].AccountID,
							"account_2", txs[j].AccountID)
					}
				}
			}
		}
	}

	return candidates
}

func isDuplicateCandidate(tx1, tx2 *models.NormalizedTransaction) bool {
	avg := tx1.Amount.Abs().Add(tx2.Amount.Abs()).Div(decimal.NewFromInt(2))
	if avg.IsZero() {
		return false
	}

	diff := tx1.Amount.Sub(tx2.Amount).Abs()
	if diff.Div(avg).GreaterThan(decimal.NewFromFloat(0.1)) {
		return false
	}

	return daysBetween(tx1.PostedAt, tx2.PostedAt) <= 7
}

// similarityScore weights merchant identity at 40%, amount closeness at 30%,
// and date proximity within a week at 30%.
func similarityScore(tx1, tx2 *models.NormalizedTransaction) float64 {
	score := 0.0

	if NormalizeMerchantName(tx1.Merchant) == NormalizeMerchantName(tx2.Merchant) {
		score += 0.4
	}

	avg := tx1.Amount.Abs().Add(tx2.Amount.Abs()).Div(decimal.NewFromInt(2))
	if avg.IsPositive() {
		diff := tx1.Amount.Sub(tx2.Amount).Abs()
		closeness, _ := decimal.NewFromInt(1).Sub(diff.Div(avg)).Float64()
		if closeness > 0 {
			score += closeness * 0.3
		}
	}

	dateCloseness := 1.0 - float64(daysBetween(tx1.PostedAt, tx2.PostedAt))/7.0
	if dateCloseness > 0 {
		score += dateCloseness * 0.3
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func evidenceHash(tx *models.NormalizedTransaction) string {
	payload := fmt.Sprintf("%s_%s_%s_%s",
		tx.AccountID, tx.Amount.String(), tx.PostedAt.UTC().Format(time.RFC3339), tx.Merchant)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// NormalizeMerchantName strips payment-rail prefixes and company-form
// suffixes so the same merchant compares equal across institutions.
func NormalizeMerchantName(merchant string) string {
	normalized := strings.ToUpper(strings.TrimSpace(merchant))

	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			normalized = normalized[len(prefix):]
			break
		}
	}

	for _, suffix := range merchantSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = normalized[:len(normalized)-len(suffix)]
			break
		}
	}

	return strings.TrimSpace(normalized)
}

// DetectDebtPayments extracts debt payment records from outgoing transaction
// descriptions. The first matching pattern wins per transaction.
func (s *multiBankService) DetectDebtPayments(ctx context.Context, txs []models.NormalizedTransaction) []models.DebtPayment {
	var payments []models.DebtPayment

	for i := range txs {
		if !txs[i].Amount.IsNegative() {
			continue
		}

		upper := strings.ToUpper(txs[i].Description)
		for _, pattern := range debtPatterns {
			match := pattern.FindStringSubmatch(upper)
			if match == nil {
				continue
			}

			debtType := models.DebtTypeCreditCard
			if strings.Contains(upper, "LOAN") || strings.Contains(upper, "MORTGAGE") {
				debtType = models.DebtTypeLoan
			}

			payments = append(payments, models.DebtPayment{
				AccountName: strings.TrimSpace(match[1]),
				DebtType:    debtType,
				Amount:      txs[i].Amount.Abs(),
				PaymentDate: txs[i].PostedAt,
			})

			s.logger.Info("detected debt payment",
				"account_name", strings.TrimSpace(match[1]),
				"debt_type", debtType,
				"amount", txs[i].Amount.Abs().String())
			break
		}
	}

	return payments
}

// CategorizeUtilities applies UK household payment patterns to transactions
// with no category yet. Longer patterns are more specific and score higher.
func (s *multiBankService) CategorizeUtilities(ctx context.Context, txs []models.NormalizedTransaction) ([]models.NormalizedTransaction, int) {
	categorized := 0

	for i := range txs {
		if txs[i].Category != "" || txs[i].IsTransfer || txs[i].IsDuplicate {
			continue
		}

		category, confidence := s.matchUtility(&txs[i])
		if category == "" {
			continue
		}

		txs[i].Category = category
		if confidence > 0.8 {
			txs[i].CategoryConfidence = models.ConfidenceHigh
		} else {
			txs[i].CategoryConfidence = models.ConfidenceMedium
		}
		categorized++

		s.logger.Debug("categorized household payment",
			"description", txs[i].Description,
			"category", category,
			"confidence", confidence)
	}

	return txs, categorized
}

func (s *multiBankService) matchUtility(tx *models.NormalizedTransaction) (string, float64) {
	text := strings.ToUpper(tx.Description) + " " + strings.ToUpper(tx.Merchant)

	bestCategory := ""
	bestConfidence := 0.0

	for _, utility := range s.utilities {
		for _, pattern := range utility.patterns {
			if !pattern.MatchString(text) {
				continue
			}

			// Longer patterns name a specific provider and earn more trust
			confidence := 0.7
			if len(pattern.String())-len(`(?i)`) > 10 {
				confidence = 0.9
			}
			if confidence > bestConfidence {
				bestCategory = utility.category
				bestConfidence = confidence
			}
		}
	}

	return bestCategory, bestConfidence
}

// Analyze runs every detection pass in order, persists the evidence, and
// returns the updated transactions with a process summary.
func (s *multiBankService) Analyze(ctx context.Context, userID string, txs []models.NormalizedTransaction) ([]models.NormalizedTransaction, *models.DetectionSummary, error) {
	start := time.Now()
	s.logger.Info("running multi-bank analysis", "user_id", userID, "transactions", len(txs))

	pairs := s.DetectTransfers(ctx, txs)
	for i := range pairs {
		pairs[i].UserID = userID
	}
	if len(pairs) > 0 {
		if err := s.detections.SaveTransferPairs(ctx, pairs); err != nil {
			return nil, nil, fmt.Errorf("saving transfer pairs: %w", err)
		}
	}

	dupes := s.DetectDuplicateSubscriptions(ctx, txs)
	for i := range dupes {
		dupes[i].UserID = userID
	}
	if len(dupes) > 0 {
		if err := s.detections.SaveDuplicateSubscriptions(ctx, dupes); err != nil {
			return nil, nil, fmt.Errorf("saving duplicate subscriptions: %w", err)
		}
	}

	debts := s.DetectDebtPayments(ctx, txs)

	txs, utilitiesCategorized := s.CategorizeUtilities(ctx, txs)

	summary := &models.DetectionSummary{
		TransfersDetected:    len(pairs),
		DuplicatesDetected:   len(dupes),
		DebtPaymentsDetected: len(debts),
		UtilitiesCategorized: utilitiesCategorized,
		TotalProcessed:       len(txs),
		DebtPayments:         debts,
	}

	s.logger.Info("multi-bank analysis complete",
		"user_id", userID,
		"transfers_detected", summary.TransfersDetected,
		"duplicates_detected", summary.DuplicatesDetected,
		"debt_payments_detected", summary.DebtPaymentsDetected,
		"utilities_categorized", summary.UtilitiesCategorized)
	s.metrics.IncrementCounter("multibank_analyses", nil)
	s.metrics.RecordProcessingTime("multibank_analysis", time.Since(start))

	return txs, summary, nil
}
