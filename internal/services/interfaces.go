package services

import (
	"context"
	"time"

	"budget-engine/internal/models"

	"github.com/shopspring/decimal"
)

// RateProviderInterface supplies exchange rates from an external source.
// Implementations are expected to be safe for concurrent use.
type RateProviderInterface interface {
	// GetRate returns the conversion rate from one currency to another.
	GetRate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// CurrencyServiceInterface converts transaction amounts into the settlement currency
type CurrencyServiceInterface interface {
	// Convert converts an amount from the given currency into the settlement
	// currency. The bool result reports whether the conversion was degraded
	// (rate unavailable, identity rate applied).
	Convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, bool, error)

	// SettlementCurrency returns the currency all amounts are normalized into
	SettlementCurrency() string

	// InvalidateCache drops all cached rates
	InvalidateCache()
}

// NormalizerServiceInterface converts provider-specific raw records into the
// canonical transaction shape
type NormalizerServiceInterface interface {
	// NormalizeBatch validates and normalizes a batch of raw transactions.
	// Invalid records are returned as RecordErrors; valid records are never
	// discarded because of a bad sibling.
	NormalizeBatch(ctx context.Context, raw []models.RawTransaction) ([]models.NormalizedTransaction, []models.RecordError)
}

// DeduplicationCacheInterface stores transaction hashes with their first-seen
// timestamps. Implementations must be safe for concurrent use.
type DeduplicationCacheInterface interface {
	// Seen reports whether the hash was recorded within the window ending at now
	Seen(hash string, now time.Time, window time.Duration) bool

	// Record stores the hash with its observation time
	Record(hash string, seenAt time.Time)

	// Purge removes entries older than the retention cutoff and returns the
	// number of entries removed
	Purge(cutoff time.Time) int

	// Len returns the number of stored hashes
	Len() int
}

// DedupServiceInterface flags repeated submissions of the same transaction
type DedupServiceInterface interface {
	// MarkDuplicates computes content hashes for the batch and flags
	// transactions whose hash was already seen within the dedup window
	MarkDuplicates(ctx context.Context, txs []models.NormalizedTransaction) []models.NormalizedTransaction

	// Hash returns the content hash used for duplicate detection
	Hash(tx *models.NormalizedTransaction) string
}

// TransferServiceInterface pairs opposing legs of same-day transfers between
// a user's own accounts
type TransferServiceInterface interface {
	// MarkTransfers flags both legs of each matched transfer pair and returns
	// the pairs that were found
	MarkTransfers(ctx context.Context, txs []models.NormalizedTransaction) ([]models.NormalizedTransaction, []models.TransferPairRecord)
}

// CategorizerServiceInterface assigns budget categories to transactions
type CategorizerServiceInterface interface {
	// Categorize assigns a category to each transaction using user rules
	// first, then keyword heuristics
	Categorize(ctx context.Context, userID string, txs []models.NormalizedTransaction) ([]models.NormalizedTransaction, error)
}

// MultiBankServiceInterface runs cross-account analysis over a user's
// combined transaction history
type MultiBankServiceInterface interface {
	// DetectTransfers finds likely transfers between accounts at different
	// institutions
	DetectTransfers(ctx context.Context, txs []models.NormalizedTransaction) []models.TransferPairRecord

	// DetectDuplicateSubscriptions finds the same recurring payment charged
	// through more than one account
	DetectDuplicateSubscriptions(ctx context.Context, txs []models.NormalizedTransaction) []models.DuplicateSubscriptionRecord

	// DetectDebtPayments extracts debt payment records from transaction
	// descriptions
	DetectDebtPayments(ctx context.Context, txs []models.NormalizedTransaction) []models.DebtPayment

	// CategorizeUtilities applies UK household payment patterns to
	// transactions that have no category yet
	CategorizeUtilities(ctx context.Context, txs []models.NormalizedTransaction) ([]models.NormalizedTransaction, int)

	// Analyze runs all detections, persists the results, and returns a summary
	Analyze(ctx context.Context, userID string, txs []models.NormalizedTransaction) ([]models.NormalizedTransaction, *models.DetectionSummary, error)
}

// BudgetServiceInterface aggregates processed transactions into budget summaries
type BudgetServiceInterface interface {
	// BuildSummary aggregates spending for the given YYYY-MM period against
	// the user's configured budget categories
	BuildSummary(ctx context.Context, userID, period string, txs []models.NormalizedTransaction) (*models.BudgetSummary, error)
}

// PipelineServiceInterface runs the full processing pipeline for a batch of
// raw transactions
type PipelineServiceInterface interface {
	// Process runs normalization, currency conversion, deduplication,
	// transfer detection, categorization and multi-bank analysis in order
	Process(ctx context.Context, userID string, raw []models.RawTransaction) (*models.PipelineResult, error)
}

// TransactionGeneratorInterface generates realistic transaction data for testing
type TransactionGeneratorInterface interface {
	GenerateTransactions(accountID string, startDate, endDate time.Time, count int) []models.RawTransaction
	GenerateTransferPairs(accountA, accountB string, startDate time.Time, count int) []models.RawTransaction
	GenerateSubscriptions(accountID string, startDate time.Time, months int) []models.RawTransaction
	SelectRandomMerchant() MerchantInfo
	GenerateAmount(category string) decimal.Decimal
	GenerateTimestamp(startDate, endDate time.Time) time.Time
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
