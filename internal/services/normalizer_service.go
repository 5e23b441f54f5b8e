package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"budget-engine/internal/models"
)

type normalizerService struct {
	currency CurrencyServiceInterface
	logger   *slog.Logger
	metrics  MetricsRecorderInterface
}

// NewNormalizerService creates a NormalizerServiceInterface that validates raw
// provider records and converts them into the canonical transaction shape.
func NewNormalizerService(currency CurrencyServiceInterface, logger *slog.Logger, metrics MetricsRecorderInterface) NormalizerServiceInterface {
	return &normalizerService{
		currency: currency,
		logger:   logger,
		metrics:  metrics,
	}
}

// NormalizeBatch validates each record independently. A record that fails
// validation becomes a RecordError; it never causes its siblings to be
// dropped.
func (s *normalizerService) NormalizeBatch(ctx context.Context, raw []models.RawTransaction) ([]models.NormalizedTransaction, []models.RecordError) {
	start := time.Now()
	normalized := make([]models.NormalizedTransaction, 0, len(raw))
	var recordErrors []models.RecordError

	for i := range raw {
		tx, err := s.normalizeOne(ctx, &raw[i])
		if err != nil {
			recordErrors = append(recordErrors, models.RecordError{
				Index:         i,
				TransactionID: raw[i].TransactionID,
				Err:           err,
				Message:       err.Error(),
			})
			continue
		}
		normalized = append(normalized, *tx)
	}

	if len(recordErrors) > 0 {
		s.logger.Warn("batch contained invalid records",
			"total", len(raw),
			"rejected", len(recordErrors))
	}
	s.metrics.IncrementCounter("transactions_normalized", map[string]string{"status": "accepted"})
	s.metrics.RecordProcessingTime("normalize_batch", time.Since(start))

	return normalized, recordErrors
}

func (s *normalizerService) normalizeOne(ctx context.Context, raw *models.RawTransaction) (*models.NormalizedTransaction, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}

	amount := raw.Amount
	// Providers that report debits as positive magnitudes get sign-corrected
	// from the transaction type; signed amounts are trusted as-is.
	if raw.Type == models.TransactionTypeDebit && amount.IsPositive() {
		amount = amount.Neg()
	}
	if raw.Type == models.TransactionTypeCredit && amount.IsNegative() {
		amount = amount.Neg()
	}

	converted, degraded, err := s.currency.Convert(ctx, amount, raw.Currency)
	if err != nil {
		return nil, models.NewFieldError("currency", err.Error())
	}

	return &models.NormalizedTransaction{
		ID:                 raw.TransactionID,
		PostedAt:           raw.Timestamp.UTC(),
		Amount:             converted,
		Currency:           s.currency.SettlementCurrency(),
		Description:        strings.TrimSpace(raw.Description),
		Merchant:           deriveMerchant(raw),
		AccountID:          raw.AccountID,
		ConversionDegraded: degraded,
	}, nil
}

// deriveMerchant prefers the provider's merchant field and falls back to the
// first whitespace-separated token of the description.
func deriveMerchant(raw *models.RawTransaction) string {
	if m := strings.TrimSpace(raw.MerchantName); m != "" {
		return m
	}

	fields := strings.Fields(raw.Description)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
