package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NormalizedTransaction is the engine's canonical transaction record. The
// amount is always expressed in the settlement currency; conversion happens
// exactly once, when the record is created from a RawTransaction. The flag
// fields are mutated in place by the deduplicator, the transfer detector,
// and the categorizer as the batch moves through the pipeline.
type NormalizedTransaction struct {
	ID          string          `json:"id"`
	PostedAt    time.Time       `json:"posted_at"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Merchant    string          `json:"merchant,omitempty"`
	AccountID   string          `json:"account_id"`
	IsTransfer  bool            `json:"is_transfer"`
	IsDuplicate bool            `json:"is_duplicate"`
	// ConversionDegraded marks records whose exchange rate was unavailable
	// and an identity rate was applied. Downstream aggregation may choose
	// to flag or exclude these.
	ConversionDegraded bool   `json:"conversion_degraded,omitempty"`
	Category           string `json:"category,omitempty"`
	CategoryConfidence string `json:"category_confidence,omitempty"`
}

// IsOutflow reports whether the transaction is money leaving the account
func (t *NormalizedTransaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// IsInflow reports whether the transaction is money entering the account
func (t *NormalizedTransaction) IsInflow() bool {
	return t.Amount.IsPositive()
}

// CountsTowardSpend reports whether the transaction is eligible for
// category spend totals. Transfer-flagged and duplicate-flagged records
// never are.
func (t *NormalizedTransaction) CountsTowardSpend() bool {
	return !t.IsTransfer && !t.IsDuplicate
}

// PostedDate returns the calendar date of the posting instant in UTC
func (t *NormalizedTransaction) PostedDate() string {
	return t.PostedAt.UTC().Format("2006-01-02")
}

// PostedInMonth reports whether the transaction falls inside the given
// calendar month (UTC)
func (t *NormalizedTransaction) PostedInMonth(year int, month time.Month) bool {
	utc := t.PostedAt.UTC()
	return utc.Year() == year && utc.Month() == month
}

// IsCategorized reports whether a category has been assigned
func (t *NormalizedTransaction) IsCategorized() bool {
	return t.Category != ""
}
