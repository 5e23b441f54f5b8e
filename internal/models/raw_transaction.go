package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// RawTransaction is a provider-reported transaction exactly as the fetch
// collaborator delivered it. The engine never persists these; they exist
// only for the duration of a batch.
type RawTransaction struct {
	TransactionID  string          `json:"transaction_id"`
	Timestamp      time.Time       `json:"timestamp"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Type           string          `json:"transaction_type"`
	Description    string          `json:"description"`
	MerchantName   string          `json:"merchant_name,omitempty"`
	Classification []string        `json:"transaction_classification,omitempty"`
	// AccountID is the provider's real account reference. It must never be
	// substituted with the transaction id: transaction ids are unique per
	// transaction, and using them here makes every transaction look like it
	// came from its own account, silently disabling transfer detection.
	AccountID string `json:"account_id"`
}

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeCredit, TransactionTypeDebit:
		return true
	default:
		return false
	}
}

// FieldError reports a single missing or malformed field on a raw record
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

// NewFieldError creates a FieldError for the given field
func NewFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}

// RecordError ties a normalization failure to its position in the batch.
// Per-record failures are collected, never escalated to a batch abort.
type RecordError struct {
	Index         int    `json:"index"`
	TransactionID string `json:"transaction_id,omitempty"`
	Err           error  `json:"-"`
	Message       string `json:"message"`
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (%s): %v", e.Index, e.TransactionID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Validate checks the fields the engine cannot proceed without. A zero
// timestamp, empty account reference, or zero amount on a non-zero-value
// record each fail this single record only.
func (t *RawTransaction) Validate() error {
	if t.TransactionID == "" {
		return NewFieldError("transaction_id", "required")
	}
	if t.Timestamp.IsZero() {
		return NewFieldError("timestamp", "required")
	}
	if t.AccountID == "" {
		return NewFieldError("account_id", "required")
	}
	if t.Currency == "" {
		return NewFieldError("currency", "required")
	}
	if t.Amount.IsZero() {
		return NewFieldError("amount", "required")
	}
	if t.Type != "" && !IsValidTransactionType(t.Type) {
		return NewFieldError("transaction_type", "must be credit or debit")
	}
	return nil
}
