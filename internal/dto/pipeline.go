package dto

import (
	"time"

	"budget-engine/internal/models"

	"github.com/shopspring/decimal"
)

// RawTransactionRequest is one provider record in a processing request
type RawTransactionRequest struct {
	TransactionID  string          `json:"transaction_id" validate:"required"`
	Timestamp      time.Time       `json:"timestamp" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Currency       string          `json:"currency" validate:"required,currency_code"`
	Type           string          `json:"type" validate:"required,transaction_type"`
	Description    string          `json:"description"`
	MerchantName   string          `json:"merchant_name,omitempty"`
	Classification []string        `json:"classification,omitempty"`
	AccountID      string          `json:"account_id" validate:"required"`
}

// ProcessBatchRequest carries a batch of raw transactions through the pipeline
type ProcessBatchRequest struct {
	UserID       string                  `json:"user_id" validate:"required"`
	Transactions []RawTransactionRequest `json:"transactions" validate:"required,min=1,dive"`
}

// ToModel converts a request record to the model raw transaction
func (r *RawTransactionRequest) ToModel() models.RawTransaction {
	return models.RawTransaction{
		TransactionID:  r.TransactionID,
		Timestamp:      r.Timestamp,
		Amount:         r.Amount,
		Currency:       r.Currency,
		Type:           r.Type,
		Description:    r.Description,
		MerchantName:   r.MerchantName,
		Classification: r.Classification,
		AccountID:      r.AccountID,
	}
}

// RecordErrorResponse reports one rejected record from a batch
type RecordErrorResponse struct {
	Index         int    `json:"index"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message"`
}

// ProcessBatchResponse reports the outcome of one pipeline run
type ProcessBatchResponse struct {
	Transactions []models.NormalizedTransaction `json:"transactions"`
	Errors       []RecordErrorResponse          `json:"errors,omitempty"`
	Detections   *models.DetectionSummary       `json:"detections,omitempty"`
	Accepted     int                            `json:"accepted"`
	Rejected     int                            `json:"rejected"`
	Duplicates   int                            `json:"duplicates"`
	Transfers    int                            `json:"transfers"`
	DurationMs   int64                          `json:"duration_ms"`
}
