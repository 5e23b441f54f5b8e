package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Debt payment classifications
const (
	DebtTypeCreditCard = "credit_card"
	DebtTypeLoan       = "loan"
)

// TransferPairRecord is audit evidence of a detected intra-user transfer.
// It is written out for review and is not required to produce a summary.
type TransferPairRecord struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID                   string          `gorm:"type:varchar(64);not null;index" json:"user_id"`
	SourceAccountID          string          `gorm:"type:varchar(128);not null" json:"source_account_id"`
	DestinationAccountID     string          `gorm:"type:varchar(128);not null" json:"destination_account_id"`
	SourceTransactionID      string          `gorm:"type:varchar(128);not null" json:"source_transaction_id"`
	DestinationTransactionID string          `gorm:"type:varchar(128);not null" json:"destination_transaction_id"`
	Amount                   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DetectedAt               time.Time       `gorm:"not null;index" json:"detected_at"`
}

// BeforeCreate hook for TransferPairRecord
func (r *TransferPairRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.DetectedAt.IsZero() {
		r.DetectedAt = time.Now().UTC()
	}
	return nil
}

// TableName returns the table name for TransferPairRecord
func (r *TransferPairRecord) TableName() string {
	return "transfer_pairs"
}

// DuplicateSubscriptionRecord is evidence of the same recurring payment
// charged from two different accounts. It is a candidate only: spend
// exclusion requires UserConfirmed to be set by a human, never by the
// detector itself.
type DuplicateSubscriptionRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID          string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Tx1Hash         string    `gorm:"type:varchar(64);not null" json:"tx1_hash"`
	Tx2Hash         string    `gorm:"type:varchar(64);not null" json:"tx2_hash"`
	Merchant        string    `gorm:"type:varchar(255)" json:"merchant,omitempty"`
	SimilarityScore float64   `gorm:"not null" json:"similarity_score"`
	UserConfirmed   bool      `gorm:"not null;default:false" json:"user_confirmed"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
}

// BeforeCreate hook for DuplicateSubscriptionRecord
func (r *DuplicateSubscriptionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Confirm marks the candidate as human-confirmed
func (r *DuplicateSubscriptionRecord) Confirm() {
	r.UserConfirmed = true
	now := time.Now().UTC()
	r.ConfirmedAt = &now
}

// TableName returns the table name for DuplicateSubscriptionRecord
func (r *DuplicateSubscriptionRecord) TableName() string {
	return "duplicate_subscriptions"
}

// DebtPayment is a detected credit-card, loan, or mortgage payment,
// extracted from the transaction description. Outgoing amounts only.
type DebtPayment struct {
	AccountName string          `json:"account_name"`
	DebtType    string          `json:"debt_type"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
}

// DetectionSummary is the multi-bank detector's process summary, emitted
// to the audit sink after each cross-account pass.
type DetectionSummary struct {
	TransfersDetected    int           `json:"transfers_detected"`
	DuplicatesDetected   int           `json:"duplicates_detected"`
	DebtPaymentsDetected int           `json:"debt_payments_detected"`
	UtilitiesCategorized int           `json:"utilities_categorized"`
	TotalProcessed       int           `json:"total_processed"`
	DebtPayments         []DebtPayment `json:"debt_payments,omitempty"`
}
