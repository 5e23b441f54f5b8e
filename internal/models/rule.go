package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategorizationRule maps a user-defined matcher set to a category key.
// Rules are created and edited through an external store and are read-only
// to the engine. Lower priority values are evaluated first; the first rule
// whose present matchers are all satisfied wins.
type CategorizationRule struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	CategoryKey string    `gorm:"type:varchar(50);not null" json:"category_key"`
	Priority    int       `gorm:"not null;default:100;index" json:"priority"`

	// Matchers. Each is optional; an absent matcher is always satisfied.
	MerchantContains    string           `gorm:"type:varchar(255)" json:"merchant_contains,omitempty"`
	DescriptionContains string           `gorm:"type:varchar(255)" json:"description_contains,omitempty"`
	AmountMin           *decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount_min,omitempty"`
	AmountMax           *decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount_max,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for CategorizationRule
func (r *CategorizationRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return r.Validate()
}

// Validate validates the rule fields
func (r *CategorizationRule) Validate() error {
	if r.UserID == "" {
		return NewFieldError("user_id", "required")
	}
	if r.CategoryKey == "" {
		return NewFieldError("category_key", "required")
	}
	if !r.HasMatchers() {
		return NewFieldError("matchers", "at least one matcher is required")
	}
	if r.AmountMin != nil && r.AmountMax != nil && r.AmountMin.GreaterThan(*r.AmountMax) {
		return NewFieldError("amount_min", "must not exceed amount_max")
	}
	return nil
}

// HasMatchers reports whether the rule carries at least one matcher
func (r *CategorizationRule) HasMatchers() bool {
	return r.MerchantContains != "" || r.DescriptionContains != "" ||
		r.AmountMin != nil || r.AmountMax != nil
}

// Matches reports whether all present matchers are satisfied by the
// transaction. Substring matchers are case-insensitive.
func (r *CategorizationRule) Matches(tx *NormalizedTransaction) bool {
	if r.MerchantContains != "" {
		if tx.Merchant == "" || !strings.Contains(strings.ToLower(tx.Merchant), strings.ToLower(r.MerchantContains)) {
			return false
		}
	}
	if r.DescriptionContains != "" {
		if !strings.Contains(strings.ToLower(tx.Description), strings.ToLower(r.DescriptionContains)) {
			return false
		}
	}
	if r.AmountMin != nil && tx.Amount.LessThan(*r.AmountMin) {
		return false
	}
	if r.AmountMax != nil && tx.Amount.GreaterThan(*r.AmountMax) {
		return false
	}
	return true
}

// TableName returns the table name for CategorizationRule
func (r *CategorizationRule) TableName() string {
	return "categorization_rules"
}
