package dto

import (
	"budget-engine/internal/models"

	"github.com/shopspring/decimal"
)

// CreateRuleRequest creates a user-defined categorization rule. At least
// one matcher field must be present.
type CreateRuleRequest struct {
	UserID              string           `json:"user_id" validate:"required"`
	CategoryKey         string           `json:"category_key" validate:"required,category_key"`
	Priority            int              `json:"priority" validate:"gte=0"`
	MerchantContains    string           `json:"merchant_contains,omitempty"`
	DescriptionContains string           `json:"description_contains,omitempty"`
	AmountMin           *decimal.Decimal `json:"amount_min,omitempty"`
	AmountMax           *decimal.Decimal `json:"amount_max,omitempty"`
}

// HasMatchers reports whether at least one matcher field is present
func (r *CreateRuleRequest) HasMatchers() bool {
	return r.MerchantContains != "" || r.DescriptionContains != "" ||
		r.AmountMin != nil || r.AmountMax != nil
}

// ToModel converts the request to a rule model
func (r *CreateRuleRequest) ToModel() *models.CategorizationRule {
	return &models.CategorizationRule{
		UserID:              r.UserID,
		CategoryKey:         r.CategoryKey,
		Priority:            r.Priority,
		MerchantContains:    r.MerchantContains,
		DescriptionContains: r.DescriptionContains,
		AmountMin:           r.AmountMin,
		AmountMax:           r.AmountMax,
	}
}

// UpdateRuleRequest updates an existing categorization rule. Matcher fields
// replace the stored ones wholesale.
type UpdateRuleRequest struct {
	CategoryKey         string           `json:"category_key" validate:"required,category_key"`
	Priority            int              `json:"priority" validate:"gte=0"`
	MerchantContains    string           `json:"merchant_contains,omitempty"`
	DescriptionContains string           `json:"description_contains,omitempty"`
	AmountMin           *decimal.Decimal `json:"amount_min,omitempty"`
	AmountMax           *decimal.Decimal `json:"amount_max,omitempty"`
}

// HasMatchers reports whether at least one matcher field is present
func (r *UpdateRuleRequest) HasMatchers() bool {
	return r.MerchantContains != "" || r.DescriptionContains != "" ||
		r.AmountMin != nil || r.AmountMax != nil
}
