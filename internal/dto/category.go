package dto

import (
	"budget-engine/internal/models"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest creates a budget category with a monthly target
type CreateCategoryRequest struct {
	UserID       string          `json:"user_id" validate:"required"`
	Key          string          `json:"key" validate:"required,category_key"`
	Label        string          `json:"label" validate:"required,max=100"`
	Target       decimal.Decimal `json:"target"`
	Rollover     bool            `json:"rollover"`
	DisplayOrder int             `json:"display_order" validate:"gte=0"`
}

// ToModel converts the request to a category model
func (r *CreateCategoryRequest) ToModel() *models.BudgetCategory {
	return &models.BudgetCategory{
		UserID:       r.UserID,
		Key:          r.Key,
		Label:        r.Label,
		Target:       r.Target,
		Rollover:     r.Rollover,
		DisplayOrder: r.DisplayOrder,
	}
}

// UpdateCategoryRequest updates a budget category's label, target, and ordering
type UpdateCategoryRequest struct {
	Label        string          `json:"label" validate:"required,max=100"`
	Target       decimal.Decimal `json:"target"`
	Rollover     bool            `json:"rollover"`
	DisplayOrder int             `json:"display_order" validate:"gte=0"`
}
