package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget category display status, derived at aggregation time, never stored
const (
	BudgetStatusOK     = "OK"
	BudgetStatusAtRisk = "AT_RISK"
)

// BudgetCategory is a spending bucket with a monthly cap. Created and
// edited through an external store; read-only to the engine.
type BudgetCategory struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID       string          `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Key          string          `gorm:"type:varchar(50);not null" json:"key"`
	Label        string          `gorm:"type:varchar(100);not null" json:"label"`
	Target       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"target"`
	Rollover     bool            `gorm:"not null;default:false" json:"rollover"`
	DisplayOrder int             `gorm:"not null;default:0;index" json:"display_order"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for BudgetCategory
func (c *BudgetCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return c.Validate()
}

// Validate validates the category fields
func (c *BudgetCategory) Validate() error {
	if c.UserID == "" {
		return NewFieldError("user_id", "required")
	}
	if c.Key == "" {
		return NewFieldError("key", "required")
	}
	if c.Label == "" {
		return NewFieldError("label", "required")
	}
	if c.Target.IsNegative() {
		return NewFieldError("target", "must not be negative")
	}
	return nil
}

// TableName returns the table name for BudgetCategory
func (c *BudgetCategory) TableName() string {
	return "budget_categories"
}
