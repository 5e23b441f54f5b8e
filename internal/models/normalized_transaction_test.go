package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizedTransaction_FlowDirection(t *testing.T) {
	outflow := NormalizedTransaction{Amount: decimal.NewFromFloat(-45.50)}
	inflow := NormalizedTransaction{Amount: decimal.NewFromFloat(1850)}

	assert.True(t, outflow.IsOutflow())
	assert.False(t, outflow.IsInflow())
	assert.True(t, inflow.IsInflow())
	assert.False(t, inflow.IsOutflow())
}

func TestNormalizedTransaction_CountsTowardSpend(t *testing.T) {
	tests := []struct {
		name        string
		isTransfer  bool
		isDuplicate bool
		want        bool
	}{
		{"clean transaction", false, false, true},
		{"transfer excluded", true, false, false},
		{"duplicate excluded", false, true, false},
		{"both flags excluded", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := NormalizedTransaction{IsTransfer: tt.isTransfer, IsDuplicate: tt.isDuplicate}
			assert.Equal(t, tt.want, tx.CountsTowardSpend())
		})
	}
}

func TestNormalizedTransaction_PostedDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	tx := NormalizedTransaction{PostedAt: time.Date(2025, 3, 10, 0, 30, 0, 0, loc)}

	assert.Equal(t, "2025-03-09", tx.PostedDate(), "date is taken in UTC")
}

func TestNormalizedTransaction_PostedInMonth(t *testing.T) {
	tx := NormalizedTransaction{PostedAt: time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)}

	assert.True(t, tx.PostedInMonth(2025, time.March))
	assert.False(t, tx.PostedInMonth(2025, time.April))
	assert.False(t, tx.PostedInMonth(2024, time.March))
}

func TestNormalizedTransaction_IsCategorized(t *testing.T) {
	assert.False(t, (&NormalizedTransaction{}).IsCategorized())
	assert.True(t, (&NormalizedTransaction{Category: CategoryGroceries}).IsCategorized())
}
