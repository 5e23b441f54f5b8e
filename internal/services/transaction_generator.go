package services

import (
	"fmt"
	"time"

	"budget-engine/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

// MerchantInfo describes a merchant in the synthetic data pool
type MerchantInfo struct {
	Name     string
	Category string
}

type transactionGenerator struct {
	merchantPool []MerchantInfo
	faker        *gofakeit.Faker
}

// NewTransactionGenerator creates a generator seeded from the given value.
// The same seed reproduces the same transaction stream.
func NewTransactionGenerator(seed uint64) TransactionGeneratorInterface {
	return &transactionGenerator{
		merchantPool: initializeMerchantPool(),
		faker:        gofakeit.New(seed),
	}
}

// initializeMerchantPool creates a pool of realistic UK merchants
func initializeMerchantPool() []MerchantInfo {
	return []MerchantInfo{
		// Groceries
		{"TESCO STORES", models.CategoryGroceries},
		{"SAINSBURYS", models.CategoryGroceries},
		{"ASDA SUPERSTORE", models.CategoryGroceries},
		{"WAITROSE", models.CategoryGroceries},
		{"MORRISONS", models.CategoryGroceries},
		{"ALDI", models.CategoryGroceries},
		{"LIDL GB", models.CategoryGroceries},
		{"PIZZA EXPRESS", models.CategoryGroceries},

		// Transport
		{"SHELL", models.CategoryTransport},
		{"BP CONNECT", models.CategoryTransport},
		{"ESSO", models.CategoryTransport},
		{"TFL TRAVEL", models.CategoryTransport},
		{"UBER TRIP", models.CategoryTransport},
		{"TRAINLINE", models.CategoryTransport},

		// Utilities
		{"BRITISH GAS", models.CategoryUtilities},
		{"EDF ENERGY", models.CategoryUtilities},
		{"BT GROUP", models.CategoryUtilities},
		{"VIRGIN MEDIA", models.CategoryUtilities},
		{"SKY DIGITAL", models.CategoryUtilities},
		{"VODAFONE", models.CategoryUtilities},

		// Entertainment
		{"NETFLIX", models.CategoryEntertainment},
		{"SPOTIFY", models.CategoryEntertainment},
		{"ODEON CINEMA", models.CategoryEntertainment},
		{"STEAM PURCHASE", models.CategoryEntertainment},
		{"PUREGYM", models.CategoryEntertainment},

		// Shopping
		{"AMAZON UK", models.CategoryShopping},
		{"EBAY", models.CategoryShopping},
		{"ARGOS", models.CategoryShopping},
		{"JOHN LEWIS", models.CategoryShopping},
	}
}

// amountRanges maps category to a plausible spend range in pounds
var amountRanges = map[string][2]float64{
	models.CategoryGroceries:     {4, 120},
	models.CategoryTransport:     {2, 80},
	models.CategoryUtilities:     {25, 200},
	models.CategoryEntertainment: {5, 50},
	models.CategoryShopping:      {10, 300},
}

// GenerateTransactions produces count debit transactions for the account,
// spread across the date range with merchants from the pool.
func (g *transactionGenerator) GenerateTransactions(accountID string, startDate, endDate time.Time, count int) []models.RawTransaction {
	txs := make([]models.RawTransaction, 0, count)

	for i := 0; i < count; i++ {
		merchant := g.SelectRandomMerchant()
		amount := g.GenerateAmount(merchant.Category)

		txs = append(txs, models.RawTransaction{
			TransactionID: g.faker.UUID(),
			Timestamp:     g.GenerateTimestamp(startDate, endDate),
			Amount:        amount.Neg(),
			Currency:      "GBP",
			Type:          models.TransactionTypeDebit,
			Description:   fmt.Sprintf("%s %s", merchant.Name, g.faker.DigitN(4)),
			MerchantName:  merchant.Name,
			AccountID:     accountID,
		})
	}

	return txs
}

// GenerateTransferPairs produces count matched transfer pairs: a debit from
// accountA and a same-day credit into accountB for the same amount.
func (g *transactionGenerator) GenerateTransferPairs(accountA, accountB string, startDate time.Time, count int) []models.RawTransaction {
	txs := make([]models.RawTransaction, 0, count*2)

	for i := 0; i < count; i++ {
		amount := decimal.NewFromFloat(g.faker.Price(10, 500)).Round(2)
		day := startDate.AddDate(0, 0, i%28)
		sentAt := day.Add(time.Duration(g.faker.Number(8, 18)) * time.Hour)

		txs = append(txs,
			models.RawTransaction{
				TransactionID: g.faker.UUID(),
				Timestamp:     sentAt,
				Amount:        amount.Neg(),
				Currency:      "GBP",
				Type:          models.TransactionTypeDebit,
				Description:   "SAVINGS TOP UP",
				AccountID:     accountA,
			},
			models.RawTransaction{
				TransactionID: g.faker.UUID(),
				Timestamp:     sentAt.Add(time.Duration(g.faker.Number(1, 90)) * time.Minute),
				Amount:        amount,
				Currency:      "GBP",
				Type:          models.TransactionTypeCredit,
				Description:   "SAVINGS TOP UP",
				AccountID:     accountB,
			},
		)
	}

	return txs
}

// GenerateSubscriptions produces a monthly recurring charge for each of the
// given number of months, anchored to the start date's day of month.
func (g *transactionGenerator) GenerateSubscriptions(accountID string, startDate time.Time, months int) []models.RawTransaction {
	subscriptions := []struct {
		merchant string
		amount   float64
	}{
		{"NETFLIX", 10.99},
		{"SPOTIFY", 11.99},
		{"PUREGYM", 24.99},
	}

	var txs []models.RawTransaction
	for _, sub := range subscriptions {
		for m := 0; m < months; m++ {
			txs = append(txs, models.RawTransaction{
				TransactionID: g.faker.UUID(),
				Timestamp:     startDate.AddDate(0, m, 0),
				Amount:        decimal.NewFromFloat(sub.amount).Neg(),
				Currency:      "GBP",
				Type:          models.TransactionTypeDebit,
				Description:   fmt.Sprintf("DD %s", sub.merchant),
				MerchantName:  sub.merchant,
				AccountID:     accountID,
			})
		}
	}

	return txs
}

// SelectRandomMerchant picks a random merchant from the pool
func (g *transactionGenerator) SelectRandomMerchant() MerchantInfo {
	return g.merchantPool[g.faker.Number(0, len(g.merchantPool)-1)]
}

// GenerateAmount produces a plausible amount for the category
func (g *transactionGenerator) GenerateAmount(category string) decimal.Decimal {
	bounds, ok := amountRanges[category]
	if !ok {
		bounds = [2]float64{5, 100}
	}
	return decimal.NewFromFloat(g.faker.Price(bounds[0], bounds[1])).Round(2)
}

// GenerateTimestamp produces a random instant inside the date range
func (g *transactionGenerator) GenerateTimestamp(startDate, endDate time.Time) time.Time {
	return g.faker.DateRange(startDate, endDate).UTC()
}
