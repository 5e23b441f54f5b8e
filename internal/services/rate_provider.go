package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// staticRateProvider serves conversion rates from a fixed in-memory table.
// It backs deployments where rates are operator-supplied rather than fetched
// from a market data feed.
type staticRateProvider struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

// Default rates into GBP. Overridable per currency through FX_RATE_<CODE>.
var defaultRates = map[string]string{
	"GBP": "1",
	"USD": "0.79",
	"EUR": "0.86",
	"CHF": "0.88",
	"JPY": "0.0053",
	"AUD": "0.52",
	"CAD": "0.58",
}

// NewStaticRateProvider creates a rate provider backed by the built-in
// table, with per-currency overrides read from FX_RATE_<CODE> env vars.
func NewStaticRateProvider() RateProviderInterface {
	rates := make(map[string]decimal.Decimal, len(defaultRates))
	for code, raw := range defaultRates {
		rates[code] = decimal.RequireFromString(raw)
	}

	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, "FX_RATE_") {
			continue
		}
		code := strings.ToUpper(strings.TrimPrefix(name, "FX_RATE_"))
		if len(code) != 3 {
			continue
		}
		rate, err := decimal.NewFromString(value)
		if err != nil || !rate.IsPositive() {
			continue
		}
		rates[code] = rate
	}

	return &staticRateProvider{rates: rates}
}

// NewStaticRateProviderWithRates creates a rate provider from an explicit
// table of rates into the settlement currency. Used by tests.
func NewStaticRateProviderWithRates(rates map[string]decimal.Decimal) RateProviderInterface {
	table := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		table[strings.ToUpper(code)] = rate
	}
	return &staticRateProvider{rates: table}
}

// GetRate returns the rate converting one unit of from into to. Cross rates
// are derived through the table's base currency.
func (p *staticRateProvider) GetRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	fromRate, ok := p.rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", ErrRateUnavailable, from)
	}
	toRate, ok := p.rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", ErrRateUnavailable, to)
	}
	if toRate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero rate for %s", ErrRateUnavailable, to)
	}

	return fromRate.Div(toRate), nil
}
