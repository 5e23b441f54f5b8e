package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCurrency = errors.New("currency must be a three-letter ISO code")
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)

type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

type currencyService struct {
	provider   RateProviderInterface
	settlement string
	ttl        time.Duration

	mu    sync.RWMutex
	rates map[string]cachedRate

	logger  *slog.Logger
	metrics MetricsRecorderInterface
}

// NewCurrencyService creates a CurrencyServiceInterface that converts amounts
// into the given settlement currency, caching rates for the given TTL.
func NewCurrencyService(provider RateProviderInterface, settlement string, ttl time.Duration, logger *slog.Logger, metrics MetricsRecorderInterface) CurrencyServiceInterface {
	return &currencyService{
		provider:   provider,
		settlement: strings.ToUpper(settlement),
		ttl:        ttl,
		rates:      make(map[string]cachedRate),
		logger:     logger,
		metrics:    metrics,
	}
}

func (s *currencyService) SettlementCurrency() string {
	return s.settlement
}

// Convert converts an amount into the settlement currency. When the rate
// provider fails or returns nothing, the amount passes through at an identity
// rate and the degraded flag is set so downstream aggregation stays total.
func (s *currencyService) Convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, bool, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return decimal.Zero, false, ErrInvalidCurrency
	}

	if currency == s.settlement {
		return amount, false, nil
	}

	rate, err := s.rate(ctx, currency)
	if err != nil {
		s.logger.Warn("exchange rate unavailable, passing amount through unconverted",
			"currency", currency,
			"settlement", s.settlement,
			"error", err)
		s.metrics.IncrementCounter("fx_conversion_degraded", map[string]string{"currency": currency})
		return amount, true, nil
	}

	return amount.Mul(rate).Round(4), false, nil
}

// InvalidateCache drops all cached rates
func (s *currencyService) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = make(map[string]cachedRate)
}

func (s *currencyService) rate(ctx context.Context, currency string) (decimal.Decimal, error) {
	s.mu.RLock()
	cached, ok := s.rates[currency]
	s.mu.RUnlock()

	if ok && time.Since(cached.fetchedAt) < s.ttl {
		return cached.rate, nil
	}

	rate, err := s.provider.GetRate(ctx, currency, s.settlement)
	if err != nil {
		// Serve a stale rate over no rate at all
		if ok {
			s.logger.Warn("rate refresh failed, serving stale rate",
				"currency", currency,
				"age", time.Since(cached.fetchedAt).String())
			return cached.rate, nil
		}
		return decimal.Zero, err
	}

	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrRateUnavailable
	}

	s.mu.Lock()
	s.rates[currency] = cachedRate{rate: rate, fetchedAt: time.Now()}
	s.mu.Unlock()

	return rate, nil
}
