package service

import (
	"math"

	"go.uber.org/zap"
)

// RateSource provides units-per-USD rates for currency codes.
type RateSource interface {
	Get(code string) (float64, bool)
}

// CurrencyService normalizes arbitrary-currency amounts to USD and back.
// Convention throughout the codebase: a rate is units of local currency per
// 1 USD, so normalization is a single division.
type CurrencyService struct {
	rates  RateSource
	logger *zap.Logger
}

func NewCurrencyService(rates RateSource, logger *zap.Logger) *CurrencyService {
	return &CurrencyService{
		rates:  rates,
		logger: logger,
	}
}

// ToUSD converts an amount in the given currency to USD, rounded to 2
// decimal places. Unknown currencies yield 0 rather than an error; callers
// display what they get and the gap shows up as a zero line, not a crash.
func (s *CurrencyService) ToUSD(amount float64, currencyCode string) float64 {
	if currencyCode == "USD" {
		return amount
	}

	rate, ok := s.rates.Get(currencyCode)
	if !ok || rate <= 0 {
		s.logger.Warn("No exchange rate for currency", zap.String("currency", currencyCode))
		return 0
	}

	return round2(amount / rate)
}

// FromUSD converts a USD amount into the given currency, rounded to 2
// decimal places.
func (s *CurrencyService) FromUSD(amountUSD float64, currencyCode string) float64 {
	if currencyCode == "USD" {
		return amountUSD
	}

	rate, ok := s.rates.Get(currencyCode)
	if !ok || rate <= 0 {
		s.logger.Warn("No exchange rate for currency", zap.String("currency", currencyCode))
		return 0
	}

	return round2(amountUSD * rate)
}

// Rate returns the units-per-USD rate stored for a currency, 0 if unknown.
// This is the value persisted on each transaction at creation time.
func (s *CurrencyService) Rate(currencyCode string) float64 {
	if currencyCode == "USD" {
		return 1
	}
	rate, ok := s.rates.Get(currencyCode)
	if !ok {
		return 0
	}
	return rate
}

// InverseRate returns how much 1 unit of the currency is worth in USD,
// rounded to 6 decimal places. Display helper only.
func (s *CurrencyService) InverseRate(currencyCode string) float64 {
	rate, ok := s.rates.Get(currencyCode)
	if !ok || rate <= 0 {
		return 0
	}
	return round6(1 / rate)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
