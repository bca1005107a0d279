package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"finsight/pkg/config"

	"go.uber.org/zap"
)

// fallbackRates holds approximate units-per-USD values used when the external
// rate source is unavailable. KPI computations proceed on these stale rates
// without surfacing an error.
var fallbackRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 148.0,
	"CHF": 0.88,
	"CAD": 1.36,
	"AUD": 1.52,
	"CNY": 7.2,
	"INR": 83.0,
	"BRL": 5.0,
	"MXN": 17.0,
	"CLP": 950.0,
	"RUB": 92.0,
}

// RateService is the process-wide exchange-rate snapshot: currency code to
// units of that currency per 1 USD. USD is always 1.0.
type RateService struct {
	cfg        *config.RatesConfig
	logger     *zap.Logger
	httpClient *http.Client

	mu    sync.RWMutex
	rates map[string]float64
}

func NewRateService(cfg *config.RatesConfig, logger *zap.Logger) *RateService {
	s := &RateService{
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		rates:      map[string]float64{},
	}

	if err := s.Refresh(context.Background()); err != nil {
		logger.Warn("Initial rate fetch failed, using fallback table", zap.Error(err))
	}

	return s
}

// Refresh fetches a fresh snapshot from the rate source. On failure the
// previous snapshot is kept, or the fallback table is installed when no
// snapshot exists yet. Refresh never leaves the service without rates.
func (s *RateService) Refresh(ctx context.Context) error {
	rates, err := s.fetch(ctx)
	if err != nil {
		s.mu.Lock()
		if len(s.rates) == 0 {
			s.rates = copyRates(fallbackRates)
		}
		s.mu.Unlock()
		return err
	}

	rates["USD"] = 1.0

	s.mu.Lock()
	s.rates = rates
	s.mu.Unlock()

	s.logger.Info("Exchange rates refreshed", zap.Int("currencies", len(rates)))
	return nil
}

// Get returns the units-per-USD rate for a currency code.
func (s *RateService) Get(code string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rate, ok := s.rates[code]
	return rate, ok
}

// RunPeriodicRefresh refreshes the snapshot on the configured interval until
// the context is cancelled. Intended to run in its own goroutine.
func (s *RateService) RunPeriodicRefresh(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn("Rate refresh failed, keeping previous snapshot", zap.Error(err))
			}
		}
	}
}

func (s *RateService) fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rates request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate source returned status %d", resp.StatusCode)
	}

	var payload struct {
		ConversionRates map[string]float64 `json:"conversion_rates"`
		Rates           map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}

	rates := payload.ConversionRates
	if len(rates) == 0 {
		rates = payload.Rates
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("rate source returned no rates")
	}

	valid := make(map[string]float64, len(rates))
	for code, rate := range rates {
		if rate > 0 {
			valid[code] = rate
		}
	}

	return valid, nil
}

func copyRates(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for code, rate := range src {
		dst[code] = rate
	}
	return dst
}
