package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finsight/pkg/config"

	"go.uber.org/zap"
)

func testRatesConfig(url string) *config.RatesConfig {
	return &config.RatesConfig{
		URL:             url,
		FetchTimeout:    2 * time.Second,
		RefreshInterval: time.Hour,
	}
}

func TestRateService_FetchConversionRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"conversion_rates": {"USD": 1.0, "EUR": 0.92, "CLP": 950.0, "BAD": -5}}`))
	}))
	defer srv.Close()

	svc := NewRateService(testRatesConfig(srv.URL), zap.NewNop())

	if rate, ok := svc.Get("EUR"); !ok || rate != 0.92 {
		t.Errorf("Get(EUR) = %v, %v; want 0.92, true", rate, ok)
	}
	if rate, ok := svc.Get("CLP"); !ok || rate != 950 {
		t.Errorf("Get(CLP) = %v, %v; want 950, true", rate, ok)
	}
	// Non-positive rates are dropped at decode time.
	if _, ok := svc.Get("BAD"); ok {
		t.Error("Get(BAD) returned a rate, want it filtered out")
	}
}

func TestRateService_AltRatesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates": {"GBP": 0.79}}`))
	}))
	defer srv.Close()

	svc := NewRateService(testRatesConfig(srv.URL), zap.NewNop())

	if rate, ok := svc.Get("GBP"); !ok || rate != 0.79 {
		t.Errorf("Get(GBP) = %v, %v; want 0.79, true", rate, ok)
	}
}

func TestRateService_USDAlwaysOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"conversion_rates": {"USD": 0.99, "EUR": 0.92}}`))
	}))
	defer srv.Close()

	svc := NewRateService(testRatesConfig(srv.URL), zap.NewNop())

	if rate, _ := svc.Get("USD"); rate != 1.0 {
		t.Errorf("Get(USD) = %v, want forced 1.0", rate)
	}
}

func TestRateService_FallbackOnSourceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewRateService(testRatesConfig(srv.URL), zap.NewNop())

	// The static table covers the common currencies so KPIs keep working.
	if rate, ok := svc.Get("CLP"); !ok || rate != 950 {
		t.Errorf("Get(CLP) = %v, %v; want fallback 950, true", rate, ok)
	}
	if rate, ok := svc.Get("USD"); !ok || rate != 1.0 {
		t.Errorf("Get(USD) = %v, %v; want 1.0, true", rate, ok)
	}
}

func TestRateService_RefreshKeepsSnapshotOnFailure(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"conversion_rates": {"EUR": 0.95}}`))
	}))
	defer srv.Close()

	svc := NewRateService(testRatesConfig(srv.URL), zap.NewNop())
	if rate, _ := svc.Get("EUR"); rate != 0.95 {
		t.Fatalf("Get(EUR) = %v, want 0.95", rate)
	}

	healthy = false
	if err := svc.Refresh(t.Context()); err == nil {
		t.Fatal("Refresh succeeded against a failing source")
	}

	// Stale beats empty: the last good snapshot survives.
	if rate, _ := svc.Get("EUR"); rate != 0.95 {
		t.Errorf("Get(EUR) after failed refresh = %v, want 0.95", rate)
	}
}
