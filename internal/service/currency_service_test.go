package service

import (
	"math"
	"testing"

	"go.uber.org/zap"
)

// staticRates is a fixed RateSource for tests, units per 1 USD.
type staticRates map[string]float64

func (r staticRates) Get(code string) (float64, bool) {
	rate, ok := r[code]
	return rate, ok
}

func testCurrencyService() *CurrencyService {
	rates := staticRates{
		"USD": 1.0,
		"EUR": 0.92,
		"CLP": 950.0,
		"JPY": 148.0,
	}
	return NewCurrencyService(rates, zap.NewNop())
}

func TestCurrencyService_ToUSD(t *testing.T) {
	svc := testCurrencyService()

	tests := []struct {
		name     string
		amount   float64
		currency string
		want     float64
	}{
		{
			name:     "USD passes through untouched",
			amount:   123.45,
			currency: "USD",
			want:     123.45,
		},
		{
			name:     "CLP divides by units per USD",
			amount:   1000,
			currency: "CLP",
			want:     1.05,
		},
		{
			name:     "EUR amount grows in USD",
			amount:   92,
			currency: "EUR",
			want:     100,
		},
		{
			name:     "unknown currency yields zero",
			amount:   500,
			currency: "XYZ",
			want:     0,
		},
		{
			name:     "zero amount stays zero",
			amount:   0,
			currency: "EUR",
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ToUSD(tt.amount, tt.currency)
			if got != tt.want {
				t.Errorf("ToUSD(%v, %q) = %v, want %v", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestCurrencyService_FromUSD(t *testing.T) {
	svc := testCurrencyService()

	if got := svc.FromUSD(100, "EUR"); got != 92 {
		t.Errorf("FromUSD(100, EUR) = %v, want 92", got)
	}
	if got := svc.FromUSD(50, "USD"); got != 50 {
		t.Errorf("FromUSD(50, USD) = %v, want 50", got)
	}
	if got := svc.FromUSD(10, "XYZ"); got != 0 {
		t.Errorf("FromUSD(10, XYZ) = %v, want 0", got)
	}
}

func TestCurrencyService_RoundTrip(t *testing.T) {
	svc := testCurrencyService()

	// Round-tripping loses at most a cent to rounding.
	for _, amount := range []float64{1, 99.99, 1500, 86500} {
		usd := svc.ToUSD(amount, "CLP")
		back := svc.FromUSD(usd, "CLP")
		if math.Abs(back-amount) > 950*0.01 {
			t.Errorf("round trip of %v CLP came back as %v", amount, back)
		}
	}
}

func TestCurrencyService_Rate(t *testing.T) {
	svc := testCurrencyService()

	if got := svc.Rate("USD"); got != 1 {
		t.Errorf("Rate(USD) = %v, want 1", got)
	}
	if got := svc.Rate("CLP"); got != 950 {
		t.Errorf("Rate(CLP) = %v, want 950", got)
	}
	if got := svc.Rate("XYZ"); got != 0 {
		t.Errorf("Rate(XYZ) = %v, want 0", got)
	}
}

func TestCurrencyService_InverseRate(t *testing.T) {
	svc := testCurrencyService()

	// 1 CLP = 1/950 USD, rounded to 6 decimals.
	if got := svc.InverseRate("CLP"); got != 0.001053 {
		t.Errorf("InverseRate(CLP) = %v, want 0.001053", got)
	}
	if got := svc.InverseRate("XYZ"); got != 0 {
		t.Errorf("InverseRate(XYZ) = %v, want 0", got)
	}
}
