package service

import (
	"testing"
	"time"

	"finsight/internal/models"

	"go.uber.org/zap"
)

func testKPIService() *KPIService {
	return NewKPIService(testCurrencyService(), nil, nil, zap.NewNop())
}

func usdExpense(date time.Time, amountUSD float64) *models.Transaction {
	return &models.Transaction{
		Date:             date,
		Type:             models.TypeExpense,
		OriginalAmount:   amountUSD,
		OriginalCurrency: "USD",
		ExchangeRate:     1,
		AmountUSD:        amountUSD,
	}
}

func TestKPIService_Compute_AnnualDivisor(t *testing.T) {
	svc := testKPIService()
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	profile := &models.Profile{BaseCurrency: "USD", CurrentCash: 18500, MonthlyIncome: 3400}

	transactions := []*models.Transaction{
		usdExpense(time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), 600),
		usdExpense(time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), 600),
		usdExpense(time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC), 600),
		usdExpense(time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), 2400),
	}

	tests := []struct {
		name           string
		cfg            ReportConfig
		wantAvgExpense float64
	}{
		{
			name: "current year divides by elapsed months",
			cfg:  ReportConfig{Mode: ModeAnnual, Year: 2026, Scenario: ScenarioBase},
			// 1800 USD over January-June.
			wantAvgExpense: 300,
		},
		{
			name:           "past year divides by twelve",
			cfg:            ReportConfig{Mode: ModeAnnual, Year: 2025, Scenario: ScenarioBase},
			wantAvgExpense: 200,
		},
		{
			name:           "zero year defaults to current year",
			cfg:            ReportConfig{Mode: ModeAnnual, Scenario: ScenarioBase},
			wantAvgExpense: 300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Compute(transactions, profile, tt.cfg, now)
			if got.AvgExpense != tt.wantAvgExpense {
				t.Errorf("AvgExpense = %v, want %v", got.AvgExpense, tt.wantAvgExpense)
			}
		})
	}
}

func TestKPIService_Compute_RollingWindow(t *testing.T) {
	svc := testKPIService()
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	profile := &models.Profile{BaseCurrency: "USD", CurrentCash: 12000, MonthlyIncome: 3000}

	transactions := []*models.Transaction{
		usdExpense(now.AddDate(0, -2, 0), 1200),
		usdExpense(now.AddDate(0, -10, 0), 1200),
		// Outside the trailing 365 days, must be excluded.
		usdExpense(now.AddDate(0, 0, -400), 5000),
		// Income never counts toward expense.
		{
			Date:      now.AddDate(0, -1, 0),
			Type:      models.TypeIncome,
			AmountUSD: 3000,
		},
	}

	got := svc.Compute(transactions, profile, ReportConfig{Mode: ModeRolling, Scenario: ScenarioBase}, now)

	if got.AvgExpense != 200 {
		t.Errorf("AvgExpense = %v, want 200", got.AvgExpense)
	}
	if got.Variance != 2800 {
		t.Errorf("Variance = %v, want 2800", got.Variance)
	}
	if got.SavingsRate != 93 {
		t.Errorf("SavingsRate = %v, want 93", got.SavingsRate)
	}
	if got.Runway != 60 {
		t.Errorf("Runway = %v, want 60", got.Runway)
	}
}

func TestKPIService_Compute_EmptyLedger(t *testing.T) {
	svc := testKPIService()
	now := time.Now()
	profile := &models.Profile{BaseCurrency: "USD", CurrentCash: 5000, MonthlyIncome: 2000}

	got := svc.Compute(nil, profile, ReportConfig{Mode: ModeRolling, Scenario: ScenarioBase}, now)

	if got.AvgExpense != 0 {
		t.Errorf("AvgExpense = %v, want 0", got.AvgExpense)
	}
	// No burn means runway is 0 by convention, never Inf.
	if got.Runway != 0 {
		t.Errorf("Runway = %v, want 0", got.Runway)
	}
	if got.SavingsRate != 100 {
		t.Errorf("SavingsRate = %v, want 100", got.SavingsRate)
	}
}

func TestKPIService_Compute_ZeroIncome(t *testing.T) {
	svc := testKPIService()
	now := time.Now()
	profile := &models.Profile{BaseCurrency: "USD", CurrentCash: 5000}

	transactions := []*models.Transaction{usdExpense(now.AddDate(0, -1, 0), 1200)}

	got := svc.Compute(transactions, profile, ReportConfig{Mode: ModeRolling, Scenario: ScenarioBase}, now)
	if got.SavingsRate != 0 {
		t.Errorf("SavingsRate = %v, want 0 when income is zero", got.SavingsRate)
	}
}

func TestKPIService_Compute_ScenarioOrdering(t *testing.T) {
	svc := testKPIService()
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	profile := &models.Profile{BaseCurrency: "USD", CurrentCash: 10000, MonthlyIncome: 3000}

	transactions := []*models.Transaction{usdExpense(now.AddDate(0, -1, 0), 12000)}

	worst := svc.Compute(transactions, profile, ReportConfig{Mode: ModeRolling, Scenario: ScenarioWorst}, now)
	base := svc.Compute(transactions, profile, ReportConfig{Mode: ModeRolling, Scenario: ScenarioBase}, now)
	best := svc.Compute(transactions, profile, ReportConfig{Mode: ModeRolling, Scenario: ScenarioBest}, now)

	if !(worst.Variance < base.Variance && base.Variance < best.Variance) {
		t.Errorf("variance not ordered: worst %v, base %v, best %v", worst.Variance, base.Variance, best.Variance)
	}
	if !(worst.Runway < base.Runway && base.Runway < best.Runway) {
		t.Errorf("runway not ordered: worst %v, base %v, best %v", worst.Runway, base.Runway, best.Runway)
	}
	// The multiplier scales projections, not the savings rate.
	if worst.SavingsRate != base.SavingsRate || best.SavingsRate != base.SavingsRate {
		t.Errorf("savings rate varies with scenario: worst %v, base %v, best %v",
			worst.SavingsRate, base.SavingsRate, best.SavingsRate)
	}
}

func TestKPIService_Project(t *testing.T) {
	svc := testKPIService()
	profile := &models.Profile{BaseCurrency: "USD", CurrentCash: 18500, AnnualBudget: 31200}

	tests := []struct {
		name     string
		scenario Scenario
		wantBurn float64
		wantRun  float64
	}{
		{name: "base", scenario: ScenarioBase, wantBurn: 2600, wantRun: 7.1},
		{name: "worst adds twenty percent", scenario: ScenarioWorst, wantBurn: 3120, wantRun: 5.9},
		{name: "best cuts ten percent", scenario: ScenarioBest, wantBurn: 2340, wantRun: 7.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Project(profile, tt.scenario)
			if got.MonthlyBurn != tt.wantBurn {
				t.Errorf("MonthlyBurn = %v, want %v", got.MonthlyBurn, tt.wantBurn)
			}
			if got.Runway != tt.wantRun {
				t.Errorf("Runway = %v, want %v", got.Runway, tt.wantRun)
			}
		})
	}
}

func TestGoalSeek(t *testing.T) {
	tests := []struct {
		name        string
		cash        float64
		months      float64
		wantMonthly float64
		wantAnnual  float64
	}{
		{
			name:        "six month target",
			cash:        18500,
			months:      6,
			wantMonthly: 3083.33,
			wantAnnual:  36999.96,
		},
		{
			name:        "twelve month target",
			cash:        24000,
			months:      12,
			wantMonthly: 2000,
			wantAnnual:  24000,
		},
		{
			name:   "zero target yields zero budget",
			cash:   18500,
			months: 0,
		},
		{
			name:   "negative target yields zero budget",
			cash:   18500,
			months: -3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monthly, annual := GoalSeek(tt.cash, tt.months)
			if monthly != tt.wantMonthly {
				t.Errorf("monthly = %v, want %v", monthly, tt.wantMonthly)
			}
			if annual != tt.wantAnnual {
				t.Errorf("annual = %v, want %v", annual, tt.wantAnnual)
			}
		})
	}
}

func TestGoalSeek_RoundTrip(t *testing.T) {
	// A budget derived from a target runway should reproduce that runway.
	cash := 18500.0
	monthly, _ := GoalSeek(cash, 6)
	if got := runway(cash, monthly); got != 6.0 {
		t.Errorf("runway(%v, %v) = %v, want 6.0", cash, monthly, got)
	}
}
