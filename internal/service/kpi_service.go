package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"finsight/internal/dto"
	"finsight/internal/models"
	"finsight/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReportMode string

const (
	ModeRolling ReportMode = "rolling"
	ModeAnnual  ReportMode = "annual"
)

type Scenario string

const (
	ScenarioBase  Scenario = "base"
	ScenarioWorst Scenario = "worst"
	ScenarioBest  Scenario = "best"
)

// ReportConfig selects the KPI window and projection scenario.
type ReportConfig struct {
	Mode     ReportMode
	Year     int
	Scenario Scenario
}

type KPIResult struct {
	AvgExpense  float64
	Variance    float64
	SavingsRate float64
	Runway      float64
}

type ScenarioProjection struct {
	MonthlyBurn float64
	Runway      float64
}

// KPIService derives the three headline metrics (variance, savings rate,
// runway) from the normalized ledger and the user's profile.
type KPIService struct {
	currency    *CurrencyService
	txRepo      *repository.TransactionRepository
	profileRepo *repository.ProfileRepository
	logger      *zap.Logger
}

func NewKPIService(
	currency *CurrencyService,
	txRepo *repository.TransactionRepository,
	profileRepo *repository.ProfileRepository,
	logger *zap.Logger,
) *KPIService {
	return &KPIService{
		currency:    currency,
		txRepo:      txRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Report loads a user's ledger and profile and computes KPIs for the
// requested window and scenario.
func (s *KPIService) Report(ctx context.Context, userID uuid.UUID, cfg ReportConfig) (*dto.KPIResponse, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}

	transactions, err := s.txRepo.ListByUser(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	result := s.Compute(transactions, profile, cfg, time.Now())

	resp := &dto.KPIResponse{
		Mode:        string(cfg.Mode),
		Scenario:    string(cfg.Scenario),
		AvgExpense:  result.AvgExpense,
		Variance:    result.Variance,
		SavingsRate: result.SavingsRate,
		Runway:      result.Runway,
	}
	if cfg.Mode == ModeAnnual {
		resp.Year = cfg.Year
		if resp.Year == 0 {
			resp.Year = time.Now().Year()
		}
	}
	return resp, nil
}

// scenarioMultiplier scales projected expense: worst +20%, best -10%.
func scenarioMultiplier(s Scenario) float64 {
	switch s {
	case ScenarioWorst:
		return 1.20
	case ScenarioBest:
		return 0.90
	default:
		return 1.0
	}
}

// Compute derives KPIs over the selected window. In rolling mode the window
// is the trailing 365 days and the divisor is 12. In annual mode the window
// is the calendar year; for the current year the divisor is the number of
// elapsed months so a partial year's average is not diluted by unlived
// months, for past years it is 12.
func (s *KPIService) Compute(transactions []*models.Transaction, profile *models.Profile, cfg ReportConfig, now time.Time) KPIResult {
	var sum float64
	divisor := 12.0

	switch cfg.Mode {
	case ModeAnnual:
		year := cfg.Year
		if year == 0 {
			year = now.Year()
		}
		for _, tx := range transactions {
			if tx.Type == models.TypeExpense && tx.Date.Year() == year {
				sum += tx.AmountUSD
			}
		}
		if year == now.Year() {
			divisor = float64(int(now.Month()))
		}
	default:
		cutoff := now.AddDate(0, 0, -365)
		for _, tx := range transactions {
			if tx.Type == models.TypeExpense && !tx.Date.Before(cutoff) && !tx.Date.After(now) {
				sum += tx.AmountUSD
			}
		}
	}

	avgExpense := sum / divisor
	burn := avgExpense * scenarioMultiplier(cfg.Scenario)

	incomeUSD := s.currency.ToUSD(profile.MonthlyIncome, profile.BaseCurrency)
	cashUSD := s.currency.ToUSD(profile.CurrentCash, profile.BaseCurrency)

	// The scenario multiplier drives the projection metrics only; the savings
	// rate always reflects the unscaled historical average.
	return KPIResult{
		AvgExpense:  round2(avgExpense),
		Variance:    round2(incomeUSD - burn),
		SavingsRate: savingsRate(incomeUSD, avgExpense),
		Runway:      runway(cashUSD, burn),
	}
}

// Project computes the scenario-driven projection from the planned budget
// rather than historical actuals: the monthly plan is annualBudget/12 scaled
// by the scenario multiplier.
func (s *KPIService) Project(profile *models.Profile, scenario Scenario) ScenarioProjection {
	cashUSD := s.currency.ToUSD(profile.CurrentCash, profile.BaseCurrency)
	budgetUSD := s.currency.ToUSD(profile.AnnualBudget, profile.BaseCurrency)

	burn := round2(budgetUSD / 12 * scenarioMultiplier(scenario))

	return ScenarioProjection{
		MonthlyBurn: burn,
		Runway:      runway(cashUSD, burn),
	}
}

// GoalSeek back-computes the annual budget ceiling implied by a target
// runway: cash / months gives the maximum monthly spend, times 12 the budget.
func GoalSeek(cash, targetRunwayMonths float64) (monthlySpend, annualBudget float64) {
	if targetRunwayMonths <= 0 {
		return 0, 0
	}
	monthlySpend = round2(cash / targetRunwayMonths)
	annualBudget = round2(monthlySpend * 12)
	return monthlySpend, annualBudget
}

// savingsRate is the percentage of income not consumed by average expense,
// rounded to a whole percent. Zero income yields 0, never NaN.
func savingsRate(incomeUSD, avgExpense float64) float64 {
	if incomeUSD <= 0 {
		return 0
	}
	return math.Round((incomeUSD - avgExpense) / incomeUSD * 100)
}

// runway is months of cash at the given burn, 1 decimal place. Zero burn
// yields 0, never Inf.
func runway(cashUSD, avgExpense float64) float64 {
	if avgExpense <= 0 {
		return 0
	}
	return math.Round(cashUSD/avgExpense*10) / 10
}
