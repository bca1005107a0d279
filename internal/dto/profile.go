package dto

type ProfileResponse struct {
	BaseCurrency  string  `json:"baseCurrency"`
	CurrentCash   float64 `json:"currentCash"`
	AnnualBudget  float64 `json:"annualBudget"`
	MonthlyIncome float64 `json:"monthlyIncome"`
}

type UpdateProfileRequest struct {
	BaseCurrency  *string  `json:"baseCurrency"`
	CurrentCash   *float64 `json:"currentCash"`
	AnnualBudget  *float64 `json:"annualBudget"`
	MonthlyIncome *float64 `json:"monthlyIncome"`
}

// GoalSeekRequest back-computes an annual budget from a target runway.
// Either TargetRunway alone, or TargetRunway plus a new CurrentCash when the
// runway target is pinned while cash is edited.
type GoalSeekRequest struct {
	TargetRunway float64  `json:"targetRunway" validate:"required,gt=0"`
	CurrentCash  *float64 `json:"currentCash"`
}

type GoalSeekResponse struct {
	TargetRunway  float64 `json:"targetRunway"`
	MonthlySpend  float64 `json:"monthlySpend"`
	AnnualBudget  float64 `json:"annualBudget"`
	CurrentCash   float64 `json:"currentCash"`
	BaseCurrency  string  `json:"baseCurrency"`
	MonthlyIncome float64 `json:"monthlyIncome"`
}
