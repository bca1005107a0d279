package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds per-user financial configuration. All monetary fields are
// denominated in BaseCurrency; KPI computations convert them to USD through
// the same normalizer used for transactions.
type Profile struct {
	UserID        uuid.UUID `db:"user_id"`
	BaseCurrency  string    `db:"base_currency"`
	CurrentCash   float64   `db:"current_cash"`
	AnnualBudget  float64   `db:"annual_budget"`
	MonthlyIncome float64   `db:"monthly_income"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
