package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

type TransactionScope string

const (
	ScopeBusiness TransactionScope = "business"
	ScopePersonal TransactionScope = "personal"
)

type TransactionCategory string

const (
	CategoryFood          TransactionCategory = "food"
	CategoryTransport     TransactionCategory = "transport"
	CategoryUtilities     TransactionCategory = "utilities"
	CategoryShopping      TransactionCategory = "shopping"
	CategoryEntertainment TransactionCategory = "entertainment"
	CategoryHealthcare    TransactionCategory = "healthcare"
	CategorySalary        TransactionCategory = "salary"
	CategoryServices      TransactionCategory = "services"
	CategoryOther         TransactionCategory = "other"
)

// Transaction is a single financial event. OriginalAmount is kept in the
// currency it was entered in; AmountUSD is the normalized accounting value.
// ExchangeRate is stored as units of the original currency per 1 USD, so
// AmountUSD = OriginalAmount / ExchangeRate. Amounts are magnitudes, the
// income/expense semantics live in Type.
type Transaction struct {
	ID               uuid.UUID           `db:"id"`
	UserID           uuid.UUID           `db:"user_id"`
	Date             time.Time           `db:"date"`
	Description      string              `db:"description"`
	Category         TransactionCategory `db:"category"`
	Type             TransactionType     `db:"type"`
	Scope            TransactionScope    `db:"scope"`
	OriginalAmount   float64             `db:"original_amount"`
	OriginalCurrency string              `db:"original_currency"`
	ExchangeRate     float64             `db:"exchange_rate"`
	AmountUSD        float64             `db:"amount_usd"`
	ImportBatchID    *uuid.UUID          `db:"import_batch_id"`
	CreatedAt        time.Time           `db:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at"`
}
