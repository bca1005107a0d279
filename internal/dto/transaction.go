package dto

type CreateTransactionRequest struct {
	Description    string  `json:"description" validate:"required"`
	OriginalAmount float64 `json:"originalAmount" validate:"required,gt=0"`
	Currency       string  `json:"currency" validate:"required,len=3"`
	Category       string  `json:"category"`
	Date           string  `json:"date" validate:"required"`
	Type           string  `json:"type" validate:"required,oneof=income expense"`
	Scope          string  `json:"scope" validate:"oneof=business personal"`
}

type UpdateTransactionRequest struct {
	Description    *string  `json:"description"`
	OriginalAmount *float64 `json:"originalAmount"`
	Category       *string  `json:"category"`
	Date           *string  `json:"date"`
	Type           *string  `json:"type"`
	Scope          *string  `json:"scope"`
}

type TransactionResponse struct {
	ID               string  `json:"id"`
	Date             string  `json:"date"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Type             string  `json:"type"`
	Scope            string  `json:"scope"`
	OriginalAmount   float64 `json:"originalAmount"`
	OriginalCurrency string  `json:"originalCurrency"`
	ExchangeRate     float64 `json:"exchangeRate"`
	AmountUSD        float64 `json:"amountUSD"`
	ImportBatchID    string  `json:"importBatchId,omitempty"`
	CreatedAt        string  `json:"createdAt"`
}

// CreateTransactionResponse echoes the created row, or reports a silent
// dedup drop with Duplicate set and no Transaction.
type CreateTransactionResponse struct {
	Duplicate   bool                 `json:"duplicate"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}
