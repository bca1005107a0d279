package dto

// ParsedTransaction is one row extracted from an uploaded statement by the LLM.
type ParsedTransaction struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
}

// PreviewStatementRequest carries parsed rows back for duplicate flagging
// before the user commits an import.
type PreviewStatementRequest struct {
	Transactions []ParsedTransaction `json:"transactions"`
}

type PreviewStatementResponse struct {
	Duplicates []bool `json:"duplicates"`
}

type ParseStatementResponse struct {
	BatchID      string              `json:"batchId"`
	Transactions []ParsedTransaction `json:"transactions"`
	Imported     int                 `json:"imported"`
	Duplicates   int                 `json:"duplicates"`
}
