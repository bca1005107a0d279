package dto

type KPIResponse struct {
	Mode        string  `json:"mode"`
	Year        int     `json:"year,omitempty"`
	Scenario    string  `json:"scenario"`
	AvgExpense  float64 `json:"avgExpense"`
	Variance    float64 `json:"variance"`
	SavingsRate float64 `json:"savingsRate"`
	Runway      float64 `json:"runway"`
}
