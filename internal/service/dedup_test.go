package service

import (
	"testing"
	"time"

	"finsight/internal/models"
)

func TestHeuristicDuplicate(t *testing.T) {
	day := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	existing := []*models.Transaction{
		{
			Date:           day,
			Description:    "Taxi to airport",
			OriginalAmount: 12500,
			Type:           models.TypeExpense,
		},
		{
			Date:           day.AddDate(0, 0, 1),
			Description:    "Groceries",
			OriginalAmount: 86.50,
			Type:           models.TypeExpense,
		},
	}

	tests := []struct {
		name        string
		date        time.Time
		description string
		amount      float64
		want        bool
	}{
		{
			name:        "exact match",
			date:        day,
			description: "Taxi to airport",
			amount:      12500,
			want:        true,
		},
		{
			name:        "case and whitespace folded",
			date:        day,
			description: "  taxi TO Airport ",
			amount:      12500,
			want:        true,
		},
		{
			name:        "amount within a cent",
			date:        day,
			description: "Taxi to airport",
			amount:      12500.009,
			want:        true,
		},
		{
			name:        "amount a cent off",
			date:        day,
			description: "Taxi to airport",
			amount:      12500.011,
			want:        false,
		},
		{
			name:        "different day",
			date:        day.AddDate(0, 0, 2),
			description: "Taxi to airport",
			amount:      12500,
			want:        false,
		},
		{
			name:        "same day different time still matches",
			date:        day.Add(14 * time.Hour),
			description: "Taxi to airport",
			amount:      12500,
			want:        true,
		},
		{
			name:        "different description",
			date:        day,
			description: "Taxi home",
			amount:      12500,
			want:        false,
		},
		{
			name:        "empty ledger",
			date:        day,
			description: "Anything",
			amount:      1,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := existing
			if tt.name == "empty ledger" {
				ledger = nil
			}
			got := HeuristicDuplicate(tt.date, tt.description, tt.amount, ledger)
			if got != tt.want {
				t.Errorf("HeuristicDuplicate(%v, %q, %v) = %v, want %v",
					tt.date.Format("2006-01-02"), tt.description, tt.amount, got, tt.want)
			}
		})
	}
}
