package service

import (
	"strings"
	"testing"
	"time"

	"finsight/internal/models"
)

func TestSummarizeTransaction(t *testing.T) {
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		tx   *models.Transaction
		want string
	}{
		{
			name: "expense",
			tx: &models.Transaction{
				Date:             date,
				Description:      "Taxi to airport",
				Category:         models.CategoryTransport,
				Type:             models.TypeExpense,
				OriginalAmount:   12500,
				OriginalCurrency: "CLP",
			},
			want: "Expense of 12500.00 CLP in transport: Taxi to airport. Date: 2026-03-14",
		},
		{
			name: "income",
			tx: &models.Transaction{
				Date:             date,
				Description:      "Monthly salary",
				Category:         models.CategorySalary,
				Type:             models.TypeIncome,
				OriginalAmount:   3400,
				OriginalCurrency: "USD",
			},
			want: "Income of 3400.00 USD in salary: Monthly salary. Date: 2026-03-14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummarizeTransaction(tt.tx); got != tt.want {
				t.Errorf("SummarizeTransaction() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildAdvisorContext(t *testing.T) {
	recent := []*models.Transaction{
		{
			Date:             time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
			Description:      "Taxi to airport",
			Category:         models.CategoryTransport,
			Type:             models.TypeExpense,
			OriginalAmount:   12500,
			OriginalCurrency: "CLP",
		},
	}
	memories := []*models.MemoryEntry{
		{Content: "Expense of 64.00 EUR in food: Dinner with friends. Date: 2026-02-18"},
	}

	got := BuildAdvisorContext(18500, 5.9, recent, memories)

	for _, want := range []string{
		"HARD NUMBERS:",
		"Current cash: 18500.00 USD",
		"Runway: 5.9 months",
		"RECENT ACTIVITY:",
		"2026-03-14 expense 12500.00 CLP (transport): Taxi to airport",
		"RELEVANT HISTORY:",
		"Dinner with friends",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}

func TestBuildAdvisorContext_EmptyState(t *testing.T) {
	got := BuildAdvisorContext(0, 0, nil, nil)

	if !strings.Contains(got, "No transactions recorded yet.") {
		t.Errorf("context missing empty-ledger line:\n%s", got)
	}
	if !strings.Contains(got, "Nothing similar in memory.") {
		t.Errorf("context missing empty-memory line:\n%s", got)
	}
}
