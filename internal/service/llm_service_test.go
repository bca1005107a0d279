package service

import (
	"testing"
)

func TestExtractTransactionsJSON(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLen  int
		wantErr  bool
		wantDesc string
	}{
		{
			name:     "clean JSON",
			content:  `{"transactions": [{"description": "Taxi", "amount": 12500, "currency": "CLP", "category": "transport", "date": "2026-03-14", "type": "expense"}]}`,
			wantLen:  1,
			wantDesc: "Taxi",
		},
		{
			name: "JSON wrapped in prose",
			content: `Here is the extracted data:
{"transactions": [{"description": "Rent", "amount": 1200, "currency": "USD", "category": "utilities", "date": "2026-03-01", "type": "expense"}]}
Let me know if you need anything else.`,
			wantLen:  1,
			wantDesc: "Rent",
		},
		{
			name:    "empty transactions array",
			content: `{"transactions": []}`,
			wantLen: 0,
		},
		{
			name:    "missing transactions key",
			content: `{"rows": []}`,
			wantLen: 0,
		},
		{
			name:    "no JSON object at all",
			content: `I could not find any transactions in this document.`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			content: `{"transactions": [{"description": "Taxi",}]}`,
			wantErr: true,
		},
		{
			name: "multiple rows",
			content: `{"transactions": [
				{"description": "Salary", "amount": 3400, "currency": "USD", "category": "salary", "date": "2026-03-01", "type": "income"},
				{"description": "Groceries", "amount": 86500, "currency": "CLP", "category": "food", "date": "2026-03-07", "type": "expense"}
			]}`,
			wantLen:  2,
			wantDesc: "Salary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractTransactionsJSON(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("got %d transactions, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].Description != tt.wantDesc {
				t.Errorf("first description = %q, want %q", got[0].Description, tt.wantDesc)
			}
		})
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean ascii", input: "hello", want: "hello"},
		{name: "clean multibyte", input: "café ¥3,400", want: "café ¥3,400"},
		{name: "invalid byte dropped", input: "bad\xffbyte", want: "badbyte"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeUTF8(tt.input); got != tt.want {
				t.Errorf("sanitizeUTF8(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
