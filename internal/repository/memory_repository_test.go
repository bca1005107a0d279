package repository

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
)

func TestVectorLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
		want  string
	}{
		{name: "integers", input: []float32{1, 2, 3}, want: "[1,2,3]"},
		{name: "fractional and negative", input: []float32{0.5, -0.25}, want: "[0.5,-0.25]"},
		{name: "single element", input: []float32{0.7071068}, want: "[0.7071068]"},
		{name: "empty", input: nil, want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vectorLiteral(tt.input)
			if got != tt.want {
				t.Errorf("vectorLiteral(%v) = %q, want %q", tt.input, got, tt.want)
			}
			// The vector input format is bracketed, never a Postgres array
			// literal, which vector_in rejects.
			if strings.ContainsAny(got, "{}") {
				t.Errorf("vectorLiteral(%v) = %q uses array braces", tt.input, got)
			}
		})
	}
}

func TestVectorLiteral_CastInQueries(t *testing.T) {
	embedding := []float32{0.1, 0.2}

	sql, args, err := squirrel.Insert("financial_memory").
		Columns("id", "embedding").
		Values("abc", squirrel.Expr("?::vector", vectorLiteral(embedding))).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if !strings.Contains(sql, "$2::vector") {
		t.Errorf("insert SQL %q missing ::vector cast on the embedding placeholder", sql)
	}
	if args[1] != "[0.1,0.2]" {
		t.Errorf("embedding arg = %v, want the bracketed literal", args[1])
	}

	sql, args, err = squirrel.Select("id").
		Column(squirrel.Alias(squirrel.Expr("1 - (embedding <=> ?::vector)", vectorLiteral(embedding)), "similarity")).
		From("financial_memory").
		Where(squirrel.Expr("1 - (embedding <=> ?::vector) >= ?", vectorLiteral(embedding), 0.7)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if strings.Count(sql, "::vector") != 2 {
		t.Errorf("search SQL %q must cast both vector placeholders", sql)
	}
	if args[0] != "[0.1,0.2]" || args[1] != "[0.1,0.2]" {
		t.Errorf("vector args = %v, want bracketed literals", args[:2])
	}
}
