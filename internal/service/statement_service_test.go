package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestStatementService_ImportEmptyStatement(t *testing.T) {
	// Text too short to hold a transaction short-circuits the parser, and an
	// import that yields no rows must not create a batch. The repositories are
	// nil here, so any attempt to touch storage would panic.
	llm := &LLMService{logger: zap.NewNop()}
	svc := NewStatementService(llm, nil, nil, nil, zap.NewNop())

	resp, err := svc.Import(context.Background(), uuid.New(), "empty.csv", strings.NewReader("ab"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if resp.BatchID != "" {
		t.Errorf("BatchID = %q, want empty when nothing was parsed", resp.BatchID)
	}
	if resp.Imported != 0 || resp.Duplicates != 0 {
		t.Errorf("counts = %d imported, %d duplicates, want zero", resp.Imported, resp.Duplicates)
	}
	if len(resp.Transactions) != 0 {
		t.Errorf("Transactions = %v, want none", resp.Transactions)
	}
}

func TestStatementService_UnsupportedFormat(t *testing.T) {
	svc := NewStatementService(&LLMService{logger: zap.NewNop()}, nil, nil, nil, zap.NewNop())

	_, err := svc.Import(context.Background(), uuid.New(), "statement.pdf", strings.NewReader("%PDF-1.7"))
	if err != ErrUnsupportedFormat {
		t.Errorf("Import(.pdf) error = %v, want ErrUnsupportedFormat", err)
	}
}
