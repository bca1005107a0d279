package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"finsight/internal/dto"
	"finsight/internal/models"
	"finsight/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat marks uploads the parser cannot read (notably PDF).
var ErrUnsupportedFormat = errors.New("unsupported file format, expected CSV, TXT, PNG or JPG")

// StatementService turns an uploaded bank statement into ledger rows: text
// goes straight to the LLM parser, images take the vision extraction path
// first. Parsed rows run one by one through the authoritative create path,
// so a failure partway through leaves a partial import, and duplicates are
// absorbed silently by the store.
type StatementService struct {
	llm       *LLMService
	txService *TransactionService
	txRepo    *repository.TransactionRepository
	batchRepo *repository.BatchRepository
	logger    *zap.Logger
}

func NewStatementService(
	llm *LLMService,
	txService *TransactionService,
	txRepo *repository.TransactionRepository,
	batchRepo *repository.BatchRepository,
	logger *zap.Logger,
) *StatementService {
	return &StatementService{
		llm:       llm,
		txService: txService,
		txRepo:    txRepo,
		batchRepo: batchRepo,
		logger:    logger,
	}
}

// Import parses an uploaded statement and imports its rows under a new batch.
func (s *StatementService) Import(ctx context.Context, userID uuid.UUID, fileName string, file io.Reader) (*dto.ParseStatementResponse, error) {
	text, err := s.extractText(ctx, fileName, file)
	if err != nil {
		return nil, err
	}

	parsed, err := s.llm.ParseStatement(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse statement: %w", err)
	}

	// Nothing to import means no batch either; empty batches would only
	// clutter the batch list.
	if len(parsed) == 0 {
		s.logger.Info("Statement contained no transactions", zap.String("file", fileName))
		return &dto.ParseStatementResponse{Transactions: parsed}, nil
	}

	batch := &models.ImportBatch{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      fileName,
		Currency:  dominantCurrency(parsed),
		CreatedAt: time.Now(),
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to create import batch: %w", err)
	}

	var imported, duplicates int
	for _, row := range parsed {
		req := &dto.CreateTransactionRequest{
			Description:    row.Description,
			OriginalAmount: row.Amount,
			Currency:       row.Currency,
			Category:       row.Category,
			Date:           row.Date,
			Type:           row.Type,
		}

		inserted, err := s.txService.CreateInBatch(ctx, userID, req, batch.ID)
		if err != nil {
			// One bad row must not abort the rest of the import
			s.logger.Warn("Skipping unimportable statement row",
				zap.Error(err),
				zap.String("description", row.Description),
			)
			continue
		}
		if inserted {
			imported++
		} else {
			duplicates++
		}
	}

	s.logger.Info("Statement import finished",
		zap.String("batch_id", batch.ID.String()),
		zap.Int("parsed", len(parsed)),
		zap.Int("imported", imported),
		zap.Int("duplicates", duplicates),
	)

	return &dto.ParseStatementResponse{
		BatchID:      batch.ID.String(),
		Transactions: parsed,
		Imported:     imported,
		Duplicates:   duplicates,
	}, nil
}

// PreviewDuplicates flags parsed rows that look like duplicates of already
// stored transactions, using the import-preview heuristic.
func (s *StatementService) PreviewDuplicates(ctx context.Context, userID uuid.UUID, parsed []dto.ParsedTransaction) ([]bool, error) {
	existing, err := s.txRepo.ListByUser(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	flags := make([]bool, len(parsed))
	for i, row := range parsed {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}
		flags[i] = HeuristicDuplicate(date, row.Description, row.Amount, existing)
	}
	return flags, nil
}

func (s *StatementService) DeleteBatch(ctx context.Context, userID, batchID uuid.UUID) error {
	return s.batchRepo.Delete(ctx, userID, batchID)
}

func (s *StatementService) extractText(ctx context.Context, fileName string, file io.Reader) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt", ".tsv":
		data, err := io.ReadAll(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	case ".png", ".jpg", ".jpeg":
		return s.llm.ExtractTextFromImage(ctx, file, fileName)
	default:
		return "", ErrUnsupportedFormat
	}
}

// dominantCurrency tags the batch with the most frequent row currency.
func dominantCurrency(rows []dto.ParsedTransaction) string {
	counts := map[string]int{}
	best := ""
	for _, row := range rows {
		counts[row.Currency]++
		if best == "" || counts[row.Currency] > counts[best] {
			best = row.Currency
		}
	}
	if best == "" {
		best = "USD"
	}
	return best
}
