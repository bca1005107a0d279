package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finsight/internal/dto"
	"finsight/internal/models"
	"finsight/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidType         = errors.New("invalid transaction type")
)

type TransactionService struct {
	txRepo   *repository.TransactionRepository
	taskRepo *repository.TaskRepository
	currency *CurrencyService
	logger   *zap.Logger
}

func NewTransactionService(
	txRepo *repository.TransactionRepository,
	taskRepo *repository.TaskRepository,
	currency *CurrencyService,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		txRepo:   txRepo,
		taskRepo: taskRepo,
		currency: currency,
		logger:   logger,
	}
}

// Create normalizes and inserts a transaction. Duplicates (same user, date,
// description, original amount and type) are silently dropped by the store
// and reported back with Duplicate set; no memory task is enqueued for them.
func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*dto.CreateTransactionResponse, error) {
	tx, err := s.buildTransaction(userID, req, nil)
	if err != nil {
		return nil, err
	}

	inserted, err := s.txRepo.Create(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if !inserted {
		return &dto.CreateTransactionResponse{Duplicate: true}, nil
	}

	s.enqueueMemoryWrite(ctx, tx)

	resp := toTransactionResponse(tx)
	return &dto.CreateTransactionResponse{Transaction: &resp}, nil
}

// CreateInBatch is the import path: same semantics as Create, with the row
// tied to its import batch.
func (s *TransactionService) CreateInBatch(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest, batchID uuid.UUID) (bool, error) {
	tx, err := s.buildTransaction(userID, req, &batchID)
	if err != nil {
		return false, err
	}

	inserted, err := s.txRepo.Create(ctx, tx)
	if err != nil {
		return false, fmt.Errorf("failed to create transaction: %w", err)
	}

	if inserted {
		s.enqueueMemoryWrite(ctx, tx)
	}
	return inserted, nil
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]dto.TransactionResponse, error) {
	transactions, err := s.txRepo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TransactionResponse, len(transactions))
	for i, tx := range transactions {
		responses[i] = toTransactionResponse(tx)
	}
	return responses, nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil || tx.UserID != userID {
		return nil, ErrTransactionNotFound
	}

	if req.Description != nil {
		tx.Description = sanitizeUTF8(*req.Description)
	}
	if req.Category != nil {
		tx.Category = models.TransactionCategory(*req.Category)
	}
	if req.Type != nil {
		if *req.Type != string(models.TypeIncome) && *req.Type != string(models.TypeExpense) {
			return nil, ErrInvalidType
		}
		tx.Type = models.TransactionType(*req.Type)
	}
	if req.Scope != nil {
		tx.Scope = models.TransactionScope(*req.Scope)
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		tx.Date = date
	}
	if req.OriginalAmount != nil {
		tx.OriginalAmount = *req.OriginalAmount
		// Renormalize with the rate stored at creation time so the USD value
		// stays reconstructible from the row itself
		if tx.ExchangeRate > 0 {
			tx.AmountUSD = round2(tx.OriginalAmount / tx.ExchangeRate)
		}
	}
	tx.UpdatedAt = time.Now()

	if err := s.txRepo.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	resp := toTransactionResponse(tx)
	return &resp, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.txRepo.Delete(ctx, userID, id)
}

func (s *TransactionService) buildTransaction(userID uuid.UUID, req *dto.CreateTransactionRequest, batchID *uuid.UUID) (*models.Transaction, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	txType := models.TransactionType(req.Type)
	if txType != models.TypeIncome && txType != models.TypeExpense {
		return nil, ErrInvalidType
	}

	scope := models.TransactionScope(req.Scope)
	if scope != models.ScopeBusiness {
		scope = models.ScopePersonal
	}

	category := models.TransactionCategory(req.Category)
	if category == "" {
		category = models.CategoryOther
	}

	rate := s.currency.Rate(req.Currency)
	now := time.Now()

	return &models.Transaction{
		ID:               uuid.New(),
		UserID:           userID,
		Date:             date,
		Description:      sanitizeUTF8(req.Description),
		Category:         category,
		Type:             txType,
		Scope:            scope,
		OriginalAmount:   req.OriginalAmount,
		OriginalCurrency: req.Currency,
		ExchangeRate:     rate,
		AmountUSD:        s.currency.ToUSD(req.OriginalAmount, req.Currency),
		ImportBatchID:    batchID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// enqueueMemoryWrite records an outbox task for the memory side channel.
// Failure to enqueue must not fail the transaction insert.
func (s *TransactionService) enqueueMemoryWrite(ctx context.Context, tx *models.Transaction) {
	now := time.Now()
	task := &models.Task{
		ID:            uuid.New(),
		UserID:        tx.UserID,
		Kind:          models.TaskKindMemoryWrite,
		TransactionID: &tx.ID,
		Status:        models.TaskStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.taskRepo.Enqueue(ctx, task); err != nil {
		s.logger.Warn("Failed to enqueue memory write task",
			zap.Error(err),
			zap.String("transaction_id", tx.ID.String()),
		)
	}
}

func toTransactionResponse(tx *models.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:               tx.ID.String(),
		Date:             tx.Date.Format("2006-01-02"),
		Description:      tx.Description,
		Category:         string(tx.Category),
		Type:             string(tx.Type),
		Scope:            string(tx.Scope),
		OriginalAmount:   tx.OriginalAmount,
		OriginalCurrency: tx.OriginalCurrency,
		ExchangeRate:     tx.ExchangeRate,
		AmountUSD:        tx.AmountUSD,
		CreatedAt:        tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.ImportBatchID != nil {
		resp.ImportBatchID = tx.ImportBatchID.String()
	}
	return resp
}
