package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finsight/internal/models"
	"finsight/internal/repository"
	"finsight/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxTaskAttempts = 3

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// MemoryService maintains the semantic memory side channel: one entry per
// non-duplicate transaction, written asynchronously through the task outbox,
// plus similarity retrieval for the advisor.
type MemoryService struct {
	memoryRepo *repository.MemoryRepository
	taskRepo   *repository.TaskRepository
	txRepo     *repository.TransactionRepository
	embedder   Embedder
	cfg        *config.RAGConfig
	logger     *zap.Logger
}

func NewMemoryService(
	memoryRepo *repository.MemoryRepository,
	taskRepo *repository.TaskRepository,
	txRepo *repository.TransactionRepository,
	embedder Embedder,
	cfg *config.RAGConfig,
	logger *zap.Logger,
) *MemoryService {
	return &MemoryService{
		memoryRepo: memoryRepo,
		taskRepo:   taskRepo,
		txRepo:     txRepo,
		embedder:   embedder,
		cfg:        cfg,
		logger:     logger,
	}
}

// SummarizeTransaction renders the natural-language summary stored as memory
// content, e.g. "Expense of 12500.00 CLP in transport: Taxi to airport.
// Date: 2026-03-14".
func SummarizeTransaction(tx *models.Transaction) string {
	kind := "Expense"
	if tx.Type == models.TypeIncome {
		kind = "Income"
	}
	return fmt.Sprintf("%s of %.2f %s in %s: %s. Date: %s",
		kind, tx.OriginalAmount, tx.OriginalCurrency, tx.Category, tx.Description,
		tx.Date.Format("2006-01-02"))
}

// ProcessPendingTasks drains one batch of outbox tasks: embed the summary,
// write the memory entry, mark done. Failures bump the attempt counter and
// never propagate to callers.
func (s *MemoryService) ProcessPendingTasks(ctx context.Context) {
	tasks, err := s.taskRepo.ListPending(ctx, 50)
	if err != nil {
		s.logger.Warn("Failed to list pending memory tasks", zap.Error(err))
		return
	}

	for _, task := range tasks {
		if err := s.processTask(ctx, task); err != nil {
			s.logger.Warn("Memory task failed",
				zap.Error(err),
				zap.String("task_id", task.ID.String()),
				zap.Int("attempts", task.Attempts+1),
			)
			if err := s.taskRepo.MarkFailed(ctx, task, err.Error(), maxTaskAttempts); err != nil {
				s.logger.Warn("Failed to record task failure", zap.Error(err))
			}
			continue
		}
		if err := s.taskRepo.MarkDone(ctx, task.ID); err != nil {
			s.logger.Warn("Failed to mark task done", zap.Error(err))
		}
	}
}

func (s *MemoryService) processTask(ctx context.Context, task *models.Task) error {
	if task.Kind != models.TaskKindMemoryWrite || task.TransactionID == nil {
		return fmt.Errorf("unknown task kind %q", task.Kind)
	}

	tx, err := s.txRepo.GetByID(ctx, *task.TransactionID)
	if err != nil {
		return fmt.Errorf("source transaction missing: %w", err)
	}

	content := SummarizeTransaction(tx)
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	entry := &models.MemoryEntry{
		ID:            uuid.New(),
		UserID:        tx.UserID,
		Content:       content,
		Embedding:     embedding,
		Kind:          models.MemoryKindTransaction,
		Category:      tx.Category,
		TransactionID: &tx.ID,
		CreatedAt:     time.Now(),
	}

	if err := s.memoryRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("memory write failed: %w", err)
	}
	return nil
}

// RunWorker drains the outbox on an interval until the context is cancelled.
func (s *MemoryService) RunWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ProcessPendingTasks(ctx)
		}
	}
}

// Search embeds a free-text query and returns the user's most similar memory
// entries above the similarity threshold.
func (s *MemoryService) Search(ctx context.Context, userID uuid.UUID, query string) ([]*models.MemoryEntry, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return s.memoryRepo.SearchSimilar(ctx, userID, embedding, s.cfg.TopK, s.cfg.SimilarityThreshold)
}

// RememberConversation stores an advisor exchange as a conversation memory.
// Best-effort: callers log and move on when it errors.
func (s *MemoryService) RememberConversation(ctx context.Context, userID uuid.UUID, question, reply string) error {
	content := fmt.Sprintf("User asked: %s. Advisor replied: %s", question, reply)
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return err
	}

	return s.memoryRepo.Create(ctx, &models.MemoryEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   sanitizeUTF8(content),
		Embedding: embedding,
		Kind:      models.MemoryKindConversation,
		Category:  models.CategoryOther,
		CreatedAt: time.Now(),
	})
}

// BuildAdvisorContext assembles the hybrid prompt context: exact numbers
// from the deterministic layer, recent ledger activity, and semantically
// similar history. The model reasons over these figures, it does not
// produce them.
func BuildAdvisorContext(cashUSD, runwayMonths float64, recent []*models.Transaction, memories []*models.MemoryEntry) string {
	var b strings.Builder

	b.WriteString("HARD NUMBERS:\n")
	fmt.Fprintf(&b, "- Current cash: %.2f USD\n", cashUSD)
	fmt.Fprintf(&b, "- Runway: %.1f months\n", runwayMonths)

	b.WriteString("\nRECENT ACTIVITY:\n")
	if len(recent) == 0 {
		b.WriteString("- No transactions recorded yet.\n")
	}
	for _, tx := range recent {
		fmt.Fprintf(&b, "- %s %s %.2f %s (%s): %s\n",
			tx.Date.Format("2006-01-02"), tx.Type, tx.OriginalAmount, tx.OriginalCurrency,
			tx.Category, tx.Description)
	}

	b.WriteString("\nRELEVANT HISTORY:\n")
	if len(memories) == 0 {
		b.WriteString("- Nothing similar in memory.\n")
	}
	for _, m := range memories {
		fmt.Fprintf(&b, "- %s\n", m.Content)
	}

	return b.String()
}
