package service

import (
	"context"
	"fmt"
	"time"

	"finsight/internal/dto"
	"finsight/internal/models"
	"finsight/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recentActivityLimit = 5

// AdvisorService answers free-text questions grounded in the user's ledger:
// deterministic KPIs plus vector-memory recall, serialized into one prompt.
type AdvisorService struct {
	llm         *LLMService
	memory      *MemoryService
	kpi         *KPIService
	currency    *CurrencyService
	txRepo      *repository.TransactionRepository
	profileRepo *repository.ProfileRepository
	logger      *zap.Logger
}

func NewAdvisorService(
	llm *LLMService,
	memory *MemoryService,
	kpi *KPIService,
	currency *CurrencyService,
	txRepo *repository.TransactionRepository,
	profileRepo *repository.ProfileRepository,
	logger *zap.Logger,
) *AdvisorService {
	return &AdvisorService{
		llm:         llm,
		memory:      memory,
		kpi:         kpi,
		currency:    currency,
		txRepo:      txRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Ask assembles the hybrid context and runs one completion.
func (s *AdvisorService) Ask(ctx context.Context, userID uuid.UUID, req *dto.AdvisorRequest) (*dto.AdvisorResponse, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}

	transactions, err := s.txRepo.ListByUser(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	result := s.kpi.Compute(transactions, profile, ReportConfig{
		Mode:     ModeRolling,
		Scenario: ScenarioBase,
	}, time.Now())

	recent := transactions
	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}

	// Memory recall is best-effort: a failed embedding or search degrades the
	// answer, it does not fail the request
	memories, err := s.memory.Search(ctx, userID, req.Message)
	if err != nil {
		s.logger.Warn("Memory search failed, answering without history", zap.Error(err))
		memories = []*models.MemoryEntry{}
	}

	cashUSD := s.currency.ToUSD(profile.CurrentCash, profile.BaseCurrency)
	grounding := BuildAdvisorContext(cashUSD, result.Runway, recent, memories)

	prompt := fmt.Sprintf("%s\nQUESTION: %s", grounding, req.Message)

	reply, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate advisor reply: %w", err)
	}

	if err := s.memory.RememberConversation(ctx, userID, req.Message, reply); err != nil {
		s.logger.Warn("Failed to store conversation memory", zap.Error(err))
	}

	return &dto.AdvisorResponse{Reply: sanitizeUTF8(reply)}, nil
}
