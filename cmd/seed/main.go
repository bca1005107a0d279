package main

import (
	"context"
	"log"
	"time"

	"finsight/internal/dto"
	"finsight/internal/models"
	"finsight/internal/repository"
	"finsight/internal/service"
	"finsight/pkg/auth"
	"finsight/pkg/config"
	"finsight/pkg/logger"
	"finsight/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	demoEmail    = "demo@finsight.dev"
	demoUsername = "demo"
	demoPassword = "demo1234"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	profileRepo := repository.NewProfileRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	memoryRepo := repository.NewMemoryRepository(db, appLogger)
	taskRepo := repository.NewTaskRepository(db, appLogger)

	rateService := service.NewRateService(&cfg.Rates, appLogger)
	currencyService := service.NewCurrencyService(rateService, appLogger)
	txService := service.NewTransactionService(txRepo, taskRepo, currencyService, appLogger)

	appLogger.Info("Starting database seeding...")

	userID, err := seedDemoUser(ctx, userRepo, profileRepo, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed demo user", zap.Error(err))
	}

	if err := seedDemoTransactions(ctx, userID, txService, appLogger); err != nil {
		appLogger.Fatal("Failed to seed demo transactions", zap.Error(err))
	}

	// Embedding backfill needs GigaChat credentials; skip it quietly when
	// they are not configured so local seeding still works offline.
	if cfg.GigaChat.APIKey != "" {
		llmService, err := service.NewLLMService(&cfg.GigaChat, cfg.RAG.EmbeddingModel, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
		}
		defer llmService.Close()

		memoryService := service.NewMemoryService(memoryRepo, taskRepo, txRepo, llmService, &cfg.RAG, appLogger)
		memoryService.ProcessPendingTasks(ctx)
	} else {
		appLogger.Warn("GIGACHAT_API_KEY not set, leaving memory tasks pending")
	}

	appLogger.Info("Database seeding completed successfully!")
}

// seedDemoUser creates the demo account with its profile, or reuses the
// existing one on repeated runs.
func seedDemoUser(
	ctx context.Context,
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	logger *zap.Logger,
) (uuid.UUID, error) {
	if existing, _ := userRepo.GetByEmail(ctx, demoEmail); existing != nil {
		logger.Info("Demo user already exists", zap.String("email", demoEmail))
		return existing.ID, nil
	}

	hashed, err := auth.HashPassword(demoPassword)
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Username:  demoUsername,
		Email:     demoEmail,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return uuid.Nil, err
	}

	profile := &models.Profile{
		UserID:        user.ID,
		BaseCurrency:  "USD",
		CurrentCash:   18500,
		AnnualBudget:  31200,
		MonthlyIncome: 3400,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := profileRepo.Create(ctx, profile); err != nil {
		return uuid.Nil, err
	}

	logger.Info("Created demo user", zap.String("email", demoEmail))
	return user.ID, nil
}

// seedDemoTransactions inserts a multi-currency sample ledger. Rows go
// through the transaction service so normalization and memory enqueueing
// behave exactly as they do for API writes; reruns dedup to no-ops.
func seedDemoTransactions(
	ctx context.Context,
	userID uuid.UUID,
	txService *service.TransactionService,
	logger *zap.Logger,
) error {
	month := time.Now().AddDate(0, -1, 0).Format("2006-01")

	rows := []dto.CreateTransactionRequest{
		{Description: "Monthly salary", OriginalAmount: 3400, Currency: "USD", Category: "salary", Date: month + "-01", Type: "income", Scope: "personal"},
		{Description: "Freelance dashboard project", OriginalAmount: 850, Currency: "EUR", Category: "consulting", Date: month + "-05", Type: "income", Scope: "business"},
		{Description: "Apartment rent", OriginalAmount: 1200, Currency: "USD", Category: "housing", Date: month + "-02", Type: "expense", Scope: "personal"},
		{Description: "Groceries at Jumbo", OriginalAmount: 86500, Currency: "CLP", Category: "food", Date: month + "-07", Type: "expense", Scope: "personal"},
		{Description: "Taxi to airport", OriginalAmount: 12500, Currency: "CLP", Category: "transport", Date: month + "-14", Type: "expense", Scope: "business"},
		{Description: "Cloud hosting invoice", OriginalAmount: 48, Currency: "USD", Category: "services", Date: month + "-10", Type: "expense", Scope: "business"},
		{Description: "Dinner with friends", OriginalAmount: 64, Currency: "EUR", Category: "food", Date: month + "-18", Type: "expense", Scope: "personal"},
		{Description: "Yen savings transfer", OriginalAmount: 50000, Currency: "JPY", Category: "other", Date: month + "-20", Type: "expense", Scope: "personal"},
	}

	created, duplicates := 0, 0
	for _, req := range rows {
		resp, err := txService.Create(ctx, userID, &req)
		if err != nil {
			logger.Error("Failed to seed transaction", zap.String("description", req.Description), zap.Error(err))
			continue
		}
		if resp.Duplicate {
			duplicates++
		} else {
			created++
		}
	}

	logger.Info("Seeded transactions", zap.Int("created", created), zap.Int("duplicates", duplicates))
	return nil
}
