package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finsight/internal/api"
	"finsight/internal/api/handlers"
	"finsight/internal/repository"
	"finsight/internal/service"
	"finsight/pkg/auth"
	"finsight/pkg/config"
	"finsight/pkg/logger"
	"finsight/pkg/postgres"

	"go.uber.org/zap"
)

// @title Finsight API
// @version 1.0
// @description Multi-currency finance dashboard: normalized ledger, KPI engine and RAG-grounded advisor

// @contact.name API Support
// @contact.email support@finsight.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Finsight service")

	// Initialize database
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	profileRepo := repository.NewProfileRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	memoryRepo := repository.NewMemoryRepository(db, appLogger)
	batchRepo := repository.NewBatchRepository(db, appLogger)
	taskRepo := repository.NewTaskRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, profileRepo, jwtManager, appLogger)

	llmService, err := service.NewLLMService(&cfg.GigaChat, cfg.RAG.EmbeddingModel, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	rateService := service.NewRateService(&cfg.Rates, appLogger)
	go rateService.RunPeriodicRefresh(ctx)

	currencyService := service.NewCurrencyService(rateService, appLogger)
	kpiService := service.NewKPIService(currencyService, txRepo, profileRepo, appLogger)
	txService := service.NewTransactionService(txRepo, taskRepo, currencyService, appLogger)
	profileService := service.NewProfileService(profileRepo, appLogger)
	statementService := service.NewStatementService(llmService, txService, txRepo, batchRepo, appLogger)

	memoryService := service.NewMemoryService(memoryRepo, taskRepo, txRepo, llmService, &cfg.RAG, appLogger)
	go memoryService.RunWorker(ctx, 15*time.Second)

	advisorService := service.NewAdvisorService(llmService, memoryService, kpiService, currencyService, txRepo, profileRepo, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	txHandler := handlers.NewTransactionHandler(txService, appLogger)
	statementHandler := handlers.NewStatementHandler(statementService, appLogger)
	advisorHandler := handlers.NewAdvisorHandler(advisorService, appLogger)
	kpiHandler := handlers.NewKPIHandler(kpiService, appLogger)
	profileHandler := handlers.NewProfileHandler(profileService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, txHandler, statementHandler, advisorHandler, kpiHandler, profileHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	cancel()
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
