// Package main is the entry point for the CDR Billing API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/config"
	"github.com/cdr-billing/backend/internal/application/usecase/analytics"
	"github.com/cdr-billing/backend/internal/application/usecase/category"
	"github.com/cdr-billing/backend/internal/application/usecase/classification"
	"github.com/cdr-billing/backend/internal/application/usecase/ingest"
	"github.com/cdr-billing/backend/internal/application/usecase/suggestion"
	"github.com/cdr-billing/backend/internal/infra/db"
	"github.com/cdr-billing/backend/internal/infra/server/router"
	"github.com/cdr-billing/backend/internal/integration/adapters"
	"github.com/cdr-billing/backend/internal/integration/email"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/controller"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/middleware"
	"github.com/cdr-billing/backend/internal/integration/persistence"
	"github.com/cdr-billing/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting CDR Billing API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Open the category file store. Without it the pricing engine cannot
	// run, so a failure here is fatal.
	globalMarkup, err := decimal.NewFromString(cfg.Store.DefaultGlobalMarkup)
	if err != nil {
		slog.Warn("Invalid default global markup, falling back to zero",
			"value", cfg.Store.DefaultGlobalMarkup,
		)
		globalMarkup = decimal.Zero
	}

	store, err := persistence.NewCategoryFileStore(cfg.Store.Path, globalMarkup, cfg.Store.BackupRetention)
	if err != nil {
		slog.Error("Failed to open category store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}
	slog.Info("Category store ready", "path", cfg.Store.Path)

	// Connect to the call-record archive. The archive is optional: the
	// classification and pricing endpoints keep working without it.
	var database *db.Database
	var healthChecker controller.HealthChecker

	database, err = db.NewConnection(&cfg.Database)
	if err != nil {
		slog.Warn("Archive connection failed, running without call-record archive",
			"error", err,
		)
		database = nil
	} else {
		if err := database.AutoMigrate(&model.CallRecordModel{}); err != nil {
			slog.Error("Failed to run archive migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Archive migrations completed successfully")

		healthChecker = database
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close archive connection", "error", err)
			}
		}()
	}

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenExpiry)
	geminiService := adapters.NewGeminiService(cfg.AI.GeminiAPIKey)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(store)
	getCategoryUseCase := category.NewGetCategoryUseCase(store)
	createCategoryUseCase := category.NewCreateCategoryUseCase(store)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(store)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(store)
	reorderCategoriesUseCase := category.NewReorderCategoriesUseCase(store)
	setGlobalMarkupUseCase := category.NewSetGlobalMarkupUseCase(store)
	resetCategoriesUseCase := category.NewResetCategoriesUseCase(store)
	categoryStatisticsUseCase := category.NewCategoryStatisticsUseCase(store)
	validateConflictsUseCase := category.NewValidateConflictsUseCase(store)
	previewPricingUseCase := category.NewPreviewPricingUseCase(store)
	exportCategoriesUseCase := category.NewExportCategoriesUseCase(store)
	importCategoriesUseCase := category.NewImportCategoriesUseCase(store)

	// Create classification use cases
	classifyCallUseCase := classification.NewClassifyCallUseCase(store)
	testClassificationUseCase := classification.NewTestClassificationUseCase(store)

	// Create analytics use cases
	aggregateContractsUseCase := analytics.NewAggregateContractsUseCase(cfg.Analytics.Workers)
	summarizeUseCase := analytics.NewSummarizeUseCase()

	// Create suggestion use case
	suggestPatternsUseCase := suggestion.NewSuggestPatternsUseCase(store, geminiService)

	// Create controllers and middleware
	healthController := controller.NewHealthController(healthChecker)
	authController := controller.NewAuthController(tokenService, cfg.Auth.APIKeyHash)
	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		getCategoryUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
		reorderCategoriesUseCase,
		setGlobalMarkupUseCase,
		resetCategoriesUseCase,
		categoryStatisticsUseCase,
		validateConflictsUseCase,
		previewPricingUseCase,
		exportCategoriesUseCase,
		importCategoriesUseCase,
	)
	classificationController := controller.NewClassificationController(classifyCallUseCase, testClassificationUseCase)
	suggestionController := controller.NewSuggestionController(suggestPatternsUseCase)

	tokenRateLimiter := middleware.NewRateLimiter(redisClient, cfg.Auth.RateLimitAttempts, cfg.Auth.RateLimitWindow)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	var notifier *email.ReportNotifier
	if cfg.Email.ResendAPIKey != "" {
		sender := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		notifier = email.NewReportNotifier(sender, cfg.Email.ReportRecipient)
	}

	// Ingest and archive reporting only exist when the archive is up. The
	// aggregate endpoint works on inline batches and stays available.
	var recordsController *controller.RecordsController
	var archiveReportUseCase *analytics.ArchiveReportUseCase

	if database != nil {
		recordRepo := persistence.NewCallRecordRepository(database.DB())

		ingestRecordsUseCase := ingest.NewIngestRecordsUseCase(store, recordRepo)
		archiveReportUseCase = analytics.NewArchiveReportUseCase(recordRepo, aggregateContractsUseCase, summarizeUseCase)
		recordsController = controller.NewRecordsController(ingestRecordsUseCase)

		slog.Info("Archive ingest and reporting initialized successfully")
	} else {
		slog.Warn("Archive ingest and reporting not initialized due to missing archive connection")
	}

	analyticsController := controller.NewAnalyticsController(
		aggregateContractsUseCase,
		summarizeUseCase,
		archiveReportUseCase,
		notifier,
	)

	// Setup router
	r := router.NewRouter(
		healthController,
		authController,
		categoryController,
		classificationController,
		analyticsController,
		recordsController,
		suggestionController,
		tokenRateLimiter,
		authMiddleware,
	)
	engine := r.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}
