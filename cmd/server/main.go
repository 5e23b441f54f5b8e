// Package main is the entry point for the budget engine API server.
// It normalizes raw bank transactions into a settlement currency, flags
// duplicates and same-day transfers, categorizes spending, runs cross-account
// detection, and rolls accepted transactions up into budget summaries.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budget-engine/internal/config"
	"budget-engine/internal/database"
	"budget-engine/internal/handlers"
	custommw "budget-engine/internal/middleware"
	"budget-engine/internal/services"
	"budget-engine/internal/stores"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	logger.Info("starting budget engine",
		"environment", cfg.Server.Environment,
		"settlement_currency", cfg.Pipeline.SettlementCurrency)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	// Stores
	ruleStore := stores.NewRuleStore(db)
	categoryStore := stores.NewCategoryStore(db)
	detectionStore := stores.NewDetectionStore(db)

	// Services
	metrics := services.NewPrometheusMetrics()
	rateProvider := services.NewStaticRateProvider()
	currency := services.NewCurrencyService(rateProvider, cfg.Pipeline.SettlementCurrency, cfg.Pipeline.RateCacheTTL, logger, metrics)
	normalizer := services.NewNormalizerService(currency, logger, metrics)
	transfers := services.NewTransferService(logger, metrics)
	categorizer := services.NewCategorizerService(ruleStore, logger, metrics)
	multiBank := services.NewMultiBankService(detectionStore, logger, metrics)
	budget := services.NewBudgetService(categoryStore, cfg.Pipeline.AtRiskThreshold, logger, metrics)

	pipeline := services.NewPipelineService(
		normalizer,
		transfers,
		categorizer,
		multiBank,
		detectionStore,
		func(cache services.DeduplicationCacheInterface) services.DedupServiceInterface {
			return services.NewDedupService(cache, cfg.Pipeline.DedupWindow, cfg.Pipeline.HashRetention, logger, metrics)
		},
		services.NewMemoryDedupCache,
		logger,
		metrics,
	)

	// Handlers
	healthHandler := handlers.NewHealthCheckHandler(db)
	pipelineHandler := handlers.NewPipelineHandler(pipeline, logger)
	budgetHandler := handlers.NewBudgetHandler(pipeline, budget, logger)
	detectionHandler := handlers.NewDetectionHandler(detectionStore, logger)
	ruleHandler := handlers.NewRuleHandler(ruleStore, logger)
	categoryHandler := handlers.NewCategoryHandler(categoryStore, logger)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = custommw.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()

	e.Use(custommw.RequestID())
	e.Use(custommw.PanicRecovery())
	e.Use(custommw.SecurityHeaders())
	e.Use(custommw.RateLimiterWithConfig(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	api.POST("/transactions/process", pipelineHandler.ProcessBatch)
	api.POST("/budget/refresh", budgetHandler.Refresh)
	api.GET("/detections/duplicates", detectionHandler.ListDuplicates)
	api.GET("/detections/transfers", detectionHandler.ListTransfers)
	api.POST("/detections/duplicates/:id/confirm", detectionHandler.ConfirmDuplicate)
	api.GET("/rules", ruleHandler.List)
	api.POST("/rules", ruleHandler.Create)
	api.PUT("/rules/:id", ruleHandler.Update)
	api.DELETE("/rules/:id", ruleHandler.Delete)
	api.GET("/categories", categoryHandler.List)
	api.POST("/categories", categoryHandler.Create)
	api.PUT("/categories/:key", categoryHandler.Update)
	api.DELETE("/categories/:key", categoryHandler.Delete)

	// Synthetic data endpoints stay out of production
	if cfg.IsDevelopment() {
		devHandler := handlers.NewDevHandler(services.NewTransactionGenerator(uint64(time.Now().UnixNano())))
		dev := api.Group("/dev")
		dev.POST("/accounts/:id/generate-test-data", devHandler.GenerateTestData)
		dev.POST("/accounts/:id/generate-subscriptions", devHandler.GenerateSubscriptions)
	}

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped gracefully")
}
