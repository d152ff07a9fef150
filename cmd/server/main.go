package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/abhishekjatav/dukaan/internal/config"
	"github.com/abhishekjatav/dukaan/internal/repository/mongodb"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
	"github.com/abhishekjatav/dukaan/internal/repository/tables"
	"github.com/abhishekjatav/dukaan/internal/scheduler"
	"github.com/abhishekjatav/dukaan/internal/server/handlers"
	"github.com/abhishekjatav/dukaan/internal/server/router"
	authsvc "github.com/abhishekjatav/dukaan/internal/service/auth"
	billingsvc "github.com/abhishekjatav/dukaan/internal/service/billing"
	reportingsvc "github.com/abhishekjatav/dukaan/internal/service/reporting"
	"github.com/abhishekjatav/dukaan/internal/session"
	"github.com/abhishekjatav/dukaan/pkg/clients/anthropic"
	"github.com/abhishekjatav/dukaan/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := rowstore.NewGoogleSheetStore(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
	if err != nil {
		baseLogger.Fatal("failed to init sheets row store", zap.Error(err))
	}

	mongoRepo, err := mongodb.NewMongoRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	inventory := tables.NewInventoryTable(store)
	customers := tables.NewCustomerTable(store)
	coupons := tables.NewCouponTable(store)
	sales := tables.NewSaleTable(store)
	expenses := tables.NewExpenseTable(store)
	loans := tables.NewLoanTable(store)
	users := tables.NewUserTable(store)

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Reporting.Timezone))
		loc = time.UTC
	}

	reportingSvc := reportingsvc.NewService(expenses, loans, sales, loc, baseLogger.Named("svc.reporting"))
	billingEngine := billingsvc.NewEngine(inventory, customers, sales, mongoRepo, cfg.Billing, baseLogger.Named("svc.billing"))
	authService := authsvc.NewService(users, cfg.Auth, baseLogger.Named("svc.auth"))
	sessions := session.NewManager()

	// Initialize AI Client
	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, assistant endpoint disabled")
	}

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authService, baseLogger.Named("handlers.auth")),
		POS:       handlers.NewPOSHandler(sessions, billingEngine, inventory, customers, coupons, baseLogger.Named("handlers.pos")),
		Ledger:    handlers.NewLedgerHandler(expenses, loans, reportingSvc, baseLogger.Named("handlers.ledger")),
		Assistant: handlers.NewAssistantHandler(aiClient, reportingSvc, baseLogger.Named("handlers.assistant")),
	}, authService, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, mongoRepo, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
