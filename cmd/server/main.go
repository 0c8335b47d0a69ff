package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogapp "github.com/siscom/backend/internal/application/catalog"
	financeapp "github.com/siscom/backend/internal/application/finance"
	identityapp "github.com/siscom/backend/internal/application/identity"
	inventoryapp "github.com/siscom/backend/internal/application/inventory"
	partnerapp "github.com/siscom/backend/internal/application/partner"
	posapp "github.com/siscom/backend/internal/application/pos"
	tradeapp "github.com/siscom/backend/internal/application/trade"
	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/infrastructure/auth"
	"github.com/siscom/backend/internal/infrastructure/cache"
	"github.com/siscom/backend/internal/infrastructure/config"
	"github.com/siscom/backend/internal/infrastructure/event"
	"github.com/siscom/backend/internal/infrastructure/logger"
	"github.com/siscom/backend/internal/infrastructure/persistence"
	"github.com/siscom/backend/internal/infrastructure/telemetry"
	"github.com/siscom/backend/internal/interfaces/http/handler"
	"github.com/siscom/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SISCOM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracer provider (no-op when telemetry is disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	stockLotRepo := persistence.NewGormStockLotRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	serviceOrderRepo := persistence.NewGormServiceOrderRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	cashSessionRepo := persistence.NewGormCashSessionRepository(db.DB)
	cashMovementRepo := persistence.NewGormCashMovementRepository(db.DB)
	financialEntryRepo := persistence.NewGormFinancialEntryRepository(db.DB)
	operatorRepo := persistence.NewGormOperatorRepository(db.DB)
	sequences := persistence.NewGormSequenceGenerator(db.DB)

	// Transaction scopes keep stock debits and order writes atomic
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	tradeScope := persistence.NewGormTradeTransactionScope(db.DB)

	// Business policies
	allocationPolicy := inventory.AllocationPolicy{
		AllowExpired: cfg.Policy.AllowExpiredLots,
	}

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	partnerService := partnerapp.NewPartnerService(customerRepo, supplierRepo)
	stockService := inventoryapp.NewStockService(inventoryScope, stockItemRepo, stockMovementRepo, stockLotRepo, productRepo, allocationPolicy)
	salesService := tradeapp.NewSalesService(tradeScope, salesOrderRepo, productRepo, customerRepo, allocationPolicy)
	purchaseService := tradeapp.NewPurchaseService(tradeScope, purchaseOrderRepo, productRepo, supplierRepo)
	quotationService := tradeapp.NewQuotationService(tradeScope, quotationRepo, productRepo, customerRepo)
	serviceOrderService := tradeapp.NewServiceOrderService(tradeScope, serviceOrderRepo, productRepo, customerRepo, allocationPolicy)
	posService := posapp.NewPosService(cashSessionRepo, cashMovementRepo, salesService)
	financeService := financeapp.NewFinanceService(financialEntryRepo, customerRepo, supplierRepo, sequences)
	financeService.SetInterestDailyRate(decimal.NewFromFloat(cfg.Policy.InterestDailyRate))

	// PDV receipt idempotency cache: Redis when reachable, in-memory otherwise
	if receiptStore, err := cache.NewRedisReceiptStore(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, falling back to in-memory receipt store", zap.Error(err))
		posService.SetIdempotencyStore(cache.NewInMemoryReceiptStore())
	} else {
		posService.SetIdempotencyStore(receiptStore)
	}

	// JWT service and identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(operatorRepo, jwtService, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	operatorService := identityapp.NewOperatorService(operatorRepo, log)

	// Domain event bus with the audit trail subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	productService.SetEventPublisher(eventBus)
	partnerService.SetEventPublisher(eventBus)
	stockService.SetEventPublisher(eventBus)
	salesService.SetEventPublisher(eventBus)
	purchaseService.SetEventPublisher(eventBus)
	quotationService.SetEventPublisher(eventBus)
	serviceOrderService.SetEventPublisher(eventBus)
	posService.SetEventPublisher(eventBus)
	financeService.SetEventPublisher(eventBus)

	// HTTP engine with the full middleware chain
	engine, err := router.NewEngine(router.EngineConfig{
		Config:     cfg,
		Logger:     log,
		JWTService: jwtService,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	// Register route groups
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewSystemHandler(db)).
		Register(handler.NewAuthHandler(authService, operatorService)).
		Register(handler.NewOperatorHandler(operatorService)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewPartnerHandler(partnerService)).
		Register(handler.NewStockHandler(stockService)).
		Register(handler.NewSalesOrderHandler(salesService)).
		Register(handler.NewPurchaseOrderHandler(purchaseService)).
		Register(handler.NewServiceOrderHandler(serviceOrderService)).
		Register(handler.NewQuotationHandler(quotationService)).
		Register(handler.NewPosHandler(posService)).
		Register(handler.NewFinanceHandler(financeService)).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
