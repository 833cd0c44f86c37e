package main

import (
	"log"
	"net/http"
	"time"

	_ "farecard/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"farecard/internal/cache"
	"farecard/internal/config"
	"farecard/internal/db"
	"farecard/internal/handler"
	"farecard/internal/identity"
	"farecard/internal/model"
	"farecard/internal/payment"
	"farecard/internal/repository"
	"farecard/internal/router"
	"farecard/internal/service"
	"farecard/internal/uow"
)

// Simulated provider round-trip; real integrations bring their own latency.
const providerLatency = 150 * time.Millisecond

// @title Transit Fare Card API
// @version 1.0
// @description Prepaid fare card service: ride validation, recharges and the transaction ledger.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Card{},
		&model.Transaction{},
		&model.Validator{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	cardRepo := repository.NewCardRepository(gormDB)
	ledgerRepo := repository.NewLedgerRepository(gormDB)
	validatorRepo := repository.NewValidatorRepository(gormDB)

	// Unit-of-work coordinator: balance write and ledger append commit
	// together, or in the explicitly weaker best-effort mode when the
	// backing store cannot do that.
	var coordinator uow.Coordinator
	switch cfg.AtomicMode {
	case config.AtomicModeBestEffort:
		coordinator = uow.NewBestEffortCoordinator(gormDB)
		log.Println("WARNING: ATOMIC_MODE=best_effort: balance writes and ledger appends are NOT committed atomically")
	default:
		coordinator = uow.NewCoordinator(gormDB)
	}

	// External collaborators
	riders, err := identity.FromFile(cfg.RiderDirectory)
	if err != nil {
		log.Fatalf("rider directory: %v", err)
	}
	gateways := payment.DefaultRegistry(providerLatency)

	// Initialize services
	validationService := service.NewValidationService(cardRepo, validatorRepo, ledgerRepo, riders, coordinator, cacheClient)
	rechargeService := service.NewRechargeService(cardRepo, ledgerRepo, gateways, coordinator, cacheClient, cfg.RechargeFloor, cfg.PaymentTimeout)
	ledgerService := service.NewLedgerService(ledgerRepo)
	cardService := service.NewCardService(cardRepo, cacheClient)
	registryService := service.NewRegistryService(validatorRepo)

	// Initialize handlers
	validationHandler := handler.NewValidationHandler(validationService)
	rechargeHandler := handler.NewRechargeHandler(rechargeService)
	historyHandler := handler.NewHistoryHandler(ledgerService)
	cardHandler := handler.NewCardHandler(cardService)
	adminHandler := handler.NewAdminHandler(registryService, ledgerService)

	// Register routes
	router.Register(
		e,
		cfg,
		validationHandler,
		rechargeHandler,
		historyHandler,
		cardHandler,
		adminHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
