package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/auth"
	"payledger-backend/internal/cache"
	"payledger-backend/internal/config"
	"payledger-backend/internal/database"
	"payledger-backend/internal/db"
	"payledger-backend/internal/handlers"
	"payledger-backend/internal/health"
	h "payledger-backend/internal/http"
	"payledger-backend/internal/logger"
	"payledger-backend/internal/middleware"
	"payledger-backend/internal/repositories"
	"payledger-backend/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.Logging.Level, cfg.Logging.Pretty)

	step, err := decimal.NewFromString(cfg.Allocation.CurrencyStep)
	if err != nil {
		log.Fatal().Err(err).Str("step", cfg.Allocation.CurrencyStep).Msg("invalid currency step")
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, "migrations", logger.WithComponent("migrator"))
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	if err := cache.Init(cfg); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	documentRepo := repositories.NewDocumentRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	advanceRepo := repositories.NewAdvanceRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	documentService := services.NewDocumentService(documentRepo, step)
	allocationService := services.NewAllocationService(documentRepo, paymentRepo, step, cfg.Allocation.DefaultStrategy)
	paymentService := services.NewPaymentService(documentRepo, paymentRepo, step)
	advanceService := services.NewAdvanceService(documentRepo, advanceRepo, step)
	returnService := services.NewReturnService(documentRepo, paymentRepo, advanceRepo, step)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	documentHandler := handlers.NewDocumentHandler(documentService, allocationService)
	allocationHandler := handlers.NewAllocationHandler(allocationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	advanceHandler := handlers.NewAdvanceHandler(advanceService)
	returnHandler := handlers.NewReturnHandler(returnService)
	healthHandler := handlers.NewHealthHandler(health.NewChecker(pool, cache.GetClient()))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		documentHandler,
		allocationHandler,
		paymentHandler,
		advanceHandler,
		returnHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(
		middleware.RequestLogging(logger.WithComponent("http"))(
			corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
