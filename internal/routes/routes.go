// Package routes defines the API routing configuration.
// It builds the service graph and mounts every handler with its middleware.
package routes

import (
	"context"

	"banklet/internal/config"
	"banklet/internal/handlers"
	"banklet/internal/middleware"
	"banklet/internal/models"
	"banklet/internal/repositories"
	"banklet/internal/repositories/cache"
	"banklet/internal/services/account"
	"banklet/internal/services/auth"
	"banklet/internal/services/rates"
	"banklet/internal/services/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Dependencies are the process-wide resources the routes are built from.
type Dependencies struct {
	DB       *gorm.DB
	Cache    *cache.CacheService // nil when Redis is disabled
	Config   *config.Config
	Rates    rates.Source
	Registry *prometheus.Registry
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	cfg := deps.Config

	accountRepo := repositories.NewAccountRepository(deps.DB)
	txRepo := repositories.NewTransactionRepository(deps.DB)
	intentRepo := repositories.NewTransferIntentRepository(deps.DB)

	authService := auth.NewService(accountRepo, cfg.JWT)
	accountService := account.NewService(accountRepo, txRepo)
	transferService := transfer.NewService(
		accountRepo,
		txRepo,
		intentRepo,
		deps.Rates,
		transfer.Config{
			DebitPolicy:        transfer.ParseDebitPolicy(cfg.TransferDebitPolicy),
			MaxConflictRetries: cfg.TransferMaxConflictRetries,
			RateBase:           cfg.Rates.Base,
		},
		transfer.NewPrometheusMetrics(deps.Registry),
	)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWT, cfg.IsProduction())
	accountHandler := handlers.NewAccountHandler(accountService)
	transferHandler := handlers.NewTransferHandler(transferService)

	var cachePinger handlers.Pinger
	if deps.Cache != nil {
		cachePinger = handlers.PingFunc(deps.Cache.HealthCheck)
	}
	healthHandler := handlers.NewHealthHandler(handlers.PingFunc(func(ctx context.Context) error {
		sqlDB, err := deps.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}), cachePinger)

	httpMetrics := middleware.NewHTTPMetrics(deps.Registry)
	app.Use(httpMetrics.Handler)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Banklet API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT, accountRepo)

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", authHandler.Signup)
	authRoutes.Post("/login", authHandler.LoginUser)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", authMiddleware.Handler, authHandler.LogoutUser)

	protected := api.Group("", authMiddleware.Handler)
	setupAccountRoutes(protected, accountHandler)
	setupTransferRoutes(protected, transferHandler)
	setupAdminRoutes(protected, accountHandler)
}

func setupAccountRoutes(router fiber.Router, h *handlers.AccountHandler) {
	read := middleware.HasPermission(models.PermissionAccountRead)

	router.Get("/me", read, h.Me)
	router.Post("/me/password", middleware.HasPermission(models.PermissionChangePassword), h.ChangePassword)

	accounts := router.Group("/accounts")
	accounts.Get("/", read, h.ListAccounts)
	accounts.Get("/search", read, h.SearchAccounts)
	accounts.Get("/:id", read, h.GetAccount)
	accounts.Get("/:id/transactions", middleware.HasPermission(models.PermissionHistoryRead), h.GetTransactionHistory)
}

func setupTransferRoutes(router fiber.Router, h *handlers.TransferHandler) {
	transfers := router.Group("/transfers")
	transfers.Post("/", middleware.HasPermission(models.PermissionTransferWrite), h.CreateTransfer)
	transfers.Get("/:id", middleware.HasPermission(models.PermissionHistoryRead), h.GetTransfer)
}

func setupAdminRoutes(router fiber.Router, h *handlers.AccountHandler) {
	admin := router.Group("/admin", middleware.AdminOnly)
	admin.Get("/accounts", h.ListAccounts)
	admin.Get("/accounts/:id/transactions", h.GetTransactionHistory)
}
