// Package main is the entry point for the API server.
// It loads configuration, opens the database and Redis, wires the routes
// and serves until interrupted.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banklet/internal/config"
	"banklet/internal/models"
	"banklet/internal/repositories"
	"banklet/internal/repositories/cache"
	"banklet/internal/routes"
	"banklet/internal/services/rates"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := repositories.Open(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Printf("✅ Connected to %s database", cfg.DB.Driver)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
		}
	}()

	var cacheService *cache.CacheService
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheService = cache.NewCacheService(client, cfg.Rates.CacheTTL)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cacheService.HealthCheck(ctx); err != nil {
			log.Printf("⚠️ Redis unavailable, rate tables will not be cached: %v", err)
		} else {
			log.Println("✅ Connected to Redis")
		}
		cancel()
	}

	var rateSource rates.Source
	if cfg.Rates.APIKey != "" {
		rateSource = rates.NewHTTPSource(cfg.Rates.APIURL, cfg.Rates.APIKey, cfg.Rates.Timeout)
	} else {
		log.Println("RATES_API_KEY not set, using the built-in rate table")
		rateSource = rates.NewStaticSource(models.CurrencyUSD, rates.DefaultTable)
	}
	if cacheService != nil {
		rateSource = rates.NewCachedSource(rateSource, cacheService, cfg.Rates.CacheTTL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, cfg.DB.Name),
	)

	app := fiber.New(fiber.Config{
		AppName:      "banklet",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		ExposeHeaders:    "Idempotency-Key",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/auth/signup", "/api/auth/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	routes.SetupRoutes(app, routes.Dependencies{
		DB:       db,
		Cache:    cacheService,
		Config:   cfg,
		Rates:    rateSource,
		Registry: registry,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("⚠️ Server shutdown error: %v", err)
	}
	if cacheService != nil {
		if err := cacheService.Close(); err != nil {
			log.Printf("⚠️ Failed to close Redis connection: %v", err)
		}
	}
	if err := repositories.Close(db); err != nil {
		log.Printf("⚠️ Failed to close database connection: %v", err)
	}
}
