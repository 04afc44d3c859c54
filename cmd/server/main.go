// Package main starts the back office analytics API.
package main

import (
	"context"
	"os"
	"time"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/config"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/handlers"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/middleware"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/repositories"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/repositories/cache"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/routes"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/services/analytics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	setupLogging(cfg)

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	go logPoolStats(db)

	// Redis is only dialled when the report cache is switched on.
	var reportCache *cache.CacheService
	if cfg.Report.CacheTTL > 0 {
		reportCache = cache.NewCacheService(cache.NewRedisClient(cfg.Redis), cfg.Report.CacheTTL)
		if err := reportCache.HealthCheck(context.Background()); err != nil {
			log.WithError(err).Warn("Redis unreachable, report cache will miss")
		} else {
			log.WithField("ttl", cfg.Report.CacheTTL).Info("Report cache enabled")
		}
	}

	defer func() {
		if err := repositories.Close(db); err != nil {
			log.WithError(err).Warn("Failed to close database connection")
		}
		if reportCache != nil {
			if err := reportCache.Close(); err != nil {
				log.WithError(err).Warn("Failed to close Redis connection")
			}
		}
	}()

	analyticsService := analytics.NewService(
		repositories.NewAnalyticsRepository(db),
		analytics.Config{
			CurrencySymbol: cfg.Report.CurrencySymbol,
			TopMerchants:   cfg.Report.TopMerchants,
		},
		nil,
	)

	checks := map[string]handlers.Check{
		"database": func(ctx context.Context) error { return repositories.Ping(ctx, db) },
	}
	if reportCache != nil {
		checks["redis"] = reportCache.HealthCheck
	}

	app := fiber.New(fiber.Config{
		AppName:      "PAPI back office",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,HEAD,OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Analytics: handlers.NewAnalyticsHandler(analyticsService, reportCache),
		Health:    handlers.NewHealthHandler(checks),
		Auth:      middleware.NewAuthMiddleware(cfg.JWTSecret),
	})

	log.WithFields(log.Fields{"port": cfg.Port, "env": cfg.Env}).Info("Starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Error("Server stopped")
	}
}

func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func logPoolStats(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		stats := sqlDB.Stats()
		log.WithFields(log.Fields{
			"open":          stats.OpenConnections,
			"idle":          stats.Idle,
			"in_use":        stats.InUse,
			"wait_count":    stats.WaitCount,
			"wait_duration": stats.WaitDuration,
		}).Debug("DB pool stats")
	}
}
