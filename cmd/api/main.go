// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/shopvn/storefront/internal/config"
	"github.com/shopvn/storefront/internal/domain/product"
	"github.com/shopvn/storefront/internal/domain/storefront"
	"github.com/shopvn/storefront/internal/infrastructure/database/postgres"
	"github.com/shopvn/storefront/internal/infrastructure/database/redis"
	"github.com/shopvn/storefront/internal/interfaces/http"
	"github.com/shopvn/storefront/internal/interfaces/http/handlers"
	"github.com/shopvn/storefront/internal/interfaces/http/routes"
	"github.com/shopvn/storefront/internal/pkg/auth"
	"github.com/shopvn/storefront/internal/pkg/boundary"
	"github.com/shopvn/storefront/internal/pkg/logger"
	"github.com/shopvn/storefront/internal/pkg/metrics"
	"github.com/shopvn/storefront/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB(), log)

	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		log.Warnf("Index creation failed: %v", err)
	}

	// Seed initial data in development
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			log.Warnf("Data seeding failed: %v", err)
		}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	catalogMetrics := metrics.NewCatalogMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	// Services
	categories := product.NewCategoryService(db.GetDB())
	products := product.NewService(db.GetDB(), cfg, categories, log, catalogMetrics)
	composer := storefront.NewComposer(products, categories, boundary.New(log, httpMetrics), cfg.Catalog.PlaceholderImage)

	jwtManager := auth.NewJWTManager(cfg)
	authenticator := auth.NewAdminAuthenticator(cfg, auth.NewPasswordManager(cfg), jwtManager)
	cartStorage := redis.NewCartStorage(redisClient, cfg.Cart.TTL)

	server := http.NewServer(cfg, log, http.Dependencies{
		Handlers: routes.Handlers{
			Products:   handlers.NewProductHandler(composer),
			Categories: handlers.NewCategoryHandler(categories, composer, log),
			Cart:       handlers.NewCartHandler(cartStorage, products, cfg, log, cartMetrics),
			Admin:      handlers.NewAdminHandler(authenticator, products, pdf.NewService(cfg), cfg.Catalog.PlaceholderImage, log),
			JWT:        jwtManager,
		},
		Checks: map[string]http.HealthChecker{
			"database": db,
			"redis":    redisClient,
		},
		RateCounter: redisClient.Redis,
		Registry:    registry,
		HTTPMetrics: httpMetrics,
	})

	log.Info("✅ All systems operational!")

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Info("✅ Server shutdown completed")
}
