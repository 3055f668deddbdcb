// Package main provides the main entry point for the Jorogumo campaign link tracker
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/Jorogumo/app/handlers"
	"github.com/amirphl/Jorogumo/app/middleware"
	"github.com/amirphl/Jorogumo/app/router"
	"github.com/amirphl/Jorogumo/app/scheduler"
	"github.com/amirphl/Jorogumo/app/services"
	businessflow "github.com/amirphl/Jorogumo/business_flow"
	"github.com/amirphl/Jorogumo/config"
	"github.com/amirphl/Jorogumo/models"
	"github.com/amirphl/Jorogumo/repository"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	stopFuncs []func()
}

func main() {
	log.Println("Starting Jorogumo application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to a rotated file when configured
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output != "file" {
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotated))
	log.Printf("Logging to %s with rotation (max %dMB, %d backups)", cfg.FilePath, cfg.MaxSize, cfg.MaxBackups)
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the link cache. When caching is disabled the
// noop cache keeps the tracking flow unconditional.
func initializeCache(cfg *config.CacheConfig) (services.LinkCache, func(), error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return services.NewNoopLinkCache(), func() {}, nil
	}

	cache, err := services.NewRedisLinkCache(cfg)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		_ = cache.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis link cache established (db=%d)", cfg.RedisDB)
	return cache, func() { _ = cache.Close() }, nil
}

// startMetricsServer serves prometheus metrics on a dedicated port
func startMetricsServer(cfg config.MetricsConfig) func() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		log.Printf("Metrics server starting on :%d%s", cfg.Port, cfg.Path)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Keep the schema current
	if err := db.AutoMigrate(
		&models.Campaign{},
		&models.Template{},
		&models.Link{},
		&models.Click{},
		&models.OperatorSession{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	linkCache, closeCache, err := initializeCache(&cfg.Cache)
	if err != nil {
		return nil, err
	}
	stopFuncs = append(stopFuncs, closeCache)

	if cfg.Cache.Enabled {
		cacheMonitor := scheduler.NewCacheMonitor(linkCache, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, cacheMonitor.Start(context.Background()))
	}

	// Initialize repositories
	campaignRepo := repository.NewCampaignRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	clickRepo := repository.NewClickRepository(db)
	sessionRepo := repository.NewOperatorSessionRepository(db)

	// Initialize services
	maskingService := services.NewMaskingService(&cfg.Tracking)
	geoService := services.NewGeoService(&cfg.Geo)
	trelloService := services.NewTrelloService(&cfg.Trello)
	exportService := services.NewClickExportService()

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(sessionRepo, &cfg.Admin, &cfg.Security, db)
	campaignFlow := businessflow.NewCampaignFlow(campaignRepo, templateRepo, linkRepo, maskingService, linkCache, db)
	trackingFlow := businessflow.NewTrackingFlow(linkRepo, campaignRepo, clickRepo, maskingService, geoService, linkCache, db)
	clickFlow := businessflow.NewClickFlow(clickRepo, exportService, db)
	boardFlow := businessflow.NewBoardFlow(trelloService, &cfg.Trello)

	sessionJanitor := scheduler.NewSessionJanitor(authFlow, cfg.Security.SessionCleanup)
	stopFuncs = append(stopFuncs, sessionJanitor.Start(context.Background()))

	if cfg.Metrics.Enabled {
		stopFuncs = append(stopFuncs, startMetricsServer(cfg.Metrics))
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authFlow, &cfg.Security)
	campaignHandler := handlers.NewCampaignHandler(campaignFlow)
	clickHandler := handlers.NewClickHandler(clickFlow)
	trelloHandler := handlers.NewTrelloHandler(boardFlow)
	trackingHandler := handlers.NewTrackingHandler(trackingFlow, cfg.Tracking.PathPrefix)

	// Session guard for protected routes
	sessionGuard := middleware.NewSessionMiddleware(authFlow)

	appRouter := router.NewFiberRouter(cfg, authHandler, campaignHandler, clickHandler, trelloHandler, trackingHandler, sessionGuard)

	return &Application{
		router:    appRouter,
		config:    cfg,
		stopFuncs: stopFuncs,
	}, nil
}
