package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/LZPPS/routelink/internal/app"
	"github.com/LZPPS/routelink/internal/config"
	"github.com/LZPPS/routelink/internal/handler"
	internalRedis "github.com/LZPPS/routelink/internal/redis"
	"github.com/LZPPS/routelink/internal/repository/postgres"
	"github.com/LZPPS/routelink/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, cleanup := wireServer(db, redisClient, nrApp, cfg)

	// Run the retention sweep until shutdown.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go cleanup.Run(sweepCtx)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopSweep()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server and
// the retention sweeper.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.CleanupService) {
	// Initialize Redis stores.
	cacheStore := internalRedis.NewCacheStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	txManager := postgres.NewTxManager(db)

	// Initialize services.
	var mailer service.Mailer = service.NewLogMailer()
	if cfg.Mail.Endpoint != "" {
		mailer = service.NewHTTPMailer(cfg.Mail.Endpoint, cfg.Mail.APIKey, cfg.Mail.From)
	}
	notificationService := service.NewNotificationService(mailer)
	userService := service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	tripService := service.NewTripService(txManager, tripRepo, cacheStore)
	searchService := service.NewSearchService(tripRepo)
	bookingService := service.NewBookingService(txManager, bookingRepo, tripRepo, userRepo, notificationService, cacheStore)
	ratingService := service.NewRatingService(txManager, ratingRepo, bookingRepo, tripRepo, userRepo)
	cleanupService := service.NewCleanupService(tripRepo, lockStore, cfg.Cleanup.Grace)

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userService)
	tripHandler := handler.NewTripHandler(tripService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	searchHandler := handler.NewSearchHandler(searchService)
	ratingHandler := handler.NewRatingHandler(ratingService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:    userHandler,
		TripHandler:    tripHandler,
		BookingHandler: bookingHandler,
		SearchHandler:  searchHandler,
		RatingHandler:  ratingHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		JWTSecret:      cfg.Auth.JWTSecret,
	})

	// Create HTTP server.
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return server, cleanupService
}
