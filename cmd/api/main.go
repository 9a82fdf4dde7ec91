package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vibechecc/points-backend/api/routes"
	"github.com/vibechecc/points-backend/internal/config"
	"github.com/vibechecc/points-backend/internal/handlers"
	"github.com/vibechecc/points-backend/internal/jobs"
	"github.com/vibechecc/points-backend/internal/repositories"
	mongorepo "github.com/vibechecc/points-backend/internal/repositories/mongodb"
	"github.com/vibechecc/points-backend/internal/services"
	"github.com/vibechecc/points-backend/pkg/mongodb"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.LogLevel)

	// Connect to MongoDB
	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("Error disconnecting from MongoDB")
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Initialize repositories
	var accountRepo repositories.PointsAccountRepository = mongorepo.NewPointsAccountRepository(db)
	var ledgerRepo repositories.LedgerRepository = mongorepo.NewLedgerRepository(db)
	historyRepoImpl := mongorepo.NewPointsHistoryRepository(db)
	var historyRepo repositories.PointsHistoryRepository = historyRepoImpl
	var contentRepo repositories.ContentRepository = mongorepo.NewContentRepository(db)
	var followRepo repositories.FollowRepository = mongorepo.NewFollowRepository(db)
	var notificationRepo repositories.NotificationRepository = mongorepo.NewNotificationRepository(db)

	// The (userId, date) uniqueness guard is what makes the daily archive
	// idempotent, so index creation is a startup requirement.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := historyRepoImpl.EnsureIndexes(indexCtx); err != nil {
		cancelIndex()
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancelIndex()

	// Initialize services
	locks := services.NewAccountLocks()
	notificationService := services.NewNotificationService(notificationRepo, followRepo, cfg)
	resetService := services.NewResetService(accountRepo, ledgerRepo, historyRepo, cfg, locks)
	pointsService := services.NewPointsService(accountRepo, ledgerRepo, historyRepo, resetService, notificationService, cfg, locks)
	transferService := services.NewTransferService(accountRepo, ledgerRepo, contentRepo, pointsService, resetService, notificationService, cfg, locks)

	// Initialize handlers
	pointsHandler := handlers.NewPointsHandler(pointsService, notificationService)
	transferHandler := handlers.NewTransferHandler(transferService)
	adminHandler := handlers.NewAdminHandler(resetService)

	// Start the daily reset scheduler
	scheduler := jobs.NewScheduler(resetService)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	router := routes.SetupRouter(cfg, pointsHandler, transferHandler, adminHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.WithField("port", cfg.Server.Port).Info("Server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func setupLogging(level string) {
	log.SetFormatter(&log.JSONFormatter{})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
