package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phambaophuc/growth-journal/internal/config"
	"github.com/phambaophuc/growth-journal/internal/http/handlers"
	"github.com/phambaophuc/growth-journal/internal/http/routes"
	"github.com/phambaophuc/growth-journal/internal/services/journal"
	"github.com/phambaophuc/growth-journal/internal/services/processor"
	"github.com/phambaophuc/growth-journal/internal/services/queue"
	"github.com/phambaophuc/growth-journal/internal/services/storage"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	profiles, err := processor.LoadProfiles(cfg.Encoder.ProfilesFile)
	if err != nil {
		logger.Fatal("Failed to load encoding profiles", zap.Error(err))
	}
	logger.Info("Encoding profiles loaded", zap.Strings("profiles", profiles.Names()))

	// Initialize services
	imageProcessor := processor.NewImageProcessor(processor.WithWorkers(cfg.Encoder.Workers))

	storageService, err := storage.NewStorageService(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}
	defer storageService.Close()

	if !storageService.BlobStoreEnabled() {
		logger.Warn("Supabase not configured, images are stored inline")
	}

	journalService := journal.New(storageService, imageProcessor)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	queueService, err := queue.NewQueueService(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.QueueName,
		imageProcessor,
		profiles,
		storageService,
		cfg.Storage.MaxFileSize,
		logger,
	)
	if err != nil {
		// Continue without queue service for synchronous endpoints
		logger.Warn("Failed to initialize queue service", zap.Error(err))
		queueService = nil
	} else {
		defer queueService.Close()
		for i := 1; i <= cfg.Encoder.QueueWorkers; i++ {
			if err := queueService.StartWorker(workerCtx, i); err != nil {
				logger.Error("Failed to start worker", zap.Int("worker_id", i), zap.Error(err))
			}
		}
	}

	// Initialize handlers
	imageHandler := handlers.NewImageHandler(
		imageProcessor,
		profiles,
		storageService,
		journalService,
		queueService,
		logger,
		cfg,
	)

	router := routes.NewRouter(imageHandler, logger, cfg.Server.CORSOrigins)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
