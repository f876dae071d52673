package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/learnify/learnify/internal/api"
	"github.com/learnify/learnify/internal/cloud"
	"github.com/learnify/learnify/internal/config"
	"github.com/learnify/learnify/internal/db"
	"github.com/learnify/learnify/internal/generator"
	"github.com/learnify/learnify/internal/logger"
	"github.com/learnify/learnify/internal/repository/sqlite"
	"github.com/learnify/learnify/internal/services"
	"github.com/learnify/learnify/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Learnify Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("cloud_base_url=%s", cfg.CloudBaseURL)
	log.Debug("generator_base_url=%s", cfg.GeneratorBaseURL)
	log.Debug("generator_model=%s", cfg.GeneratorModel)
	log.Debug("store_queue_size=%d", cfg.StoreQueueSize)
	log.Debug("submit_worker_count=%d", cfg.SubmitWorkerCount)
	log.Debug("submit_queue_size=%d", cfg.SubmitQueueSize)
	log.Debug("recent_quiz_limit=%d", cfg.RecentQuizLimit)
	log.Debug("time_per_question_ms=%d", cfg.TimePerQuestionMs)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// One worker keeps local store operations strictly ordered.
	storeQueue := worker.NewPool(1, cfg.StoreQueueSize)
	submitPool := worker.NewPool(cfg.SubmitWorkerCount, cfg.SubmitQueueSize)

	cloudStore := cloud.New(cfg.CloudBaseURL, cfg.CloudAPIKey)
	quizGenerator := generator.New(cfg.GeneratorBaseURL, cfg.GeneratorAPIKey, cfg.GeneratorModel)

	historyService := services.NewHistoryService(sqlite.NewHistoryRepository(database.DB), storeQueue)
	syncService := services.NewSyncService(historyService, cloudStore)

	srv := &api.Server{
		DB:                database,
		History:           historyService,
		Sync:              syncService,
		Generator:         quizGenerator,
		Cloud:             cloudStore,
		SubmitPool:        submitPool,
		RecentLimit:       cfg.RecentQuizLimit,
		TimePerQuestion:   time.Duration(cfg.TimePerQuestionMs) * time.Millisecond,
		DefaultQuestions:  cfg.DefaultQuestions,
		DefaultDifficulty: cfg.DefaultDifficulty,
		DefaultLanguage:   cfg.DefaultLanguage,
	}

	ctx, cancel := context.WithCancel(context.Background())
	storeQueue.Start(ctx)
	submitPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server first so no new work arrives.
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Drain pending writes and remote submissions.
	log.Debug("stopping submit pool")
	submitPool.Stop()
	log.Debug("stopping store queue")
	storeQueue.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("Learnify Server Stopped")
	log.Info("===========================================")
}
