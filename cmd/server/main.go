package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/api"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/config"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/db"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/jobs"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/logger"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository/sqlite"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/services"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/session"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Study Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("question_bank_path=%s", cfg.QuestionBankPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("new_cards_per_day=%d", cfg.NewCardsPerDay)
	log.Debug("review_delay_min=%d", cfg.ReviewDelayMin)
	log.Debug("persist_worker_count=%d", cfg.PersistWorkers)
	log.Debug("persist_queue_size=%d", cfg.PersistQueueSize)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	cardRepo := sqlite.NewCardRepository(database.DB)
	questionRepo := sqlite.NewQuestionRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	profileRepo := sqlite.NewProfileRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	persistPool := worker.NewPool(cfg.PersistWorkers, cfg.PersistQueueSize)
	jobQueue := jobs.NewWorkerQueue(persistPool, cardRepo, sessionRepo, cfg.PersistRetries)

	seed := cfg.SelectionSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sessionService := services.NewSessionService(
		cardRepo, questionRepo, sessionRepo, profileRepo, jobQueue,
		services.WithSelectionRand(rand.New(rand.NewSource(seed))),
		services.WithManager(session.NewManager(
			session.WithReviewDelay(time.Duration(cfg.ReviewDelayMin)*time.Minute),
		)),
	)

	srv := &api.Server{
		ProfileService:   services.NewProfileService(profileRepo),
		QuestionService:  services.NewQuestionService(questionRepo),
		SessionService:   sessionService,
		ImportService:    services.NewImportService(questionRepo),
		StatsService:     services.NewStatsService(statsRepo),
		PersistPool:      persistPool,
		QuestionBankPath: cfg.QuestionBankPath,
		NewCardsPerDay:   cfg.NewCardsPerDay,
	}

	ctx, cancel := context.WithCancel(context.Background())
	persistPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Let queued card saves drain before the pool context is cancelled.
	log.Debug("stopping persistence pool")
	persistPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("Study Server Stopped")
	log.Info("===========================================")
}
