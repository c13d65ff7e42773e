package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ksen/caseflash/internal/api"
	"github.com/ksen/caseflash/internal/config"
	"github.com/ksen/caseflash/internal/db"
	"github.com/ksen/caseflash/internal/history"
	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/repository/sqlite"
	"github.com/ksen/caseflash/internal/services"
	"github.com/ksen/caseflash/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("caseflash server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("heatmap_months=%d", cfg.HeatmapMonths)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	sessionRepo := sqlite.NewSessionRepository(database)
	questionRepo := sqlite.NewQuestionRepository(database)
	bookmarkRepo := sqlite.NewBookmarkRepository(database)
	masteryRepo := sqlite.NewMasteryRepository(database)
	cardRepo := sqlite.NewCardRepository(database)
	stateRepo := sqlite.NewStateRepository(database)

	// Warm-load the history so analytics always reads a consistent
	// in-memory snapshot.
	existing, err := sessionRepo.All(context.Background())
	if err != nil {
		log.Error("failed to load session history: %v", err)
		os.Exit(1)
	}
	store := history.NewStore(existing)
	log.Info("loaded %d sessions", store.Len())

	statsPool := worker.NewPool(cfg.StatsWorkerCount, cfg.StatsQueueSize)

	sessionService := services.NewSessionService(sessionRepo, stateRepo, store, statsPool)
	reviewService := services.NewReviewService(questionRepo, bookmarkRepo, masteryRepo, cardRepo, nil)
	analyticsService := services.NewAnalyticsService(store, questionRepo, cfg.HeatmapMonths)
	libraryService := services.NewLibraryService(questionRepo)
	stateService := services.NewStateService(sessionRepo, questionRepo, bookmarkRepo, masteryRepo, cardRepo, stateRepo, store)

	srv := &api.Server{
		SessionService:   sessionService,
		ReviewService:    reviewService,
		AnalyticsService: analyticsService,
		LibraryService:   libraryService,
		StateService:     stateService,
		DueLimit:         cfg.DueLimit,
	}

	ctx, cancel := context.WithCancel(context.Background())
	statsPool.Start(ctx)

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

	log.Info("received signal %v, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}
	statsPool.Stop()

	log.Info("caseflash server stopped")
}
