package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/pokequest/internal/config"
	"github.com/jwebster45206/pokequest/internal/handlers"
	"github.com/jwebster45206/pokequest/internal/logger"
	"github.com/jwebster45206/pokequest/internal/middleware"
	"github.com/jwebster45206/pokequest/internal/services/events"
	"github.com/jwebster45206/pokequest/internal/services/queue"
	"github.com/jwebster45206/pokequest/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting PokeQuest battle API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir,
		"default_language", cfg.DefaultLanguage,
		"accuracy_checks", cfg.AccuracyChecks)

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log).WithTTL(cfg.BattleTTL)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to connect queue client", "error", err)
		os.Exit(1)
	}
	battleLog := queue.NewBattleLogQueue(queueClient, log)
	broadcaster := events.NewBroadcaster(queueClient.GetRedisClient(), log)

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, log))

	battleHandler := handlers.NewBattleHandler(log, store, handlers.BattleOptions{
		DefaultLanguage: cfg.DefaultLanguage,
		AccuracyChecks:  cfg.AccuracyChecks,
		RNGSeed:         cfg.RNGSeed,
	}).WithQueue(battleLog).WithEvents(broadcaster)
	mux.Handle("/v1/battles", battleHandler)
	mux.Handle("/v1/battles/", battleHandler)

	speciesHandler := handlers.NewSpeciesHandler(log, store)
	mux.Handle("/v1/species", speciesHandler)
	mux.Handle("/v1/species/", speciesHandler)

	mux.Handle("/v1/items", handlers.NewItemHandler(log, store))

	trainerHandler := handlers.NewTrainerHandler(log, store)
	mux.Handle("/v1/trainers", trainerHandler)
	mux.Handle("/v1/trainers/", trainerHandler)

	mux.Handle("/v1/events/battles/", handlers.NewEventsHandler(queueClient.GetRedisClient(), log))
	mux.Handle("/v1/ws/battles/", handlers.NewSocketHandler(battleHandler, queueClient.GetRedisClient(), log))

	handler := middleware.LoggerWith(log, mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the SSE and socket endpoints hold connections open
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := queueClient.Close(); err != nil {
		log.Error("Error closing queue connection", "error", err)
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
