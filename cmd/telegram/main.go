package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/NicoNex/echotron/v3"
)

// BotConfig holds the Telegram front-end settings, all read from the environment.
type BotConfig struct {
	Token        string
	APIBaseURL   string
	TrainerID    string
	Language     string
	EnemyLevel   int
	ItemQuantity int
	Timeout      time.Duration
}

func main() {
	cfg := &BotConfig{
		Token:        os.Getenv("TELEGRAM_TOKEN"),
		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:8080"),
		TrainerID:    getEnv("TRAINER_ID", "red"),
		Language:     getEnv("BATTLE_LANGUAGE", "en"),
		EnemyLevel:   getEnvInt("ENEMY_LEVEL", 22),
		ItemQuantity: getEnvInt("ITEM_QUANTITY", 3),
		Timeout:      30 * time.Second,
	}
	if cfg.Token == "" {
		fmt.Fprintln(os.Stderr, "Missing TELEGRAM_TOKEN value")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	client := newBattleClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.Timeout})

	logger.Info("Starting PokeQuest Telegram bot",
		"api_base_url", cfg.APIBaseURL,
		"trainer_id", cfg.TrainerID,
		"language", cfg.Language)

	dsp := echotron.NewDispatcher(cfg.Token, newBotFn(cfg, client, logger))
	logger.Error("Dispatcher stopped", "error", dsp.Poll())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}
