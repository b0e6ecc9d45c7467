package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string
	DataDir  string

	// BattleTTL is how long an idle battle is kept in Redis
	BattleTTL time.Duration

	DefaultLanguage string

	// AccuracyChecks rolls against move accuracy; off means every move hits
	AccuracyChecks bool

	// RNGSeed fixes the battle RNG for reproducible runs; 0 seeds randomly
	RNGSeed uint64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
	}

	var err error
	if cfg.BattleTTL, err = time.ParseDuration(getEnv("BATTLE_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid BATTLE_TTL: %w", err)
	}
	if cfg.BattleTTL <= 0 {
		return nil, fmt.Errorf("invalid BATTLE_TTL: must be positive")
	}
	if cfg.AccuracyChecks, err = strconv.ParseBool(getEnv("ACCURACY_CHECKS", "false")); err != nil {
		return nil, fmt.Errorf("invalid ACCURACY_CHECKS: %w", err)
	}
	if cfg.RNGSeed, err = strconv.ParseUint(getEnv("RNG_SEED", "0"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid RNG_SEED: %w", err)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
