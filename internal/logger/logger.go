package logger

import (
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/internal/config"
	"github.com/jwebster45206/pokequest/pkg/state"
)

// Setup configures the global slog logger based on environment
func Setup(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithRequestID adds request ID to logger context
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithBattleID tags every line with the battle it concerns.
func WithBattleID(logger *slog.Logger, id uuid.UUID) *slog.Logger {
	return logger.With("battle_id", id.String())
}

// WithBattle adds the battle ID plus the turn about to be played, the
// battle kind and its message language.
func WithBattle(logger *slog.Logger, bs *state.BattleState) *slog.Logger {
	return WithBattleID(logger, bs.ID).With(
		"turn", bs.Turn,
		"wild", bs.IsWild,
		"language", bs.Language,
	)
}
