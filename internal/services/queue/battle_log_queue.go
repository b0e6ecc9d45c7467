package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/pokequest/pkg/state"
)

// logTTL bounds how long an undrained battle log lingers in Redis.
const logTTL = 24 * time.Hour

// BattleLogQueue holds each battle's not-yet-read log lines so a client can
// poll the feed instead of diffing the whole battle log.
type BattleLogQueue struct {
	client *Client
	logger *slog.Logger
}

var _ state.BattleLogQueue = (*BattleLogQueue)(nil)

// NewBattleLogQueue creates a new battle log queue service
func NewBattleLogQueue(client *Client, logger *slog.Logger) *BattleLogQueue {
	return &BattleLogQueue{
		client: client,
		logger: logger,
	}
}

// queueKey returns the Redis key for a battle's log queue
func (q *BattleLogQueue) queueKey(battleID string) string {
	return fmt.Sprintf("battle-log:%s", battleID)
}

// Enqueue appends lines to the end of the battle's queue and refreshes its expiry
func (q *BattleLogQueue) Enqueue(ctx context.Context, battleID string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	key := q.queueKey(battleID)

	values := make([]any, len(lines))
	for i, l := range lines {
		values[i] = l
	}

	pipe := q.client.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.Expire(ctx, key, logTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		q.logger.Error("Failed to enqueue battle log",
			"error", err,
			"battle_id", battleID,
			"key", key)
		return fmt.Errorf("failed to enqueue battle log: %w", err)
	}

	q.logger.Debug("Enqueued battle log",
		"battle_id", battleID,
		"lines", len(lines),
		"preview", truncate(lines[0], 50))
	return nil
}

// Drain removes and returns every queued line for a battle
func (q *BattleLogQueue) Drain(ctx context.Context, battleID string) ([]string, error) {
	key := q.queueKey(battleID)

	pipe := q.client.rdb.TxPipeline()
	lrange := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		q.logger.Error("Failed to drain battle log",
			"error", err,
			"battle_id", battleID,
			"key", key)
		return nil, fmt.Errorf("failed to drain battle log: %w", err)
	}

	lines := lrange.Val()
	if len(lines) > 0 {
		q.logger.Debug("Drained battle log",
			"battle_id", battleID,
			"count", len(lines))
	}
	return lines, nil
}

// Peek returns up to limit queued lines without removing them; limit <= 0 returns all
func (q *BattleLogQueue) Peek(ctx context.Context, battleID string, limit int) ([]string, error) {
	key := q.queueKey(battleID)

	end := int64(limit - 1)
	if limit <= 0 {
		end = -1 // Get all
	}

	lines, err := q.client.rdb.LRange(ctx, key, 0, end).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		q.logger.Error("Failed to peek battle log",
			"error", err,
			"battle_id", battleID,
			"key", key)
		return nil, fmt.Errorf("failed to peek battle log: %w", err)
	}
	return lines, nil
}

// Clear removes all queued lines for a battle
func (q *BattleLogQueue) Clear(ctx context.Context, battleID string) error {
	key := q.queueKey(battleID)

	if err := q.client.rdb.Del(ctx, key).Err(); err != nil {
		q.logger.Error("Failed to clear battle log",
			"error", err,
			"battle_id", battleID,
			"key", key)
		return fmt.Errorf("failed to clear battle log: %w", err)
	}

	q.logger.Debug("Cleared battle log", "battle_id", battleID)
	return nil
}

// Depth returns the number of lines queued for a battle
func (q *BattleLogQueue) Depth(ctx context.Context, battleID string) (int, error) {
	key := q.queueKey(battleID)

	count, err := q.client.rdb.LLen(ctx, key).Result()
	if err != nil {
		q.logger.Error("Failed to get battle log depth",
			"error", err,
			"battle_id", battleID,
			"key", key)
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

// truncate truncates a string to maxLen bytes
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
