package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/pokequest/pkg/state"
	"github.com/jwebster45206/pokequest/pkg/storage"
)

// DefaultBattleTTL is how long an untouched battle stays in Redis.
const DefaultBattleTTL = 24 * time.Hour

// RedisStorage implements the Storage interface using Redis for battles
// and the filesystem for static resources (species, items, trainers)
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
	ttl     time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. redisURL may be a
// redis:// URL or a bare host:port.
func NewRedisStorage(redisURL string, dataDir string, logger *slog.Logger) *RedisStorage {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{Addr: redisURL}
	}

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  redis.NewClient(opts),
		logger:  logger,
		dataDir: dataDir,
		ttl:     DefaultBattleTTL,
	}
}

// WithTTL sets the expiry applied on every SaveBattle
// Returns the RedisStorage for method chaining
func (r *RedisStorage) WithTTL(ttl time.Duration) *RedisStorage {
	if ttl > 0 {
		r.ttl = ttl
	}
	return r
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Battle operations (Redis-backed)

func battleKey(id uuid.UUID) string {
	return "battle:" + id.String()
}

func (r *RedisStorage) SaveBattle(ctx context.Context, id uuid.UUID, bs *state.BattleState) error {
	if bs == nil {
		return errors.New("battle state cannot be nil")
	}
	bs.UpdatedAt = time.Now()

	data, err := json.Marshal(bs)
	if err != nil {
		r.logger.Error("Failed to marshal battle", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal battle: %w", err)
	}

	if err := r.client.Set(ctx, battleKey(id), string(data), r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save battle", "uuid", id, "error", err)
		return fmt.Errorf("failed to save battle: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadBattle(ctx context.Context, id uuid.UUID) (*state.BattleState, error) {
	data, err := r.client.Get(ctx, battleKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Battle not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load battle", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load battle: %w", err)
	}
	if strings.TrimSpace(data) == "" {
		r.logger.Warn("Battle not found", "uuid", id)
		return nil, nil
	}

	var bs state.BattleState
	if err := json.Unmarshal([]byte(data), &bs); err != nil {
		r.logger.Error("Failed to unmarshal battle", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal battle: %w", err)
	}
	return &bs, nil
}

func (r *RedisStorage) DeleteBattle(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, battleKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete battle", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete battle: %w", err)
	}
	return nil
}
