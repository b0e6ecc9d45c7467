package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeBattleStarted EventType = "battle.started"
	EventTypeTurnResolved  EventType = "battle.turn_resolved"
	EventTypeBattleEnded   EventType = "battle.ended"
)

// Event represents a generic event structure
type Event struct {
	Type     EventType      `json:"type"`
	BattleID string         `json:"battle_id,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Channel is the pub/sub channel carrying a battle's events.
func Channel(battleID uuid.UUID) string {
	return fmt.Sprintf("battle-events:%s", battleID.String())
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishBattleStarted publishes a battle.started event
func (b *Broadcaster) PublishBattleStarted(ctx context.Context, battleID uuid.UUID, messages []string) error {
	return b.publish(ctx, battleID, Event{
		Type: EventTypeBattleStarted,
		Data: map[string]any{
			"messages": messages,
		},
	})
}

// PublishTurnResolved publishes a battle.turn_resolved event
func (b *Broadcaster) PublishTurnResolved(ctx context.Context, battleID uuid.UUID, turn int, messages []string) error {
	return b.publish(ctx, battleID, Event{
		Type: EventTypeTurnResolved,
		Data: map[string]any{
			"turn":     turn,
			"messages": messages,
		},
	})
}

// PublishBattleEnded publishes a battle.ended event
func (b *Broadcaster) PublishBattleEnded(ctx context.Context, battleID uuid.UUID, outcome string) error {
	return b.publish(ctx, battleID, Event{
		Type: EventTypeBattleEnded,
		Data: map[string]any{
			"outcome": outcome,
		},
	})
}

func (b *Broadcaster) publish(ctx context.Context, battleID uuid.UUID, event Event) error {
	event.BattleID = battleID.String()
	channel := Channel(battleID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)
	return nil
}
