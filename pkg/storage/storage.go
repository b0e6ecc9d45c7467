package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/pkg/actor"
	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/state"
)

// ErrNotFound is wrapped by lookups of static data (species, items,
// trainers) that do not exist. Battle lookups return nil, nil instead.
var ErrNotFound = errors.New("not found")

// Storage defines a unified interface for all storage operations
// This interface combines battle persistence (Redis) with resource loading (filesystem)
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Battle operations (Redis-backed)
	SaveBattle(ctx context.Context, id uuid.UUID, bs *state.BattleState) error
	LoadBattle(ctx context.Context, id uuid.UUID) (*state.BattleState, error)
	DeleteBattle(ctx context.Context, id uuid.UUID) error

	// Species operations (filesystem-backed)
	ListSpecies(ctx context.Context) ([]string, error)
	GetSpecies(ctx context.Context, speciesID string) (*battle.Species, error)

	// Item operations (filesystem-backed). Quantity in the returned item is 0.
	ListItems(ctx context.Context) ([]string, error)
	GetItem(ctx context.Context, itemID string) (*battle.InventoryItem, error)

	// Trainer operations (filesystem-backed, returns TrainerSpec not Trainer)
	// Use actor.NewTrainerFromSpec to build the d20.Actor from the returned spec
	GetTrainerSpec(ctx context.Context, trainerID string) (*actor.TrainerSpec, error)
	ListTrainers(ctx context.Context) ([]string, error)
}
