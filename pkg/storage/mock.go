package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/pkg/actor"
	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/state"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	battles   map[uuid.UUID]*state.BattleState
	species   map[string]*battle.Species
	items     map[string]*battle.InventoryItem
	trainers  map[string]*actor.TrainerSpec
	pingError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		battles:  make(map[uuid.UUID]*state.BattleState),
		species:  make(map[string]*battle.Species),
		items:    make(map[string]*battle.InventoryItem),
		trainers: make(map[string]*actor.TrainerSpec),
	}
}

// SetPingSuccess configures the mock to succeed on ping
func (m *MockStorage) SetPingSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = nil
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes SaveBattle fail with err until reset with nil
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveBattle mocks saving a battle
func (m *MockStorage) SaveBattle(ctx context.Context, id uuid.UUID, bs *state.BattleState) error {
	if bs == nil {
		return errors.New("battle state cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.battles[id] = bs
	return nil
}

// LoadBattle mocks loading a battle
func (m *MockStorage) LoadBattle(ctx context.Context, id uuid.UUID) (*state.BattleState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bs, exists := m.battles[id]
	if !exists {
		return nil, nil // Return nil for not found
	}
	return bs, nil
}

// DeleteBattle mocks deleting a battle
func (m *MockStorage) DeleteBattle(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.battles, id)
	return nil
}

// ListSpecies mocks listing species IDs
func (m *MockStorage) ListSpecies(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.species), nil
}

// GetSpecies mocks getting a species by ID
func (m *MockStorage) GetSpecies(ctx context.Context, speciesID string) (*battle.Species, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, exists := m.species[speciesID]
	if !exists {
		return nil, fmt.Errorf("species %q: %w", speciesID, ErrNotFound)
	}
	return s, nil
}

// AddSpecies adds a species to the mock storage (for testing)
func (m *MockStorage) AddSpecies(s *battle.Species) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.species[s.ID] = s
}

// ListItems mocks listing item IDs
func (m *MockStorage) ListItems(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.items), nil
}

// GetItem mocks getting an item by ID
func (m *MockStorage) GetItem(ctx context.Context, itemID string) (*battle.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, exists := m.items[itemID]
	if !exists {
		return nil, fmt.Errorf("item %q: %w", itemID, ErrNotFound)
	}
	cp := *item
	return &cp, nil
}

// AddItem adds an item to the mock storage (for testing)
func (m *MockStorage) AddItem(item *battle.InventoryItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

// GetTrainerSpec mocks getting a trainer spec by ID
func (m *MockStorage) GetTrainerSpec(ctx context.Context, trainerID string) (*actor.TrainerSpec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	spec, exists := m.trainers[trainerID]
	if !exists {
		return nil, fmt.Errorf("trainer %q: %w", trainerID, ErrNotFound)
	}
	return spec, nil
}

// ListTrainers mocks listing trainers
func (m *MockStorage) ListTrainers(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.trainers), nil
}

// AddTrainerSpec adds a trainer spec to the mock storage (for testing)
func (m *MockStorage) AddTrainerSpec(trainerID string, spec *actor.TrainerSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trainers[trainerID] = spec
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
