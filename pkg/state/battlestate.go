package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/pkg/battle"
)

// Outcome is where a battle stands.
type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeWon     Outcome = "won"
	OutcomeLost    Outcome = "lost"
	OutcomeCaught  Outcome = "caught"
	OutcomeFled    Outcome = "fled"
)

// MaxTeamSize caps how many Pokemon a trainer carries.
const MaxTeamSize = 6

// BattleState is a single battle session between the player's team and one
// enemy Pokemon.
type BattleState struct {
	ID          uuid.UUID              `json:"id"`                   // Unique ID per battle
	TrainerID   string                 `json:"trainer_id,omitempty"` // Player trainer record
	Team        []battle.Pokemon       `json:"team"`
	ActiveIndex int                    `json:"active_index"`
	Enemy       *battle.Pokemon        `json:"enemy"`
	IsWild      bool                   `json:"is_wild"`
	Inventory   []battle.InventoryItem `json:"inventory,omitempty"`
	Box         []battle.Pokemon       `json:"box,omitempty"` // Caught while the team was full
	Log         []string               `json:"log,omitempty"` // Full battle log, oldest first
	Turn        int                    `json:"turn"`
	Outcome     Outcome                `json:"outcome"`
	Language    string                 `json:"language,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewBattleState starts a battle. Team members are marked player-owned and
// the first one able to fight leads.
func NewBattleState(team []battle.Pokemon, enemy *battle.Pokemon, wild bool, inventory []battle.InventoryItem, lang string) *BattleState {
	now := time.Now()
	bs := &BattleState{
		ID:        uuid.New(),
		Team:      make([]battle.Pokemon, 0, len(team)),
		Enemy:     enemy.Clone(),
		IsWild:    wild,
		Inventory: append([]battle.InventoryItem(nil), inventory...),
		Log:       make([]string, 0),
		Outcome:   OutcomeOngoing,
		Language:  lang,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range team {
		p := team[i].Clone()
		p.IsPlayerOwned = true
		bs.Team = append(bs.Team, *p)
	}
	if bs.Enemy != nil {
		bs.Enemy.IsPlayerOwned = false
	}
	if next := bs.nextHealthy(-1); next >= 0 {
		bs.ActiveIndex = next
	}
	return bs
}

// Active returns the Pokemon currently fighting, or nil for an empty team.
func (bs *BattleState) Active() *battle.Pokemon {
	if bs.ActiveIndex < 0 || bs.ActiveIndex >= len(bs.Team) {
		return nil
	}
	return &bs.Team[bs.ActiveIndex]
}

// IsOver reports whether the battle has been decided.
func (bs *BattleState) IsOver() bool {
	return bs.Outcome != "" && bs.Outcome != OutcomeOngoing
}

// FullTeamHeal restores every team member's HP and PP and clears statuses
// and stages. It is the only way a fainted team member recovers, and only
// works once the battle is over.
func (bs *BattleState) FullTeamHeal() error {
	if !bs.IsOver() {
		return ErrBattleInProgress
	}
	for i := range bs.Team {
		bs.Team[i].RestoreAll()
	}
	bs.UpdatedAt = time.Now()
	return nil
}

// FindItem returns the index of the inventory stack with id, or -1.
func (bs *BattleState) FindItem(id string) int {
	for i, item := range bs.Inventory {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// consumeItem removes one of the item at index i, dropping empty stacks.
func (bs *BattleState) consumeItem(i int) {
	bs.Inventory[i].Quantity--
	if bs.Inventory[i].Quantity <= 0 {
		bs.Inventory = append(bs.Inventory[:i], bs.Inventory[i+1:]...)
	}
}

// nextHealthy returns the first team index after skip whose Pokemon can
// still fight, wrapping around. It returns -1 when none can.
func (bs *BattleState) nextHealthy(skip int) int {
	n := len(bs.Team)
	for off := 1; off <= n; off++ {
		i := (skip + off + n) % n
		if i == skip {
			continue
		}
		if !bs.Team[i].IsFainted {
			return i
		}
	}
	return -1
}

// HealthyCount returns how many team members can still fight.
func (bs *BattleState) HealthyCount() int {
	count := 0
	for _, p := range bs.Team {
		if !p.IsFainted {
			count++
		}
	}
	return count
}
