package state

import "context"

// BattleLogQueue receives each turn's battle-log lines so other consumers
// (the log endpoint, a spectator) can pick them up without reloading the battle.
type BattleLogQueue interface {
	// Enqueue appends lines to the queue for a battle
	Enqueue(ctx context.Context, battleID string, lines []string) error
}
