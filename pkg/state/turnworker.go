package state

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/pkg/battle"
)

// TurnWorker applies one player command to a BattleState: it validates the
// command, runs the turn through the battle engine, commits the returned
// updates and decides the outcome.
type TurnWorker struct {
	bs     *BattleState
	engine *battle.Engine
	logger *slog.Logger
	queue  BattleLogQueue // Optional queue for battle-log lines
	ctx    context.Context
}

// NewTurnWorker creates a worker for bs driven by engine.
func NewTurnWorker(bs *BattleState, engine *battle.Engine, logger *slog.Logger) *TurnWorker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TurnWorker{
		bs:     bs,
		engine: engine,
		logger: logger,
		ctx:    context.Background(),
	}
}

// WithQueue sets the queue that receives each turn's log lines
// Returns the TurnWorker for method chaining
func (tw *TurnWorker) WithQueue(queue BattleLogQueue) *TurnWorker {
	tw.queue = queue
	return tw
}

// WithContext sets the context for queue operations
// Returns the TurnWorker for method chaining
func (tw *TurnWorker) WithContext(ctx context.Context) *TurnWorker {
	tw.ctx = ctx
	return tw
}

// Start writes the opening lines of a new battle to the log.
func (tw *TurnWorker) Start() []string {
	var msgs []string
	if tw.bs.Enemy != nil {
		if tw.bs.IsWild {
			msgs = append(msgs, tw.t(MsgWildAppeared, tw.bs.Enemy.Name))
		} else {
			msgs = append(msgs, tw.t(MsgTrainerSent, tw.bs.Enemy.Name))
		}
	}
	if active := tw.bs.Active(); active != nil {
		msgs = append(msgs, tw.t(MsgGoPokemon, active.Name))
	}
	return tw.finish(msgs, false)
}

// Apply runs cmd as the player's action for one turn and returns the
// turn's battle-log lines. Validation failures return a wrapped Err*
// without touching the state. A usable item that fails (e.g. a Potion at
// full HP) returns its message and does not use up the turn.
func (tw *TurnWorker) Apply(cmd Command) ([]string, error) {
	if tw.bs.IsOver() {
		return nil, ErrBattleOver
	}
	active := tw.bs.Active()
	if active == nil || tw.bs.Enemy == nil {
		return nil, fmt.Errorf("%w: no pokemon to battle with", ErrBattleOver)
	}

	var msgs []string
	var action battle.Action

	switch cmd.Type {
	case CmdMove:
		if err := validateMove(active, cmd.MoveIndex); err != nil {
			return nil, err
		}
		action = battle.MoveAction(cmd.MoveIndex)

	case CmdItem:
		itemMsgs, used, err := tw.useItem(cmd)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, itemMsgs...)
		if !used {
			return tw.finish(msgs, false), nil
		}
		if tw.bs.IsOver() {
			return tw.finish(msgs, true), nil
		}
		action = battle.PassAction()

	case CmdSwitch:
		switchMsgs, err := tw.switchTo(cmd.SwitchIndex)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, switchMsgs...)
		action = battle.PassAction()

	case CmdRun:
		if !tw.bs.IsWild {
			return nil, ErrCannotRun
		}
		tw.bs.Outcome = OutcomeFled
		msgs = append(msgs, tw.t(MsgGotAway))
		return tw.finish(msgs, true), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	msgs = append(msgs, tw.resolve(action)...)
	return tw.finish(msgs, true), nil
}

func validateMove(active *battle.Pokemon, i int) error {
	// Any choice becomes Struggle once every move is empty.
	if !active.HasUsableMove() {
		return nil
	}
	if i < 0 || i >= len(active.Moves) {
		return fmt.Errorf("%w: %s has no move %d", ErrInvalidMove, active.Name, i+1)
	}
	if active.Moves[i].CurrentPP <= 0 {
		return fmt.Errorf("%w: no PP left for %s", ErrInvalidMove, active.Moves[i].Name)
	}
	return nil
}

// resolve runs the engine turn with the enemy's pick and commits it.
func (tw *TurnWorker) resolve(action battle.Action) []string {
	bs := tw.bs
	enemyAction := battle.MoveAction(tw.engine.ChooseEnemyMove(bs.Enemy))
	res := tw.engine.ResolveTurn(bs.Active(), bs.Enemy, action, enemyAction)

	bs.Team[bs.ActiveIndex] = *res.Player
	bs.Enemy = res.Enemy
	msgs := res.Messages

	if res.PlayerFainted {
		if next := bs.nextHealthy(bs.ActiveIndex); next >= 0 {
			bs.ActiveIndex = next
			msgs = append(msgs, tw.t(MsgGoPokemon, bs.Team[next].Name))
		} else if !res.EnemyFainted {
			bs.Outcome = OutcomeLost
			msgs = append(msgs, tw.t(MsgOutOfPokemon))
		}
	}
	if res.EnemyFainted {
		bs.Outcome = OutcomeWon
		msgs = append(msgs, tw.t(MsgWon))
	}

	tw.logger.Debug("Turn resolved",
		"battle_id", bs.ID.String(),
		"turn", bs.Turn+1,
		"player_first", res.PlayerFirst,
		"outcome", bs.Outcome)
	return msgs
}

// useItem applies the inventory item named by cmd. used is false when the
// item had no effect and was not consumed.
func (tw *TurnWorker) useItem(cmd Command) (msgs []string, used bool, err error) {
	bs := tw.bs
	i := bs.FindItem(cmd.ItemID)
	if i < 0 || bs.Inventory[i].Quantity <= 0 {
		return nil, false, fmt.Errorf("%w: %q is not in the bag", ErrInvalidItem, cmd.ItemID)
	}
	item := bs.Inventory[i]
	if !item.CanUseInBattle {
		return nil, false, fmt.Errorf("%w: %s can't be used in battle", ErrInvalidItem, item.Name)
	}

	targetIndex := -1
	var target *battle.Pokemon
	switch item.TargetType {
	case battle.ItemTargetEnemy:
		if item.Effect != nil && item.Effect.Type == battle.ItemEffectCatchPokemon && !bs.IsWild {
			return nil, false, fmt.Errorf("%w: can't catch another trainer's pokemon", ErrInvalidItem)
		}
		target = bs.Enemy
	case battle.ItemTargetSelfTeam:
		targetIndex = bs.ActiveIndex
		if cmd.TargetIndex != nil {
			targetIndex = *cmd.TargetIndex
		}
		if targetIndex < 0 || targetIndex >= len(bs.Team) {
			return nil, false, fmt.Errorf("%w: no team member %d", ErrInvalidItem, targetIndex+1)
		}
		target = &bs.Team[targetIndex]
	default:
		targetIndex = bs.ActiveIndex
		target = bs.Active()
	}

	res := tw.engine.ApplyItemEffects(&item, target, bs.Active())
	if !res.Success {
		return res.Messages, false, nil
	}
	bs.consumeItem(i)

	if res.UpdatedTarget != nil {
		if targetIndex >= 0 {
			bs.Team[targetIndex] = *res.UpdatedTarget
		} else {
			bs.Enemy = res.UpdatedTarget
		}
	}
	msgs = res.Messages
	if res.EnemyCaught {
		msgs = append(msgs, tw.addCaught()...)
		bs.Outcome = OutcomeCaught
	}

	tw.logger.Info("Item used",
		"battle_id", bs.ID.String(),
		"item", item.ID,
		"caught", res.EnemyCaught)
	return msgs, true, nil
}

// addCaught turns the enemy into a new owned Pokemon with a fresh identity
// and a clean status and stage list. HP carries over.
func (tw *TurnWorker) addCaught() []string {
	bs := tw.bs
	p := bs.Enemy.Clone()
	p.ID = uuid.New().String()
	p.IsPlayerOwned = true
	p.StatusConditions = nil
	p.StatStages = nil

	if len(bs.Team) < MaxTeamSize {
		bs.Team = append(bs.Team, *p)
		return []string{tw.t(MsgJoinedTeam, p.Name)}
	}
	bs.Box = append(bs.Box, *p)
	return []string{tw.t(MsgTeamFull, p.Name)}
}

// switchTo brings in team member i. The outgoing Pokemon loses its stat
// stages and volatile statuses.
func (tw *TurnWorker) switchTo(i int) ([]string, error) {
	bs := tw.bs
	switch {
	case i < 0 || i >= len(bs.Team):
		return nil, fmt.Errorf("%w: no team member %d", ErrInvalidSwitch, i+1)
	case i == bs.ActiveIndex:
		return nil, fmt.Errorf("%w: %s is already battling", ErrInvalidSwitch, bs.Team[i].Name)
	case bs.Team[i].IsFainted:
		return nil, fmt.Errorf("%w: %s has fainted", ErrInvalidSwitch, bs.Team[i].Name)
	}

	out := bs.Active()
	out.StatStages = nil
	out.RemoveStatus(battle.StatusConfused)
	out.RemoveStatus(battle.StatusFlinched)

	msgs := []string{tw.t(MsgComeBack, out.Name)}
	bs.ActiveIndex = i
	msgs = append(msgs, tw.t(MsgGoPokemon, bs.Team[i].Name))
	return msgs, nil
}

// finish records msgs in the battle log and pushes them to the queue.
func (tw *TurnWorker) finish(msgs []string, advance bool) []string {
	bs := tw.bs
	if advance {
		bs.Turn++
	}
	if msgs == nil {
		msgs = []string{}
	}
	bs.Log = append(bs.Log, msgs...)
	bs.UpdatedAt = time.Now()

	if tw.queue != nil && len(msgs) > 0 {
		if err := tw.queue.Enqueue(tw.ctx, bs.ID.String(), msgs); err != nil {
			// The battle itself is already committed; only the feed misses these lines.
			tw.logger.Error("Failed to enqueue battle log",
				"error", err,
				"battle_id", bs.ID.String(),
				"lines", len(msgs))
		}
	}
	return msgs
}

func (tw *TurnWorker) t(key string, args ...any) string {
	return tw.engine.Localizer().T(key, args...)
}
