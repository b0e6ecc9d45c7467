package battle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTurn(t *testing.T) {
	t.Run("faster pokemon acts first", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		res := e.ResolveTurn(testPikachu(), testRattata(), MoveAction(1), MoveAction(0))

		assert.True(t, res.PlayerFirst)
		require.NotEmpty(t, res.Messages)
		assert.Equal(t, fmt.Sprintf(MsgUsedMove, "Pikachu", "Tackle"), res.Messages[0])
		assert.Less(t, res.Player.CurrentHP, 60)
		assert.Less(t, res.Enemy.CurrentHP, 50)
	})

	t.Run("priority beats speed", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		enemy := testRattata()
		enemy.Moves = append(enemy.Moves, Move{
			Name: "Quick Attack", Power: 40, Type: TypeNormal, Category: CategoryPhysical,
			BasePP: 30, CurrentPP: 30, Priority: 1,
		})
		res := e.ResolveTurn(testPikachu(), enemy, MoveAction(1), MoveAction(1))
		assert.False(t, res.PlayerFirst)
		assert.Equal(t, fmt.Sprintf(MsgUsedMove, "Rattata", "Quick Attack"), res.Messages[0])
	})

	t.Run("paralysis halves speed", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		player := withStatus(testPikachu(), ActiveStatusCondition{Condition: StatusParalyzed})
		res := e.ResolveTurn(player, testRattata(), MoveAction(1), MoveAction(0))
		assert.False(t, res.PlayerFirst)
	})

	t.Run("speed tie is a coin flip", func(t *testing.T) {
		enemy := testRattata()
		enemy.Stats.Speed = 90

		e, _ := newTestEngine(nil, 1)
		assert.False(t, e.ResolveTurn(testPikachu(), enemy, MoveAction(1), MoveAction(0)).PlayerFirst)

		e, _ = newTestEngine(nil, 0)
		assert.True(t, e.ResolveTurn(testPikachu(), enemy, MoveAction(1), MoveAction(0)).PlayerFirst)
	})

	t.Run("knockout stops the slower side", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		enemy := testRattata()
		enemy.CurrentHP = 1
		res := e.ResolveTurn(testPikachu(), enemy, MoveAction(0), MoveAction(0))

		assert.True(t, res.EnemyFainted)
		assert.False(t, res.PlayerFainted)
		assert.Equal(t, 60, res.Player.CurrentHP)
		assert.Contains(t, res.Messages, fmt.Sprintf(MsgFainted, "Rattata"))
		assert.NotContains(t, res.Messages, fmt.Sprintf(MsgUsedMove, "Rattata", "Tackle"))
	})

	t.Run("PP is spent on the copy only", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		player := testPikachu()
		res := e.ResolveTurn(player, testRattata(), MoveAction(0), MoveAction(0))
		assert.Equal(t, 14, res.Player.Moves[0].CurrentPP)
		assert.Equal(t, 15, player.Moves[0].CurrentPP)
	})

	t.Run("pass lets the enemy act alone", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		res := e.ResolveTurn(testPikachu(), testRattata(), PassAction(), MoveAction(0))
		assert.Equal(t, 50, res.Enemy.CurrentHP)
		assert.Less(t, res.Player.CurrentHP, 60)
	})

	t.Run("flinch from the faster side blocks the slower one", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		player := testPikachu()
		player.Moves = append(player.Moves, Move{
			Name: "Fake Out", Power: 40, Type: TypeNormal, Category: CategoryPhysical,
			BasePP: 10, CurrentPP: 10, Priority: 3,
			Effects: []MoveEffect{{Type: EffectFlinch, Target: TargetOpponent}},
		})
		res := e.ResolveTurn(player, testRattata(), MoveAction(2), MoveAction(0))
		assert.Contains(t, res.Messages, fmt.Sprintf(MsgFlinched, "Rattata"))
		assert.Equal(t, 60, res.Player.CurrentHP)
		assert.False(t, res.Enemy.HasStatus(StatusFlinched), "flinch clears at end of turn")
	})

	t.Run("end of turn damage applies", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		enemy := withStatus(testRattata(), ActiveStatusCondition{Condition: StatusBurned})
		res := e.ResolveTurn(testPikachu(), enemy, PassAction(), PassAction())
		assert.Equal(t, 47, res.Enemy.CurrentHP)
	})

	t.Run("immune defender ignores the move's effects", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		player := testPikachu()
		player.Moves = append(player.Moves, Move{
			Name: "Body Slam", Power: 85, Type: TypeNormal, Category: CategoryPhysical,
			BasePP: 15, CurrentPP: 15,
			Effects: []MoveEffect{{Type: EffectStatus, Target: TargetOpponent, Status: StatusParalyzed}},
		})
		gastly := testRattata()
		gastly.Name = "Gastly"
		gastly.Types = []PokemonType{TypeGhost, TypePoison}
		gastly.Moves[0].CurrentPP = 0

		res := e.ResolveTurn(player, gastly, MoveAction(2), PassAction())
		assert.Equal(t, []string{
			fmt.Sprintf(MsgUsedMove, "Pikachu", "Body Slam"),
			MsgNoEffect,
		}, res.Messages)
		assert.Equal(t, 50, res.Enemy.CurrentHP)
		assert.False(t, res.Enemy.HasStatus(StatusParalyzed))
	})

	t.Run("struggle when out of PP", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		enemy := testRattata()
		enemy.Moves[0].CurrentPP = 0
		res := e.ResolveTurn(testPikachu(), enemy, PassAction(), MoveAction(e.ChooseEnemyMove(enemy)))
		assert.Contains(t, res.Messages, fmt.Sprintf(MsgUsedMove, "Rattata", StruggleName))
		// 50 max HP, a quarter is 12.
		assert.Equal(t, 38, res.Enemy.CurrentHP)
	})
}

func TestResolveTurn_Accuracy(t *testing.T) {
	player := testPikachu()
	player.Moves[1].Accuracy = ptr(50)

	t.Run("always hits by default", func(t *testing.T) {
		e, _ := newTestEngine([]float64{0.9})
		res := e.ResolveTurn(player, testRattata(), MoveAction(1), PassAction())
		assert.NotContains(t, res.Messages, fmt.Sprintf(MsgMissed, "Pikachu"))
	})

	t.Run("rolls when enabled", func(t *testing.T) {
		r := &scriptedRand{floats: []float64{0.9}}
		e := NewEngine(r, WithLogger(noopLogger), WithAccuracyChecks(true))
		res := e.ResolveTurn(player, testRattata(), MoveAction(1), PassAction())
		assert.Contains(t, res.Messages, fmt.Sprintf(MsgMissed, "Pikachu"))
		assert.Equal(t, 50, res.Enemy.CurrentHP)
	})
}

func TestChooseEnemyMove(t *testing.T) {
	e, _ := newTestEngine(nil, 0)
	enemy := testRattata()
	enemy.Moves = append(enemy.Moves, tackle())
	enemy.Moves[0].CurrentPP = 0
	assert.Equal(t, 1, e.ChooseEnemyMove(enemy))

	enemy.Moves[1].CurrentPP = 0
	assert.Equal(t, -1, e.ChooseEnemyMove(enemy))
	assert.Equal(t, -1, e.ChooseEnemyMove(nil))
}
