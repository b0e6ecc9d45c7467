package battle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func effectMove(effects ...MoveEffect) *Move {
	return &Move{Name: "Test Move", Power: 40, Type: TypeNormal, Category: CategoryPhysical, Effects: effects}
}

func TestApplyMoveEffects_Status(t *testing.T) {
	t.Run("inflicts paralysis", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: StatusParalyzed})
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 10)

		require.NotNil(t, res.DefenderUpdate)
		assert.True(t, res.DefenderUpdate.HasStatus(StatusParalyzed))
		assert.Nil(t, res.AttackerUpdate)
		assert.Equal(t, []string{fmt.Sprintf(MsgBecameParalyzed, "Rattata")}, res.Messages)
	})

	t.Run("electric types cannot be paralyzed", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: StatusParalyzed})
		res := e.ApplyMoveEffects(testRattata(), testPikachu(), move, 10)

		assert.Nil(t, res.DefenderUpdate)
		assert.Equal(t, []string{fmt.Sprintf(MsgTypeImmune, "Pikachu", "Electric")}, res.Messages)
	})

	t.Run("immunity table", func(t *testing.T) {
		tests := []struct {
			status StatusCondition
			typ    PokemonType
		}{
			{StatusPoisoned, TypePoison},
			{StatusPoisoned, TypeSteel},
			{StatusBadlyPoisoned, TypeSteel},
			{StatusBurned, TypeFire},
			{StatusFrozen, TypeIce},
		}
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s vs %s", tt.status, tt.typ), func(t *testing.T) {
				e, _ := newTestEngine(nil)
				target := testRattata()
				target.Types = []PokemonType{tt.typ}
				move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: tt.status})
				res := e.ApplyMoveEffects(testPikachu(), target, move, 0)
				if res.DefenderUpdate != nil {
					t.Errorf("expected %s type to be immune to %s", tt.typ, tt.status)
				}
			})
		}
	})

	t.Run("same status is not applied twice", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		target := withStatus(testRattata(), ActiveStatusCondition{Condition: StatusPoisoned})
		move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: StatusPoisoned})
		res := e.ApplyMoveEffects(testPikachu(), target, move, 0)
		assert.Nil(t, res.DefenderUpdate)
		assert.Equal(t, []string{fmt.Sprintf(MsgAlreadyStatus, "Rattata", "poisoned")}, res.Messages)
	})

	t.Run("second major status fails", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		target := withStatus(testRattata(), ActiveStatusCondition{Condition: StatusBurned})
		move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: StatusParalyzed})
		res := e.ApplyMoveEffects(testPikachu(), target, move, 0)
		assert.Nil(t, res.DefenderUpdate)
		assert.Equal(t, []string{fmt.Sprintf(MsgStatusFailed, "Rattata", "burned")}, res.Messages)
	})

	t.Run("confusion stacks with a major status", func(t *testing.T) {
		e, _ := newTestEngine(nil, 3)
		target := withStatus(testRattata(), ActiveStatusCondition{Condition: StatusBurned})
		move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: StatusConfused})
		res := e.ApplyMoveEffects(testPikachu(), target, move, 0)
		require.NotNil(t, res.DefenderUpdate)
		confusion := res.DefenderUpdate.Status(StatusConfused)
		require.NotNil(t, confusion)
		assert.Equal(t, 4, confusion.Duration)
		assert.True(t, res.DefenderUpdate.HasStatus(StatusBurned))
	})

	t.Run("sleep gets a 1 to 3 turn duration", func(t *testing.T) {
		for roll, expected := range []int{1, 2, 3} {
			e, _ := newTestEngine(nil, roll)
			move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: StatusAsleep})
			res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 0)
			require.NotNil(t, res.DefenderUpdate)
			assert.Equal(t, expected, res.DefenderUpdate.Status(StatusAsleep).Duration)
		}
	})

	t.Run("toxic starts its counter at one", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: StatusBadlyPoisoned})
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 0)
		require.NotNil(t, res.DefenderUpdate)
		assert.Equal(t, 1, res.DefenderUpdate.Status(StatusBadlyPoisoned).ToxicCounter)
	})

	t.Run("effect string replaces the generic message", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		move := effectMove(MoveEffect{
			Type:         EffectStatus,
			Target:       TargetOpponent,
			Status:       StatusBurned,
			EffectString: "Rattata was scorched!",
		})
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 0)
		assert.Equal(t, []string{"Rattata was scorched!"}, res.Messages)
	})

	t.Run("failed chance roll skips the effect", func(t *testing.T) {
		e, _ := newTestEngine([]float64{0.9})
		move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: StatusBurned, Chance: ptr(0.1)})
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 10)
		assert.Nil(t, res.DefenderUpdate)
		assert.Empty(t, res.Messages)
	})

	t.Run("passed chance roll applies the effect", func(t *testing.T) {
		e, _ := newTestEngine([]float64{0.05})
		move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: StatusBurned, Chance: ptr(0.1)})
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 10)
		require.NotNil(t, res.DefenderUpdate)
		assert.True(t, res.DefenderUpdate.HasStatus(StatusBurned))
	})

	t.Run("fainted target is skipped", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		target := testRattata()
		target.TakeDamage(target.MaxHP)
		move := effectMove(MoveEffect{Type: EffectStatus, Target: TargetOpponent, Status: StatusBurned})
		res := e.ApplyMoveEffects(testPikachu(), target, move, 50)
		assert.Nil(t, res.DefenderUpdate)
	})
}

func TestApplyMoveEffects_StatChange(t *testing.T) {
	t.Run("sharp rise on self", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		move := effectMove(MoveEffect{
			Type:        EffectStatChange,
			Target:      TargetSelf,
			StatChanges: []StatStageModifier{{Stat: StatAttack, Stage: 2}},
		})
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 0)
		require.NotNil(t, res.AttackerUpdate)
		assert.Equal(t, 2, res.AttackerUpdate.Stage(StatAttack))
		assert.Equal(t, []string{fmt.Sprintf(MsgStatRoseSharply, "Pikachu", "Attack")}, res.Messages)
	})

	t.Run("clamps at plus six", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		attacker := testPikachu()
		attacker.StatStages = []StatStageModifier{{Stat: StatAttack, Stage: 5}}
		move := effectMove(MoveEffect{
			Type:        EffectStatChange,
			Target:      TargetSelf,
			StatChanges: []StatStageModifier{{Stat: StatAttack, Stage: 2}},
		})
		res := e.ApplyMoveEffects(attacker, testRattata(), move, 0)
		require.NotNil(t, res.AttackerUpdate)
		assert.Equal(t, 6, res.AttackerUpdate.Stage(StatAttack))

		res = e.ApplyMoveEffects(res.AttackerUpdate, testRattata(), move, 0)
		assert.Nil(t, res.AttackerUpdate)
		assert.Equal(t, []string{fmt.Sprintf(MsgStatMaxed, "Pikachu", "Attack")}, res.Messages)
	})

	t.Run("lowers the opponent", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		move := effectMove(MoveEffect{
			Type:   EffectStatChange,
			Target: TargetOpponent,
			StatChanges: []StatStageModifier{
				{Stat: StatDefense, Stage: -1},
				{Stat: StatSpeed, Stage: -3},
			},
		})
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 0)
		require.NotNil(t, res.DefenderUpdate)
		assert.Equal(t, -1, res.DefenderUpdate.Stage(StatDefense))
		assert.Equal(t, -3, res.DefenderUpdate.Stage(StatSpeed))
		assert.Equal(t, []string{
			fmt.Sprintf(MsgStatFell, "Rattata", "Defense"),
			fmt.Sprintf(MsgStatFellSeverely, "Rattata", "Speed"),
		}, res.Messages)
	})

	t.Run("minimized stat", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		target := testRattata()
		target.StatStages = []StatStageModifier{{Stat: StatDefense, Stage: MinStage}}
		move := effectMove(MoveEffect{
			Type:        EffectStatChange,
			Target:      TargetOpponent,
			StatChanges: []StatStageModifier{{Stat: StatDefense, Stage: -1}},
		})
		res := e.ApplyMoveEffects(testPikachu(), target, move, 0)
		assert.Nil(t, res.DefenderUpdate)
		assert.Equal(t, []string{fmt.Sprintf(MsgStatMinimized, "Rattata", "Defense")}, res.Messages)
	})
}

func TestApplyMoveEffects_Healing(t *testing.T) {
	tests := []struct {
		name        string
		hp          int
		healPercent float64
		expectedHP  int
	}{
		{"half of max", 10, 0.5, 40},
		{"flat amount", 10, 20, 30},
		{"capped at max", 50, 0.5, 60},
		{"minimum one", 10, 0.001, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(nil)
			attacker := testPikachu()
			attacker.CurrentHP = tt.hp
			move := effectMove(MoveEffect{Type: EffectHeal, Target: TargetSelf, HealPercent: tt.healPercent})
			res := e.ApplyMoveEffects(attacker, testRattata(), move, 0)
			require.NotNil(t, res.AttackerUpdate)
			assert.Equal(t, tt.expectedHP, res.AttackerUpdate.CurrentHP)
			assert.Equal(t, tt.expectedHP-tt.hp, res.HealingDone)
		})
	}

	t.Run("full HP is a no-op", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		move := effectMove(MoveEffect{Type: EffectHeal, Target: TargetSelf, HealPercent: 0.5})
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 0)
		assert.Nil(t, res.AttackerUpdate)
		assert.Equal(t, []string{fmt.Sprintf(MsgHPFull, "Pikachu")}, res.Messages)
	})

	t.Run("drain heals a share of damage dealt", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		attacker := testPikachu()
		attacker.CurrentHP = 20
		move := effectMove(MoveEffect{Type: EffectDamageHeal, Target: TargetSelf, DamageHealRatio: 0.5})
		res := e.ApplyMoveEffects(attacker, testRattata(), move, 25)
		require.NotNil(t, res.AttackerUpdate)
		assert.Equal(t, 32, res.AttackerUpdate.CurrentHP)
		assert.Equal(t, 12, res.HealingDone)
	})

	t.Run("drain needs damage and a self target", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		attacker := testPikachu()
		attacker.CurrentHP = 20
		noDamage := effectMove(MoveEffect{Type: EffectDamageHeal, Target: TargetSelf, DamageHealRatio: 0.5})
		assert.Nil(t, e.ApplyMoveEffects(attacker, testRattata(), noDamage, 0).AttackerUpdate)

		wrongTarget := effectMove(MoveEffect{Type: EffectDamageHeal, Target: TargetOpponent, DamageHealRatio: 0.5})
		res := e.ApplyMoveEffects(attacker, testRattata(), wrongTarget, 20)
		assert.Nil(t, res.AttackerUpdate)
		assert.Nil(t, res.DefenderUpdate)
	})
}

func TestApplyMoveEffects_Recoil(t *testing.T) {
	t.Run("percent of damage dealt", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		move := effectMove(MoveEffect{Type: EffectRecoilPercent, Target: TargetSelf, RecoilPercent: 0.25})
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 40)
		require.NotNil(t, res.AttackerUpdate)
		assert.Equal(t, 50, res.AttackerUpdate.CurrentHP)
		assert.Equal(t, 10, res.RecoilDamageTaken)
	})

	t.Run("percent recoil needs damage", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		move := effectMove(MoveEffect{Type: EffectRecoilPercent, Target: TargetSelf, RecoilPercent: 0.25})
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 0)
		assert.Nil(t, res.AttackerUpdate)
		assert.Zero(t, res.RecoilDamageTaken)
	})

	t.Run("struggle recoils a quarter of max HP", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		res := e.ApplyMoveEffects(testPikachu(), testRattata(), Struggle(), 0)
		require.NotNil(t, res.AttackerUpdate)
		assert.Equal(t, 45, res.AttackerUpdate.CurrentHP)
		assert.Equal(t, 15, res.RecoilDamageTaken)
	})

	t.Run("recoil can knock out the user", func(t *testing.T) {
		e, _ := newTestEngine(nil)
		attacker := testPikachu()
		attacker.CurrentHP = 5
		res := e.ApplyMoveEffects(attacker, testRattata(), Struggle(), 0)
		require.NotNil(t, res.AttackerUpdate)
		assert.True(t, res.AttackerUpdate.IsFainted)
		assert.Equal(t, 0, res.AttackerUpdate.CurrentHP)
		assert.Equal(t, 5, res.RecoilDamageTaken)
		assert.Contains(t, res.Messages, fmt.Sprintf(MsgFainted, "Pikachu"))
	})
}

func TestApplyMoveEffects_Flinch(t *testing.T) {
	e, _ := newTestEngine(nil)
	move := effectMove(MoveEffect{Type: EffectFlinch, Target: TargetOpponent})
	res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 10)
	require.NotNil(t, res.DefenderUpdate)
	assert.True(t, res.DefenderUpdate.HasStatus(StatusFlinched))

	self := effectMove(MoveEffect{Type: EffectFlinch, Target: TargetSelf})
	res = e.ApplyMoveEffects(testPikachu(), testRattata(), self, 10)
	assert.Nil(t, res.AttackerUpdate)
}

func TestApplyMoveEffects_Unsupported(t *testing.T) {
	e, _ := newTestEngine(nil)
	move := effectMove(
		MoveEffect{Type: EffectMultiHit, Target: TargetOpponent},
		MoveEffect{Type: EffectNone},
		MoveEffect{Type: EffectOHKO, Target: TargetOpponent},
	)
	res := e.ApplyMoveEffects(testPikachu(), testRattata(), move, 10)
	assert.Nil(t, res.AttackerUpdate)
	assert.Nil(t, res.DefenderUpdate)
	assert.Empty(t, res.Messages)
	assert.Equal(t, []EffectType{EffectMultiHit, EffectOHKO}, res.Unsupported)
}

func TestApplyMoveEffects_Sequential(t *testing.T) {
	e, _ := newTestEngine(nil)
	attacker := testPikachu()
	move := effectMove(
		MoveEffect{Type: EffectRecoilFixed, Target: TargetSelf, RecoilFixedPercentMaxHP: 0.5},
		MoveEffect{Type: EffectHeal, Target: TargetSelf, HealPercent: 10},
	)
	res := e.ApplyMoveEffects(attacker, testRattata(), move, 0)
	require.NotNil(t, res.AttackerUpdate)
	// 60 - 30 recoil + 10 heal
	assert.Equal(t, 40, res.AttackerUpdate.CurrentHP)
	assert.Equal(t, 60, attacker.CurrentHP, "input must not change")
}

func TestApplyMoveEffects_NoEffects(t *testing.T) {
	e, _ := newTestEngine(nil)
	move := tackle()
	res := e.ApplyMoveEffects(testPikachu(), testRattata(), &move, 10)
	assert.Nil(t, res.AttackerUpdate)
	assert.Nil(t, res.DefenderUpdate)
	assert.NotNil(t, res.Messages)
	assert.Empty(t, res.Messages)
}
