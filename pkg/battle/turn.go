package battle

// ActionKind says what a combatant does with its turn.
type ActionKind string

const (
	// ActionMove uses the move at MoveIndex.
	ActionMove ActionKind = "move"
	// ActionPass spends the turn elsewhere (item, switch, failed run).
	ActionPass ActionKind = "pass"
)

// Action is one combatant's choice for a turn.
type Action struct {
	Kind      ActionKind `json:"kind"`
	MoveIndex int        `json:"move_index"`
}

// MoveAction is shorthand for an ActionMove with index i.
func MoveAction(i int) Action { return Action{Kind: ActionMove, MoveIndex: i} }

// PassAction is shorthand for an ActionPass.
func PassAction() Action { return Action{Kind: ActionPass} }

// TurnResult holds both combatants after a full turn and the log for it.
// Player and Enemy are always fresh copies.
type TurnResult struct {
	Player        *Pokemon `json:"player"`
	Enemy         *Pokemon `json:"enemy"`
	Messages      []string `json:"messages"`
	PlayerFirst   bool     `json:"player_first"`
	PlayerFainted bool     `json:"player_fainted,omitempty"`
	EnemyFainted  bool     `json:"enemy_fainted,omitempty"`
}

// ResolveTurn runs one full turn: both actions in speed order, each going
// through the pre-move check, damage and move effects, then end-of-turn
// processing for whoever is still standing.
func (e *Engine) ResolveTurn(player, enemy *Pokemon, playerAction, enemyAction Action) TurnResult {
	p := player.Clone()
	en := enemy.Clone()
	res := TurnResult{Player: p, Enemy: en, Messages: []string{}}
	if p == nil || en == nil {
		return res
	}

	res.PlayerFirst = e.goesFirst(p, en, playerAction, enemyAction)
	if res.PlayerFirst {
		res.Messages = append(res.Messages, e.act(p, en, playerAction)...)
		res.Messages = append(res.Messages, e.act(en, p, enemyAction)...)
	} else {
		res.Messages = append(res.Messages, e.act(en, p, enemyAction)...)
		res.Messages = append(res.Messages, e.act(p, en, playerAction)...)
	}

	for _, mon := range []*Pokemon{p, en} {
		if mon.IsFainted {
			continue
		}
		eot := e.ProcessEndOfTurn(mon)
		if eot.PokemonUpdate != nil {
			*mon = *eot.PokemonUpdate
		}
		res.Messages = append(res.Messages, eot.Messages...)
	}

	res.PlayerFainted = p.IsFainted
	res.EnemyFainted = en.IsFainted
	return res
}

// ChooseEnemyMove picks uniformly among moves that still have PP. It
// returns -1 when none do, which makes the pre-move check force Struggle.
func (e *Engine) ChooseEnemyMove(enemy *Pokemon) int {
	if enemy == nil {
		return -1
	}
	var usable []int
	for i, m := range enemy.Moves {
		if m.CurrentPP > 0 {
			usable = append(usable, i)
		}
	}
	if len(usable) == 0 {
		return -1
	}
	return usable[e.rng.IntN(len(usable))]
}

func (e *Engine) goesFirst(p, en *Pokemon, pa, ea Action) bool {
	if pp, ep := actionPriority(p, pa), actionPriority(en, ea); pp != ep {
		return pp > ep
	}
	if ps, es := battleSpeed(p), battleSpeed(en); ps != es {
		return ps > es
	}
	return e.rng.IntN(2) == 0
}

// actionPriority puts non-move actions ahead of every move.
func actionPriority(p *Pokemon, a Action) int {
	if a.Kind != ActionMove {
		return 100
	}
	if a.MoveIndex >= 0 && a.MoveIndex < len(p.Moves) {
		return p.Moves[a.MoveIndex].Priority
	}
	return 0
}

func battleSpeed(p *Pokemon) int {
	speed := p.EffectiveStat(StatSpeed)
	if p.HasStatus(StatusParalyzed) {
		speed /= 2
	}
	return speed
}

// act resolves attacker's action against defender, committing every update
// into the two working copies.
func (e *Engine) act(attacker, defender *Pokemon, action Action) []string {
	if action.Kind != ActionMove || attacker.IsFainted || defender.IsFainted {
		return nil
	}

	check := e.CheckCanMove(attacker)
	if check.PokemonUpdate != nil {
		*attacker = *check.PokemonUpdate
	}
	msgs := append([]string{}, check.Messages...)
	if !check.CanMove {
		if check.HitSelfDamage > 0 {
			attacker.TakeDamage(check.HitSelfDamage)
			if attacker.IsFainted {
				msgs = append(msgs, e.t(MsgFainted, attacker.Name))
			}
		}
		return msgs
	}

	var move *Move
	switch {
	case check.MoveToUse != nil:
		move = check.MoveToUse
	case action.MoveIndex < 0 || action.MoveIndex >= len(attacker.Moves):
		return msgs
	case attacker.Moves[action.MoveIndex].CurrentPP <= 0:
		return append(msgs, e.t(MsgNoPP, attacker.Name, attacker.Moves[action.MoveIndex].Name))
	default:
		attacker.Moves[action.MoveIndex].CurrentPP--
		m := attacker.Moves[action.MoveIndex].Clone()
		move = &m
	}
	msgs = append(msgs, e.t(MsgUsedMove, attacker.Name, move.Name))

	if !e.hits(attacker, defender, move) {
		return append(msgs, e.t(MsgMissed, attacker.Name))
	}

	dealt := 0
	if move.IsDamaging() {
		dmg := e.CalculateDamage(attacker, defender, move, false)
		if dmg.EffectivenessText != "" {
			msgs = append(msgs, dmg.EffectivenessText)
		}
		// An immune defender takes neither damage nor the move's effects.
		if dmg.Effectiveness == 0 {
			return msgs
		}
		if dmg.Damage > 0 {
			dealt = defender.TakeDamage(dmg.Damage)
			msgs = append(msgs, e.t(MsgTookDamage, defender.Name, dealt))
		}
		if defender.IsFainted {
			msgs = append(msgs, e.t(MsgFainted, defender.Name))
		}
	}

	eff := e.ApplyMoveEffects(attacker, defender, move, dealt)
	if eff.AttackerUpdate != nil {
		*attacker = *eff.AttackerUpdate
	}
	if eff.DefenderUpdate != nil {
		*defender = *eff.DefenderUpdate
	}
	return append(msgs, eff.Messages...)
}

// hits rolls accuracy when accuracy checks are on. Moves without an
// accuracy value never miss.
func (e *Engine) hits(attacker, defender *Pokemon, move *Move) bool {
	if !e.accuracyChecks || move.Accuracy == nil {
		return true
	}
	stage := clampStage(attacker.Stage(StatAccuracy) - defender.Stage(StatEvasion))
	p := float64(*move.Accuracy) / 100 * StageMultiplier(stage)
	return chance(e.rng, p)
}
