package battle

import "math"

// EffectResult is the outcome of ApplyMoveEffects. Updates are nil when
// the corresponding Pokemon came through unchanged.
type EffectResult struct {
	AttackerUpdate    *Pokemon     `json:"attacker_update,omitempty"`
	DefenderUpdate    *Pokemon     `json:"defender_update,omitempty"`
	Messages          []string     `json:"messages"`
	RecoilDamageTaken int          `json:"recoil_damage_taken,omitempty"`
	HealingDone       int          `json:"healing_done,omitempty"`
	Unsupported       []EffectType `json:"unsupported,omitempty"`
}

// typeImmunities lists the types that can never receive a status.
var typeImmunities = map[StatusCondition][]PokemonType{
	StatusPoisoned:      {TypePoison, TypeSteel},
	StatusBadlyPoisoned: {TypePoison, TypeSteel},
	StatusBurned:        {TypeFire},
	StatusParalyzed:     {TypeElectric},
	StatusFrozen:        {TypeIce},
}

// ApplyMoveEffects applies move's secondary effects in order after
// damageDealt has already been dealt. Each effect sees the results of the
// ones before it.
func (e *Engine) ApplyMoveEffects(attacker, defender *Pokemon, move *Move, damageDealt int) EffectResult {
	res := EffectResult{Messages: []string{}}
	if attacker == nil || defender == nil || move == nil || len(move.Effects) == 0 {
		return res
	}

	a := attacker.Clone()
	d := defender.Clone()

	for _, effect := range move.Effects {
		if effect.Chance != nil && !chance(e.rng, *effect.Chance) {
			e.logger.Debug("Move effect chance failed",
				"move", move.Name,
				"effect", effect.Type,
				"chance", *effect.Chance)
			continue
		}

		target := d
		if effect.Target == TargetSelf {
			target = a
		}
		if target.IsFainted && effect.Type != EffectNone {
			continue
		}

		switch effect.Type {
		case EffectStatus:
			res.Messages = append(res.Messages, e.applyStatusEffect(target, move, effect)...)
		case EffectStatChange:
			res.Messages = append(res.Messages, e.applyStatChanges(target, effect.StatChanges)...)
		case EffectHeal:
			healed, msg := e.applyHeal(target, effect.HealPercent)
			res.HealingDone += healed
			res.Messages = append(res.Messages, msg)
		case EffectDamageHeal:
			if effect.Target != TargetSelf || damageDealt <= 0 {
				continue
			}
			amount := max(1, int(math.Floor(float64(damageDealt)*effect.DamageHealRatio)))
			if healed := a.Heal(amount); healed > 0 {
				res.HealingDone += healed
				res.Messages = append(res.Messages, e.t(MsgDrainedHP, a.Name, healed))
			}
		case EffectRecoilPercent:
			if effect.Target != TargetSelf || damageDealt <= 0 {
				continue
			}
			recoil := max(1, int(math.Floor(float64(damageDealt)*effect.RecoilPercent)))
			res.RecoilDamageTaken += e.applyRecoil(a, recoil, &res)
		case EffectRecoilFixed:
			if effect.Target != TargetSelf {
				continue
			}
			recoil := max(1, int(math.Floor(float64(a.MaxHP)*effect.RecoilFixedPercentMaxHP)))
			res.RecoilDamageTaken += e.applyRecoil(a, recoil, &res)
		case EffectFlinch:
			if effect.Target == TargetSelf {
				continue
			}
			d.addStatus(ActiveStatusCondition{Condition: StatusFlinched, SourceMove: move.Name})
		case EffectNone:
		default:
			// MultiHit, FixedDamage, OHKO, FieldEffect, PriorityChange and
			// anything unrecognized.
			res.Unsupported = append(res.Unsupported, effect.Type)
			e.logger.Warn("Unsupported move effect",
				"move", move.Name,
				"effect", effect.Type)
		}
	}

	res.AttackerUpdate = changed(attacker, a)
	res.DefenderUpdate = changed(defender, d)
	return res
}

func (e *Engine) applyStatusEffect(target *Pokemon, move *Move, effect MoveEffect) []string {
	status := effect.Status
	if status == "" || status == StatusNone {
		return nil
	}
	if target.HasStatus(status) {
		return []string{e.t(MsgAlreadyStatus, target.Name, e.StatusName(status))}
	}
	for _, immune := range typeImmunities[status] {
		if target.HasType(immune) {
			return []string{e.t(MsgTypeImmune, target.Name, e.TypeName(immune))}
		}
	}
	if status.IsMajor() {
		if current := target.MajorStatus(); current != StatusNone {
			return []string{e.t(MsgStatusFailed, target.Name, e.StatusName(current))}
		}
	}

	entry := ActiveStatusCondition{Condition: status, SourceMove: move.Name}
	switch status {
	case StatusAsleep:
		entry.Duration = intRange(e.rng, 1, 3)
	case StatusConfused:
		entry.Duration = intRange(e.rng, 1, 4)
	case StatusBadlyPoisoned:
		entry.ToxicCounter = 1
	}
	target.addStatus(entry)

	if effect.EffectString != "" {
		return []string{effect.EffectString}
	}
	return []string{e.statusAppliedMessage(target.Name, status)}
}

func (e *Engine) statusAppliedMessage(name string, status StatusCondition) string {
	switch status {
	case StatusParalyzed:
		return e.t(MsgBecameParalyzed, name)
	case StatusPoisoned:
		return e.t(MsgBecamePoisoned, name)
	case StatusBadlyPoisoned:
		return e.t(MsgBecameBadlyPois, name)
	case StatusBurned:
		return e.t(MsgBecameBurned, name)
	case StatusFrozen:
		return e.t(MsgBecameFrozen, name)
	case StatusAsleep:
		return e.t(MsgFellAsleep, name)
	case StatusConfused:
		return e.t(MsgBecameConfused, name)
	}
	return e.t(MsgStatusGeneric, name, e.StatusName(status))
}

func (e *Engine) applyStatChanges(target *Pokemon, changes []StatStageModifier) []string {
	var msgs []string
	for _, c := range changes {
		if c.Stage == 0 {
			continue
		}
		current := target.Stage(c.Stat)
		next := clampStage(current + c.Stage)
		name := e.StatName(c.Stat)
		if next == current {
			if c.Stage > 0 {
				msgs = append(msgs, e.t(MsgStatMaxed, target.Name, name))
			} else {
				msgs = append(msgs, e.t(MsgStatMinimized, target.Name, name))
			}
			continue
		}
		target.setStage(c.Stat, next)
		msgs = append(msgs, e.t(statChangeMessage(c.Stage), target.Name, name))
	}
	return msgs
}

func statChangeMessage(stage int) string {
	switch {
	case stage >= 3:
		return MsgStatRoseDrastic
	case stage == 2:
		return MsgStatRoseSharply
	case stage > 0:
		return MsgStatRose
	case stage <= -3:
		return MsgStatFellSeverely
	case stage == -2:
		return MsgStatFellHarshly
	}
	return MsgStatFell
}

// applyHeal treats healPercent > 1 as a flat amount, otherwise as a
// fraction of max HP. At least 1 HP is restored.
func (e *Engine) applyHeal(target *Pokemon, healPercent float64) (int, string) {
	if target.CurrentHP >= target.MaxHP {
		return 0, e.t(MsgHPFull, target.Name)
	}
	var amount int
	if healPercent > 1 {
		amount = int(healPercent)
	} else {
		amount = int(math.Floor(float64(target.MaxHP) * healPercent))
	}
	healed := target.Heal(max(1, amount))
	return healed, e.t(MsgRestoredHP, target.Name, healed)
}

func (e *Engine) applyRecoil(p *Pokemon, recoil int, res *EffectResult) int {
	taken := p.TakeDamage(recoil)
	res.Messages = append(res.Messages, e.t(MsgRecoil, p.Name, taken))
	if p.IsFainted {
		res.Messages = append(res.Messages, e.t(MsgFainted, p.Name))
	}
	return taken
}
