package battle

const (
	maxCatchProbability = 0.95
	baseCatchRate       = 0.05
	missingHPCatchRate  = 0.6
	statusCatchBonus    = 0.10
)

// ItemResult is the outcome of ApplyItemEffects. Success is false only when
// the item could not be used at all, so the caller knows not to consume it.
type ItemResult struct {
	Success          bool     `json:"success"`
	Messages         []string `json:"messages"`
	UpdatedTarget    *Pokemon `json:"updated_target,omitempty"`
	EnemyCaught      bool     `json:"enemy_caught,omitempty"`
	CatchProbability float64  `json:"catch_probability,omitempty"`
}

// ApplyItemEffects uses item on target. When target is nil and the item is
// meant for the active Pokemon, user is the target. A caught enemy is only
// reported; building the owned team member is up to the caller.
func (e *Engine) ApplyItemEffects(item *InventoryItem, target, user *Pokemon) ItemResult {
	res := ItemResult{Messages: []string{}}
	fail := func(msg string) ItemResult {
		res.Success = false
		res.Messages = append(res.Messages, msg)
		return res
	}

	if item == nil || item.Effect == nil {
		return fail(e.t(MsgItemNoEffect))
	}
	if target == nil && item.TargetType == ItemTargetSelfActive {
		target = user
	}
	if target == nil {
		return fail(e.t(MsgItemNoTarget, item.Name))
	}

	work := target.Clone()
	switch item.Effect.Type {
	case ItemEffectHealHP:
		if work.IsFainted {
			return fail(e.t(MsgItemOnFainted, work.Name))
		}
		if work.CurrentHP >= work.MaxHP {
			return fail(e.t(MsgHPFull, work.Name))
		}
		if item.Effect.Amount <= 0 {
			return fail(e.t(MsgItemNoEffect))
		}
		healed := work.Heal(item.Effect.Amount)
		res.Messages = append(res.Messages, e.t(MsgItemRecoveredHP, work.Name, healed))

	case ItemEffectCureStatus:
		if msgs := e.cureStatus(work, item.Effect.Status); len(msgs) > 0 {
			res.Messages = append(res.Messages, msgs...)
		} else {
			return fail(e.t(MsgItemNotAfflicted, work.Name, e.StatusName(item.Effect.Status)))
		}

	case ItemEffectCatchPokemon:
		if work.IsPlayerOwned {
			return fail(e.t(MsgCatchOwned))
		}
		p := CatchProbability(work, item.Effect.CatchBonus)
		res.CatchProbability = p
		res.Messages = append(res.Messages, e.t(MsgThrewBall, item.Name))
		if chance(e.rng, p) {
			res.EnemyCaught = true
			res.Messages = append(res.Messages, e.t(MsgCaught, work.Name))
		} else {
			res.Messages = append(res.Messages, e.t(MsgBrokeFree, work.Name))
		}
		e.logger.Debug("Catch attempt",
			"target", work.Name,
			"item", item.ID,
			"probability", p,
			"caught", res.EnemyCaught)

	default:
		// stat_boost_temp is declared in item data but has no battle effect.
		return fail(e.t(MsgItemUnusable, item.Name))
	}

	res.Success = true
	res.UpdatedTarget = changed(target, work)
	return res
}

// cureStatus removes condition from p. An empty condition is a full cure of
// every status except flinch.
func (e *Engine) cureStatus(p *Pokemon, condition StatusCondition) []string {
	if condition != "" && condition != StatusNone {
		if p.RemoveStatus(condition) {
			return []string{e.t(MsgItemCured, p.Name, e.StatusName(condition))}
		}
		return nil
	}
	var msgs []string
	for _, s := range p.Clone().StatusConditions {
		if s.Condition == StatusFlinched || s.Condition == StatusNone {
			continue
		}
		p.RemoveStatus(s.Condition)
		msgs = append(msgs, e.t(MsgItemCured, p.Name, e.StatusName(s.Condition)))
	}
	return msgs
}

// CatchProbability is min(0.95, missingHP*0.6 + 0.05) scaled by the ball
// bonus, plus 0.10 when the target has any status. The result never
// exceeds 0.95.
func CatchProbability(target *Pokemon, ballBonus float64) float64 {
	if target == nil || target.MaxHP <= 0 {
		return 0
	}
	if ballBonus <= 0 {
		ballBonus = 1
	}
	missing := float64(target.MaxHP-target.CurrentHP) / float64(target.MaxHP)
	p := min(maxCatchProbability, missing*missingHPCatchRate+baseCatchRate)
	p = min(maxCatchProbability, p*ballBonus)
	if target.HasAnyStatus() {
		p = min(maxCatchProbability, p+statusCatchBonus)
	}
	return max(0, p)
}
