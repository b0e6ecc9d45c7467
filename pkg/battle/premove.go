package battle

const (
	thawChance           = 0.2
	fullParalysisRate    = 0.25
	confusionSelfHitRate = 1.0 / 3.0
)

// MoveCheck is the outcome of CheckCanMove.
type MoveCheck struct {
	CanMove bool `json:"can_move"`
	// Reason is the blocking message when CanMove is false.
	Reason string `json:"reason,omitempty"`
	// Messages holds every line produced, including wake/thaw/snap-out
	// notices that do not block the move.
	Messages []string `json:"messages,omitempty"`
	// MoveToUse overrides the chosen move (Struggle when out of PP).
	MoveToUse          *Move `json:"move_to_use,omitempty"`
	HitSelfDamage      int   `json:"hit_self_damage,omitempty"`
	SnapOutOfConfusion bool  `json:"snap_out_of_confusion,omitempty"`
	WokeUp             bool  `json:"woke_up,omitempty"`
	ThawedOut          bool  `json:"thawed_out,omitempty"`
	// PokemonUpdate carries the status list after duration countdowns and
	// removals; nil when nothing changed. Self-hit damage is NOT applied.
	PokemonUpdate *Pokemon `json:"pokemon_update,omitempty"`
}

// CheckCanMove decides whether p may act this turn. Conditions are checked
// in the fixed order flinch, sleep, freeze, paralysis, confusion, and the
// first one that blocks wins. A Pokemon with no PP left on any move is
// forced to use Struggle.
func (e *Engine) CheckCanMove(p *Pokemon) MoveCheck {
	if p == nil {
		return MoveCheck{}
	}
	work := p.Clone()
	var res MoveCheck

	block := func(reason string) MoveCheck {
		res.CanMove = false
		res.Reason = reason
		res.Messages = append(res.Messages, reason)
		res.PokemonUpdate = changed(p, work)
		return res
	}

	if work.HasStatus(StatusFlinched) {
		return block(e.t(MsgFlinched, p.Name))
	}

	if sleep := work.Status(StatusAsleep); sleep != nil {
		sleep.Duration--
		if sleep.Duration <= 0 {
			work.RemoveStatus(StatusAsleep)
			res.WokeUp = true
			res.Messages = append(res.Messages, e.t(MsgWokeUp, p.Name))
		} else {
			return block(e.t(MsgFastAsleep, p.Name))
		}
	}

	if work.HasStatus(StatusFrozen) {
		if chance(e.rng, thawChance) {
			work.RemoveStatus(StatusFrozen)
			res.ThawedOut = true
			res.Messages = append(res.Messages, e.t(MsgThawed, p.Name))
		} else {
			return block(e.t(MsgFrozenSolid, p.Name))
		}
	}

	if work.HasStatus(StatusParalyzed) && chance(e.rng, fullParalysisRate) {
		return block(e.t(MsgFullyParalyzed, p.Name))
	}

	if confusion := work.Status(StatusConfused); confusion != nil {
		confusion.Duration--
		if confusion.Duration <= 0 {
			work.RemoveStatus(StatusConfused)
			res.SnapOutOfConfusion = true
			res.Messages = append(res.Messages, e.t(MsgSnappedOut, p.Name))
		} else {
			res.Messages = append(res.Messages, e.t(MsgIsConfused, p.Name))
			if chance(e.rng, confusionSelfHitRate) {
				res.HitSelfDamage = e.CalculateDamage(work, work, nil, true).Damage
				return block(e.t(MsgHurtInConfusion, res.HitSelfDamage))
			}
		}
	}

	res.CanMove = true
	if !work.HasUsableMove() {
		res.MoveToUse = Struggle()
		res.Messages = append(res.Messages, e.t(MsgMustStruggle, p.Name))
	}
	res.PokemonUpdate = changed(p, work)
	return res
}
