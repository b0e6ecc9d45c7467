package battle

import "math"

const (
	confusionPower = 40
	stabMultiplier = 1.5
	minVariance    = 0.85
	maxVariance    = 1.0
)

// DamageResult is the outcome of CalculateDamage.
type DamageResult struct {
	Damage            int     `json:"damage"`
	Effectiveness     float64 `json:"effectiveness"`
	EffectivenessText string  `json:"effectiveness_text,omitempty"`
}

// CalculateDamage computes the damage move would deal from attacker to
// defender. With confusionSelfHit set, it instead returns the fixed
// 40-power typeless hit the attacker deals to itself. Accuracy is not
// consulted.
func (e *Engine) CalculateDamage(attacker, defender *Pokemon, move *Move, confusionSelfHit bool) DamageResult {
	if attacker == nil {
		return DamageResult{Effectiveness: 1}
	}
	if confusionSelfHit {
		return DamageResult{Damage: e.confusionDamage(attacker), Effectiveness: 1}
	}
	if defender == nil || move == nil {
		return DamageResult{Effectiveness: 1}
	}

	factor := Effectiveness(move.Type, defender.Types)
	result := DamageResult{
		Effectiveness:     factor,
		EffectivenessText: e.effectivenessText(factor),
	}
	if !move.IsDamaging() {
		return result
	}

	var atk, def int
	if move.Category == CategorySpecial {
		atk = attacker.EffectiveStat(StatSpecialAttack)
		def = defender.EffectiveStat(StatSpecialDefense)
	} else {
		atk = attacker.EffectiveStat(StatAttack)
		def = defender.EffectiveStat(StatDefense)
		if attacker.HasStatus(StatusBurned) {
			atk /= 2
		}
	}
	atk = max(1, atk)
	def = max(1, def)

	raw := baseDamage(attacker.Level, move.Power, atk, def)
	if attacker.HasType(move.Type) {
		raw *= stabMultiplier
	}
	raw *= factor
	variance := minVariance + e.rng.Float64()*(maxVariance-minVariance)
	raw *= variance

	if factor == 0 {
		result.Damage = 0
	} else {
		result.Damage = max(1, int(math.Floor(raw)))
	}

	e.logger.Debug("Damage calculated",
		"attacker", attacker.Name,
		"defender", defender.Name,
		"move", move.Name,
		"atk", atk,
		"def", def,
		"effectiveness", factor,
		"variance", variance,
		"damage", result.Damage)

	return result
}

func (e *Engine) confusionDamage(p *Pokemon) int {
	atk := max(1, p.EffectiveStat(StatAttack))
	def := max(1, p.EffectiveStat(StatDefense))
	return max(1, int(math.Floor(baseDamage(p.Level, confusionPower, atk, def))))
}

// baseDamage is ((2L/5 + 2) * P * A / D) / 50 + 2, before modifiers.
func baseDamage(level, power, atk, def int) float64 {
	return ((2*float64(level)/5+2)*float64(power)*float64(atk)/float64(def))/50 + 2
}

func (e *Engine) effectivenessText(factor float64) string {
	switch {
	case factor == 0:
		return e.t(MsgNoEffect)
	case factor < 1:
		return e.t(MsgNotVeryEffective)
	case factor > 1:
		return e.t(MsgSuperEffective)
	}
	return ""
}
