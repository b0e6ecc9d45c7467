package battle

import "slices"

// MoveCategory decides which attack/defense pair a move uses.
type MoveCategory string

const (
	CategoryPhysical MoveCategory = "physical"
	CategorySpecial  MoveCategory = "special"
	CategoryStatus   MoveCategory = "status" // No direct damage
)

// EffectType tags a MoveEffect.
type EffectType string

const (
	EffectStatus         EffectType = "status"
	EffectStatChange     EffectType = "stat_change"
	EffectHeal           EffectType = "heal"
	EffectDamageHeal     EffectType = "damage_heal"
	EffectRecoilPercent  EffectType = "recoil_percent"
	EffectRecoilFixed    EffectType = "recoil_fixed"
	EffectMultiHit       EffectType = "multi_hit"
	EffectFlinch         EffectType = "flinch"
	EffectFixedDamage    EffectType = "fixed_damage"
	EffectOHKO           EffectType = "ohko"
	EffectFieldEffect    EffectType = "field_effect"
	EffectPriorityChange EffectType = "priority_change"
	EffectNone           EffectType = "no_effect"
)

// Supported reports whether the effect applier implements t.
func (t EffectType) Supported() bool {
	switch t {
	case EffectStatus, EffectStatChange, EffectHeal, EffectDamageHeal,
		EffectRecoilPercent, EffectRecoilFixed, EffectFlinch, EffectNone:
		return true
	}
	return false
}

// EffectTarget selects who an effect lands on.
type EffectTarget string

const (
	TargetSelf     EffectTarget = "self"
	TargetOpponent EffectTarget = "opponent"
)

// MoveEffect is one secondary effect of a move.
type MoveEffect struct {
	Type   EffectType   `json:"type"`
	Target EffectTarget `json:"target"`
	Chance *float64     `json:"chance,omitempty"` // 0..1, nil means always

	Status                  StatusCondition     `json:"status,omitempty"`
	StatChanges             []StatStageModifier `json:"stat_changes,omitempty"`
	HealPercent             float64             `json:"heal_percent,omitempty"` // >1 is a flat amount
	DamageHealRatio         float64             `json:"damage_heal_ratio,omitempty"`
	RecoilPercent           float64             `json:"recoil_percent,omitempty"`
	RecoilFixedPercentMaxHP float64             `json:"recoil_fixed_percent_max_hp,omitempty"`
	EffectString            string              `json:"effect_string,omitempty"`
}

// Move is a move instance owned by a Pokemon, including its remaining PP.
type Move struct {
	Name      string       `json:"name"`
	Power     int          `json:"power"`
	Type      PokemonType  `json:"type"`
	Category  MoveCategory `json:"category"`
	BasePP    int          `json:"base_pp"`
	CurrentPP int          `json:"current_pp"`
	Accuracy  *int         `json:"accuracy,omitempty"` // Percent; nil never misses
	Priority  int          `json:"priority,omitempty"`
	Effects   []MoveEffect `json:"effects,omitempty"`
}

// Clone deep-copies the move and its effects.
func (m Move) Clone() Move {
	if m.Accuracy != nil {
		acc := *m.Accuracy
		m.Accuracy = &acc
	}
	if m.Effects != nil {
		effects := make([]MoveEffect, len(m.Effects))
		for i, e := range m.Effects {
			if e.Chance != nil {
				c := *e.Chance
				e.Chance = &c
			}
			e.StatChanges = slices.Clone(e.StatChanges)
			effects[i] = e
		}
		m.Effects = effects
	}
	return m
}

// IsDamaging reports whether the move goes through the damage formula.
func (m *Move) IsDamaging() bool {
	return m.Category != CategoryStatus && m.Power > 0
}

// StruggleName is the fallback move used when every move is out of PP.
const StruggleName = "Struggle"

// Struggle returns the fixed fallback move: 50 power Normal physical,
// 1 PP, always recoiling for a quarter of the user's max HP.
func Struggle() *Move {
	return &Move{
		Name:      StruggleName,
		Power:     50,
		Type:      TypeNormal,
		Category:  CategoryPhysical,
		BasePP:    1,
		CurrentPP: 1,
		Effects: []MoveEffect{
			{
				Type:                    EffectRecoilFixed,
				Target:                  TargetSelf,
				RecoilFixedPercentMaxHP: 0.25,
			},
		},
	}
}
