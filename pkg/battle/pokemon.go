package battle

import "slices"

// Stats holds the five non-HP battle stats.
type Stats struct {
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special_attack"`
	SpecialDefense int `json:"special_defense"`
	Speed          int `json:"speed"`
}

// Get returns the raw value for stat. HP, accuracy and evasion have no
// raw value here and return 0.
func (s Stats) Get(stat Stat) int {
	switch stat {
	case StatAttack:
		return s.Attack
	case StatDefense:
		return s.Defense
	case StatSpecialAttack:
		return s.SpecialAttack
	case StatSpecialDefense:
		return s.SpecialDefense
	case StatSpeed:
		return s.Speed
	}
	return 0
}

// ActiveStatusCondition is one entry in a Pokemon's status list.
type ActiveStatusCondition struct {
	Condition    StatusCondition `json:"condition"`
	Duration     int             `json:"duration,omitempty"`      // Remaining turns for sleep/confusion
	ToxicCounter int             `json:"toxic_counter,omitempty"` // Badly poisoned damage multiplier
	SourceMove   string          `json:"source_move,omitempty"`
}

// Pokemon is the battle-relevant snapshot of a single creature.
// Battle functions never modify a Pokemon passed to them; they work on a
// Clone and hand back the copy.
type Pokemon struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	SpeciesID        string                  `json:"species_id,omitempty"`
	Types            []PokemonType           `json:"types"`
	Level            int                     `json:"level"`
	CurrentHP        int                     `json:"current_hp"`
	MaxHP            int                     `json:"max_hp"`
	Stats            Stats                   `json:"stats"`
	Moves            []Move                  `json:"moves"`
	StatusConditions []ActiveStatusCondition `json:"status_conditions,omitempty"`
	StatStages       []StatStageModifier     `json:"stat_stages,omitempty"`
	IsFainted        bool                    `json:"is_fainted"`
	IsPlayerOwned    bool                    `json:"is_player_owned,omitempty"`
}

// Clone returns a deep copy with no shared slices.
func (p *Pokemon) Clone() *Pokemon {
	if p == nil {
		return nil
	}
	c := *p
	c.Types = slices.Clone(p.Types)
	c.StatusConditions = slices.Clone(p.StatusConditions)
	c.StatStages = slices.Clone(p.StatStages)
	if p.Moves != nil {
		c.Moves = make([]Move, len(p.Moves))
		for i := range p.Moves {
			c.Moves[i] = p.Moves[i].Clone()
		}
	}
	return &c
}

// setHP clamps hp to [0, MaxHP] and keeps IsFainted in sync.
// All HP changes go through here.
func (p *Pokemon) setHP(hp int) {
	p.CurrentHP = max(0, min(p.MaxHP, hp))
	p.IsFainted = p.CurrentHP <= 0
}

// TakeDamage reduces HP by n (ignored when n <= 0) and returns the HP
// actually lost.
func (p *Pokemon) TakeDamage(n int) int {
	if n <= 0 {
		return 0
	}
	before := p.CurrentHP
	p.setHP(p.CurrentHP - n)
	return before - p.CurrentHP
}

// Heal raises HP by n up to MaxHP and returns the HP actually restored.
// Fainted Pokemon are not revived here.
func (p *Pokemon) Heal(n int) int {
	if n <= 0 || p.IsFainted {
		return 0
	}
	before := p.CurrentHP
	p.setHP(p.CurrentHP + n)
	return p.CurrentHP - before
}

// HasType reports whether t is one of the Pokemon's types.
func (p *Pokemon) HasType(t PokemonType) bool {
	return slices.Contains(p.Types, t)
}

// HasStatus reports whether condition is already in the status list.
func (p *Pokemon) HasStatus(condition StatusCondition) bool {
	return p.statusIndex(condition) >= 0
}

// Status returns a pointer into the status list, or nil when absent.
func (p *Pokemon) Status(condition StatusCondition) *ActiveStatusCondition {
	if i := p.statusIndex(condition); i >= 0 {
		return &p.StatusConditions[i]
	}
	return nil
}

// MajorStatus returns the first major status present, or StatusNone.
func (p *Pokemon) MajorStatus() StatusCondition {
	for _, s := range p.StatusConditions {
		if s.Condition.IsMajor() {
			return s.Condition
		}
	}
	return StatusNone
}

// HasAnyStatus reports whether any non-None status is present.
func (p *Pokemon) HasAnyStatus() bool {
	for _, s := range p.StatusConditions {
		if s.Condition != StatusNone {
			return true
		}
	}
	return false
}

func (p *Pokemon) statusIndex(condition StatusCondition) int {
	return slices.IndexFunc(p.StatusConditions, func(s ActiveStatusCondition) bool {
		return s.Condition == condition
	})
}

// addStatus appends s unless the same condition already exists.
func (p *Pokemon) addStatus(s ActiveStatusCondition) bool {
	if p.HasStatus(s.Condition) {
		return false
	}
	p.StatusConditions = append(p.StatusConditions, s)
	return true
}

// RemoveStatus deletes condition from the status list, reporting whether
// it was present.
func (p *Pokemon) RemoveStatus(condition StatusCondition) bool {
	i := p.statusIndex(condition)
	if i < 0 {
		return false
	}
	p.StatusConditions = slices.Delete(p.StatusConditions, i, i+1)
	return true
}

// Stage returns the current stage for stat (0 when unset).
func (p *Pokemon) Stage(stat Stat) int {
	for _, m := range p.StatStages {
		if m.Stat == stat {
			return m.Stage
		}
	}
	return 0
}

// setStage stores stage for stat, clamped to [-6, 6].
func (p *Pokemon) setStage(stat Stat, stage int) {
	stage = clampStage(stage)
	for i := range p.StatStages {
		if p.StatStages[i].Stat == stat {
			p.StatStages[i].Stage = stage
			return
		}
	}
	p.StatStages = append(p.StatStages, StatStageModifier{Stat: stat, Stage: stage})
}

// EffectiveStat returns the raw stat scaled by its current stage.
func (p *Pokemon) EffectiveStat(stat Stat) int {
	return ModifiedStat(p.Stats.Get(stat), p.Stage(stat))
}

// HasUsableMove reports whether any move still has PP.
func (p *Pokemon) HasUsableMove() bool {
	return slices.ContainsFunc(p.Moves, func(m Move) bool { return m.CurrentPP > 0 })
}

// RestoreAll is the out-of-battle full heal: HP and PP to max, statuses and
// stages cleared, fainted flag reset.
func (p *Pokemon) RestoreAll() {
	p.StatusConditions = nil
	p.StatStages = nil
	for i := range p.Moves {
		p.Moves[i].CurrentPP = p.Moves[i].BasePP
	}
	p.CurrentHP = p.MaxHP
	p.IsFainted = p.CurrentHP <= 0
}
