package battle

// EndOfTurnResult is the outcome of ProcessEndOfTurn.
type EndOfTurnResult struct {
	PokemonUpdate *Pokemon `json:"pokemon_update,omitempty"`
	Messages      []string `json:"messages"`
	Fainted       bool     `json:"fainted,omitempty"`
}

// ProcessEndOfTurn applies damage over time once both sides have acted.
// Toxic ramps by one sixteenth of max HP per turn, poison deals an eighth
// and burn a sixteenth. Flinch is always cleared.
func (e *Engine) ProcessEndOfTurn(p *Pokemon) EndOfTurnResult {
	res := EndOfTurnResult{Messages: []string{}}
	if p == nil {
		return res
	}
	work := p.Clone()

	if toxic := work.Status(StatusBadlyPoisoned); toxic != nil && work.CurrentHP > 0 {
		counter := max(1, toxic.ToxicCounter)
		dmg := max(1, work.MaxHP*counter/16)
		toxic.ToxicCounter = counter + 1
		dmg = work.TakeDamage(dmg)
		res.Messages = append(res.Messages, e.t(MsgBadlyPoisonDamage, work.Name, dmg))
	}
	if work.HasStatus(StatusPoisoned) && work.CurrentHP > 0 {
		dmg := work.TakeDamage(max(1, work.MaxHP/8))
		res.Messages = append(res.Messages, e.t(MsgPoisonDamage, work.Name, dmg))
	}
	if work.HasStatus(StatusBurned) && work.CurrentHP > 0 {
		dmg := work.TakeDamage(max(1, work.MaxHP/16))
		res.Messages = append(res.Messages, e.t(MsgBurnDamage, work.Name, dmg))
	}
	work.RemoveStatus(StatusFlinched)

	if work.IsFainted && !p.IsFainted {
		res.Fainted = true
		res.Messages = append(res.Messages, e.t(MsgFainted, work.Name))
	}
	res.PokemonUpdate = changed(p, work)
	return res
}
