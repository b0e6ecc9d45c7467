package battle

import (
	"fmt"

	"github.com/google/uuid"
)

// BaseStats are species-level values before level scaling.
type BaseStats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special_attack"`
	SpecialDefense int `json:"special_defense"`
	Speed          int `json:"speed"`
}

// Species is a data-file template that battle Pokemon are built from.
type Species struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Types     []PokemonType `json:"types"`
	BaseStats BaseStats     `json:"base_stats"`
	Moves     []Move        `json:"moves"` // At most four are used
}

const (
	MinLevel = 1
	MaxLevel = 100
	MaxMoves = 4
)

// NewPokemon builds a fresh instance of species at level with full HP,
// full PP and empty status/stage lists. Level is clamped to [1, 100].
func NewPokemon(species *Species, level int) (*Pokemon, error) {
	if species == nil {
		return nil, fmt.Errorf("species cannot be nil")
	}
	if len(species.Types) == 0 || len(species.Types) > 2 {
		return nil, fmt.Errorf("species %s must have 1 or 2 types, got %d", species.ID, len(species.Types))
	}
	level = max(MinLevel, min(MaxLevel, level))

	p := &Pokemon{
		ID:        uuid.New().String(),
		Name:      species.Name,
		SpeciesID: species.ID,
		Types:     append([]PokemonType(nil), species.Types...),
		Level:     level,
		MaxHP:     hpAtLevel(species.BaseStats.HP, level),
		Stats: Stats{
			Attack:         statAtLevel(species.BaseStats.Attack, level),
			Defense:        statAtLevel(species.BaseStats.Defense, level),
			SpecialAttack:  statAtLevel(species.BaseStats.SpecialAttack, level),
			SpecialDefense: statAtLevel(species.BaseStats.SpecialDefense, level),
			Speed:          statAtLevel(species.BaseStats.Speed, level),
		},
	}
	for i, m := range species.Moves {
		if i == MaxMoves {
			break
		}
		m = m.Clone()
		m.CurrentPP = m.BasePP
		p.Moves = append(p.Moves, m)
	}
	p.setHP(p.MaxHP)
	return p, nil
}

// hpAtLevel is the classic HP formula with no IVs or EVs.
func hpAtLevel(base, level int) int {
	return (2*base*level)/100 + level + 10
}

func statAtLevel(base, level int) int {
	return (2*base*level)/100 + 5
}
