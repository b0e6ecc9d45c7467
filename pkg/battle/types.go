package battle

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PokemonType is one of the 18 elemental types.
type PokemonType string

const (
	TypeNormal   PokemonType = "Normal"
	TypeFire     PokemonType = "Fire"
	TypeWater    PokemonType = "Water"
	TypeGrass    PokemonType = "Grass"
	TypeElectric PokemonType = "Electric"
	TypeFighting PokemonType = "Fighting"
	TypePsychic  PokemonType = "Psychic"
	TypeDark     PokemonType = "Dark"
	TypeSteel    PokemonType = "Steel"
	TypeDragon   PokemonType = "Dragon"
	TypeFlying   PokemonType = "Flying"
	TypeGround   PokemonType = "Ground"
	TypeRock     PokemonType = "Rock"
	TypeBug      PokemonType = "Bug"
	TypeGhost    PokemonType = "Ghost"
	TypeIce      PokemonType = "Ice"
	TypePoison   PokemonType = "Poison"
	TypeFairy    PokemonType = "Fairy"
)

// AllTypes lists every PokemonType in display order.
var AllTypes = []PokemonType{
	TypeNormal, TypeFire, TypeWater, TypeGrass, TypeElectric, TypeFighting,
	TypePsychic, TypeDark, TypeSteel, TypeDragon, TypeFlying, TypeGround,
	TypeRock, TypeBug, TypeGhost, TypeIce, TypePoison, TypeFairy,
}

// ParseType normalizes user or data-file spellings ("ELECTRIC", " fire ")
// to a PokemonType. The second return is false for unknown names.
func ParseType(s string) (PokemonType, bool) {
	// Casers are stateful, so each call gets its own.
	t := PokemonType(cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(s))))
	if !t.Valid() {
		return "", false
	}
	return t, true
}

// Valid reports whether t is one of the 18 known types.
func (t PokemonType) Valid() bool {
	return slices.Contains(AllTypes, t)
}

// StatusCondition is a major or volatile status.
type StatusCondition string

const (
	StatusNone          StatusCondition = "none"
	StatusParalyzed     StatusCondition = "paralyzed"
	StatusPoisoned      StatusCondition = "poisoned"
	StatusBadlyPoisoned StatusCondition = "badly_poisoned"
	StatusBurned        StatusCondition = "burned"
	StatusFrozen        StatusCondition = "frozen"
	StatusAsleep        StatusCondition = "asleep"
	StatusConfused      StatusCondition = "confused"
	StatusFlinched      StatusCondition = "flinched"
)

// IsMajor reports whether s occupies the single major-status slot.
// Confusion and flinch are volatile and stack with anything.
func (s StatusCondition) IsMajor() bool {
	switch s {
	case StatusParalyzed, StatusPoisoned, StatusBadlyPoisoned,
		StatusBurned, StatusFrozen, StatusAsleep:
		return true
	}
	return false
}

// Stat keys stat-stage modifiers.
type Stat string

const (
	StatHP             Stat = "hp"
	StatAttack         Stat = "attack"
	StatDefense        Stat = "defense"
	StatSpecialAttack  Stat = "special_attack"
	StatSpecialDefense Stat = "special_defense"
	StatSpeed          Stat = "speed"
	StatAccuracy       Stat = "accuracy"
	StatEvasion        Stat = "evasion"
)

const (
	MinStage = -6
	MaxStage = 6
)

// StatStageModifier is the cumulative stage for one stat.
type StatStageModifier struct {
	Stat  Stat `json:"stat"`
	Stage int  `json:"stage"`
}

// stageMultipliers maps stage -6..6 to the classic curve:
// (2+s)/2 above zero, 2/(2-s) below.
var stageMultipliers = func() map[int]float64 {
	m := make(map[int]float64, MaxStage-MinStage+1)
	for s := MinStage; s <= MaxStage; s++ {
		switch {
		case s > 0:
			m[s] = float64(2+s) / 2
		case s < 0:
			m[s] = 2 / float64(2-s)
		default:
			m[s] = 1
		}
	}
	return m
}()

// StageMultiplier returns the multiplier for stage, clamped to [-6, 6].
func StageMultiplier(stage int) float64 {
	return stageMultipliers[clampStage(stage)]
}

// ModifiedStat applies a stage multiplier to base, flooring the result.
func ModifiedStat(base, stage int) int {
	return int(math.Floor(float64(base) * StageMultiplier(stage)))
}

func clampStage(stage int) int {
	return max(MinStage, min(MaxStage, stage))
}

// typeChart lists only non-neutral matchups; anything missing is x1.
var typeChart = map[PokemonType]map[PokemonType]float64{
	TypeNormal: {TypeRock: 0.5, TypeGhost: 0, TypeSteel: 0.5},
	TypeFire: {
		TypeFire: 0.5, TypeWater: 0.5, TypeGrass: 2, TypeIce: 2,
		TypeBug: 2, TypeRock: 0.5, TypeDragon: 0.5, TypeSteel: 2,
	},
	TypeWater: {
		TypeFire: 2, TypeWater: 0.5, TypeGrass: 0.5, TypeGround: 2,
		TypeRock: 2, TypeDragon: 0.5,
	},
	TypeElectric: {
		TypeWater: 2, TypeElectric: 0.5, TypeGrass: 0.5, TypeGround: 0,
		TypeFlying: 2, TypeDragon: 0.5,
	},
	TypeGrass: {
		TypeFire: 0.5, TypeWater: 2, TypeGrass: 0.5, TypePoison: 0.5,
		TypeGround: 2, TypeFlying: 0.5, TypeBug: 0.5, TypeRock: 2,
		TypeDragon: 0.5, TypeSteel: 0.5,
	},
	TypeIce: {
		TypeFire: 0.5, TypeWater: 0.5, TypeGrass: 2, TypeIce: 0.5,
		TypeGround: 2, TypeFlying: 2, TypeDragon: 2, TypeSteel: 0.5,
	},
	TypeFighting: {
		TypeNormal: 2, TypeIce: 2, TypePoison: 0.5, TypeFlying: 0.5,
		TypePsychic: 0.5, TypeBug: 0.5, TypeRock: 2, TypeGhost: 0,
		TypeDark: 2, TypeSteel: 2, TypeFairy: 0.5,
	},
	TypePoison: {
		TypeGrass: 2, TypePoison: 0.5, TypeGround: 0.5, TypeRock: 0.5,
		TypeGhost: 0.5, TypeSteel: 0, TypeFairy: 2,
	},
	TypeGround: {
		TypeFire: 2, TypeElectric: 2, TypeGrass: 0.5, TypePoison: 2,
		TypeFlying: 0, TypeBug: 0.5, TypeRock: 2, TypeSteel: 2,
	},
	TypeFlying: {
		TypeElectric: 0.5, TypeGrass: 2, TypeFighting: 2, TypeBug: 2,
		TypeRock: 0.5, TypeSteel: 0.5,
	},
	TypePsychic: {
		TypeFighting: 2, TypePoison: 2, TypePsychic: 0.5, TypeDark: 0,
		TypeSteel: 0.5,
	},
	TypeBug: {
		TypeFire: 0.5, TypeGrass: 2, TypeFighting: 0.5, TypePoison: 0.5,
		TypeFlying: 0.5, TypePsychic: 2, TypeGhost: 0.5, TypeDark: 2,
		TypeSteel: 0.5, TypeFairy: 0.5,
	},
	TypeRock: {
		TypeFire: 2, TypeIce: 2, TypeFighting: 0.5, TypeGround: 0.5,
		TypeFlying: 2, TypeBug: 2, TypeSteel: 0.5,
	},
	TypeGhost:  {TypeNormal: 0, TypePsychic: 2, TypeGhost: 2, TypeDark: 0.5},
	TypeDragon: {TypeDragon: 2, TypeSteel: 0.5, TypeFairy: 0},
	TypeDark: {
		TypeFighting: 0.5, TypePsychic: 2, TypeGhost: 2, TypeDark: 0.5,
		TypeFairy: 0.5,
	},
	TypeSteel: {
		TypeFire: 0.5, TypeWater: 0.5, TypeElectric: 0.5, TypeIce: 2,
		TypeRock: 2, TypeSteel: 0.5, TypeFairy: 2,
	},
	TypeFairy: {
		TypeFire: 0.5, TypeFighting: 2, TypePoison: 0.5, TypeDragon: 2,
		TypeDark: 2, TypeSteel: 0.5,
	},
}

// TypeMultiplier returns the single matchup of attacking vs defending.
func TypeMultiplier(attacking, defending PokemonType) float64 {
	if row, ok := typeChart[attacking]; ok {
		if mult, ok := row[defending]; ok {
			return mult
		}
	}
	return 1
}

// Effectiveness multiplies the matchup against every defending type.
func Effectiveness(moveType PokemonType, defending []PokemonType) float64 {
	factor := 1.0
	for _, t := range defending {
		factor *= TypeMultiplier(moveType, t)
	}
	return factor
}
