package battle

import "testing"

func TestModifiedStat(t *testing.T) {
	tests := []struct {
		stage    int
		expected int
	}{
		{-6, 25},
		{-2, 50},
		{-1, 66},
		{0, 100},
		{1, 150},
		{2, 200},
		{6, 400},
		{-9, 25},
		{12, 400},
	}
	for _, tt := range tests {
		if got := ModifiedStat(100, tt.stage); got != tt.expected {
			t.Errorf("stage %d: expected %d, got %d", tt.stage, tt.expected, got)
		}
	}
}

func TestStageMultiplier_Monotonic(t *testing.T) {
	prev := 0.0
	for s := MinStage; s <= MaxStage; s++ {
		m := StageMultiplier(s)
		if m <= prev {
			t.Errorf("expected multiplier at stage %d (%v) above %v", s, m, prev)
		}
		prev = m
	}
}

func TestEffectiveness(t *testing.T) {
	tests := []struct {
		name     string
		move     PokemonType
		defender []PokemonType
		expected float64
	}{
		{"neutral when missing", TypeElectric, []PokemonType{TypeNormal}, 1},
		{"immune", TypeElectric, []PokemonType{TypeGround}, 0},
		{"double super effective", TypeWater, []PokemonType{TypeFire, TypeRock}, 4},
		{"cancel out", TypeFire, []PokemonType{TypeGrass, TypeWater}, 1},
		{"quarter", TypeGrass, []PokemonType{TypeFire, TypeFlying}, 0.25},
		{"fairy vs dragon", TypeFairy, []PokemonType{TypeDragon}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Effectiveness(tt.move, tt.defender); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in       string
		expected PokemonType
		ok       bool
	}{
		{"ELECTRIC", TypeElectric, true},
		{" fire ", TypeFire, true},
		{"Psychic", TypePsychic, true},
		{"plasma", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseType(tt.in)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("ParseType(%q): expected (%q, %v), got (%q, %v)", tt.in, tt.expected, tt.ok, got, ok)
		}
	}
}

func TestStatusCondition_IsMajor(t *testing.T) {
	for _, s := range []StatusCondition{StatusParalyzed, StatusPoisoned, StatusBadlyPoisoned, StatusBurned, StatusFrozen, StatusAsleep} {
		if !s.IsMajor() {
			t.Errorf("expected %s to be major", s)
		}
	}
	for _, s := range []StatusCondition{StatusNone, StatusConfused, StatusFlinched} {
		if s.IsMajor() {
			t.Errorf("expected %s to be volatile", s)
		}
	}
}
