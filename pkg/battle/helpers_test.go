package battle

import (
	"io"
	"log/slog"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

// scriptedRand replays fixed rolls. Once a script runs out, Float64 returns
// 0.5 (no 20/25/33% roll succeeds, variance 0.925) and IntN returns 0.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return min(v, n-1)
}

func newTestEngine(floats []float64, ints ...int) (*Engine, *scriptedRand) {
	r := &scriptedRand{floats: floats, ints: ints}
	return NewEngine(r, WithLogger(noopLogger)), r
}

func ptr[T any](v T) *T { return &v }

func wildCharge() Move {
	return Move{Name: "Wild Charge", Power: 90, Type: TypeElectric, Category: CategoryPhysical, BasePP: 15, CurrentPP: 15}
}

func tackle() Move {
	return Move{Name: "Tackle", Power: 40, Type: TypeNormal, Category: CategoryPhysical, BasePP: 35, CurrentPP: 35}
}

// testPikachu is a level 25 Electric type with Attack 55.
func testPikachu() *Pokemon {
	return &Pokemon{
		ID:            "pikachu-1",
		Name:          "Pikachu",
		SpeciesID:     "pikachu",
		Types:         []PokemonType{TypeElectric},
		Level:         25,
		CurrentHP:     60,
		MaxHP:         60,
		Stats:         Stats{Attack: 55, Defense: 40, SpecialAttack: 50, SpecialDefense: 50, Speed: 90},
		Moves:         []Move{wildCharge(), tackle()},
		IsPlayerOwned: true,
	}
}

// testRattata is a level 20 Normal type with Defense 35.
func testRattata() *Pokemon {
	return &Pokemon{
		ID:        "rattata-1",
		Name:      "Rattata",
		SpeciesID: "rattata",
		Types:     []PokemonType{TypeNormal},
		Level:     20,
		CurrentHP: 50,
		MaxHP:     50,
		Stats:     Stats{Attack: 56, Defense: 35, SpecialAttack: 25, SpecialDefense: 35, Speed: 72},
		Moves:     []Move{tackle()},
	}
}
