package battle

import (
	"math/rand/v2"
	"time"
)

// Rand is every source of chance the engine uses. Tests substitute a
// scripted implementation to pin outcomes.
type Rand interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n). n must be > 0.
	IntN(n int) int
}

// NewRand returns a PCG-backed Rand. A seed of 0 picks one from the clock.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// chance rolls against p in [0, 1].
func chance(r Rand, p float64) bool {
	return r.Float64() < p
}

// intRange returns a value in [lo, hi].
func intRange(r Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}
