// Package entropy provides the engine's randomness. All stochastic rolls in
// turn resolution go through a Source seeded from (game seed, turn number),
// so identical inputs replay to identical states.
package entropy

import "math/rand"

// Source is the engine-facing randomness contract.
type Source interface {
	// Float returns a value in [0, 1).
	Float() float64
	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
}

// Seeded wraps math/rand with an explicit seed.
type Seeded struct {
	rng *rand.Rand
}

// NewSeeded creates a deterministic source from a seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

// Float returns a value in [0, 1).
func (s *Seeded) Float() float64 { return s.rng.Float64() }

// Intn returns a value in [0, n).
func (s *Seeded) Intn(n int) int { return s.rng.Intn(n) }

// TurnSeed mixes the game seed with a turn number so every turn gets an
// independent but reproducible roll stream.
func TurnSeed(gameSeed int64, turn int) int64 {
	x := uint64(gameSeed) ^ (uint64(turn)+1)*0x9e3779b97f4a7c15
	// splitmix64 finalizer
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// Fixed replays a scripted sequence of floats, cycling when exhausted.
// Tests use it to force specific outcomes.
type Fixed struct {
	vals []float64
	i    int
}

// NewFixed creates a scripted source. At least one value is required; an
// empty script always yields 0.5.
func NewFixed(vals ...float64) *Fixed {
	return &Fixed{vals: vals}
}

// Float returns the next scripted value.
func (f *Fixed) Float() float64 {
	if len(f.vals) == 0 {
		return 0.5
	}
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

// Intn scales the next scripted value into [0, n).
func (f *Fixed) Intn(n int) int {
	v := int(f.Float() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
