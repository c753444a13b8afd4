// Package rng provides the deterministic random stream shared by a world.
package rng

// Zero seeds are remapped to this value so the stream never sits at 0.
const zeroSeed uint32 = 0xDEADBEEF

// LCG is a 32-bit linear congruential generator.
// state' = state*1664525 + 1013904223 (mod 2^32).
//
// Every random decision in a world draws from a single LCG in a fixed call
// order, so two worlds built from the same seed and driven by the same
// operations stay identical.
type LCG struct {
	state uint32
}

// New creates a generator seeded with seed.
func New(seed uint32) *LCG {
	if seed == 0 {
		seed = zeroSeed
	}
	return &LCG{state: seed}
}

// Uint32 advances the stream and returns the new state.
func (r *LCG) Uint32() uint32 {
	r.state = r.state*1664525 + 1013904223
	return r.state
}

// Float32 returns a draw in [0,1]. The uint32 -> float32 conversion rounds to
// nearest, so the topmost states yield exactly 1.
func (r *LCG) Float32() float32 {
	return float32(r.Uint32()) / 4294967296.0
}

// Uniform returns a draw in [min,max], reaching max only when Float32
// returns 1.
func (r *LCG) Uniform(min, max float32) float32 {
	return min + float32((max-min)*r.Float32())
}

// State returns the current internal state.
func (r *LCG) State() uint32 {
	return r.state
}
