// Package rng provides a pure, seed-threaded pseudo-random generator.
//
// There is no hidden state: every draw takes the current seed and returns
// the value together with the seed to use for the next draw. Callers carry
// the seed explicitly (EcosystemState.RNGState), which keeps every
// simulation step reproducible.
package rng

import "math"

// golden is the Weyl increment added to the seed on every draw.
const golden uint32 = 0x6d2b79f5

const twoPow32 = 4294967296.0

// Next returns a uniform value in [0, 1) and the following seed.
// All arithmetic wraps at 32 bits; the output sequence is bit-exact with
// the Mulberry32 reference.
func Next(seed uint32) (float64, uint32) {
	next := seed + golden
	v := (next ^ (next >> 15)) * (next | 1)
	v ^= v + (v^(v>>7))*(v|61)
	return float64(v^(v>>14)) / twoPow32, next
}

// Range scales a draw into [min, max).
func Range(seed uint32, min, max float64) (float64, uint32) {
	u, next := Next(seed)
	return min + (max-min)*u, next
}

// Int draws an integer in [minInclusive, maxExclusive). A span smaller than
// one is treated as one, so the result is always minInclusive in that case.
func Int(seed uint32, minInclusive, maxExclusive int) (int, uint32) {
	u, next := Next(seed)
	span := maxExclusive - minInclusive
	if span < 1 {
		span = 1
	}
	return minInclusive + int(math.Floor(u*float64(span))), next
}
