// Package rng holds the random helpers shared by every puzzle engine.
package rng

import (
	"hash/maphash"
	"math/rand/v2"
)

// New returns a PCG source seeded from the runtime hash seed.
func New() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// Seeded returns a deterministic source, used by tests and replays.
func Seeded(seed1, seed2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// Shuffle permutes s in place (Fisher-Yates). A nil r falls back to the
// global source.
func Shuffle[T any](r *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := intN(r, i+1)
		s[i], s[j] = s[j], s[i]
	}
}

// Shuffled returns a shuffled copy and leaves s untouched.
func Shuffled[T any](r *rand.Rand, s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	Shuffle(r, out)
	return out
}

// Pick returns a random element of s. s must not be empty.
func Pick[T any](r *rand.Rand, s []T) T {
	return s[intN(r, len(s))]
}

func intN(r *rand.Rand, n int) int {
	if r == nil {
		return rand.IntN(n)
	}
	return r.IntN(n)
}
