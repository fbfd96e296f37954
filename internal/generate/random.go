// Package generate turns a list of URLs into fake browsing history.
package generate

import (
	"math/rand/v2"
	"time"
)

// NewRand returns the random source of a run. A zero seed picks a fresh one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// RandomDate returns a time uniformly distributed in (now-window, now].
func RandomDate(r *rand.Rand, now time.Time, window time.Duration) time.Time {
	return now.Add(-time.Duration(r.Float64() * float64(window)))
}

// RandomDateInLastDays is RandomDate with a window of whole days.
func RandomDateInLastDays(r *rand.Rand, now time.Time, days int) time.Time {
	return RandomDate(r, now, time.Duration(days)*24*time.Hour)
}

// Shuffle permutes s in place with Fisher-Yates.
func Shuffle[T any](r *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Sample returns k entries of pool in random order, or all of them when k
// is at least len(pool). pool is not modified.
func Sample[T any](r *rand.Rand, pool []T, k int) []T {
	out := make([]T, len(pool))
	copy(out, pool)
	Shuffle(r, out)
	if k < 0 {
		k = 0
	}
	if k < len(out) {
		out = out[:k]
	}
	return out
}
