// Package util holds small shared helpers with no combat semantics.
package util

import "math/rand"

// New returns an isolated rand.Rand for one battle or one policy run.
// A zero seed maps to a fixed non-zero one so the zero value of a
// config still replays deterministically.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}
