package engine

import "math/rand/v2"

// Shuffle returns a uniformly random permutation of s. The input slice is
// not modified.
func Shuffle[T any](s []T) []T {
	return ShuffleWith(s, nil)
}

// ShuffleWith is Shuffle drawing from r. A nil r uses the package-level
// source, which is randomly seeded.
func ShuffleWith[T any](s []T, r *rand.Rand) []T {
	out := make([]T, len(s))
	copy(out, s)

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if r == nil {
		rand.Shuffle(len(out), swap)
	} else {
		r.Shuffle(len(out), swap)
	}
	return out
}
