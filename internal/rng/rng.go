// Package rng centralizes seeded random number generation. Every stream used
// by the pipeline derives deterministically from the run seed so that
// identical configuration and seed reproduce bit-identical output.
package rng

import "golang.org/x/exp/rand"

// Fixed offsets for derived substreams. Demographic sampling and bias
// injection draw from their own streams so that enabling or disabling them
// never perturbs the structural and measurement draws.
const (
	// DemographicsOffset separates the demographic category stream.
	DemographicsOffset = 777
	// BiasOffset separates the response-bias stream.
	BiasOffset = 1291
)

// New returns a generator seeded with the run seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(uint64(seed)))
}

// Substream returns a generator for a derived stream at a fixed offset from
// the run seed.
func Substream(seed int64, offset int64) *rand.Rand {
	return New(seed + offset)
}
