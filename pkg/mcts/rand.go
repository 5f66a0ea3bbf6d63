package mcts

import (
	"math/rand"

	"github.com/seehuhn/mt19937"
)

// Rand supplies the uniform integers that drive rollouts and child
// sampling. Implementations do not need to be safe for concurrent use:
// every worker owns a private instance built by the search's RandFactory.
type Rand interface {
	// IntRange returns a uniformly distributed int in [low, high).
	IntRange(low, high int) int
}

// RandFactory builds the private random source of one worker. Worker
// indices are 0..threads-1 within a search, so factories can derive a
// distinct seed per worker from a single base seed.
type RandFactory func(worker int) Rand

type randSource struct {
	r *rand.Rand
}

func (s randSource) IntRange(low, high int) int {
	return low + s.r.Intn(high-low)
}

// NewRand wraps a math/rand generator in the Rand interface.
func NewRand(r *rand.Rand) Rand {
	return randSource{r: r}
}

// DefaultRandFactory seeds a math/rand source with SeedGeneratorFn plus
// the worker index. Workers explore different lines while a pinned seed
// generator still fixes the whole search.
func DefaultRandFactory(worker int) Rand {
	return NewRand(rand.New(rand.NewSource(SeedGeneratorFn() + int64(worker))))
}

// MersenneTwisterFactory is a drop-in RandFactory backed by the MT19937
// generator, seeded the same way as DefaultRandFactory. Useful when the
// longer period matters, for example in arena runs with millions of
// rollouts per configuration.
func MersenneTwisterFactory(worker int) Rand {
	mt := mt19937.New()
	mt.Seed(SeedGeneratorFn() + int64(worker))
	return NewRand(rand.New(mt))
}
