package mcts

import (
	"math"
	"time"
)

// SeedGeneratorFnType produces base seeds for the worker random sources.
type SeedGeneratorFnType func() int64

// Exploration constant used by the UCT formula when a search does not set
// its own. sqrt(2) is the theoretical baseline, in practice it has to be
// tuned per game.
const DefaultExplorationParam = math.Sqrt2

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// Set custom seed generator function for the random sources used by the
// search workers, by default uses current time in nanoseconds. Each worker
// offsets the generated seed by its index, so pinning this to a constant
// makes whole searches reproducible.
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
