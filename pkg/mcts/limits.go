package mcts

import (
	"encoding/json"
	"runtime"
	"strings"
	"time"
)

// EndCondition decides when a search worker stops. It is evaluated after
// every finished iteration with the search's worker count and the calling
// worker's own iteration count, never in the middle of an iteration, so
// every worker completes at least one full iteration. Conditions are
// shared by all workers and must be safe for concurrent calls.
type EndCondition func(workers int, iterations uint32) bool

// Limits configures a search: how long to think, how many iterations to
// spend in total and how many workers share them. Zero values mean unset;
// when both Movetime and Iterations are set the search stops on whichever
// fires first, when neither is set it falls back to DefaultMovetimeLimit.
type Limits struct {
	Movetime   int    // wall clock budget in milliseconds
	Iterations uint32 // iteration budget summed over all workers
	NThreads   int
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

// Fallback movetime in milliseconds for searches without any explicit
// limit, so a handle can always be joined.
const DefaultMovetimeLimit int = 1000

// DefaultLimits returns unset budgets on every available CPU.
func DefaultLimits() *Limits {
	return &Limits{
		NThreads: runtime.NumCPU(),
	}
}

// Set the maximum time for the engine to think, in milliseconds
func (l *Limits) SetMovetime(movetime int) *Limits {
	l.Movetime = max(0, movetime)
	return l
}

// Set the total iteration budget, split evenly across workers: each
// worker runs floor(iterations / NThreads) iterations, at least one
func (l *Limits) SetIterations(iterations uint32) *Limits {
	l.Iterations = iterations
	return l
}

// Set the number of parallel search workers
func (l *Limits) SetThreads(threads int) *Limits {
	l.NThreads = max(threads, 1)
	return l
}

// DeadlineCondition stops every worker once the wall clock reaches
// deadline. Iterations in flight still finish, so a search can overrun
// the deadline by one rollout per worker.
func DeadlineCondition(deadline time.Time) EndCondition {
	return func(int, uint32) bool {
		return !time.Now().Before(deadline)
	}
}

// IterationBudget splits a total iteration budget evenly over the
// workers: each one stops after floor(total/workers) iterations. Workers
// always run at least one iteration regardless of the budget.
func IterationBudget(total uint32) EndCondition {
	return func(workers int, iterations uint32) bool {
		return iterations >= total/uint32(workers)
	}
}

// endCondition builds the composite stop predicate for a search starting
// at now, per the rules documented on Limits.
func (l *Limits) endCondition(now time.Time) EndCondition {
	conds := make([]EndCondition, 0, 2)
	if l.Movetime > 0 {
		conds = append(conds, DeadlineCondition(now.Add(time.Duration(l.Movetime)*time.Millisecond)))
	}
	if l.Iterations > 0 {
		conds = append(conds, IterationBudget(l.Iterations))
	}

	switch len(conds) {
	case 0:
		return DeadlineCondition(now.Add(time.Duration(DefaultMovetimeLimit) * time.Millisecond))
	case 1:
		return conds[0]
	}
	return func(workers int, iterations uint32) bool {
		return conds[0](workers, iterations) || conds[1](workers, iterations)
	}
}
