package mcts

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// MCTS configures and launches root-parallel searches for one game type.
// It holds no tree state itself: every Search builds fresh worker trees,
// so a single configured engine can be reused move after move and even
// by concurrent games. Construct with New, then chain the setters.
type MCTS[S GameState[S, M, O], M MoveLike, O comparable] struct {
	limits      *Limits
	exploration float64
	factory     RandFactory
}

// New creates an engine with default limits, the sqrt(2) exploration
// constant and the default math/rand worker sources.
func New[S GameState[S, M, O], M MoveLike, O comparable]() *MCTS[S, M, O] {
	return &MCTS[S, M, O]{
		limits:      DefaultLimits(),
		exploration: DefaultExplorationParam,
		factory:     DefaultRandFactory,
	}
}

// Set the search limits, nil is ignored
func (m *MCTS[S, M, O]) SetLimits(limits *Limits) *MCTS[S, M, O] {
	if limits != nil {
		m.limits = limits
	}
	return m
}

func (m *MCTS[S, M, O]) Limits() *Limits {
	return m.limits
}

// Set the exploration constant of the UCT formula, clamped at 0
func (m *MCTS[S, M, O]) SetExplorationParam(c float64) *MCTS[S, M, O] {
	m.exploration = max(0.0, c)
	return m
}

func (m *MCTS[S, M, O]) ExplorationParam() float64 {
	return m.exploration
}

// Set the factory building each worker's random source, nil is ignored
func (m *MCTS[S, M, O]) SetRandFactory(f RandFactory) *MCTS[S, M, O] {
	if f != nil {
		m.factory = f
	}
	return m
}

func (m *MCTS[S, M, O]) String() string {
	return fmt.Sprintf("MCTS={exploration=%.3f, Limits=%v}", m.exploration, m.limits)
}

// Search starts the workers configured by the limits and returns the
// running search's handle without blocking. The handle is the only way
// to observe the search; there is no cancellation beyond the configured
// limits, and a search with no limits set stops after
// DefaultMovetimeLimit.
func (m *MCTS[S, M, O]) Search(root S) *Handle[M] {
	return m.SearchWithEndCondition(root, m.limits.endCondition(time.Now()))
}

// SearchWithEndCondition starts the workers with a caller-supplied stop
// predicate instead of the configured budgets. The canonical move order
// used for vote aggregation is captured from the root exactly once,
// before any worker starts.
func (m *MCTS[S, M, O]) SearchWithEndCondition(root S, cond EndCondition) *Handle[M] {
	h := newHandle[M](root.AllMoves(), max(1, m.limits.NThreads))

	log.Debug().
		Int("workers", h.workers).
		Int("root_moves", len(h.moves)).
		Float64("exploration", m.exploration).
		Msg("starting search")

	for id := 0; id < h.workers; id++ {
		go m.runWorker(id, root, cond, h)
	}
	return h
}
