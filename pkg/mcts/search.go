package mcts

import (
	"github.com/rs/zerolog/log"
)

// runWorker drives one private tree until the end condition fires, then
// files the worker's summary with the handle. Each worker runs:
//
// 1. selection - walk down to the most promising leaf by UCT score
//
// 2. expansion - create every child of the leaf, pick one at random
//
// 3. simulation - play the game out with uniformly random moves
//
// 4. backpropagation - credit the outcome to the whole path
//
// The end condition is checked between iterations only, so every worker
// completes at least one iteration even with an always-true condition.
func (m *MCTS[S, M, O]) runWorker(id int, root S, cond EndCondition, h *Handle[M]) {
	var (
		r          = m.factory(id)
		tree       = NewTree[S, M, O](root, m.exploration)
		iterations uint32
		err        error
	)

	for {
		if err = iterate(tree, r); err != nil {
			log.Error().Err(err).Int("worker", id).Msg("search worker aborted")
			break
		}

		iterations++
		h.iterations.Add(1)
		if cond(h.workers, iterations) {
			break
		}
	}

	h.finish(id, workerSummary{
		iterations: iterations,
		votes:      tree.RootVotes(),
		nodes:      uint64(tree.Size()),
		err:        err,
	})
}

// iterate runs one full search iteration on the tree. Terminal leaves
// feed their own outcome straight back up; everything else is expanded
// and exactly one new child is rolled out.
func iterate[S GameState[S, M, O], M MoveLike, O comparable](tree *Tree[S, M, O], r Rand) error {
	id := tree.Select()

	if outcome, ok := tree.At(id).state.TerminalOutcome(); ok {
		tree.Backpropagate(id, outcome)
		return nil
	}

	children, err := tree.Expand(id)
	if err != nil {
		return err
	}

	// The unsampled siblings keep their creation statistics until
	// selection reaches them again.
	child := children[r.IntRange(0, len(children))]
	outcome, err := tree.Simulate(child, r)
	if err != nil {
		return err
	}
	tree.Backpropagate(child, outcome)
	return nil
}
