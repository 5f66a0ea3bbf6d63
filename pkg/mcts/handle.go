package mcts

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrTerminalRoot is returned by Join when the searched state was already
// finished, so there is no move to recommend.
var ErrTerminalRoot = errors.New("mcts: root state is terminal")

// BestResult is the aggregated outcome of a finished search.
type BestResult[M MoveLike] struct {
	// BestMove collected the most votes across all workers. On a tie the
	// earliest move in the canonical order wins.
	BestMove M

	// Moves is the canonical root move order, Votes the summed visit
	// counts per move, aligned by index.
	Moves []M
	Votes []uint64

	// Iterations is the sum of every worker's iteration count and Nodes
	// the total number of tree nodes built.
	Iterations uint64
	Nodes      uint64

	// Elapsed spans search start to the finish of the slowest worker.
	Elapsed time.Duration
}

// workerSummary is one worker's report, written exactly once before the
// worker signals the wait group.
type workerSummary struct {
	iterations uint32
	votes      []uint32
	nodes      uint64
	err        error
}

// Handle tracks one running search. Workers finish independently, so the
// handle can be polled with IsFinished and Iterations while the search
// runs; Join waits for every worker and aggregates their votes.
type Handle[M MoveLike] struct {
	moves   []M
	workers int
	started time.Time

	iterations atomic.Uint64
	finished   atomic.Int32
	completed  atomic.Int64 // unix nanos of the last worker's finish
	wg         sync.WaitGroup
	summaries  []workerSummary

	joinOnce sync.Once
	result   BestResult[M]
	err      error
}

func newHandle[M MoveLike](moves []M, workers int) *Handle[M] {
	h := &Handle[M]{
		moves:     moves,
		workers:   workers,
		started:   time.Now(),
		summaries: make([]workerSummary, workers),
	}
	h.wg.Add(workers)
	return h
}

// finish files a worker's summary. The wait group release orders the
// summary write before any read in Join.
func (h *Handle[M]) finish(id int, s workerSummary) {
	h.summaries[id] = s
	if int(h.finished.Add(1)) == h.workers {
		h.completed.Store(time.Now().UnixNano())
	}
	h.wg.Done()
}

// Workers returns the number of search workers.
func (h *Handle[M]) Workers() int { return h.workers }

// Moves returns the canonical root move order captured at search start.
func (h *Handle[M]) Moves() []M { return h.moves }

// Iterations returns the live total of finished iterations across all
// workers. Safe to call while the search runs.
func (h *Handle[M]) Iterations() uint64 { return h.iterations.Load() }

// Elapsed returns the time the search has been running, frozen at the
// finish of the last worker once the search is done.
func (h *Handle[M]) Elapsed() time.Duration {
	if done := h.completed.Load(); done != 0 {
		return time.Duration(done - h.started.UnixNano())
	}
	return time.Since(h.started)
}

// IsFinished reports whether every worker has completed, without
// blocking. A true result means Join returns immediately.
func (h *Handle[M]) IsFinished() bool {
	return int(h.finished.Load()) == h.workers
}

// Join blocks until every worker has finished and returns the aggregated
// result. Any worker failure fails the whole search. Join is idempotent:
// repeated calls return the same result without re-aggregating.
func (h *Handle[M]) Join() (BestResult[M], error) {
	h.joinOnce.Do(func() {
		h.wg.Wait()
		h.result, h.err = aggregate(h.moves, h.summaries)
		h.result.Elapsed = h.Elapsed()

		if h.err == nil {
			log.Debug().
				Uint64("iterations", h.result.Iterations).
				Uint64("nodes", h.result.Nodes).
				Dur("elapsed", h.result.Elapsed).
				Msg("search joined")
		}
	})
	return h.result, h.err
}

// aggregate reduces the worker summaries: iteration counts add up, vote
// vectors add elementwise in canonical move order and the first maximum
// picks the best move.
func aggregate[M MoveLike](moves []M, summaries []workerSummary) (BestResult[M], error) {
	var res BestResult[M]

	for i := range summaries {
		if err := summaries[i].err; err != nil {
			return res, fmt.Errorf("mcts: worker %d: %w", i, err)
		}
	}
	if len(moves) == 0 {
		return res, ErrTerminalRoot
	}

	votes := make([]uint64, len(moves))
	for i := range summaries {
		res.Iterations += uint64(summaries[i].iterations)
		res.Nodes += summaries[i].nodes
		for j, v := range summaries[i].votes {
			votes[j] += uint64(v)
		}
	}

	best := 0
	for j, v := range votes {
		if v > votes[best] {
			best = j
		}
	}

	res.BestMove = moves[best]
	res.Moves = moves
	res.Votes = votes
	return res, nil
}
