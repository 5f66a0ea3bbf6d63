package bench

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/rootvote/go-mcts/pkg/mcts"
)

/*
Arena subpackage, plays a series of games between two differently
configured engines and aggregates the outcomes. Each game runs fresh
searches per move, so the agents share nothing but their configuration.
*/

// DrawResult is the winner name recorded for games nobody won.
const DrawResult = "draw"

// Agent names one engine configuration competing in the arena.
type Agent[S mcts.GameState[S, M, O], M mcts.MoveLike, O comparable] struct {
	Name   string
	Search *mcts.MCTS[S, M, O]
}

// GameRecord describes one finished arena game.
type GameRecord struct {
	Game       int
	First      string // agent that moved first
	Winner     string // winning agent, or DrawResult
	Moves      int
	Iterations uint64 // summed over every search of the game
	Duration   time.Duration
}

// Summary aggregates a finished arena run.
type Summary struct {
	Agent1, Agent2 string
	Games          int
	Agent1Wins     int
	Agent2Wins     int
	Draws          int
	FirstMoverWins int

	MeanMoves      float64
	StdDevMoves    float64
	MeanIterations float64 // per move, averaged over games

	Elapsed time.Duration
	Records []GameRecord
}

func (s Summary) String() string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "%d games in %v\n", s.Games, s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "  %-20s %d wins\n", s.Agent1, s.Agent1Wins)
	fmt.Fprintf(&b, "  %-20s %d wins\n", s.Agent2, s.Agent2Wins)
	fmt.Fprintf(&b, "  draws %d, first mover won %d\n", s.Draws, s.FirstMoverWins)
	fmt.Fprintf(&b, "  moves/game %.1f (stddev %.1f), iterations/move %.0f",
		s.MeanMoves, s.StdDevMoves, s.MeanIterations)
	return b.String()
}

// Arena plays NGames between two agents from the Initial position,
// alternating who moves first game by game so a first mover advantage
// cannot skew the tally. Games are split over NThreads parallel workers.
type Arena[S mcts.GameState[S, M, O], M mcts.MoveLike, O comparable] struct {
	Initial  S
	Agent1   Agent[S, M, O]
	Agent2   Agent[S, M, O]
	NGames   int
	NThreads int

	// OnGame, when set, observes every finished game from the worker
	// that played it, so it must be safe for concurrent calls.
	OnGame func(GameRecord)

	ctx context.Context
}

// NewArena pairs two agents on a starting position with the same
// defaults the engine uses for quick experiments: 100 games on 2
// workers.
func NewArena[S mcts.GameState[S, M, O], M mcts.MoveLike, O comparable](
	initial S, agent1, agent2 Agent[S, M, O],
) *Arena[S, M, O] {
	return &Arena[S, M, O]{
		Initial:  initial,
		Agent1:   agent1,
		Agent2:   agent2,
		NGames:   100,
		NThreads: 2,
		ctx:      context.Background(),
	}
}

// WithContext makes the arena abort between moves once ctx is done.
func (a *Arena[S, M, O]) WithContext(ctx context.Context) *Arena[S, M, O] {
	a.ctx = ctx
	return a
}

// Run plays out the whole series and returns the aggregated summary.
// The first game error aborts the run.
func (a *Arena[S, M, O]) Run() (Summary, error) {
	started := time.Now()
	games := max(1, a.NGames)
	threads := max(1, a.NThreads)

	log.Info().Msgf("starting arena %s vs %s: %d games on %d workers",
		a.Agent1.Name, a.Agent2.Name, games, threads)

	// Distribute the games evenly, the first workers picking up the
	// remainder.
	records := make([]GameRecord, games)
	perWorker := games / threads
	rest := games % threads

	g, ctx := errgroup.WithContext(a.ctx)
	next := 0
	for w := 0; w < threads; w++ {
		count := perWorker
		if w < rest {
			count++
		}
		first, past := next, next+count
		next = past

		g.Go(func() error {
			for i := first; i < past; i++ {
				rec, err := a.playGame(ctx, i)
				if err != nil {
					return err
				}
				records[i] = rec
				if a.OnGame != nil {
					a.OnGame(rec)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return a.summarize(records, time.Since(started)), nil
}

// playGame plays one game between the two agents, the even games led by
// Agent1 and the odd ones by Agent2.
func (a *Arena[S, M, O]) playGame(ctx context.Context, game int) (GameRecord, error) {
	mover, next := a.Agent1, a.Agent2
	if game%2 == 1 {
		mover, next = next, mover
	}

	rec := GameRecord{Game: game, First: mover.Name, Winner: DrawResult}
	started := time.Now()

	state := a.Initial
	prev := state
	for {
		if _, done := state.TerminalOutcome(); done {
			break
		}
		if err := ctx.Err(); err != nil {
			return rec, err
		}

		res, err := mover.Search.Search(state).Join()
		if err != nil {
			return rec, fmt.Errorf("game %d, move %d (%s): %w", game, rec.Moves+1, mover.Name, err)
		}

		prev = state
		state = state.ApplyMove(res.BestMove)
		rec.Moves++
		rec.Iterations += res.Iterations
		mover, next = next, mover
	}

	// After the last swap, next is the agent that made the final move.
	// The terminal state judges for that agent, its parent for the
	// other; neither judging favorable means a draw.
	if outcome, done := state.TerminalOutcome(); done && rec.Moves > 0 {
		switch {
		case state.TerminalIsWin(outcome):
			rec.Winner = next.Name
		case prev.TerminalIsWin(outcome):
			rec.Winner = mover.Name
		}
	}
	rec.Duration = time.Since(started)

	log.Debug().Msgf("completed game %d: winner=%s moves=%d", game, rec.Winner, rec.Moves)
	return rec, nil
}

func (a *Arena[S, M, O]) summarize(records []GameRecord, elapsed time.Duration) Summary {
	s := Summary{
		Agent1:  a.Agent1.Name,
		Agent2:  a.Agent2.Name,
		Games:   len(records),
		Elapsed: elapsed,
		Records: records,
	}

	moves := make([]float64, 0, len(records))
	iterations := make([]float64, 0, len(records))
	for _, rec := range records {
		switch rec.Winner {
		case s.Agent1:
			s.Agent1Wins++
		case s.Agent2:
			s.Agent2Wins++
		default:
			s.Draws++
		}
		if rec.Winner != DrawResult && rec.Winner == rec.First {
			s.FirstMoverWins++
		}
		moves = append(moves, float64(rec.Moves))
		if rec.Moves > 0 {
			iterations = append(iterations, float64(rec.Iterations)/float64(rec.Moves))
		}
	}

	s.MeanMoves = stat.Mean(moves, nil)
	if len(iterations) > 0 {
		s.MeanIterations = stat.Mean(iterations, nil)
	}
	if len(moves) > 1 {
		s.StdDevMoves = stat.StdDev(moves, nil)
	}

	log.Info().Msgf("arena finished: %s %d, %s %d, draws %d",
		s.Agent1, s.Agent1Wins, s.Agent2, s.Agent2Wins, s.Draws)
	return s
}
