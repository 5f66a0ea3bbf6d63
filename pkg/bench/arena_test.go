package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rootvote/go-mcts/pkg/mcts"
)

// Subtraction race used as the arena test game: players alternately take
// 1..3 tokens, whoever takes the last one wins. No draws are possible.

type countdownMove int

type countdownOutcome int

const (
	countdownNone countdownOutcome = iota
	countdownFirstWins
	countdownSecondWins
)

type countdownState struct {
	remaining int
	firstTurn bool
}

func (s countdownState) AllMoves() []countdownMove {
	n := min(3, s.remaining)
	moves := make([]countdownMove, 0, n)
	for take := 1; take <= n; take++ {
		moves = append(moves, countdownMove(take))
	}
	return moves
}

func (s countdownState) ApplyMove(m countdownMove) countdownState {
	return countdownState{remaining: s.remaining - int(m), firstTurn: !s.firstTurn}
}

func (s countdownState) TerminalOutcome() (countdownOutcome, bool) {
	if s.remaining > 0 {
		return countdownNone, false
	}
	if s.firstTurn {
		return countdownSecondWins, true
	}
	return countdownFirstWins, true
}

func (s countdownState) TerminalIsWin(o countdownOutcome) bool {
	switch o {
	case countdownFirstWins:
		return !s.firstTurn
	case countdownSecondWins:
		return s.firstTurn
	}
	return false
}

func testAgent(name string, exploration float64) Agent[countdownState, countdownMove, countdownOutcome] {
	return Agent[countdownState, countdownMove, countdownOutcome]{
		Name: name,
		Search: mcts.New[countdownState, countdownMove, countdownOutcome]().
			SetLimits(mcts.DefaultLimits().SetIterations(200).SetThreads(1)).
			SetExplorationParam(exploration),
	}
}

func TestMain(m *testing.M) {
	mcts.SetSeedGeneratorFn(func() int64 {
		return 42
	})
	fmt.Printf("Using seed %d\n", mcts.SeedGeneratorFn())
	zerolog.SetGlobalLevel(zerolog.Disabled)

	os.Exit(m.Run())
}

func TestArenaPlaysAllGames(t *testing.T) {
	arena := NewArena(countdownState{remaining: 6, firstTurn: true},
		testAgent("sqrt2", mcts.DefaultExplorationParam),
		testAgent("narrow", 0.4),
	)
	arena.NGames = 4
	arena.NThreads = 2

	sum, err := arena.Run()
	require.NoError(t, err)

	require.Equal(t, 4, sum.Games)
	require.Equal(t, 4, sum.Agent1Wins+sum.Agent2Wins+sum.Draws)
	require.Zero(t, sum.Draws, "the subtraction race cannot draw")
	require.Len(t, sum.Records, 4)

	for i, rec := range sum.Records {
		require.Equal(t, i, rec.Game)
		require.Positive(t, rec.Moves)
		require.Positive(t, rec.Iterations)
		require.Contains(t, []string{"sqrt2", "narrow"}, rec.Winner)

		// First mover alternates by game parity.
		first := "sqrt2"
		if i%2 == 1 {
			first = "narrow"
		}
		require.Equal(t, first, rec.First)
	}

	require.Positive(t, sum.MeanMoves)
	require.Positive(t, sum.MeanIterations)

	t.Logf("summary:\n%s", sum)
}

func TestArenaOnGameConcurrency(t *testing.T) {
	// With more than one worker the OnGame callback must arrive once per
	// game; the callback itself synchronizes.
	arena := NewArena(countdownState{remaining: 6, firstTurn: true},
		testAgent("a", 1.0),
		testAgent("b", 1.0),
	)
	arena.NGames = 6
	arena.NThreads = 3

	seen := make(chan GameRecord, arena.NGames)
	arena.OnGame = func(rec GameRecord) { seen <- rec }

	_, err := arena.Run()
	require.NoError(t, err)
	require.Len(t, seen, 6)
}

func TestArenaForcedWin(t *testing.T) {
	// From 1 token there is a single move and the first mover always
	// wins, so alternating the lead splits the series evenly.
	arena := NewArena(countdownState{remaining: 1, firstTurn: true},
		testAgent("lead", 1.0),
		testAgent("trail", 1.0),
	)
	arena.NGames = 2
	arena.NThreads = 1

	sum, err := arena.Run()
	require.NoError(t, err)
	require.Equal(t, 1, sum.Agent1Wins)
	require.Equal(t, 1, sum.Agent2Wins)
	require.Equal(t, 2, sum.FirstMoverWins)
	require.InDelta(t, 1.0, sum.MeanMoves, 1e-9)
}

func TestArenaContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	arena := NewArena(countdownState{remaining: 21, firstTurn: true},
		testAgent("a", 1.0),
		testAgent("b", 1.0),
	).WithContext(ctx)

	_, err := arena.Run()
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriterStoresRunFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	w, err := NewWriter(dir)
	require.NoError(t, err)
	require.Equal(t, dir, w.Dir())

	records := []GameRecord{
		{Game: 0, First: "a", Winner: "a", Moves: 5, Iterations: 1000},
		{Game: 1, First: "b", Winner: "a", Moves: 6, Iterations: 1200},
	}
	require.NoError(t, w.WriteGameRecords(records))
	require.NoError(t, w.WriteSummary(Summary{
		Agent1: "a", Agent2: "b", Games: 2, Agent1Wins: 2,
	}))

	f, err := os.Open(filepath.Join(dir, "games.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per game")
	require.Equal(t, "game", rows[0][0])
	require.Equal(t, []string{"1", "b", "a", "6", "1200", "0"}, rows[2])
}
