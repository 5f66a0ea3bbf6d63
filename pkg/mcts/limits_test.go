package mcts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimitsChainedSetters(t *testing.T) {
	l := DefaultLimits().
		SetMovetime(250).
		SetIterations(10000).
		SetThreads(0)

	require.Equal(t, 250, l.Movetime)
	require.EqualValues(t, 10000, l.Iterations)
	require.Equal(t, 1, l.NThreads, "thread count is clamped to at least 1")

	l.SetMovetime(-5)
	require.Zero(t, l.Movetime)

	require.Contains(t, l.String(), `"Iterations":10000`)
}

func TestIterationBudgetFloorSplit(t *testing.T) {
	cond := IterationBudget(10)

	require.False(t, cond(4, 1))
	require.True(t, cond(4, 2), "floor(10/4) is 2 iterations per worker")
	require.False(t, cond(3, 2))
	require.True(t, cond(3, 3))
	require.False(t, cond(1, 9))
	require.True(t, cond(1, 10))
}

func TestDeadlineCondition(t *testing.T) {
	require.True(t, DeadlineCondition(time.Now().Add(-time.Millisecond))(1, 0))
	require.False(t, DeadlineCondition(time.Now().Add(time.Hour))(1, 1<<30))
}

func TestEndConditionPicksFirstFiring(t *testing.T) {
	// With a generous movetime the iteration budget fires first.
	l := DefaultLimits().SetMovetime(3_600_000).SetIterations(4).SetThreads(2)
	cond := l.endCondition(time.Now())

	require.False(t, cond(2, 1))
	require.True(t, cond(2, 2))

	// With only a movetime, an expired deadline stops immediately.
	expired := DefaultLimits().SetMovetime(1)
	require.True(t, expired.endCondition(time.Now().Add(-time.Second))(1, 1))
}

func TestEndConditionDefaultsToMovetime(t *testing.T) {
	l := DefaultLimits()

	require.False(t, l.endCondition(time.Now())(1, 1<<30),
		"fresh search without limits must keep running")
	require.True(t, l.endCondition(time.Now().Add(-2*time.Second))(1, 1),
		"the fallback movetime must stop an unlimited search")
}
