package mcts

// MoveLike is the constraint on move types. Moves are stored in the
// canonical root move list and compared only for slice indexing, so any
// comparable value type will do (ints, small structs, enums).
type MoveLike comparable

// GameState is the contract a game implements to be searchable.
//
// S is the implementing type itself, M its move type and O its terminal
// outcome descriptor. States are treated as immutable values: ApplyMove
// returns the successor instead of mutating the receiver, which is what
// lets every worker clone the root for free and share nothing.
type GameState[S any, M MoveLike, O comparable] interface {
	// AllMoves returns every legal move of this state. Equal states must
	// produce the same moves in the same order on every call: the engine
	// aligns aggregated vote vectors by position and does not re-validate
	// the ordering.
	//
	// A non-terminal state returning no moves is a contract violation and
	// surfaces as ErrNoLegalMoves.
	AllMoves() []M

	// ApplyMove returns the state reached by playing m. The receiver must
	// stay untouched.
	ApplyMove(m M) S

	// TerminalOutcome reports the outcome of a finished game. For states
	// where play continues, ok is false and the outcome value is ignored.
	TerminalOutcome() (outcome O, ok bool)

	// TerminalIsWin reports whether outcome is favorable from this state's
	// perspective, meaning the player whose move led into this state. The
	// judgement has to alternate along the game path: an outcome favorable
	// to a state must be unfavorable to its parent, or backpropagation
	// will steer the search toward losing lines.
	TerminalIsWin(outcome O) bool
}

// RandomMover is an optional extension of GameState. When the searched
// state implements it, rollouts call RandomMove instead of materializing
// the full move list every step, which is worth it for games that can
// sample a legal move directly. ok follows the AllMoves contract: false
// only when the state has no legal moves.
type RandomMover[M MoveLike] interface {
	RandomMove(r Rand) (m M, ok bool)
}

// randomMove picks one legal move uniformly, through RandomMover when the
// state provides it.
func randomMove[S GameState[S, M, O], M MoveLike, O comparable](state S, r Rand) (M, bool) {
	if rm, ok := any(state).(RandomMover[M]); ok {
		return rm.RandomMove(r)
	}
	moves := state.AllMoves()
	if len(moves) == 0 {
		var zero M
		return zero, false
	}
	return moves[r.IntRange(0, len(moves))], true
}
