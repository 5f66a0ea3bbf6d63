package mcts

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoLegalMoves reports a contract violation by the searched game: a
// state that claims not to be terminal produced an empty move list. The
// worker that hits it aborts its search.
var ErrNoLegalMoves = errors.New("mcts: non-terminal state has no legal moves")

// Tree is the arena holding one worker's search tree. Index 0 is the
// root, the arena only grows, and statistics change solely through
// Backpropagate, so everything stays single threaded.
type Tree[S GameState[S, M, O], M MoveLike, O comparable] struct {
	nodes       []Node[S]
	exploration float64
}

// NewTree builds a tree containing only the root state.
func NewTree[S GameState[S, M, O], M MoveLike, O comparable](root S, exploration float64) *Tree[S, M, O] {
	t := &Tree[S, M, O]{
		nodes:       make([]Node[S], 0, 128),
		exploration: exploration,
	}
	t.add(root, noParent)
	return t
}

func (t *Tree[S, M, O]) add(state S, parent NodeID) NodeID {
	t.nodes = append(t.nodes, Node[S]{
		state:  state,
		parent: parent,
		visits: 1,
	})
	return NodeID(len(t.nodes) - 1)
}

// Size returns the number of nodes in the arena.
func (t *Tree[S, M, O]) Size() int { return len(t.nodes) }

// At returns the node stored under id. The pointer is valid until the
// next expansion grows the arena.
func (t *Tree[S, M, O]) At(id NodeID) *Node[S] { return &t.nodes[id] }

// Select walks from the root towards the most promising leaf, descending
// to the child with the highest UCT score at every expanded node. It
// stops at the first node without children, either an unexpanded leaf or
// a terminal state, so it terminates on any finite tree.
func (t *Tree[S, M, O]) Select() NodeID {
	id := RootID
	for len(t.nodes[id].children) > 0 {
		id = t.bestChild(id)
	}
	return id
}

// bestChild picks the child of parent maximizing the UCT score. The
// running maximum starts below every reachable score, so the first child
// wins exact ties.
func (t *Tree[S, M, O]) bestChild(parent NodeID) NodeID {
	p := &t.nodes[parent]
	lnParentVisits := math.Log(float64(p.visits))

	best := math.Inf(-1)
	bestID := p.children[0]
	for _, id := range p.children {
		if score := t.uct(id, lnParentVisits); score > best {
			best = score
			bestID = id
		}
	}
	return bestID
}

// uct scores a child as win rate plus the exploration term. visits >= 1
// by construction, so both the division and the logarithm are defined.
func (t *Tree[S, M, O]) uct(id NodeID, lnParentVisits float64) float64 {
	n := &t.nodes[id]
	winRate := float64(n.wins) / float64(n.visits)
	return winRate + t.exploration*math.Sqrt(lnParentVisits/float64(n.visits))
}

// Expand creates one child per legal move of the node, attaches them in
// move order and returns their ids. The node must be unexpanded and
// non-terminal.
func (t *Tree[S, M, O]) Expand(id NodeID) ([]NodeID, error) {
	state := t.nodes[id].state
	moves := state.AllMoves()
	if len(moves) == 0 {
		return nil, fmt.Errorf("expand node %d: %w", id, ErrNoLegalMoves)
	}

	children := make([]NodeID, len(moves))
	for i, m := range moves {
		children[i] = t.add(state.ApplyMove(m), id)
	}
	t.nodes[id].children = children
	return children, nil
}

// Simulate plays uniformly random moves from the node's state until the
// game finishes and returns the terminal outcome. The tree itself is not
// touched.
func (t *Tree[S, M, O]) Simulate(id NodeID, r Rand) (O, error) {
	state := t.nodes[id].state
	for {
		if outcome, ok := state.TerminalOutcome(); ok {
			return outcome, nil
		}
		m, ok := randomMove[S, M, O](state, r)
		if !ok {
			var zero O
			return zero, fmt.Errorf("simulate from node %d: %w", id, ErrNoLegalMoves)
		}
		state = state.ApplyMove(m)
	}
}

// Backpropagate walks from the node up to the root, incrementing visits
// on the whole path and wins on the states that judge the outcome
// favorable by their own perspective.
func (t *Tree[S, M, O]) Backpropagate(id NodeID, outcome O) {
	for {
		n := &t.nodes[id]
		n.visits++
		if n.state.TerminalIsWin(outcome) {
			n.wins++
		}
		if n.parent == noParent {
			return
		}
		id = n.parent
	}
}

// RootVotes returns the visit counts of the root's children in move
// order: this worker's contribution to the aggregated vote. Nil when the
// root was never expanded.
func (t *Tree[S, M, O]) RootVotes() []uint32 {
	children := t.nodes[RootID].children
	if len(children) == 0 {
		return nil
	}
	votes := make([]uint32, len(children))
	for i, id := range children {
		votes[i] = t.nodes[id].visits
	}
	return votes
}
