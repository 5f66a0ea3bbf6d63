package mcts

// NodeID indexes a node inside its tree's arena. Ids are stable for the
// lifetime of the tree and never reused.
type NodeID int32

const (
	// RootID is the arena index of every tree's root node.
	RootID NodeID = 0

	// noParent marks the parent slot of the root.
	noParent NodeID = -1
)

// Node is a single vertex of a search tree. Each tree belongs to exactly
// one worker, so the statistics are plain integers without any
// synchronization. Nodes are created with visits == 1, which keeps the
// UCT denominator positive for children that were never rolled out, at
// the cost of a fixed +1 bias every aggregated vote carries equally.
type Node[S any] struct {
	state    S
	children []NodeID
	parent   NodeID
	visits   uint32
	wins     uint32
}

// State returns the game state this node represents.
func (n *Node[S]) State() S { return n.state }

// Visits returns the node's visit count, including the creation baseline.
func (n *Node[S]) Visits() uint32 { return n.visits }

// Wins returns how many backpropagated outcomes this node judged
// favorable. Never exceeds the number of backpropagations through the
// node, so wins <= visits holds at all times.
func (n *Node[S]) Wins() uint32 { return n.wins }

// Children returns the node's child ids in move order. Empty until the
// node is expanded; after expansion it holds one id per legal move.
func (n *Node[S]) Children() []NodeID { return n.children }

// Parent returns the parent id, with ok == false for the root.
func (n *Node[S]) Parent() (id NodeID, ok bool) {
	if n.parent == noParent {
		return 0, false
	}
	return n.parent, true
}
