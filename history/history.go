// Package history keeps the in-memory tree of moves played in a game.
// The path from the root to the current node is the game so far; taking a
// move back keeps it as a branch that can be replayed.
package history

import "termtactoe/types"

// Node is a single position in the move tree.
type Node struct {
	Move     types.Move // NoMove for root
	Side     types.Side // side that played Move
	Parent   *Node
	Children []*Node // most recent branch last
}

// Tree tracks the moves of one game.
type Tree struct {
	Root    *Node
	Current *Node
}

// NewTree creates a new tree with an empty root node.
func NewTree() *Tree {
	root := &Node{Move: types.NoMove}
	return &Tree{Root: root, Current: root}
}

// AddMove adds a child move to the current node and advances to it.
// If a child with the same move already exists, navigates to it instead of creating a duplicate.
func (t *Tree) AddMove(m types.Move, side types.Side) *Node {
	for _, child := range t.Current.Children {
		if child.Move == m && child.Side == side {
			t.Current = child
			return child
		}
	}
	node := &Node{
		Move:   m,
		Side:   side,
		Parent: t.Current,
	}
	t.Current.Children = append(t.Current.Children, node)
	t.Current = node
	return node
}

// Back moves current to its parent. Returns false if already at root.
func (t *Tree) Back() bool {
	if t.Current == t.Root {
		return false
	}
	t.Current = t.Current.Parent
	return true
}

// Next returns the most recent branch below current, or nil.
func (t *Tree) Next() *Node {
	if len(t.Current.Children) == 0 {
		return nil
	}
	return t.Current.Children[len(t.Current.Children)-1]
}

// PathFromRoot returns the nodes from root to current, root excluded.
func (t *Tree) PathFromRoot() []*Node {
	var path []*Node
	node := t.Current
	for node != t.Root {
		path = append(path, node)
		node = node.Parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// NumVariations returns the number of siblings at the current node's level.
// Returns 0 if at root.
func (t *Tree) NumVariations() int {
	if t.Current.Parent == nil {
		return 0
	}
	return len(t.Current.Parent.Children)
}

// VariationIndex returns which child of parent the current node is (0-based).
// Returns -1 if at root.
func (t *Tree) VariationIndex() int {
	if t.Current.Parent == nil {
		return -1
	}
	for i, child := range t.Current.Parent.Children {
		if child == t.Current {
			return i
		}
	}
	return -1
}
