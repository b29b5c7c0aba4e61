package structure

// Tree is the result of a successful parse. It has exactly one root of kind
// KindDocument.
type Tree struct {
	root *Node
}

// Root returns the document node.
func (t *Tree) Root() *Node { return t.root }

// String renders the tree in bracket notation.
func (t *Tree) String() string { return t.root.String() }

// Walk visits every node of the tree in pre-order.
func (t *Tree) Walk(fn WalkFunc) error { return Walk(t.root, fn) }

// Count returns the number of nodes of the given kind.
func (t *Tree) Count(kind Kind) int {
	count := 0
	_ = Walk(t.root, func(n *Node) error {
		if n.kind == kind {
			count++
		}
		return nil
	})
	return count
}

// Depth returns the deepest block nesting in the tree. A tree without
// IF or WHILE nodes has depth 0.
func (t *Tree) Depth() int {
	return blockDepth(t.root)
}

func blockDepth(n *Node) int {
	deepest := 0
	for _, child := range n.children {
		if d := blockDepth(child); d > deepest {
			deepest = d
		}
	}

	if n.IsBlock() {
		return deepest + 1
	}

	return deepest
}

// Equal reports whether two trees are isomorphic.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.root.Equal(other.root)
}
