package packer

import "fmt"

// Node is a rectangular region of the canvas.
//
// An unused node is always a leaf and represents free space. A used node has
// exactly two children, Down and Right, which partition its free area. Once a
// node becomes a child of another node it is never reassigned.
type Node struct {
	X, Y int // origin in pixels
	W, H int // extent in pixels

	Used  bool
	Down  *Node
	Right *Node
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Down == nil && n.Right == nil
}

// Area returns W*H.
func (n *Node) Area() int {
	return n.W * n.H
}

// Overlaps reports whether the rectangles of n and o intersect.
// Zero-area rectangles never overlap anything.
func (n *Node) Overlaps(o *Node) bool {
	if n.W <= 0 || n.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return n.X < o.X+o.W && o.X < n.X+n.W &&
		n.Y < o.Y+o.H && o.Y < n.Y+n.H
}

// String returns a string representation of the node.
func (n *Node) String() string {
	return fmt.Sprintf("Node(%d,%d %dx%d used=%t)", n.X, n.Y, n.W, n.H, n.Used)
}

// findNode searches the tree rooted at n for a free leaf that can hold a
// w x h rectangle. Right subtrees are searched before down subtrees.
func findNode(n *Node, w, h int) *Node {
	if n == nil {
		return nil
	}
	if n.Used {
		if found := findNode(n.Right, w, h); found != nil {
			return found
		}
		return findNode(n.Down, w, h)
	}
	if w <= n.W && h <= n.H {
		return n
	}
	return nil
}

// splitNode marks n as used and splits its remaining area into a down strip
// (full width, below the placed rectangle) and a right strip (beside it, at
// the placed rectangle's height).
//
// The returned node describes the placement: n's origin with the placed
// rectangle's own size. It is not part of the tree.
func splitNode(n *Node, w, h int) *Node {
	n.Used = true
	n.Down = &Node{X: n.X, Y: n.Y + h, W: n.W, H: n.H - h}
	n.Right = &Node{X: n.X + w, Y: n.Y, W: n.W - w, H: h}
	return &Node{X: n.X, Y: n.Y, W: w, H: h, Used: true}
}
