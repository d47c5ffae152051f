// Package bsp partitions a rectangle into a binary tree whose leaves host rooms.
package bsp

import (
	"fmt"
	"strings"

	"mapforge/pkg/engine/geom"
)

// Axis is the orientation of the cut line of an internal node.
type Axis int

const (
	NoAxis     Axis = iota // leaves
	Horizontal             // horizontal cut, children stacked top (Left) and bottom (Right)
	Vertical               // vertical cut, children side by side left (Left) and right (Right)
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "none"
	}
}

// Node is one partition of the tree. A node is either a leaf (no children,
// optional Room) or internal (two children, no Room).
type Node struct {
	Bounds geom.Rect
	Depth  int

	SplitAxis     Axis
	SplitPosition int // absolute x (Vertical) or y (Horizontal) of the cut

	Left  *Node
	Right *Node

	// Parent is a non-owning back-pointer; nil at the root.
	Parent *Node `json:"-"`

	Room *geom.Rect
}

// NewRoot returns a leaf covering bounds at depth 0.
func NewRoot(bounds geom.Rect) *Node {
	return &Node{Bounds: bounds}
}

func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	n.Left.Walk(fn)
	n.Right.Walk(fn)
}

// Leaves returns the leaves from left to right.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Walk(func(c *Node) bool {
		if c.IsLeaf() {
			leaves = append(leaves, c)
		}
		return true
	})
	return leaves
}

// Rooms returns the room rectangles of the leaves that have one, left to right.
func (n *Node) Rooms() []geom.Rect {
	var rooms []geom.Rect
	for _, leaf := range n.Leaves() {
		if leaf.Room != nil {
			rooms = append(rooms, *leaf.Room)
		}
	}
	return rooms
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// MaxDepth returns the depth of the deepest node in the subtree.
func (n *Node) MaxDepth() int {
	deepest := 0
	n.Walk(func(c *Node) bool {
		deepest = max(deepest, c.Depth)
		return true
	})
	return deepest
}

// String renders the subtree one node per line, indented by depth.
func (n *Node) String() string {
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		b.WriteString(strings.Repeat("  ", c.Depth))
		if c.IsLeaf() {
			fmt.Fprintf(&b, "leaf %s", c.Bounds)
			if c.Room != nil {
				fmt.Fprintf(&b, " room %s", *c.Room)
			}
		} else {
			fmt.Fprintf(&b, "%s@%d %s", c.SplitAxis, c.SplitPosition, c.Bounds)
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
