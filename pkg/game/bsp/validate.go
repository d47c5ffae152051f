package bsp

import (
	"errors"
	"fmt"
)

// Validate checks every node of the tree: internal nodes have two children
// and a cut strictly inside their bounds, children tile their parent, leaves
// have no children, and rooms lie within their leaf. All violations are
// returned joined; nil means the tree is sound.
func Validate(root *Node) error {
	if root == nil {
		return errors.New("bsp: nil root")
	}
	var errs []error
	root.Walk(func(n *Node) bool {
		if !n.Bounds.Valid() {
			errs = append(errs, fmt.Errorf("bsp: node %s has empty bounds", n.Bounds))
		}
		if n.IsLeaf() {
			if n.Room != nil && !n.Bounds.ContainsRect(*n.Room) {
				errs = append(errs, fmt.Errorf("bsp: room %s outside leaf %s", *n.Room, n.Bounds))
			}
			return true
		}

		if n.Left == nil || n.Right == nil {
			errs = append(errs, fmt.Errorf("bsp: internal node %s has one child", n.Bounds))
			return true
		}
		if n.Room != nil {
			errs = append(errs, fmt.Errorf("bsp: internal node %s holds a room", n.Bounds))
		}
		errs = append(errs, checkCut(n)...)
		for _, c := range []*Node{n.Left, n.Right} {
			if c.Parent != n {
				errs = append(errs, fmt.Errorf("bsp: child %s has wrong parent", c.Bounds))
			}
			if c.Depth != n.Depth+1 {
				errs = append(errs, fmt.Errorf("bsp: child %s depth %d under depth %d", c.Bounds, c.Depth, n.Depth))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

func checkCut(n *Node) []error {
	b, l, r := n.Bounds, n.Left.Bounds, n.Right.Bounds
	var errs []error
	switch n.SplitAxis {
	case Horizontal:
		if n.SplitPosition <= b.Y || n.SplitPosition >= b.Bottom() {
			errs = append(errs, fmt.Errorf("bsp: cut y=%d not inside %s", n.SplitPosition, b))
		}
		if l.Y != b.Y || l.Bottom() != n.SplitPosition || r.Y != n.SplitPosition || r.Bottom() != b.Bottom() ||
			l.X != b.X || r.X != b.X || l.Width != b.Width || r.Width != b.Width {
			errs = append(errs, fmt.Errorf("bsp: children of %s do not tile it at y=%d", b, n.SplitPosition))
		}
	case Vertical:
		if n.SplitPosition <= b.X || n.SplitPosition >= b.Right() {
			errs = append(errs, fmt.Errorf("bsp: cut x=%d not inside %s", n.SplitPosition, b))
		}
		if l.X != b.X || l.Right() != n.SplitPosition || r.X != n.SplitPosition || r.Right() != b.Right() ||
			l.Y != b.Y || r.Y != b.Y || l.Height != b.Height || r.Height != b.Height {
			errs = append(errs, fmt.Errorf("bsp: children of %s do not tile it at x=%d", b, n.SplitPosition))
		}
	default:
		errs = append(errs, fmt.Errorf("bsp: internal node %s has no split axis", b))
	}
	return errs
}
