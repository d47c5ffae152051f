package bsp

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"mapforge/pkg/engine/geom"
)

// SplitPreference picks the axis when both axes can be cut.
type SplitPreference int

const (
	Alternate        SplitPreference = iota // vertical on even depths, horizontal on odd
	PreferHorizontal                        // always horizontal
	PreferVertical                          // always vertical
	Random                                  // one rng draw
	Balanced                                // cut across the longer side
)

var preferenceNames = map[SplitPreference]string{
	Alternate:        "alternate",
	PreferHorizontal: "horizontal",
	PreferVertical:   "vertical",
	Random:           "random",
	Balanced:         "balanced",
}

func (p SplitPreference) String() string {
	if name, ok := preferenceNames[p]; ok {
		return name
	}
	return fmt.Sprintf("SplitPreference(%d)", int(p))
}

// ParseSplitPreference accepts the names produced by String.
func ParseSplitPreference(s string) (SplitPreference, error) {
	for p, name := range preferenceNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown split preference %q", s)
}

func (p SplitPreference) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *SplitPreference) UnmarshalText(text []byte) error {
	v, err := ParseSplitPreference(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Params controls splitting.
type Params struct {
	MinRoomSize       int             `yaml:"min_room_size"`
	MaxDepth          int             `yaml:"max_depth"`
	Preference        SplitPreference `yaml:"split_preference"`
	PositionVariation float64         `yaml:"position_variation"` // fraction of the legal range, 0..1
	StopChance        float64         `yaml:"stop_chance"`        // per-node chance to stop early below the root
}

// DefaultParams suits maps of roughly 40×40 to 120×80 tiles.
func DefaultParams() Params {
	return Params{
		MinRoomSize:       6,
		MaxDepth:          5,
		Preference:        Balanced,
		PositionVariation: 0.6,
		StopChance:        0.1,
	}
}

// Split cuts a leaf into two children. It returns false and leaves the node
// untouched when the node is internal, too deep, too small on both axes, or
// when the stop draw elects to stop.
//
// Random draws happen in a fixed order: stop check, axis (only for the
// Random preference with both axes legal), then position.
func Split(n *Node, p Params, rng *rand.Rand) bool {
	if n == nil || !n.IsLeaf() || n.Depth >= p.MaxDepth {
		return false
	}
	minSize := max(p.MinRoomSize, 1)
	canH := n.Bounds.Height >= 2*minSize
	canV := n.Bounds.Width >= 2*minSize
	if !canH && !canV {
		return false
	}

	if n.Depth > 0 && p.StopChance > 0 && rng.Float64() < p.StopChance {
		return false
	}

	axis := chooseAxis(n, p.Preference, canH, canV, rng)

	length := n.Bounds.Width
	if axis == Horizontal {
		length = n.Bounds.Height
	}
	lo, hi := minSize, length-minSize
	if lo > hi {
		return false
	}

	offset := length / 2
	if p.PositionVariation > 0 && hi > lo {
		half := float64(hi-lo) / 2
		offset += int(math.Round((rng.Float64()*2 - 1) * p.PositionVariation * half))
	}
	offset = min(max(offset, lo), hi)

	b := n.Bounds
	var first, second geom.Rect
	if axis == Horizontal {
		first = geom.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: offset}
		second = geom.Rect{X: b.X, Y: b.Y + offset, Width: b.Width, Height: b.Height - offset}
		n.SplitPosition = b.Y + offset
	} else {
		first = geom.Rect{X: b.X, Y: b.Y, Width: offset, Height: b.Height}
		second = geom.Rect{X: b.X + offset, Y: b.Y, Width: b.Width - offset, Height: b.Height}
		n.SplitPosition = b.X + offset
	}

	n.SplitAxis = axis
	n.Left = &Node{Bounds: first, Depth: n.Depth + 1, Parent: n}
	n.Right = &Node{Bounds: second, Depth: n.Depth + 1, Parent: n}
	return true
}

func chooseAxis(n *Node, pref SplitPreference, canH, canV bool, rng *rand.Rand) Axis {
	switch {
	case canH && !canV:
		return Horizontal
	case canV && !canH:
		return Vertical
	}

	switch pref {
	case PreferHorizontal:
		return Horizontal
	case PreferVertical:
		return Vertical
	case Random:
		if rng.Intn(2) == 0 {
			return Horizontal
		}
		return Vertical
	case Balanced:
		if n.Bounds.Height > n.Bounds.Width {
			return Horizontal
		}
		return Vertical
	default:
		if n.Depth%2 == 0 {
			return Vertical
		}
		return Horizontal
	}
}

// SplitRecursive splits n, then its left subtree, then its right subtree,
// until no split succeeds. It returns the number of splits made.
func SplitRecursive(n *Node, p Params, rng *rand.Rand) int {
	if !Split(n, p, rng) {
		return 0
	}
	left := SplitRecursive(n.Left, p, rng)
	right := SplitRecursive(n.Right, p, rng)
	return 1 + left + right
}

// Build partitions bounds and returns the root.
func Build(bounds geom.Rect, p Params, rng *rand.Rand) *Node {
	root := NewRoot(bounds)
	SplitRecursive(root, p, rng)
	return root
}
