package level

import (
	"fmt"

	"mapforge/pkg/engine/geom"
)

// Corridor widths in tiles.
const (
	MinCorridorWidth         = 1
	MaxCorridorWidth         = 5
	RecommendedCorridorWidth = 3
)

// NoCorridor marks a corridor that joins rooms only.
const NoCorridor = -1

// CorridorShape is derived from the number of turns in a path.
type CorridorShape int

const (
	ShapePoint    CorridorShape = iota // single tile
	ShapeStraight                      // no turns
	ShapeL                             // one turn
	ShapeZ                             // two turns
	ShapeComplex                       // three or more
)

func (s CorridorShape) String() string {
	switch s {
	case ShapePoint:
		return "point"
	case ShapeStraight:
		return "straight"
	case ShapeL:
		return "L"
	case ShapeZ:
		return "Z"
	default:
		return "complex"
	}
}

// ClassifyShape counts direction changes along path.
func ClassifyShape(path []geom.Point) CorridorShape {
	if len(path) <= 1 {
		return ShapePoint
	}
	turns := 0
	prev := path[1].Sub(path[0])
	for i := 2; i < len(path); i++ {
		step := path[i].Sub(path[i-1])
		if step != prev {
			turns++
		}
		prev = step
	}
	switch turns {
	case 0:
		return ShapeStraight
	case 1:
		return ShapeL
	case 2:
		return ShapeZ
	default:
		return ShapeComplex
	}
}

// Tier records which generation pass produced a corridor.
type Tier int

const (
	Primary   Tier = iota // core-room spanning tree
	Secondary             // remaining rooms to the primary network
	Fallback              // forced connection for an unreached room
)

func (t Tier) String() string {
	switch t {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Fallback:
		return "fallback"
	default:
		return fmt.Sprintf("tier_%d", int(t))
	}
}

// Corridor is a carved path between two rooms.
type Corridor struct {
	ID    int `json:"id"`
	RoomA int `json:"room_a"`
	RoomB int `json:"room_b"`
	// JoinsCorridor is the corridor this one ends on, or NoCorridor when it
	// ends on RoomB directly.
	JoinsCorridor int `json:"joins_corridor"`

	Start geom.Point    `json:"start"`
	End   geom.Point    `json:"end"`
	Path  []geom.Point  `json:"path"`
	Width int           `json:"width"`
	Shape CorridorShape `json:"shape"`
	Tier  Tier          `json:"tier"`

	// Relaxed is set when the corridor was carved with obstacle rules
	// loosened to guarantee connectivity.
	Relaxed bool `json:"relaxed,omitempty"`
}

// Length is the number of path tiles.
func (c *Corridor) Length() int {
	return len(c.Path)
}

// Footprint returns every tile within Width/2 (Chebyshev) of a path tile,
// clipped to bounds, in first-seen order.
func (c *Corridor) Footprint(bounds geom.Rect) []geom.Point {
	return Inflate(c.Path, c.Width/2, bounds)
}

// Inflate expands path by radius tiles in every direction, clipped to bounds.
func Inflate(path []geom.Point, radius int, bounds geom.Rect) []geom.Point {
	seen := make(map[geom.Point]bool, len(path)*(2*radius+1))
	var out []geom.Point
	for _, p := range path {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				q := geom.Point{X: p.X + dx, Y: p.Y + dy}
				if !bounds.Contains(q) || seen[q] {
					continue
				}
				seen[q] = true
				out = append(out, q)
			}
		}
	}
	return out
}
