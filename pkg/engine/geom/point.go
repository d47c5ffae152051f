package geom

import (
	"fmt"
	"math"
)

// Point is an integer grid coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Manhattan returns |dx| + |dy|.
func (p Point) Manhattan(q Point) int {
	return Abs(p.X-q.X) + Abs(p.Y-q.Y)
}

// Chebyshev returns max(|dx|, |dy|).
func (p Point) Chebyshev(q Point) int {
	return max(Abs(p.X-q.X), Abs(p.Y-q.Y))
}

// Euclidean returns the straight-line distance.
func (p Point) Euclidean(q Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// Octile returns the cost of the cheapest 8-directional walk on an open grid
// when diagonal steps cost √2.
func (p Point) Octile(q Point) float64 {
	dx := Abs(p.X - q.X)
	dy := Abs(p.Y - q.Y)
	lo, hi := min(dx, dy), max(dx, dy)
	return float64(hi-lo) + math.Sqrt2*float64(lo)
}

// Neighbors4 returns the orthogonal neighbours in N, E, S, W order.
func (p Point) Neighbors4() [4]Point {
	return [4]Point{
		{p.X, p.Y - 1},
		{p.X + 1, p.Y},
		{p.X, p.Y + 1},
		{p.X - 1, p.Y},
	}
}

// In reports whether p lies inside r.
func (p Point) In(r Rect) bool {
	return r.Contains(p)
}

// Size is a footprint in tiles.
type Size struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Sz is shorthand for Size{W: w, H: h}.
func Sz(w, h int) Size {
	return Size{W: w, H: h}
}

// Valid reports whether both dimensions are at least one tile.
func (s Size) Valid() bool {
	return s.W > 0 && s.H > 0
}

func (s Size) Area() int {
	return s.W * s.H
}

// Abs returns the absolute value of v.
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
