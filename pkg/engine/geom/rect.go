package geom

import "fmt"

// Rect is an axis-aligned rectangle of tiles. The tile at (X, Y) is inside,
// the tile at (X+Width, Y+Height) is not.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// RectAt builds the rectangle with top-left corner p and the given size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.W, Height: s.H}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.Width, r.Height)
}

// Valid reports whether the rectangle has a positive area.
func (r Rect) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// Right is the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom is the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) Area() int { return r.Width * r.Height }

func (r Rect) Size() Size { return Size{W: r.Width, H: r.Height} }

func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Center returns the tile at the integer centre, rounding toward the top-left.
func (r Rect) Center() Point {
	return Point{X: r.X + (r.Width-1)/2, Y: r.Y + (r.Height-1)/2}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether the two rectangles share at least one tile.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Inset shrinks the rectangle by n tiles on every side. The result may be invalid.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
}

// Expand grows the rectangle by n tiles on every side.
func (r Rect) Expand(n int) Rect {
	return r.Inset(-n)
}

// Intersect returns the overlapping part of r and o, which is invalid when
// they do not intersect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Points returns every tile in row-major order.
func (r Rect) Points() []Point {
	if !r.Valid() {
		return nil
	}
	pts := make([]Point, 0, r.Area())
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			pts = append(pts, Point{X: x, Y: y})
		}
	}
	return pts
}

// Corners returns the four corner tiles: top-left, top-right, bottom-left, bottom-right.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.Right() - 1, r.Y},
		{r.X, r.Bottom() - 1},
		{r.Right() - 1, r.Bottom() - 1},
	}
}

// DistanceToEdge returns how many tiles p is from the nearest edge of r;
// edge tiles are at distance 0. Points outside r return -1.
func (r Rect) DistanceToEdge(p Point) int {
	if !r.Contains(p) {
		return -1
	}
	return min(p.X-r.X, r.Right()-1-p.X, p.Y-r.Y, r.Bottom()-1-p.Y)
}

// OnEdge reports whether p is one of the border tiles of r.
func (r Rect) OnEdge(p Point) bool {
	return r.DistanceToEdge(p) == 0
}
