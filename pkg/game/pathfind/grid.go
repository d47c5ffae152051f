package pathfind

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"mapforge/pkg/engine/geom"
)

// Grid is a flat obstacle map where true means impassable. Cells outside
// the grid always read as blocked.
type Grid struct {
	width, height int
	cells         []bool
}

// NewGrid returns an all-clear width×height grid.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{width: width, height: height, cells: make([]bool, width*height)}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Bounds returns the grid rectangle anchored at the origin.
func (g *Grid) Bounds() geom.Rect {
	return geom.Rect{Width: g.width, Height: g.height}
}

// Empty reports whether the grid has no cells.
func (g *Grid) Empty() bool {
	return g == nil || g.width <= 0 || g.height <= 0
}

func (g *Grid) InBounds(p geom.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

func (g *Grid) IsBlocked(p geom.Point) bool {
	if !g.InBounds(p) {
		return true
	}
	return g.cells[p.Y*g.width+p.X]
}

// Set marks or clears a single cell. Out of range points are ignored.
func (g *Grid) Set(p geom.Point, blocked bool) {
	if g.InBounds(p) {
		g.cells[p.Y*g.width+p.X] = blocked
	}
}

// Fill sets every cell of r that lies inside the grid.
func (g *Grid) Fill(r geom.Rect, blocked bool) {
	r = r.Intersect(g.Bounds())
	for y := r.Y; y < r.Bottom(); y++ {
		row := g.cells[y*g.width : (y+1)*g.width]
		for x := r.X; x < r.Right(); x++ {
			row[x] = blocked
		}
	}
}

// BlockedCount returns the number of impassable cells.
func (g *Grid) BlockedCount() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

func (g *Grid) Clone() *Grid {
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Dilate returns a grid where a cell is blocked when any cell within radius
// (Chebyshev) of it is blocked or out of bounds. Radius 0 is a plain copy.
func (g *Grid) Dilate(radius int) *Grid {
	out := NewGrid(g.width, g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			out.cells[y*g.width+x] = !g.squareClear(geom.Point{X: x, Y: y}, radius)
		}
	}
	return out
}

// SquareClear reports whether every cell within radius of p is inside the
// grid and unblocked.
func (g *Grid) SquareClear(p geom.Point, radius int) bool {
	return g.squareClear(p, radius)
}

func (g *Grid) squareClear(p geom.Point, radius int) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if g.IsBlocked(geom.Point{X: p.X + dx, Y: p.Y + dy}) {
				return false
			}
		}
	}
	return true
}

// Hash fingerprints the dimensions and contents of the grid. Two grids with
// the same hash are treated as identical by the path cache.
func (g *Grid) Hash() uint64 {
	d := xxhash.New()
	var dims [16]byte
	binary.LittleEndian.PutUint64(dims[:8], uint64(g.width))
	binary.LittleEndian.PutUint64(dims[8:], uint64(g.height))
	_, _ = d.Write(dims[:])

	packed := make([]byte, (len(g.cells)+7)/8)
	for i, c := range g.cells {
		if c {
			packed[i/8] |= 1 << (i % 8)
		}
	}
	_, _ = d.Write(packed)
	return d.Sum64()
}

// CostGrid holds per-cell movement multipliers. A nil CostGrid means every
// cell costs 1.
type CostGrid struct {
	width, height int
	mult          []float64
}

// NewCostGrid returns a width×height grid of multiplier 1.
func NewCostGrid(width, height int) *CostGrid {
	mult := make([]float64, width*height)
	for i := range mult {
		mult[i] = 1
	}
	return &CostGrid{width: width, height: height, mult: mult}
}

// Set stores the multiplier for p. Non-positive values are stored as 1.
func (c *CostGrid) Set(p geom.Point, m float64) {
	if p.X < 0 || p.Y < 0 || p.X >= c.width || p.Y >= c.height {
		return
	}
	if m <= 0 || math.IsNaN(m) {
		m = 1
	}
	c.mult[p.Y*c.width+p.X] = m
}

// At returns the multiplier for p, 1 when c is nil or p is outside it.
func (c *CostGrid) At(p geom.Point) float64 {
	if c == nil || p.X < 0 || p.Y < 0 || p.X >= c.width || p.Y >= c.height {
		return 1
	}
	return c.mult[p.Y*c.width+p.X]
}

// Hash returns 0 for a nil grid.
func (c *CostGrid) Hash() uint64 {
	if c == nil {
		return 0
	}
	buf := make([]byte, 16+8*len(c.mult))
	binary.LittleEndian.PutUint64(buf[:8], uint64(c.width))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(c.height))
	for i, m := range c.mult {
		binary.LittleEndian.PutUint64(buf[16+8*i:], math.Float64bits(m))
	}
	return xxhash.Sum64(buf)
}
