package world

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
)

// Grid is a dense width×height raster of cells.
type Grid struct {
	cells  []*Cell
	width  int
	height int
}

// NewGrid creates a grid of wall cells with neighbour links built.
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Build(width, height)
	g.BuildAllCellConnections()
	return g
}

// Build allocates width×height wall cells. Links are not built.
func (g *Grid) Build(width, height int) {
	if width <= 0 || height <= 0 {
		panic("grid dimensions must be positive")
	}
	g.width = width
	g.height = height
	g.cells = make([]*Cell, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.cells[y*width+x] = NewCell(x, y)
		}
	}
}

func (g *Grid) Width() int { return g.width }

func (g *Grid) Height() int { return g.height }

// Bounds returns the rectangle covered by the grid.
func (g *Grid) Bounds() geom.Rect {
	return geom.Rect{Width: g.width, Height: g.height}
}

// IsValidPosition reports whether (x, y) is inside the grid.
func (g *Grid) IsValidPosition(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// IsPlayablePosition reports whether (x, y) is inside the one-tile wall border.
func (g *Grid) IsPlayablePosition(x, y int) bool {
	return x >= 1 && x < g.width-1 && y >= 1 && y < g.height-1
}

// IsOnPerimeter reports whether (x, y) is on the outer border.
func (g *Grid) IsOnPerimeter(x, y int) bool {
	return g.IsValidPosition(x, y) && !g.IsPlayablePosition(x, y)
}

// GetCell returns the cell at (x, y), or nil when out of bounds.
func (g *Grid) GetCell(x, y int) *Cell {
	if !g.IsValidPosition(x, y) {
		return nil
	}
	return g.cells[y*g.width+x]
}

// At returns the cell at p, or nil.
func (g *Grid) At(p geom.Point) *Cell {
	return g.GetCell(p.X, p.Y)
}

// GetCellRelative returns the cell next to c in direction dir.
func (g *Grid) GetCellRelative(c *Cell, dir geom.Direction) *Cell {
	if c == nil || !dir.IsValid() {
		return nil
	}
	dx, dy := dir.Delta()
	return g.GetCell(c.X+dx, c.Y+dy)
}

// Paint sets the kind of every in-bounds cell of r.
func (g *Grid) Paint(r geom.Rect, kind TileKind) {
	for _, p := range r.Intersect(g.Bounds()).Points() {
		g.At(p).Kind = kind
	}
}

// BuildAllCellConnections links every cell to its orthogonal neighbours.
func (g *Grid) BuildAllCellConnections() {
	for _, c := range g.cells {
		for _, dir := range geom.AllDirections() {
			adj := g.GetCellRelative(c, dir)
			if adj == nil {
				continue
			}
			c.SetNeighbor(dir, adj)
			adj.SetNeighbor(dir.Opposite(), c)
		}
	}
}

// ForEachCell calls fn for every cell in row-major order.
func (g *Grid) ForEachCell(fn func(x, y int, cell *Cell)) {
	for _, c := range g.cells {
		fn(c.X, c.Y, c)
	}
}

// Count returns how many cells have the given kind.
func (g *Grid) Count(kind TileKind) int {
	n := 0
	for _, c := range g.cells {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// ReachableFrom flood-fills walkable cells from start through the
// neighbour links.
func (g *Grid) ReachableFrom(start *Cell) mapset.Set[*Cell] {
	reachable := mapset.New[*Cell]()
	if start == nil || !start.Kind.Walkable() {
		return reachable
	}
	queue := []*Cell{start}
	reachable.Put(start)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, n := range current.GetNeighbors() {
			if n.Kind.Walkable() && !reachable.Has(n) {
				reachable.Put(n)
				queue = append(queue, n)
			}
		}
	}
	return reachable
}

// Validate checks that the border is solid and that every walkable cell is
// reachable from start. It returns an empty string when the raster is sound.
func (g *Grid) Validate(start geom.Point) string {
	if g.width <= 0 || g.height <= 0 {
		return "grid has invalid dimensions"
	}
	origin := g.At(start)
	if origin == nil || !origin.Kind.Walkable() {
		return fmt.Sprintf("start %s is not walkable", start)
	}

	walkable := 0
	for _, c := range g.cells {
		if !c.Kind.Walkable() {
			continue
		}
		if g.IsOnPerimeter(c.X, c.Y) {
			return fmt.Sprintf("walkable cell %s on the border", c.Pos())
		}
		walkable++
	}

	if reached := g.ReachableFrom(origin).Size(); reached != walkable {
		return fmt.Sprintf("%d of %d walkable cells unreachable from %s", walkable-reached, walkable, start)
	}
	return ""
}
