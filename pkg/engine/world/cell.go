// Package world provides the tile raster that renderers and dumps consume:
// a dense grid of cells, each tagged with a tile kind and linked to its
// orthogonal neighbours.
package world

import "mapforge/pkg/engine/geom"

// TileKind is what a renderer paints on a cell.
type TileKind int

const (
	Wall     TileKind = iota // solid, the default for every cell
	Floor                    // room interior
	Corridor                 // carved corridor footprint
	Doorway                  // room edge tile where a corridor attaches
)

func (k TileKind) String() string {
	switch k {
	case Wall:
		return "wall"
	case Floor:
		return "floor"
	case Corridor:
		return "corridor"
	case Doorway:
		return "doorway"
	default:
		return "unknown"
	}
}

// Walkable reports whether an agent can stand on the tile.
func (k TileKind) Walkable() bool {
	return k != Wall
}

// NoRoom marks cells that belong to no room.
const NoRoom = -1

// Cell is a single tile of the raster.
type Cell struct {
	X, Y int
	Kind TileKind

	// RoomID is the id of the room whose floor covers the cell, or NoRoom.
	RoomID int
	// CorridorID is the id of the first corridor carved over the cell, or NoRoom.
	CorridorID int

	North *Cell
	East  *Cell
	South *Cell
	West  *Cell
}

// NewCell returns a wall cell at (x, y).
func NewCell(x, y int) *Cell {
	return &Cell{X: x, Y: y, Kind: Wall, RoomID: NoRoom, CorridorID: NoRoom}
}

// Pos returns the cell coordinate.
func (c *Cell) Pos() geom.Point {
	return geom.Point{X: c.X, Y: c.Y}
}

// GetNeighbor returns the neighbouring cell in the given direction.
func (c *Cell) GetNeighbor(dir geom.Direction) *Cell {
	if c == nil {
		return nil
	}
	switch dir {
	case geom.North:
		return c.North
	case geom.East:
		return c.East
	case geom.South:
		return c.South
	case geom.West:
		return c.West
	default:
		return nil
	}
}

// SetNeighbor links neighbor in the given direction.
func (c *Cell) SetNeighbor(dir geom.Direction, neighbor *Cell) {
	if c == nil {
		return
	}
	switch dir {
	case geom.North:
		c.North = neighbor
	case geom.East:
		c.East = neighbor
	case geom.South:
		c.South = neighbor
	case geom.West:
		c.West = neighbor
	}
}

// GetNeighbors returns the linked neighbours in N, E, S, W order.
func (c *Cell) GetNeighbors() []*Cell {
	var neighbors []*Cell
	for _, n := range []*Cell{c.North, c.East, c.South, c.West} {
		if n != nil {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}
