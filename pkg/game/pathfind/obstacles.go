package pathfind

import (
	"mapforge/pkg/engine/geom"
	"mapforge/pkg/game/level"
)

// ObstacleDetector maintains the obstacle grid used while carving
// corridors: the map boundary, every room rectangle, and every carved
// corridor inflated by half its width.
type ObstacleDetector struct {
	grid *Grid
}

// NewObstacleDetector returns a detector for a width×height map with the
// boundary ring already marked.
func NewObstacleDetector(width, height int) *ObstacleDetector {
	d := &ObstacleDetector{grid: NewGrid(width, height)}
	d.markBoundary()
	return d
}

func (d *ObstacleDetector) markBoundary() {
	w, h := d.grid.Width(), d.grid.Height()
	d.grid.Fill(geom.R(0, 0, w, 1), true)
	d.grid.Fill(geom.R(0, h-1, w, 1), true)
	d.grid.Fill(geom.R(0, 0, 1, h), true)
	d.grid.Fill(geom.R(w-1, 0, 1, h), true)
}

// Grid exposes the live obstacle grid. Callers that need to experiment
// should Clone it.
func (d *ObstacleDetector) Grid() *Grid {
	return d.grid
}

func (d *ObstacleDetector) interior() geom.Rect {
	return d.grid.Bounds().Inset(1)
}

func (d *ObstacleDetector) AddRoom(r *level.Room) {
	d.grid.Fill(r.Bounds, true)
}

func (d *ObstacleDetector) AddRooms(rooms []*level.Room) {
	for _, r := range rooms {
		d.AddRoom(r)
	}
}

// AddCorridor marks the corridor path inflated by width/2.
func (d *ObstacleDetector) AddCorridor(c *level.Corridor) {
	for _, p := range c.Footprint(d.grid.Bounds()) {
		d.grid.Set(p, true)
	}
}

func (d *ObstacleDetector) MarkArea(r geom.Rect) {
	d.grid.Fill(r, true)
}

// ClearArea unblocks r. The boundary ring is never cleared.
func (d *ObstacleDetector) ClearArea(r geom.Rect) {
	d.grid.Fill(r.Intersect(d.interior()), false)
}

// ClearPath unblocks the width/2 footprint of path, boundary excluded.
func (d *ObstacleDetector) ClearPath(path []geom.Point, width int) {
	for _, p := range level.Inflate(path, width/2, d.interior()) {
		d.grid.Set(p, false)
	}
}

// Rebuild discards every mark and rebuilds from the given rooms and corridors.
func (d *ObstacleDetector) Rebuild(rooms []*level.Room, corridors []*level.Corridor) {
	d.grid.Fill(d.grid.Bounds(), false)
	d.markBoundary()
	d.AddRooms(rooms)
	for _, c := range corridors {
		d.AddCorridor(c)
	}
}

// FindDoorwayCandidates scans the four edges of room for tiles where a
// corridor of the given width could leave the room. A candidate sits on the
// room edge and faces outward; the width/2 square around the first tile
// outside the room must be inside the map and clear, ignoring the room's own
// tiles. Results are ordered north, east, south, west, then by coordinate.
func (d *ObstacleDetector) FindDoorwayCandidates(room *level.Room, width int) []level.Doorway {
	b := room.Bounds
	radius := width / 2
	doorWidth := min(max(width, 1), 3)

	var out []level.Doorway
	try := func(edge geom.Point, dir geom.Direction) {
		outside := dir.Step(edge)
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				q := geom.Point{X: outside.X + dx, Y: outside.Y + dy}
				if b.Contains(q) {
					continue
				}
				if d.grid.IsBlocked(q) {
					return
				}
			}
		}
		out = append(out, level.Doorway{Position: edge, Direction: dir, Width: doorWidth})
	}

	for x := b.X; x < b.Right(); x++ {
		try(geom.Pt(x, b.Y), geom.North)
	}
	for y := b.Y; y < b.Bottom(); y++ {
		try(geom.Pt(b.Right()-1, y), geom.East)
	}
	for x := b.X; x < b.Right(); x++ {
		try(geom.Pt(x, b.Bottom()-1), geom.South)
	}
	for y := b.Y; y < b.Bottom(); y++ {
		try(geom.Pt(b.X, y), geom.West)
	}
	return out
}
