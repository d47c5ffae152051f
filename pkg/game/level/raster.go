package level

import "mapforge/pkg/engine/world"

// Rasterize paints the map onto a tile grid: room floors, corridor
// footprints, then doorways. Everything else stays wall.
func Rasterize(m *Map) *world.Grid {
	g := world.NewGrid(m.Width, m.Height)
	interior := m.Interior()

	for _, r := range m.Rooms {
		for _, p := range r.Bounds.Intersect(m.Bounds()).Points() {
			c := g.At(p)
			c.Kind = world.Floor
			c.RoomID = r.ID
		}
	}

	for _, cor := range m.Corridors {
		for _, p := range cor.Footprint(interior) {
			c := g.At(p)
			if c.Kind == world.Wall {
				c.Kind = world.Corridor
			}
			if c.CorridorID == world.NoRoom {
				c.CorridorID = cor.ID
			}
		}
	}

	for _, r := range m.Rooms {
		for _, d := range r.Doorways {
			if c := g.At(d.Position); c != nil {
				c.Kind = world.Doorway
			}
		}
	}
	return g
}
