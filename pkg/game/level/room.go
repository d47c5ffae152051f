package level

import (
	"sort"

	"mapforge/pkg/engine/geom"
)

// Doorway is a room edge tile where a corridor attaches.
type Doorway struct {
	Position  geom.Point     `json:"position"`
	Direction geom.Direction `json:"direction"` // from the room toward the corridor
	Width     int            `json:"width"`
}

// Room is a rectangular room carved from a BSP leaf.
type Room struct {
	ID     int        `json:"id"`
	Name   string     `json:"name,omitempty"`
	Bounds geom.Rect  `json:"bounds"`
	Center geom.Point `json:"center"`
	Area   int        `json:"area"`
	Depth  int        `json:"depth"` // depth of the BSP leaf the room came from

	Classification    RoomType `json:"classification"`
	IsCore            bool     `json:"is_core"`
	IsOnCriticalPath  bool     `json:"is_on_critical_path"`
	DistanceFromSpawn float64  `json:"distance_from_spawn"`

	Connections []int     `json:"connections"` // sorted ids of directly connected rooms
	Doorways    []Doorway `json:"doorways"`
}

// NewRoom returns an unclassified room with its cached centre and area filled in.
func NewRoom(id int, bounds geom.Rect, depth int) *Room {
	return &Room{
		ID:                id,
		Bounds:            bounds,
		Center:            bounds.Center(),
		Area:              bounds.Area(),
		Depth:             depth,
		DistanceFromSpawn: -1,
	}
}

// ConnectTo records a connection to another room. It is idempotent; Map
// keeps both sides in sync.
func (r *Room) ConnectTo(id int) {
	i := sort.SearchInts(r.Connections, id)
	if i < len(r.Connections) && r.Connections[i] == id {
		return
	}
	r.Connections = append(r.Connections, 0)
	copy(r.Connections[i+1:], r.Connections[i:])
	r.Connections[i] = id
}

func (r *Room) IsConnectedTo(id int) bool {
	i := sort.SearchInts(r.Connections, id)
	return i < len(r.Connections) && r.Connections[i] == id
}

// AddDoorway appends d unless a doorway already sits on that tile.
func (r *Room) AddDoorway(d Doorway) bool {
	for _, existing := range r.Doorways {
		if existing.Position == d.Position {
			return false
		}
	}
	r.Doorways = append(r.Doorways, d)
	return true
}

// DoorwayDistance returns the Chebyshev distance from p to the nearest
// doorway, or -1 when the room has none.
func (r *Room) DoorwayDistance(p geom.Point) int {
	best := -1
	for _, d := range r.Doorways {
		dist := p.Chebyshev(d.Position)
		if best < 0 || dist < best {
			best = dist
		}
	}
	return best
}

// FootprintDoorwayDistance is DoorwayDistance for the nearest tile of a footprint.
func (r *Room) FootprintDoorwayDistance(fp geom.Rect) int {
	best := -1
	for _, p := range fp.Points() {
		d := r.DoorwayDistance(p)
		if d >= 0 && (best < 0 || d < best) {
			best = d
		}
	}
	return best
}
