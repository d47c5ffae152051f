// Package level holds the generated map model: rooms, corridors, placed
// content, and the validation pass that decides whether a map is usable.
package level

import (
	"sort"
	"time"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/bsp"
)

// NoRoom is returned by lookups that find no room.
const NoRoom = -1

// Metadata describes how a map was produced.
type Metadata struct {
	Seed        int64     `json:"seed"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Difficulty  int       `json:"difficulty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Map is the output of one generation run.
type Map struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Rooms     []*Room     `json:"rooms"`
	Corridors []*Corridor `json:"corridors"`

	// Root is the partition tree the rooms came from. It is not needed
	// after generation and is never serialized.
	Root *bsp.Node `json:"-"`

	SpawnRoomID int        `json:"spawn_room_id"`
	PlayerSpawn geom.Point `json:"player_spawn"`

	Furniture   []*Furniture  `json:"furniture"`
	SpawnPoints []*SpawnPoint `json:"spawn_points"`
	Resources   []*Resource   `json:"resources"`

	Metadata Metadata `json:"metadata"`

	nextObjectID int
}

// NewMap returns an empty width×height map.
func NewMap(width, height int) *Map {
	return &Map{Width: width, Height: height, SpawnRoomID: NoRoom}
}

// Bounds returns the full map rectangle.
func (m *Map) Bounds() geom.Rect {
	return geom.Rect{Width: m.Width, Height: m.Height}
}

// Interior returns the map without its one-tile border.
func (m *Map) Interior() geom.Rect {
	return m.Bounds().Inset(1)
}

// AddRoom appends a room with the next id.
func (m *Map) AddRoom(bounds geom.Rect, depth int) *Room {
	r := NewRoom(len(m.Rooms), bounds, depth)
	m.Rooms = append(m.Rooms, r)
	return r
}

// Room returns the room with the given id, or nil.
func (m *Map) Room(id int) *Room {
	if id < 0 || id >= len(m.Rooms) {
		return nil
	}
	return m.Rooms[id]
}

// RoomAt returns the room containing p, or nil.
func (m *Map) RoomAt(p geom.Point) *Room {
	for _, r := range m.Rooms {
		if r.Bounds.Contains(p) {
			return r
		}
	}
	return nil
}

// SpawnRoom returns the room the player starts in, or nil.
func (m *Map) SpawnRoom() *Room {
	return m.Room(m.SpawnRoomID)
}

// AddCorridor assigns the next id to c, derives its endpoints and shape from
// its path, and connects both rooms.
func (m *Map) AddCorridor(c *Corridor) (*Corridor, error) {
	if len(c.Path) == 0 {
		return nil, errors.InvalidArgument("corridor path is empty")
	}
	a, b := m.Room(c.RoomA), m.Room(c.RoomB)
	if a == nil || b == nil {
		return nil, errors.InvalidArgumentf("corridor references unknown rooms %d and %d", c.RoomA, c.RoomB)
	}

	c.ID = len(m.Corridors)
	c.Start = c.Path[0]
	c.End = c.Path[len(c.Path)-1]
	c.Shape = ClassifyShape(c.Path)
	m.Corridors = append(m.Corridors, c)

	if a != b {
		a.ConnectTo(b.ID)
		b.ConnectTo(a.ID)
	}
	return c, nil
}

// ReachableRooms walks the connection graph breadth-first from start and
// returns the ids reached in visiting order.
func (m *Map) ReachableRooms(start int) []int {
	if m.Room(start) == nil {
		return nil
	}
	visited := mapset.New[int]()
	visited.Put(start)
	order := []int{start}
	queue := []int{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range m.Rooms[current].Connections {
			if visited.Has(next) || m.Room(next) == nil {
				continue
			}
			visited.Put(next)
			order = append(order, next)
			queue = append(queue, next)
		}
	}
	return order
}

// IsFullyConnected reports whether every room is reachable from the spawn room.
func (m *Map) IsFullyConnected() bool {
	if len(m.Rooms) == 0 {
		return true
	}
	return len(m.ReachableRooms(m.SpawnRoomID)) == len(m.Rooms)
}

// NextObjectID reserves an id for a placed object.
func (m *Map) NextObjectID() int {
	id := m.nextObjectID
	m.nextObjectID++
	return id
}

// SetNextObjectID moves the id counter, used when restoring a saved map.
func (m *Map) SetNextObjectID(id int) {
	m.nextObjectID = id
}

// Objects returns every placed object ordered by id.
func (m *Map) Objects() []PlacedObject {
	out := make([]PlacedObject, 0, len(m.Furniture)+len(m.SpawnPoints)+len(m.Resources))
	for _, f := range m.Furniture {
		out = append(out, f.PlacedObject)
	}
	for _, s := range m.SpawnPoints {
		out = append(out, s.PlacedObject)
	}
	for _, r := range m.Resources {
		out = append(out, r.PlacedObject)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RoomsOfType returns the rooms with the given classification.
func (m *Map) RoomsOfType(t RoomType) []*Room {
	var out []*Room
	for _, r := range m.Rooms {
		if r.Classification == t {
			out = append(out, r)
		}
	}
	return out
}
