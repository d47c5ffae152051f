package corridor

import (
	"mapforge/pkg/engine/geom"
	"mapforge/pkg/game/level"
	"mapforge/pkg/game/pathfind"
)

// mode says which obstacles an attempt must respect.
type mode int

const (
	strict            mode = iota // boundary, rooms and carved corridors
	corridorsPassable             // boundary and rooms
	open                          // boundary only
)

// targets is what a connection may end on: any tile of the rooms, or any
// non-room tile of the corridors' footprints.
type targets struct {
	rooms     []*level.Room
	corridors []*level.Corridor
}

// route is an accepted, trimmed path ready to be carved.
type route struct {
	path    []geom.Point
	cost    float64
	roomB   int
	joins   int
	srcDoor level.Doorway
	dstDoor *level.Doorway
}

func (r *run) baseGrid(md mode) *pathfind.Grid {
	switch md {
	case corridorsPassable:
		d := pathfind.NewObstacleDetector(r.m.Width, r.m.Height)
		d.AddRooms(r.m.Rooms)
		return d.Grid()
	case open:
		return pathfind.NewObstacleDetector(r.m.Width, r.m.Height).Grid()
	default:
		return r.det.Grid().Clone()
	}
}

// attempt searches for a width-wide corridor from the centre of src to the
// nearest target. Source and targets are cleared in the attempt grid; every
// other cell is passable only if its width/2 square is clear.
func (r *run) attempt(src *level.Room, t targets, width int, md mode) (*route, bool) {
	grid := r.baseGrid(md)
	interior := r.m.Interior()
	radius := width / 2

	var cleared []geom.Point
	clearCell := func(p geom.Point) {
		if interior.Contains(p) {
			grid.Set(p, false)
			cleared = append(cleared, p)
		}
	}
	for _, p := range src.Bounds.Points() {
		clearCell(p)
	}

	targetRoom := make(map[geom.Point]int)
	targetCorridor := make(map[geom.Point]int)
	var goals []geom.Point
	for _, room := range t.rooms {
		if room.ID == src.ID {
			continue
		}
		for _, p := range room.Bounds.Points() {
			clearCell(p)
			targetRoom[p] = room.ID
			if room.Bounds.OnEdge(p) {
				goals = append(goals, p)
			}
		}
	}
	for _, c := range t.corridors {
		for _, p := range c.Footprint(interior) {
			if _, seen := targetCorridor[p]; seen || r.m.RoomAt(p) != nil {
				continue
			}
			clearCell(p)
			targetCorridor[p] = c.ID
			goals = append(goals, p)
		}
	}
	if len(goals) == 0 {
		return nil, false
	}

	mask := grid.Dilate(radius)
	for _, p := range cleared {
		mask.Set(p, false)
	}

	res, err := r.pf.FindPathToAny(src.Center, goals, mask, nil)
	if err != nil || !res.Found {
		return nil, false
	}

	isTarget := func(p geom.Point) bool {
		_, inRoom := targetRoom[p]
		_, inCorridor := targetCorridor[p]
		return inRoom || inCorridor
	}

	path := res.Path
	if r.g.cfg.Smoothness > 0 {
		smoothed := r.sm.EnsureContinuity(r.sm.Smooth(path, mask, r.g.cfg.Smoothness), mask)
		if continuous(smoothed, mask) && smoothed[0] == path[0] && isTarget(smoothed[len(smoothed)-1]) {
			path = smoothed
		}
	}

	j := 0
	for j < len(path) && !isTarget(path[j]) {
		j++
	}
	i := j - 1
	for i >= 0 && !src.Bounds.Contains(path[i]) {
		i--
	}
	if j >= len(path) || i < 0 {
		return nil, false
	}

	rt := &route{cost: res.Cost, joins: level.NoCorridor}
	if id, ok := targetRoom[path[j]]; ok {
		if i+1 == j {
			return nil, false
		}
		rt.path = append([]geom.Point(nil), path[i+1:j]...)
		rt.roomB = id
		dir, _ := geom.DirectionBetween(path[j], path[j-1])
		rt.dstDoor = &level.Doorway{Position: path[j], Direction: dir}
	} else {
		cid := targetCorridor[path[j]]
		if i+1 == j {
			rt.path = []geom.Point{path[j]}
		} else {
			rt.path = append([]geom.Point(nil), path[i+1:j]...)
		}
		rt.roomB = nearestEndpointRoom(r.m.Corridors[cid], path[j])
		rt.joins = cid
	}
	dir, _ := geom.DirectionBetween(path[i], path[i+1])
	rt.srcDoor = level.Doorway{Position: path[i], Direction: dir}

	if md != open && !r.clearanceHolds(rt.path, radius, src.ID, rt.roomB) {
		return nil, false
	}
	return rt, true
}

// clearanceHolds checks the final corridor the way map validation does:
// every tile within radius of the path is inside the map interior and
// outside every room but the two it joins.
func (r *run) clearanceHolds(path []geom.Point, radius, roomA, roomB int) bool {
	interior := r.m.Interior()
	for _, p := range path {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				q := geom.Point{X: p.X + dx, Y: p.Y + dy}
				if !interior.Contains(q) {
					return false
				}
				if room := r.m.RoomAt(q); room != nil && room.ID != roomA && room.ID != roomB {
					return false
				}
			}
		}
	}
	return true
}

func continuous(path []geom.Point, grid *pathfind.Grid) bool {
	if len(path) == 0 {
		return false
	}
	for k, p := range path {
		if grid.IsBlocked(p) {
			return false
		}
		if k > 0 && p.Manhattan(path[k-1]) != 1 {
			return false
		}
	}
	return true
}
