package corridor

import (
	"math"
	"sort"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/level"
	"mapforge/pkg/game/pathfind"
)

// run holds the state of one Generate call.
type run struct {
	g      *Generator
	m      *level.Map
	det    *pathfind.ObstacleDetector
	pf     *pathfind.Pathfinder
	sm     *pathfind.Smoother
	report *Report

	primaryWidth   int
	secondaryWidth int
}

func newRun(g *Generator, m *level.Map) *run {
	det := pathfind.NewObstacleDetector(m.Width, m.Height)
	det.Rebuild(m.Rooms, m.Corridors)

	// Corridors are carved 4-connected; octile overestimates there.
	pfc := g.cfg.Pathfinding
	pfc.AllowDiagonal = false
	if pfc.Heuristic == pathfind.Octile {
		pfc.Heuristic = pathfind.Manhattan
	}
	if pfc.Logger == nil {
		pfc.Logger = g.logger
	}
	pf := pathfind.New(pfc)

	r := &run{
		g:              g,
		m:              m,
		det:            det,
		pf:             pf,
		sm:             pathfind.NewSmoother(pf, g.cfg.Smoothing),
		report:         &Report{},
		primaryWidth:   g.cfg.PrimaryWidth,
		secondaryWidth: g.cfg.SecondaryWidth,
	}
	if g.cfg.AutoWidth && len(m.Rooms) > 0 {
		total := 0
		for _, room := range m.Rooms {
			total += room.Area
		}
		avg := float64(total) / float64(len(m.Rooms))
		r.primaryWidth = max(g.cfg.MinWidth, min(g.validator.RecommendWidth(m.Width, m.Height, avg), g.cfg.MaxWidth))
		r.secondaryWidth = min(r.secondaryWidth, r.primaryWidth)
	}
	r.report.PrimaryWidth = r.primaryWidth
	r.report.SecondaryWidth = r.secondaryWidth
	return r
}

type edge struct {
	a, b int
	cost float64
}

// primaryPass joins the core rooms with a minimum spanning tree whose edge
// weights are path costs on the map before any corridor exists.
func (r *run) primaryPass(cores []int) error {
	if len(cores) < 2 {
		return nil
	}

	var edges []edge
	for i, a := range cores {
		for _, b := range cores[i+1:] {
			cost := math.Inf(1)
			if rt, ok := r.attempt(r.m.Rooms[a], targets{rooms: []*level.Room{r.m.Rooms[b]}}, 1, strict); ok {
				cost = rt.cost
			}
			edges = append(edges, edge{a: a, b: b, cost: cost})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].cost != edges[j].cost {
			return edges[i].cost < edges[j].cost
		}
		if edges[i].a != edges[j].a {
			return edges[i].a < edges[j].a
		}
		return edges[i].b < edges[j].b
	})

	uf := newUnionFind(len(r.m.Rooms))
	for _, e := range edges {
		if math.IsInf(e.cost, 1) {
			continue
		}
		if !uf.union(e.a, e.b) {
			continue
		}
		t := targets{rooms: []*level.Room{r.m.Rooms[e.b]}}
		if _, err := r.connect(r.m.Rooms[e.a], t, r.primaryWidth, level.Primary); err != nil {
			return err
		}
		r.report.Primary++
	}
	return nil
}

// secondaryPass joins every non-core room, in id order, to the nearest core
// room or primary corridor.
func (r *run) secondaryPass() error {
	var t targets
	for _, room := range r.m.Rooms {
		if room.IsCore {
			t.rooms = append(t.rooms, room)
		}
	}
	for _, c := range r.m.Corridors {
		if c.Tier == level.Primary {
			t.corridors = append(t.corridors, c)
		}
	}

	for _, room := range r.m.Rooms {
		if room.IsCore {
			continue
		}
		if _, err := r.connect(room, t, r.secondaryWidth, level.Secondary); err != nil {
			return err
		}
		r.report.Secondary++
	}
	return nil
}

func (r *run) spawnRoom() int {
	if r.m.SpawnRoom() != nil {
		return r.m.SpawnRoomID
	}
	return 0
}

// ensureConnectivity connects every room not reachable from the spawn room
// to the reachable set, lowest id first, until none are left.
func (r *run) ensureConnectivity() error {
	spawn := r.spawnRoom()
	for guard := 0; guard <= len(r.m.Rooms); guard++ {
		reached := make([]bool, len(r.m.Rooms))
		for _, id := range r.m.ReachableRooms(spawn) {
			reached[id] = true
		}

		var t targets
		unreached := -1
		for id, ok := range reached {
			if ok {
				t.rooms = append(t.rooms, r.m.Rooms[id])
			} else if unreached < 0 {
				unreached = id
			}
		}
		if unreached < 0 {
			return nil
		}

		r.g.logger.Warn("forcing connection for unreachable room",
			"room_id", unreached,
			"spawn_room_id", spawn)
		if _, err := r.connect(r.m.Rooms[unreached], t, 1, level.Fallback); err != nil {
			return err
		}
		r.report.Fallback++
		r.report.FallbackRooms = append(r.report.FallbackRooms, unreached)
	}
	return errors.Internal("rooms still unreachable after fallback connections")
}

type step struct {
	width int
	mode  mode
}

// ladder lists the attempts for one connection, strictest first. Narrower
// widths are skipped while the room has no exit wide enough; width 1 is
// always tried, then with corridors passable, then with only the map
// boundary in the way.
func (r *run) ladder(src *level.Room, width int) []step {
	var out []step
	for w := width; w > 1; w -= 2 {
		if len(r.det.FindDoorwayCandidates(src, w)) == 0 {
			continue
		}
		out = append(out, step{width: w, mode: strict})
	}
	return append(out,
		step{width: 1, mode: strict},
		step{width: 1, mode: corridorsPassable},
		step{width: 1, mode: open},
	)
}

// connect carves one corridor from src to t, walking down the ladder.
func (r *run) connect(src *level.Room, t targets, width int, tier level.Tier) (*level.Corridor, error) {
	for _, st := range r.ladder(src, width) {
		rt, ok := r.attempt(src, t, st.width, st.mode)
		if !ok {
			r.report.FailedAttempts++
			continue
		}
		c, err := r.carve(src, rt, st.width, tier, st.mode != strict)
		if err != nil {
			return nil, err
		}
		r.g.logger.Debug("corridor carved",
			"tier", tier.String(),
			"room_a", c.RoomA,
			"room_b", c.RoomB,
			"width", c.Width,
			"length", c.Length(),
			"relaxed", c.Relaxed)
		return c, nil
	}
	return nil, errors.Internalf("room %d could not be connected", src.ID)
}

func (r *run) carve(src *level.Room, rt *route, width int, tier level.Tier, relaxed bool) (*level.Corridor, error) {
	c, err := r.m.AddCorridor(&level.Corridor{
		RoomA:         src.ID,
		RoomB:         rt.roomB,
		JoinsCorridor: rt.joins,
		Path:          rt.path,
		Width:         width,
		Tier:          tier,
		Relaxed:       relaxed,
	})
	if err != nil {
		return nil, errors.Wrap(err, "carve corridor")
	}
	r.det.AddCorridor(c)

	doorWidth := min(width, 3)
	rt.srcDoor.Width = doorWidth
	src.AddDoorway(rt.srcDoor)
	if rt.dstDoor != nil {
		rt.dstDoor.Width = doorWidth
		r.m.Rooms[rt.roomB].AddDoorway(*rt.dstDoor)
	}
	if relaxed {
		r.report.Relaxed++
	}
	return c, nil
}

// nearestEndpointRoom returns the endpoint room of c closer to p.
func nearestEndpointRoom(c *level.Corridor, p geom.Point) int {
	if p.Manhattan(c.Start) <= p.Manhattan(c.End) {
		return c.RoomA
	}
	return c.RoomB
}
