package corridor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/bsp"
	"mapforge/pkg/game/level"
)

// bspMap builds a map whose rooms come from a seeded BSP run, with room 0
// as the spawn room.
func bspMap(t *testing.T, seed int64, w, h int) *level.Map {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m := level.NewMap(w, h)
	root := bsp.Build(m.Interior(), bsp.DefaultParams(), rng)
	bsp.CarveRooms(root, bsp.DefaultRoomParams(), rng)
	for _, leaf := range root.Leaves() {
		if leaf.Room != nil {
			m.AddRoom(*leaf.Room, leaf.Depth)
		}
	}
	require.NotEmpty(t, m.Rooms)
	m.SpawnRoomID = 0
	m.PlayerSpawn = m.Rooms[0].Center
	return m
}

func TestGenerateConnectsEveryRoom(t *testing.T) {
	for seed := int64(1); seed <= 12; seed++ {
		m := bspMap(t, seed, 64, 48)
		report, err := New(DefaultConfig()).Generate(m)
		require.NoError(t, err, "seed %d", seed)

		assert.True(t, m.IsFullyConnected(), "seed %d", seed)
		assert.Equal(t, len(m.Corridors), report.Total())
		assert.NotEmpty(t, report.CoreRooms)

		res := level.Validate(m)
		assert.False(t, res.HasErrors(), "seed %d: %s", seed, res.Summary())

		for _, c := range m.Corridors {
			assert.Equal(t, c.Path[0], c.Start)
			assert.Equal(t, c.Path[len(c.Path)-1], c.End)
			for i := 1; i < len(c.Path); i++ {
				assert.Equal(t, 1, c.Path[i].Manhattan(c.Path[i-1]), "seed %d corridor %d", seed, c.ID)
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, b := bspMap(t, 42, 60, 40), bspMap(t, 42, 60, 40)
	_, err := New(DefaultConfig()).Generate(a)
	require.NoError(t, err)
	_, err = New(DefaultConfig()).Generate(b)
	require.NoError(t, err)

	require.Equal(t, len(a.Corridors), len(b.Corridors))
	for i := range a.Corridors {
		assert.Equal(t, a.Corridors[i].Path, b.Corridors[i].Path)
		assert.Equal(t, a.Corridors[i].Width, b.Corridors[i].Width)
	}
	for i := range a.Rooms {
		assert.Equal(t, a.Rooms[i].Doorways, b.Rooms[i].Doorways)
	}
}

func TestPrimaryCorridorsSpanCoreRooms(t *testing.T) {
	m := bspMap(t, 7, 80, 60)
	cfg := DefaultConfig()
	cfg.CoreRoomFraction = 0.5
	cfg.MinCoreSpacing = 0
	report, err := New(cfg).Generate(m)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(report.CoreRooms), 2)
	assert.Equal(t, len(report.CoreRooms)-1, report.Primary, "spanning tree over the cores")
	for _, c := range m.Corridors {
		if c.Tier == level.Primary {
			assert.True(t, m.Rooms[c.RoomA].IsCore)
			assert.True(t, m.Rooms[c.RoomB].IsCore)
		}
		if c.Tier == level.Secondary && c.JoinsCorridor != level.NoCorridor {
			joined := m.Corridors[c.JoinsCorridor]
			assert.Equal(t, level.Primary, joined.Tier)
			assert.Contains(t, []int{joined.RoomA, joined.RoomB}, c.RoomB)
		}
	}
}

func TestGenerateSingleRoom(t *testing.T) {
	m := level.NewMap(20, 20)
	m.AddRoom(geom.R(2, 2, 6, 6), 0)
	m.SpawnRoomID = 0
	m.PlayerSpawn = m.Rooms[0].Center

	report, err := New(DefaultConfig()).Generate(m)
	require.NoError(t, err)
	assert.Zero(t, report.Total())
	assert.Empty(t, m.Corridors)
	assert.False(t, level.Validate(m).HasErrors())
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SecondaryWidth = 5
	cfg.PrimaryWidth = 3
	_, err := New(cfg).Generate(level.NewMap(10, 10))
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = New(DefaultConfig()).Generate(nil)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestFallbackConnectsIsolatedRooms(t *testing.T) {
	m := level.NewMap(40, 20)
	m.AddRoom(geom.R(2, 2, 5, 5), 0)
	m.AddRoom(geom.R(15, 2, 5, 5), 0)
	m.AddRoom(geom.R(28, 10, 6, 6), 0)
	m.SpawnRoomID = 0
	m.PlayerSpawn = m.Rooms[0].Center

	r := newRun(New(DefaultConfig()), m)
	require.NoError(t, r.ensureConnectivity())

	assert.True(t, m.IsFullyConnected())
	assert.Equal(t, 2, r.report.Fallback)
	assert.Equal(t, []int{1, 2}, r.report.FallbackRooms)
	for _, c := range m.Corridors {
		assert.Equal(t, level.Fallback, c.Tier)
		assert.Equal(t, 1, c.Width)
	}
	assert.False(t, level.Validate(m).HasErrors())
}

func TestLadderRelaxesUntilConnected(t *testing.T) {
	m := level.NewMap(30, 12)
	a := m.AddRoom(geom.R(2, 2, 5, 5), 0)
	m.AddRoom(geom.R(10, 1, 3, 10), 0)
	b := m.AddRoom(geom.R(20, 2, 5, 5), 0)
	m.SpawnRoomID = a.ID
	m.PlayerSpawn = a.Center

	r := newRun(New(DefaultConfig()), m)
	c, err := r.connect(a, targets{rooms: []*level.Room{b}}, 3, level.Secondary)
	require.NoError(t, err)

	assert.True(t, c.Relaxed)
	assert.Equal(t, 1, c.Width)
	assert.Equal(t, b.ID, c.RoomB)
	assert.Equal(t, 3, r.report.FailedAttempts)
	assert.True(t, a.IsConnectedTo(b.ID))
	require.Len(t, a.Doorways, 1)
	assert.Equal(t, geom.East, a.Doorways[0].Direction)
	require.Len(t, b.Doorways, 1)
	assert.Equal(t, geom.West, b.Doorways[0].Direction)

	res := level.Validate(m)
	assert.True(t, res.Has(level.IssueCorridorRelaxed))
}

func TestLadderSkipsWidthsWithoutExits(t *testing.T) {
	m := level.NewMap(12, 12)
	room := m.AddRoom(geom.R(1, 1, 9, 9), 0)
	r := newRun(New(DefaultConfig()), m)

	steps := r.ladder(room, 5)
	require.Len(t, steps, 3)
	assert.Equal(t, step{width: 1, mode: strict}, steps[0])
	assert.Equal(t, open, steps[2].mode)

	m2 := level.NewMap(40, 40)
	room2 := m2.AddRoom(geom.R(15, 15, 6, 6), 0)
	r2 := newRun(New(DefaultConfig()), m2)
	widths := []int{}
	for _, s := range r2.ladder(room2, 5) {
		widths = append(widths, s.width)
	}
	assert.Equal(t, []int{5, 3, 1, 1, 1}, widths)
}

func TestSelectCoreRooms(t *testing.T) {
	rooms := []*level.Room{
		level.NewRoom(0, geom.R(1, 1, 4, 4), 1),   // 16
		level.NewRoom(1, geom.R(6, 1, 8, 8), 1),   // 64
		level.NewRoom(2, geom.R(40, 1, 7, 7), 1),  // 49
		level.NewRoom(3, geom.R(16, 1, 7, 7), 1),  // 49, close to room 1
		level.NewRoom(4, geom.R(40, 30, 3, 3), 1), // 9
	}

	assert.Equal(t, []int{1, 2}, selectCoreRooms(rooms, 0.4, 15))
	assert.Equal(t, []int{1, 2, 3}, selectCoreRooms(rooms, 0.5, 0))
	assert.Equal(t, []int{1}, selectCoreRooms(rooms, 0.01, 15))

	// Spacing that rejects everything still fills the quota.
	assert.Equal(t, []int{1, 2, 3}, selectCoreRooms(rooms, 0.5, 1000))
	assert.Nil(t, selectCoreRooms(nil, 0.5, 0))
}

func TestUnionFind(t *testing.T) {
	uf := newUnionFind(5)
	assert.True(t, uf.union(0, 1))
	assert.True(t, uf.union(2, 3))
	assert.False(t, uf.union(1, 0))
	assert.True(t, uf.union(1, 3))
	assert.Equal(t, uf.find(0), uf.find(2))
	assert.NotEqual(t, uf.find(0), uf.find(4))
}

func TestComputeDistances(t *testing.T) {
	m := level.NewMap(40, 20)
	m.AddRoom(geom.R(1, 1, 3, 3), 0)
	m.AddRoom(geom.R(10, 1, 3, 3), 0)
	m.AddRoom(geom.R(20, 1, 3, 3), 0)
	m.AddRoom(geom.R(10, 10, 3, 3), 0)
	m.SpawnRoomID = 0

	line := func(x0, x1, y int) []geom.Point {
		var p []geom.Point
		for x := x0; x <= x1; x++ {
			p = append(p, geom.Pt(x, y))
		}
		return p
	}
	_, err := m.AddCorridor(&level.Corridor{RoomA: 0, RoomB: 1, Path: line(4, 5, 2), Width: 1, JoinsCorridor: level.NoCorridor})
	require.NoError(t, err)
	_, err = m.AddCorridor(&level.Corridor{RoomA: 1, RoomB: 2, Path: line(13, 16, 2), Width: 1, JoinsCorridor: level.NoCorridor})
	require.NoError(t, err)
	_, err = m.AddCorridor(&level.Corridor{RoomA: 1, RoomB: 3, Path: line(13, 13, 8), Width: 1, JoinsCorridor: level.NoCorridor})
	require.NoError(t, err)

	path := ComputeDistances(m)
	assert.Equal(t, []int{0, 1, 2}, path)
	assert.Equal(t, 0.0, m.Rooms[0].DistanceFromSpawn)
	assert.Equal(t, 3.0, m.Rooms[1].DistanceFromSpawn)
	assert.Equal(t, 8.0, m.Rooms[2].DistanceFromSpawn)
	assert.Equal(t, 5.0, m.Rooms[3].DistanceFromSpawn)
	assert.True(t, m.Rooms[2].IsOnCriticalPath)
	assert.False(t, m.Rooms[3].IsOnCriticalPath)

	m.SpawnRoomID = level.NoRoom
	assert.Nil(t, ComputeDistances(m))
	assert.Equal(t, -1.0, m.Rooms[0].DistanceFromSpawn)
}
