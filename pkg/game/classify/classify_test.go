package classify

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/bsp"
	"mapforge/pkg/game/level"
)

// rowOfRooms lays n 4×4 rooms along the top of a 60×60 map.
func rowOfRooms(n int) *level.Map {
	m := level.NewMap(60, 60)
	for i := 0; i < n; i++ {
		m.AddRoom(geom.R(2+i*5, 2, 4, 4), 1)
	}
	return m
}

func twoTypeConfig() Config {
	cfg := DefaultConfig()
	cfg.Jitter = 0
	cfg.Rules = []Rule{
		{Type: level.Office, MinArea: 9, PreferredArea: 16, MaxArea: 30, MinDimension: 3, Priority: 2},
		{Type: level.StorageRoom, MinArea: 9, PreferredArea: 16, MaxArea: 30, MinDimension: 3, Priority: 1},
	}
	return cfg
}

func bspMap(seed int64) *level.Map {
	rng := rand.New(rand.NewSource(seed))
	m := level.NewMap(96, 64)
	root := bsp.Build(m.Interior(), bsp.DefaultParams(), rng)
	bsp.CarveRooms(root, bsp.DefaultRoomParams(), rng)
	for _, leaf := range root.Leaves() {
		if leaf.Room != nil {
			m.AddRoom(*leaf.Room, leaf.Depth)
		}
	}
	return m
}

func TestClassifyEveryRoom(t *testing.T) {
	m := bspMap(3)
	require.NotEmpty(t, m.Rooms)

	report, err := New(DefaultConfig()).Classify(m, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	total := 0
	for _, n := range report.Counts {
		total += n
	}
	assert.Equal(t, len(m.Rooms), total)
	for _, room := range m.Rooms {
		assert.NotEqual(t, level.Unassigned, room.Classification, "room %d", room.ID)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	a, b := bspMap(11), bspMap(11)
	_, err := New(DefaultConfig()).Classify(a, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	_, err = New(DefaultConfig()).Classify(b, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	for i := range a.Rooms {
		assert.Equal(t, a.Rooms[i].Classification, b.Rooms[i].Classification)
	}
}

func TestMinimumSizeIsNeverViolated(t *testing.T) {
	cfg := DefaultConfig()
	rules := make(map[level.RoomType]Rule)
	for _, r := range cfg.Rules {
		rules[r.Type] = r
	}

	for seed := int64(1); seed <= 20; seed++ {
		m := bspMap(seed)
		report, err := New(cfg).Classify(m, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		fallback := make(map[int]bool)
		for _, id := range report.Fallback {
			fallback[id] = true
		}
		for _, room := range m.Rooms {
			if fallback[room.ID] {
				continue
			}
			rule := rules[room.Classification]
			assert.True(t, rule.Eligible(room), "seed %d room %d (%dx%d) got %s",
				seed, room.ID, room.Bounds.Width, room.Bounds.Height, room.Classification)
		}
	}
}

func TestOverridesWin(t *testing.T) {
	m := rowOfRooms(3)
	cfg := twoTypeConfig()
	cfg.Overrides = map[int]level.RoomType{1: level.BossRoom}

	report, err := New(cfg).Classify(m, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, level.BossRoom, m.Rooms[1].Classification)
	assert.Equal(t, []int{1}, report.Overridden)
	assert.Equal(t, level.Office, m.Rooms[0].Classification)
}

func TestHardCapMovesWorstFitRooms(t *testing.T) {
	m := rowOfRooms(10)
	cfg := twoTypeConfig()
	cfg.Rules[0].MaxPercent = 0.5

	report, err := New(cfg).Classify(m, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, 5, report.Counts[level.Office])
	assert.Equal(t, 5, report.Counts[level.StorageRoom])
	assert.Equal(t, 5, report.Moves)
}

func TestHardCapKeptWhenNoAlternative(t *testing.T) {
	m := rowOfRooms(4)
	cfg := twoTypeConfig()
	cfg.Rules = cfg.Rules[:1]
	cfg.Rules[0].MaxPercent = 0.25

	report, err := New(cfg).Classify(m, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 4, report.Counts[level.Office])
	assert.Zero(t, report.Moves)
}

func TestOverridesAreNeverMoved(t *testing.T) {
	m := rowOfRooms(4)
	cfg := twoTypeConfig()
	cfg.Rules[0].MaxPercent = 0.25
	cfg.Overrides = map[int]level.RoomType{0: level.Office, 1: level.Office}

	report, err := New(cfg).Classify(m, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, level.Office, m.Rooms[0].Classification)
	assert.Equal(t, level.Office, m.Rooms[1].Classification)
	assert.Equal(t, 2, report.Counts[level.Office])
	assert.Equal(t, 2, report.Counts[level.StorageRoom])
}

func TestSoftTargetRebalances(t *testing.T) {
	m := rowOfRooms(10)
	cfg := twoTypeConfig()
	cfg.Rules[0].TargetPercent = 0.2
	cfg.Rules[0].Tolerance = 0.1

	report, err := New(cfg).Classify(m, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Counts[level.Office])
	assert.Equal(t, 7, report.Counts[level.StorageRoom])
}

func TestTooSmallRoomsFallBack(t *testing.T) {
	m := level.NewMap(30, 30)
	m.AddRoom(geom.R(2, 2, 3, 3), 0)
	m.AddRoom(geom.R(10, 10, 8, 8), 0)

	cfg := twoTypeConfig()
	for i := range cfg.Rules {
		cfg.Rules[i].MinArea = 20
		cfg.Rules[i].PreferredArea = 30
		cfg.Rules[i].MaxArea = 60
	}
	// No rule for the fallback type, so it has no minimum size.
	cfg.FallbackType = level.MaintenanceRoom

	report, err := New(cfg).Classify(m, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, report.Fallback)
	assert.Equal(t, level.MaintenanceRoom, m.Rooms[0].Classification)
	assert.Equal(t, level.Office, m.Rooms[1].Classification)
}

func TestFallbackMustAdmitSmallestRoom(t *testing.T) {
	cfg := twoTypeConfig()
	cfg.Rules[1].MinArea = 20
	cfg.Rules[1].PreferredArea = 30
	cfg.FallbackType = level.StorageRoom

	err := cfg.Validate()
	require.Error(t, err)
	fields := errors.GetMeta(err)["fields"].(map[string][]string)
	assert.Contains(t, fields, "classification.fallback_type")

	// Rooms are never carved below 4x4 here, so area 16 is enough.
	cfg.Rules[1].MinArea = 16
	cfg.MinRoomDimension = 4
	assert.NoError(t, cfg.Validate())

	cfg.Rules[1].MinDimension = 5
	assert.Error(t, cfg.Validate())
}

func TestFallbackNeverBreaksMinimumSize(t *testing.T) {
	m := level.NewMap(30, 30)
	m.AddRoom(geom.R(2, 2, 2, 2), 0)
	m.AddRoom(geom.R(10, 10, 8, 8), 0)

	cfg := twoTypeConfig()
	cfg.FallbackType = level.Office

	report, err := New(cfg).Classify(m, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.IsFailedPrecondition(err))
	assert.Equal(t, level.Unassigned, m.Rooms[0].Classification)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "duplicate rule", mutate: func(c *Config) { c.Rules = append(c.Rules, c.Rules[0]) }, field: "classification.rules[lobby].type"},
		{name: "preferred below min", mutate: func(c *Config) { c.Rules[2].PreferredArea = 1 }, field: "classification.rules[office].preferred_area"},
		{name: "bad percent", mutate: func(c *Config) { c.Rules[2].MaxPercent = 2 }, field: "classification.rules[office].max_percent"},
		{name: "no fallback", mutate: func(c *Config) { c.FallbackType = level.Unassigned }, field: "classification.fallback_type"},
		{name: "negative jitter", mutate: func(c *Config) { c.Jitter = -1 }, field: "classification.jitter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
			fields, ok := errors.GetMeta(err)["fields"].(map[string][]string)
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())

	_, err := New(DefaultConfig()).Classify(nil, rand.New(rand.NewSource(1)))
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestSizeScore(t *testing.T) {
	r := Rule{MinArea: 10, PreferredArea: 20, MaxArea: 40}
	assert.InDelta(t, 0.5, sizeScore(r, 10), 1e-9)
	assert.InDelta(t, 1.0, sizeScore(r, 20), 1e-9)
	assert.InDelta(t, 0.75, sizeScore(r, 30), 1e-9)
	assert.InDelta(t, 0.5, sizeScore(r, 40), 1e-9)
	assert.InDelta(t, 0.25, sizeScore(r, 80), 1e-9)

	r.MaxArea = 0
	assert.Equal(t, 1.0, sizeScore(r, 500))
}

func TestPositionAndDepthPreferences(t *testing.T) {
	m := level.NewMap(60, 60)
	corner := m.AddRoom(geom.R(1, 1, 5, 5), 0)
	middle := m.AddRoom(geom.R(27, 27, 6, 6), 0)
	side := m.AddRoom(geom.R(27, 1, 6, 5), 0)

	assert.Equal(t, Corner, locate(m, corner).class)
	assert.Equal(t, Center, locate(m, middle).class)
	assert.Equal(t, Edge, locate(m, side).class)
	assert.Greater(t, positionScore(Center, locate(m, middle)), positionScore(Center, locate(m, corner)))
	assert.Greater(t, positionScore(Corner, locate(m, corner)), positionScore(Corner, locate(m, side)))

	assert.Equal(t, 1.0, depthScore(Deep, 1))
	assert.Equal(t, 1.0, depthScore(Shallow, 0))
	assert.Equal(t, 1.0, depthScore(Medium, 0.5))
	assert.Equal(t, 0.5, depthScore(AnyDepth, 0.9))
}

func TestNameRooms(t *testing.T) {
	m := rowOfRooms(8)
	for _, room := range m.Rooms {
		room.Classification = level.ServerRoom
	}
	NameRooms(m, rand.New(rand.NewSource(9)))

	bases, adj := NamesForType(level.ServerRoom)
	seen := map[string]bool{}
	for _, room := range m.Rooms {
		require.NotEmpty(t, room.Name)
		assert.False(t, seen[room.Name], "duplicate name %q", room.Name)
		seen[room.Name] = true

		hasBase, hasAdj := false, false
		for _, b := range bases {
			hasBase = hasBase || strings.Contains(room.Name, b)
		}
		for _, a := range adj {
			hasAdj = hasAdj || strings.HasPrefix(room.Name, a+" ")
		}
		assert.True(t, hasBase && hasAdj, "name %q", room.Name)
	}
}

func TestPreferenceText(t *testing.T) {
	var p Position
	require.NoError(t, p.UnmarshalText([]byte("Corner")))
	assert.Equal(t, Corner, p)
	assert.Error(t, p.UnmarshalText([]byte("ceiling")))

	var d Depth
	require.NoError(t, d.UnmarshalText([]byte("deep")))
	assert.Equal(t, Deep, d)
	text, err := Shallow.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "shallow", string(text))
}
