package levelgen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/bsp"
	"mapforge/pkg/game/classify"
	"mapforge/pkg/game/corridor"
	"mapforge/pkg/game/level"
)

// singleRoom returns a map holding one w×h room of type t at (2,2) and no
// spawn room.
func singleRoom(t level.RoomType, w, h int) *level.Map {
	m := level.NewMap(w+4, h+4)
	r := m.AddRoom(geom.R(2, 2, w, h), 1)
	r.Classification = t
	return m
}

// generatedMap runs the layout stages up to content placement.
func generatedMap(t *testing.T, seed int64) (*level.Map, *rand.Rand) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m := level.NewMap(80, 56)
	root := bsp.Build(m.Interior(), bsp.DefaultParams(), rng)
	bsp.CarveRooms(root, bsp.DefaultRoomParams(), rng)
	for _, leaf := range root.Leaves() {
		if leaf.Room != nil {
			m.AddRoom(*leaf.Room, leaf.Depth)
		}
	}
	_, err := classify.New(classify.DefaultConfig()).Classify(m, rng)
	require.NoError(t, err)
	m.SpawnRoomID = 0
	m.PlayerSpawn = m.Rooms[0].Center
	_, err = corridor.New(corridor.DefaultConfig()).Generate(m)
	require.NoError(t, err)
	return m, rng
}

func TestAmountCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		assert.Zero(t, Amount{Probability: 0, Min: 1, Max: 3}.count(100, rng))
		assert.Equal(t, 2, Amount{Probability: 1, Min: 2, Max: 2}.count(100, rng))

		n := Amount{Probability: 1, Min: 1, Max: 3}.count(100, rng)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 3)
	}

	scaled := Amount{Probability: 1, Min: 2, Max: 2, ScaleWithArea: true, ReferenceArea: 16}
	assert.Equal(t, 4, scaled.count(32, rng))
	assert.Equal(t, 1, scaled.count(2, rng), "a passed gate keeps at least one instance")
}

func TestPickAssetHonoursWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := []WeightedAsset{{ID: "common", Weight: 9}, {ID: "rare", Weight: 1}}
	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		counts[pickAsset(pool, rng)]++
	}
	assert.Greater(t, counts["common"], 5*counts["rare"])
	assert.Empty(t, pickAsset(nil, rng))
}

func TestSpawnCountStaysClamped(t *testing.T) {
	for _, p := range DefaultSpawns() {
		for _, area := range []int{9, 30, 64, 150, 400} {
			for u := 0.0; u <= 1.0; u += 0.05 {
				n := p.Count(area, u)
				assert.GreaterOrEqual(t, n, p.Min)
				assert.LessOrEqual(t, n, p.Max)
			}
		}
	}

	p := SpawnProfile{BaseDensity: 4, ReferenceArea: 0, Modifier: 1, Variance: 0, Min: 0, Max: 10}
	assert.Equal(t, 4, p.Count(200, 0.3), "a missing reference area means no area scaling")
}

func TestBreakRoomFoodRate(t *testing.T) {
	opts := Options{Resources: DefaultResources(), Difficulty: 5}
	const trials = 400
	hits := 0
	for seed := int64(0); seed < trials; seed++ {
		m := singleRoom(level.BreakRoom, 10, 8)
		_, err := NewPopulator(opts).Populate(m, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		for _, r := range m.Resources {
			if r.Type == level.Food {
				hits++
				break
			}
		}
	}
	rate := float64(hits) / trials
	assert.InDelta(t, 0.8, rate, 0.07)
}

func TestHealthValueFallsWithDifficulty(t *testing.T) {
	table := ResourceTable{
		level.MedicalBay: {resource(level.Health, amount(1, 1, 1), PreferCorner, 20, 2, 2, "medkit")},
	}
	place := func(d int) *level.Resource {
		m := singleRoom(level.MedicalBay, 8, 8)
		_, err := NewPopulator(Options{Resources: table, Difficulty: d}).Populate(m, rand.New(rand.NewSource(3)))
		require.NoError(t, err)
		require.Len(t, m.Resources, 1)
		return m.Resources[0]
	}

	easy, hard := place(1), place(10)
	assert.Greater(t, easy.Value, hard.Value)
	assert.GreaterOrEqual(t, easy.Quantity, hard.Quantity)
	assert.GreaterOrEqual(t, hard.Quantity, 1)
	assert.True(t, easy.Consumable)
}

func TestGeneratedHealthFallsWithDifficulty(t *testing.T) {
	health := func(seed int64, d int) (count int, total float64) {
		m, rng := generatedMap(t, seed)
		opts := DefaultOptions()
		opts.Difficulty = d
		_, err := NewPopulator(opts).Populate(m, rng)
		require.NoError(t, err)
		for _, r := range m.Resources {
			if r.Type == level.Health {
				count++
				total += r.Value * float64(r.Quantity)
			}
		}
		return count, total
	}

	var easyTotal, hardTotal float64
	for seed := int64(1); seed <= 5; seed++ {
		easyCount, easy := health(seed, 1)
		hardCount, hard := health(seed, 10)
		assert.Equal(t, easyCount, hardCount, "seed %d: difficulty scales pickups, not placement", seed)
		assert.LessOrEqual(t, hard, easy, "seed %d", seed)
		easyTotal += easy
		hardTotal += hard
	}
	require.Greater(t, easyTotal, 0.0, "default tables place health pickups")
	assert.Less(t, hardTotal, easyTotal)
}

func TestResourcesAvoidDoorways(t *testing.T) {
	m := singleRoom(level.Armory, 6, 6)
	room := m.Rooms[0]
	room.AddDoorway(level.Doorway{Position: geom.Pt(4, 2), Direction: geom.North, Width: 1})

	_, err := NewPopulator(Options{Resources: DefaultResources(), Difficulty: 5}).Populate(m, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	require.NotEmpty(t, m.Resources)
	for _, r := range m.Resources {
		assert.Greater(t, room.DoorwayDistance(r.Position), 1)
	}
}

func TestResourceEffectIsCopied(t *testing.T) {
	effect := &level.TimedEffect{Name: "haste", Duration: 5, Magnitude: 1.5}
	rule := resource(level.Health, amount(1, 2, 2), PreferRandom, 10, 1, 1, "stim")
	rule.Effect = effect
	m := singleRoom(level.Laboratory, 6, 6)

	_, err := NewPopulator(Options{Resources: ResourceTable{level.Laboratory: {rule}}, Difficulty: 5}).Populate(m, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, m.Resources, 2)
	assert.Equal(t, *effect, *m.Resources[0].Effect)
	assert.NotSame(t, effect, m.Resources[0].Effect)
	assert.NotSame(t, m.Resources[0].Effect, m.Resources[1].Effect)
}

func TestAgainstWallFurnitureFacesIntoRoom(t *testing.T) {
	table := FurnitureTable{level.Office: {wall("desk", 2, 1, amount(1, 4, 4), "desk")}}
	for seed := int64(1); seed <= 10; seed++ {
		m := singleRoom(level.Office, 8, 6)
		room := m.Rooms[0]
		_, err := NewPopulator(Options{Furniture: table}).Populate(m, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.NotEmpty(t, m.Furniture)
		for _, f := range m.Furniture {
			dir, ok := touchesEdge(room.Bounds, f.Footprint())
			require.True(t, ok, "seed %d: %s", seed, f.Footprint())
			assert.Equal(t, 90*int(dir), f.Rotation)
		}
	}
}

func TestBlockingFurnitureKeepsRoomPassable(t *testing.T) {
	table := FurnitureTable{level.StorageRoom: {cover("crate", amount(1, 30, 30), "crate")}}
	for seed := int64(1); seed <= 10; seed++ {
		m := singleRoom(level.StorageRoom, 5, 7)
		room := m.Rooms[0]
		room.AddDoorway(level.Doorway{Position: geom.Pt(4, 2), Direction: geom.North, Width: 1})
		room.AddDoorway(level.Doorway{Position: geom.Pt(2, 6), Direction: geom.West, Width: 1})

		res, err := NewPopulator(Options{Furniture: table}).Populate(m, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		assert.Positive(t, res.Failed, "a full room runs out of positions")

		s, err := NewSession(m, rand.New(rand.NewSource(0)), 1, nil)
		require.NoError(t, err)
		assert.True(t, roomStillConnected(room, s.Collisions, geom.Rect{}), "seed %d", seed)
		for _, d := range room.Doorways {
			assert.False(t, s.Collisions.BlocksMovementAt(d.Position))
		}
	}
}

func TestSpawnPointsKeepTheirDistance(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		m, rng := generatedMap(t, seed)
		_, err := NewPopulator(DefaultOptions()).Populate(m, rng)
		require.NoError(t, err)

		byRoom := map[int][]*level.SpawnPoint{}
		for _, sp := range m.SpawnPoints {
			room := m.Room(sp.RoomID)
			require.NotNil(t, room)
			assert.True(t, room.Bounds.Contains(sp.Position))
			if d := room.DoorwayDistance(sp.Position); d >= 0 {
				assert.GreaterOrEqual(t, d, 2, "seed %d", seed)
			}
			for _, other := range byRoom[sp.RoomID] {
				assert.GreaterOrEqual(t, sp.Position.Chebyshev(other.Position), 2)
			}
			byRoom[sp.RoomID] = append(byRoom[sp.RoomID], sp)
		}
		for id, sps := range byRoom {
			assert.LessOrEqual(t, len(sps), DefaultSpawns()[m.Room(id).Classification].Max)
		}
		assert.Empty(t, byRoom[m.SpawnRoomID], "the start room stays safe")
	}
}

func TestSpawnSpacingIsConfigurable(t *testing.T) {
	crowded := SpawnTable{level.Office: {BaseDensity: 6, Modifier: 1, Max: 10, Categories: []SpawnCategory{SpawnRandom}}}
	place := func(spacing int) (*level.Map, *Result) {
		m := singleRoom(level.Office, 3, 3)
		res, err := NewPopulator(Options{Spawns: crowded, Difficulty: 5, SpawnSpacing: spacing}).Populate(m, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		return m, res
	}

	m, res := place(0)
	assert.Len(t, m.SpawnPoints, 6, "no spacing packs a 3x3 room")
	assert.Zero(t, res.Failed)

	m, res = place(DefaultSpawnSpacing)
	assert.LessOrEqual(t, len(m.SpawnPoints), 4)
	assert.Equal(t, 6-len(m.SpawnPoints), res.Failed, "every skipped instance is reported")
	for i, a := range m.SpawnPoints {
		for _, b := range m.SpawnPoints[i+1:] {
			assert.GreaterOrEqual(t, a.Position.Chebyshev(b.Position), DefaultSpawnSpacing)
		}
	}
}

func TestPopulatedMapsValidate(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		m, rng := generatedMap(t, seed)
		res, err := NewPopulator(DefaultOptions()).Populate(m, rng)
		require.NoError(t, err)
		assert.Positive(t, res.Furniture)

		v := level.Validate(m)
		assert.False(t, v.HasErrors(), "seed %d: %s", seed, v.Summary())

		for _, o := range m.Objects() {
			assert.False(t, o.Footprint().Contains(m.PlayerSpawn), "object %d covers the player start", o.ID)
		}
	}
}

func TestPopulateIsDeterministic(t *testing.T) {
	a, rngA := generatedMap(t, 21)
	b, rngB := generatedMap(t, 21)
	_, err := NewPopulator(DefaultOptions()).Populate(a, rngA)
	require.NoError(t, err)
	_, err = NewPopulator(DefaultOptions()).Populate(b, rngB)
	require.NoError(t, err)
	assert.Equal(t, a.Objects(), b.Objects())
}

func TestEventsReachObserver(t *testing.T) {
	var seen []Event
	opts := DefaultOptions()
	opts.OnEvent = func(e Event) { seen = append(seen, e) }

	m, rng := generatedMap(t, 5)
	res, err := NewPopulator(opts).Populate(m, rng)
	require.NoError(t, err)
	assert.Equal(t, res.Events, seen)

	placed := 0
	for _, e := range seen {
		if e.Kind == Placed {
			placed++
			assert.GreaterOrEqual(t, e.ObjectID, 0)
		} else {
			assert.Equal(t, NoObject, e.ObjectID)
			assert.NotEmpty(t, e.Reason)
		}
	}
	assert.Equal(t, len(m.Objects()), placed)
	assert.Equal(t, res.Furniture+res.SpawnPoints+res.Resources, placed)
}

func TestPopulateRejectsMissingInput(t *testing.T) {
	_, err := NewPopulator(DefaultOptions()).Populate(nil, rand.New(rand.NewSource(1)))
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = NewPopulator(DefaultOptions()).Populate(level.NewMap(10, 10), nil)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestDefaultTablesCoverEveryRoomType(t *testing.T) {
	furniture, spawns, resources := DefaultFurniture(), DefaultSpawns(), DefaultResources()
	for _, rt := range level.AllRoomTypes() {
		assert.NotEmpty(t, furniture[rt], rt.String())
		assert.Contains(t, spawns, rt)
		assert.NotEmpty(t, resources[rt], rt.String())
	}

	food := resources[level.BreakRoom][0]
	assert.Equal(t, level.Food, food.Type)
	assert.Equal(t, 0.8, food.Probability)
	assert.Equal(t, 1, food.Min)
	assert.Equal(t, 2, food.Max)

	for _, rt := range []level.RoomType{level.MedicalBay, level.BreakRoom, level.Restroom, level.Lobby} {
		found := false
		for _, r := range resources[rt] {
			found = found || r.Type == level.Health
		}
		assert.True(t, found, "%s carries health", rt)
	}
}
