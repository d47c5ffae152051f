package pathfind

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/pkg/engine/clock"
	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
)

func noCache() Config {
	cfg := DefaultConfig()
	cfg.CacheTTL = 0
	cfg.HierarchicalThreshold = 0
	return cfg
}

func fourWay() Config {
	cfg := noCache()
	cfg.AllowDiagonal = false
	cfg.Heuristic = Manhattan
	return cfg
}

func assertWalkable(t *testing.T, path []geom.Point, grid *Grid, diagonal bool) {
	t.Helper()
	for i, p := range path {
		assert.False(t, grid.IsBlocked(p), "path crosses obstacle at %s", p)
		if i == 0 {
			continue
		}
		step := p.Sub(path[i-1])
		if diagonal {
			assert.Equal(t, 1, path[i-1].Chebyshev(p), "gap between %s and %s", path[i-1], p)
		} else {
			assert.Equal(t, 1, geom.Abs(step.X)+geom.Abs(step.Y), "gap between %s and %s", path[i-1], p)
		}
	}
}

func TestFindPathDiagonal(t *testing.T) {
	grid := NewGrid(10, 10)
	pf := New(noCache())

	res, err := pf.FindPath(geom.Pt(1, 1), geom.Pt(8, 8), grid, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Len(t, res.Path, 8)
	assert.InDelta(t, 7*math.Sqrt2, res.Cost, 1e-9)
	for i, p := range res.Path {
		assert.Equal(t, geom.Pt(1+i, 1+i), p)
	}
}

func TestFindPathEnclosedStart(t *testing.T) {
	grid := NewGrid(10, 10)
	start := geom.Pt(5, 5)
	for _, d := range steps {
		grid.Set(start.Add(d), true)
	}
	pf := New(noCache())

	res, err := pf.FindPath(start, geom.Pt(1, 1), grid, nil)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Empty(t, res.Path)
	assert.False(t, pf.PathExists(start, geom.Pt(1, 1), grid))
}

func TestFindPathValidation(t *testing.T) {
	pf := New(noCache())
	grid := NewGrid(5, 5)
	grid.Set(geom.Pt(4, 4), true)

	tests := []struct {
		name       string
		grid       *Grid
		start, end geom.Point
	}{
		{"nil grid", nil, geom.Pt(0, 0), geom.Pt(1, 1)},
		{"empty grid", NewGrid(0, 3), geom.Pt(0, 0), geom.Pt(0, 1)},
		{"start outside", grid, geom.Pt(-1, 0), geom.Pt(1, 1)},
		{"end outside", grid, geom.Pt(0, 0), geom.Pt(5, 0)},
		{"end blocked", grid, geom.Pt(0, 0), geom.Pt(4, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pf.FindPath(tt.start, tt.end, tt.grid, nil)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}

	_, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(1, 1), grid, NewCostGrid(3, 3))
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestFindPathSameCell(t *testing.T) {
	res, err := New(noCache()).FindPath(geom.Pt(2, 2), geom.Pt(2, 2), NewGrid(5, 5), nil)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []geom.Point{{X: 2, Y: 2}}, res.Path)
	assert.Zero(t, res.Cost)
}

func TestFindPathAroundWall(t *testing.T) {
	grid := NewGrid(10, 10)
	grid.Fill(geom.R(5, 0, 1, 9), true)
	pf := New(fourWay())

	res, err := pf.FindPath(geom.Pt(1, 1), geom.Pt(8, 1), grid, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assertWalkable(t, res.Path, grid, false)
	assert.Contains(t, res.Path, geom.Pt(5, 9))
	assert.InDelta(t, float64(len(res.Path)-1), res.Cost, 1e-9)
}

func TestDiagonalMovesDoNotCutCorners(t *testing.T) {
	grid := NewGrid(3, 3)
	grid.Set(geom.Pt(1, 0), true)
	pf := New(noCache())

	res, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(1, 1), grid, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, res.Path)

	grid.Set(geom.Pt(0, 1), true)
	res, err = pf.FindPath(geom.Pt(0, 0), geom.Pt(1, 1), grid, nil)
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestCostGridSteersSearch(t *testing.T) {
	grid := NewGrid(5, 3)
	costs := NewCostGrid(5, 3)
	for x := 1; x <= 3; x++ {
		costs.Set(geom.Pt(x, 1), 10)
	}
	pf := New(fourWay())

	res, err := pf.FindPath(geom.Pt(0, 1), geom.Pt(4, 1), grid, costs)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.InDelta(t, 6.0, res.Cost, 1e-9)
	assert.NotContains(t, res.Path, geom.Pt(2, 1))
	assert.InDelta(t, res.Cost, CalculatePathCost(res.Path, costs), 1e-9)
}

func TestCalculatePathCost(t *testing.T) {
	path := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 1}, {X: 5, Y: 5}}
	assert.InDelta(t, 1+math.Sqrt2+5, CalculatePathCost(path, nil), 1e-9)
	assert.Zero(t, CalculatePathCost(path[:1], nil))
}

func TestFindPathToAny(t *testing.T) {
	pf := New(fourWay())
	grid := NewGrid(10, 10)

	res, err := pf.FindPathToAny(geom.Pt(0, 0), []geom.Point{{X: 9, Y: 9}, {X: 3, Y: 0}}, grid, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Len(t, res.Path, 4)
	assert.Equal(t, geom.Pt(3, 0), res.Path[len(res.Path)-1])

	var column []geom.Point
	for y := 0; y < 10; y++ {
		for x := 3; x < 10; x++ {
			column = append(column, geom.Pt(x, y))
		}
	}
	require.Greater(t, len(column), maxHeuristicTargets)
	res, err = pf.FindPathToAny(geom.Pt(0, 5), column, grid, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.InDelta(t, 3.0, res.Cost, 1e-9)

	_, err = pf.FindPathToAny(geom.Pt(0, 0), []geom.Point{{X: 20, Y: 20}}, grid, nil)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestGetReachablePositions(t *testing.T) {
	pf := New(fourWay())
	grid := NewGrid(5, 5)

	near := pf.GetReachablePositions(geom.Pt(2, 2), grid, 1)
	assert.Len(t, near, 5)
	assert.Equal(t, geom.Pt(2, 2), near[0])

	assert.Len(t, pf.GetReachablePositions(geom.Pt(2, 2), grid, -1), 25)

	grid.Fill(geom.R(0, 3, 5, 1), true)
	assert.Len(t, pf.GetReachablePositions(geom.Pt(2, 2), grid, -1), 15)

	grid.Set(geom.Pt(2, 2), true)
	assert.Nil(t, pf.GetReachablePositions(geom.Pt(2, 2), grid, -1))
}

func TestPathCacheExpiry(t *testing.T) {
	clk := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := DefaultConfig()
	cfg.HierarchicalThreshold = 0
	cfg.CacheTTL = 10 * time.Second
	cfg.Clock = clk
	pf := New(cfg)
	grid := NewGrid(10, 10)

	first, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(9, 9), grid, nil)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(9, 9), grid, nil)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, 1, pf.Stats().CacheHits)

	// Mutating the returned path must not poison the cache.
	second.Path[0] = geom.Pt(5, 5)
	third, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(9, 9), grid, nil)
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(0, 0), third.Path[0])

	clk.Advance(11 * time.Second)
	expired, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(9, 9), grid, nil)
	require.NoError(t, err)
	assert.False(t, expired.Cached)

	grid.Set(geom.Pt(4, 4), true)
	changed, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(9, 9), grid, nil)
	require.NoError(t, err)
	assert.False(t, changed.Cached)
	assert.NotContains(t, changed.Path, geom.Pt(4, 4))

	pf.ClearCache()
	assert.Zero(t, pf.CacheLen())
}

func TestPathCacheIsBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HierarchicalThreshold = 0
	cfg.CacheSize = 3
	cfg.Clock = clock.NewManual(time.Unix(0, 0))
	pf := New(cfg)
	grid := NewGrid(8, 8)

	for x := 1; x < 8; x++ {
		_, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(x, 7), grid, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, pf.CacheLen())
}

func TestNodePoolReuse(t *testing.T) {
	pf := New(noCache())
	a, b := NewGrid(10, 10), NewGrid(12, 12)

	for i := 0; i < 3; i++ {
		_, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(9, 9), a, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, pf.Stats().Searches)
	assert.Equal(t, 2, pf.Stats().PoolReuses)

	_, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(9, 9), b, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, pf.Stats().PoolReuses)

	// A reused pool must not leak state between searches.
	a.Fill(geom.R(0, 5, 9, 1), true)
	res, err := pf.FindPath(geom.Pt(0, 0), geom.Pt(0, 9), a, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assertWalkable(t, res.Path, a, true)
}

func TestHierarchicalSearch(t *testing.T) {
	grid := NewGrid(64, 64)
	grid.Fill(geom.R(32, 0, 1, 64), true)
	grid.Set(geom.Pt(32, 60), false)

	cfg := noCache()
	cfg.HierarchicalThreshold = 1024
	cfg.ClusterSize = 8
	pf := New(cfg)

	res, err := pf.FindPath(geom.Pt(2, 2), geom.Pt(60, 2), grid, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.True(t, res.Hierarchical)
	assert.Equal(t, 1, pf.Stats().HierarchicalSearches)
	assert.Contains(t, res.Path, geom.Pt(32, 60))
	assertWalkable(t, res.Path, grid, true)

	flat, err := New(noCache()).FindPath(geom.Pt(2, 2), geom.Pt(60, 2), grid, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Cost, flat.Cost-1e-9)
}

func TestHierarchicalCostStaysNearOptimal(t *testing.T) {
	grid := NewGrid(64, 64)
	cfg := noCache()
	cfg.HierarchicalThreshold = 1024
	cfg.ClusterSize = 8
	pf := New(cfg)

	for _, goal := range []geom.Point{geom.Pt(62, 62), geom.Pt(62, 1), geom.Pt(10, 50)} {
		res, err := pf.FindPath(geom.Pt(1, 1), goal, grid, nil)
		require.NoError(t, err)
		require.True(t, res.Found)
		assert.True(t, res.Hierarchical)

		flat, err := New(noCache()).FindPath(geom.Pt(1, 1), goal, grid, nil)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.Cost, 1.5*flat.Cost, "goal %s", goal)
	}
}

func TestHierarchicalFallsBackToFullSearch(t *testing.T) {
	grid := NewGrid(40, 40)
	grid.Fill(geom.R(20, 0, 1, 40), true)

	cfg := noCache()
	cfg.HierarchicalThreshold = 100
	cfg.ClusterSize = 8
	res, err := New(cfg).FindPath(geom.Pt(1, 1), geom.Pt(38, 38), grid, nil)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.False(t, res.Hierarchical)
}

func randomGrid(rng *rand.Rand, w, h int, density float64, keep ...geom.Point) *Grid {
	g := NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(geom.Pt(x, y), rng.Float64() < density)
		}
	}
	for _, p := range keep {
		g.Set(p, false)
	}
	return g
}

func TestOptimizedAndSmoothedPathsAvoidObstacles(t *testing.T) {
	start, end := geom.Pt(0, 0), geom.Pt(19, 19)
	found := 0
	for seed := int64(1); seed <= 60; seed++ {
		grid := randomGrid(rand.New(rand.NewSource(seed)), 20, 20, 0.2, start, end)

		pf8 := New(noCache())
		res, err := pf8.FindPath(start, end, grid, nil)
		require.NoError(t, err)
		if !res.Found {
			continue
		}
		found++
		assertWalkable(t, res.Path, grid, true)

		opt := pf8.OptimizePath(res.Path, grid)
		assert.Equal(t, start, opt[0])
		assert.Equal(t, end, opt[len(opt)-1])
		for i := 1; i < len(opt); i++ {
			for _, p := range geom.Line(opt[i-1], opt[i]) {
				assert.False(t, grid.IsBlocked(p), "seed %d: shortcut crosses %s", seed, p)
			}
		}

		pf4 := New(fourWay())
		res4, err := pf4.FindPath(start, end, grid, nil)
		require.NoError(t, err)
		require.True(t, res4.Found)
		sm := NewSmoother(pf4, DefaultSmoothingConfig())

		cont := sm.EnsureContinuity(sm.Smooth(res4.Path, grid, 0.5), grid)
		assert.Equal(t, start, cont[0])
		assert.Equal(t, end, cont[len(cont)-1])
		assertWalkable(t, cont, grid, false)

		for _, p := range sm.Smooth(res4.Path, grid, 1.0) {
			assert.False(t, grid.IsBlocked(p), "seed %d: spline point on obstacle %s", seed, p)
		}
	}
	assert.Greater(t, found, 10)
}
