// Package pathfind provides the obstacle grid, the A* pathfinder session,
// path smoothing and corridor width validation used while carving corridors.
package pathfind

import (
	"log/slog"
	"math"
	"time"

	"mapforge/pkg/engine/clock"
	"mapforge/pkg/engine/geom"
	"mapforge/pkg/engine/pqueue"
	"mapforge/pkg/errors"
)

// maxHeuristicTargets bounds the min-over-targets heuristic of
// FindPathToAny. Larger target sets search with a zero heuristic.
const maxHeuristicTargets = 64

// Config controls a pathfinder session.
type Config struct {
	Heuristic     Heuristic
	AllowDiagonal bool

	// CacheTTL is how long a FindPath result stays cached. Zero disables
	// the cache.
	CacheTTL  time.Duration
	CacheSize int

	// Grids with at least HierarchicalThreshold cells are searched
	// cluster-first. Zero disables hierarchical mode.
	HierarchicalThreshold int
	ClusterSize           int

	Clock  clock.Clock
	Logger *slog.Logger
}

// DefaultConfig returns an 8-way octile session with a 30s cache.
func DefaultConfig() Config {
	return Config{
		Heuristic:             Octile,
		AllowDiagonal:         true,
		CacheTTL:              30 * time.Second,
		CacheSize:             256,
		HierarchicalThreshold: 128 * 128,
		ClusterSize:           16,
	}
}

// Result is the outcome of one search. A search that finds nothing is not
// an error: Found is false and Path is empty.
type Result struct {
	Path         []geom.Point
	Cost         float64
	Found        bool
	Expanded     int
	Cached       bool
	Hierarchical bool
}

// Stats counts work done by a session.
type Stats struct {
	Searches             int
	PoolReuses           int
	CacheHits            int
	CacheMisses          int
	HierarchicalSearches int
}

// Pathfinder is a search session. It owns a node pool and a path cache and
// is not safe for concurrent use.
type Pathfinder struct {
	cfg    Config
	clock  clock.Clock
	logger *slog.Logger

	pool  nodePool
	open  *pqueue.Queue[*node]
	cache *pathCache
	stats Stats
}

// New returns a session using cfg. A nil clock uses the system clock and a
// nil logger uses slog.Default().
func New(cfg Config) *Pathfinder {
	pf := &Pathfinder{
		cfg:    cfg,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		open:   pqueue.New(lessNode),
	}
	if pf.clock == nil {
		pf.clock = clock.New()
	}
	if pf.logger == nil {
		pf.logger = slog.Default()
	}
	if pf.cfg.ClusterSize < 2 {
		pf.cfg.ClusterSize = 16
	}
	if cfg.CacheTTL > 0 {
		pf.cache = newPathCache(cfg.CacheTTL, cfg.CacheSize)
	}
	return pf
}

// Config returns the session configuration.
func (pf *Pathfinder) Config() Config {
	return pf.cfg
}

func (pf *Pathfinder) Stats() Stats {
	return pf.stats
}

// ClearCache drops every cached result.
func (pf *Pathfinder) ClearCache() {
	if pf.cache != nil {
		pf.cache.clear()
	}
}

// CacheLen returns the number of cached results, expired ones included.
func (pf *Pathfinder) CacheLen() int {
	if pf.cache == nil {
		return 0
	}
	return pf.cache.len()
}

func validateGrid(grid *Grid, costs *CostGrid) error {
	if grid.Empty() {
		return errors.InvalidArgument("obstacle grid is empty")
	}
	if costs != nil && (costs.width != grid.Width() || costs.height != grid.Height()) {
		return errors.InvalidArgumentf("cost grid %dx%d does not match obstacle grid %dx%d",
			costs.width, costs.height, grid.Width(), grid.Height())
	}
	return nil
}

func validateEndpoint(name string, p geom.Point, grid *Grid) error {
	if !grid.InBounds(p) {
		return errors.InvalidArgumentf("%s %s outside %dx%d grid", name, p, grid.Width(), grid.Height())
	}
	if grid.IsBlocked(p) {
		return errors.InvalidArgumentf("%s %s is blocked", name, p)
	}
	return nil
}

// FindPath searches from start to end. costs may be nil.
func (pf *Pathfinder) FindPath(start, end geom.Point, grid *Grid, costs *CostGrid) (*Result, error) {
	if err := validateGrid(grid, costs); err != nil {
		return nil, err
	}
	if err := validateEndpoint("start", start, grid); err != nil {
		return nil, err
	}
	if err := validateEndpoint("end", end, grid); err != nil {
		return nil, err
	}
	if start == end {
		return &Result{Path: []geom.Point{start}, Found: true}, nil
	}

	var key cacheKey
	if pf.cache.enabled() {
		key = cacheKey{
			start:     start,
			end:       end,
			grid:      grid.Hash(),
			costs:     costs.Hash(),
			diagonal:  pf.cfg.AllowDiagonal,
			heuristic: pf.cfg.Heuristic,
		}
		if r, ok := pf.cache.get(key, pf.clock.Now()); ok {
			pf.stats.CacheHits++
			pf.logger.Debug("path cache hit", "start", start, "end", end)
			r.Path = append([]geom.Point(nil), r.Path...)
			r.Cached = true
			return &r, nil
		}
		pf.stats.CacheMisses++
	}

	var res *Result
	if pf.useHierarchical(grid) {
		res = pf.findHierarchical(start, end, grid, costs)
	} else {
		res = pf.search(&searchSpec{
			grid:      grid,
			costs:     costs,
			start:     start,
			goal:      func(p geom.Point) bool { return p == end },
			heuristic: func(p geom.Point) float64 { return pf.cfg.Heuristic.Estimate(p, end) },
			diagonal:  pf.cfg.AllowDiagonal,
		})
	}

	if pf.cache.enabled() {
		stored := *res
		stored.Path = append([]geom.Point(nil), res.Path...)
		pf.cache.put(key, stored, pf.clock.Now())
	}
	return res, nil
}

// FindPathToAny searches from start to the nearest reachable target.
// Targets outside the grid or on blocked cells are ignored; at least one
// must remain.
func (pf *Pathfinder) FindPathToAny(start geom.Point, targets []geom.Point, grid *Grid, costs *CostGrid) (*Result, error) {
	if err := validateGrid(grid, costs); err != nil {
		return nil, err
	}
	if err := validateEndpoint("start", start, grid); err != nil {
		return nil, err
	}

	goals := make(map[geom.Point]struct{}, len(targets))
	var usable []geom.Point
	for _, t := range targets {
		if grid.IsBlocked(t) {
			continue
		}
		if _, dup := goals[t]; dup {
			continue
		}
		goals[t] = struct{}{}
		usable = append(usable, t)
	}
	if len(usable) == 0 {
		return nil, errors.InvalidArgument("no usable targets")
	}
	if _, ok := goals[start]; ok {
		return &Result{Path: []geom.Point{start}, Found: true}, nil
	}

	h := func(geom.Point) float64 { return 0 }
	if len(usable) <= maxHeuristicTargets {
		h = func(p geom.Point) float64 {
			best := math.Inf(1)
			for _, t := range usable {
				best = math.Min(best, pf.cfg.Heuristic.Estimate(p, t))
			}
			return best
		}
	}

	return pf.search(&searchSpec{
		grid:  grid,
		costs: costs,
		start: start,
		goal: func(p geom.Point) bool {
			_, ok := goals[p]
			return ok
		},
		heuristic: h,
		diagonal:  pf.cfg.AllowDiagonal,
	}), nil
}

type searchSpec struct {
	grid      *Grid
	costs     *CostGrid
	start     geom.Point
	goal      func(geom.Point) bool
	heuristic func(geom.Point) float64
	diagonal  bool
	// allowed restricts the search to a subset of cells when set.
	allowed func(geom.Point) bool
}

// Neighbour order: up, down, left, right, then the diagonals.
var steps = [8]geom.Point{
	{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1},
}

func (pf *Pathfinder) search(s *searchSpec) *Result {
	if pf.pool.begin(s.grid.Width(), s.grid.Height()) {
		pf.stats.PoolReuses++
	}
	pf.stats.Searches++
	pf.open.Clear()

	moves := steps[:4]
	if s.diagonal {
		moves = steps[:]
	}

	seq := 0
	start := pf.pool.get(s.start)
	start.g = 0
	start.h = s.heuristic(s.start)
	start.f = start.h
	start.open = true
	pf.open.Enqueue(start)

	res := &Result{}
	for {
		cur, ok := pf.open.Dequeue()
		if !ok {
			return res
		}
		cur.open = false
		cur.closed = true
		res.Expanded++

		if s.goal(cur.pos) {
			res.Found = true
			res.Cost = cur.g
			res.Path = reconstruct(cur)
			return res
		}

		for _, d := range moves {
			np := cur.pos.Add(d)
			if s.grid.IsBlocked(np) || (s.allowed != nil && !s.allowed(np)) {
				continue
			}
			diagonal := d.X != 0 && d.Y != 0
			if diagonal && (s.grid.IsBlocked(geom.Point{X: np.X, Y: cur.pos.Y}) ||
				s.grid.IsBlocked(geom.Point{X: cur.pos.X, Y: np.Y})) {
				continue
			}

			nb := pf.pool.get(np)
			if nb.closed {
				continue
			}
			step := 1.0
			if diagonal {
				step = math.Sqrt2
			}
			g := cur.g + step*s.costs.At(np)
			if nb.open && g >= nb.g {
				continue
			}

			nb.g = g
			nb.parent = cur
			if nb.open {
				nb.f = g + nb.h
				pf.open.Update(nb)
				continue
			}
			seq++
			nb.seq = seq
			nb.h = s.heuristic(np)
			nb.f = g + nb.h
			nb.open = true
			pf.open.Enqueue(nb)
		}
	}
}

func reconstruct(n *node) []geom.Point {
	var path []geom.Point
	for ; n != nil; n = n.parent {
		path = append(path, n.pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
