package pathfind

import (
	"mapforge/pkg/engine/geom"
	"mapforge/pkg/engine/pqueue"
)

// clusters coarsens a grid into size×size blocks. A block is passable when
// it holds at least one free cell; two neighbouring blocks are linked when
// some pair of facing border cells is free on both sides.
type clusters struct {
	grid       *Grid
	size       int
	cols, rows int
	passable   []bool
}

func newClusters(grid *Grid, size int) *clusters {
	c := &clusters{
		grid: grid,
		size: size,
		cols: (grid.Width() + size - 1) / size,
		rows: (grid.Height() + size - 1) / size,
	}
	c.passable = make([]bool, c.cols*c.rows)
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if !grid.IsBlocked(geom.Point{X: x, Y: y}) {
				c.passable[(y/size)*c.cols+x/size] = true
			}
		}
	}
	return c
}

func (c *clusters) of(p geom.Point) geom.Point {
	return geom.Point{X: p.X / c.size, Y: p.Y / c.size}
}

func (c *clusters) isPassable(cl geom.Point) bool {
	if cl.X < 0 || cl.Y < 0 || cl.X >= c.cols || cl.Y >= c.rows {
		return false
	}
	return c.passable[cl.Y*c.cols+cl.X]
}

// linked reports whether a and b, 4-neighbours, share a free crossing.
func (c *clusters) linked(a, b geom.Point) bool {
	if !c.isPassable(a) || !c.isPassable(b) {
		return false
	}
	if a.X != b.X {
		left := min(a.X, b.X)
		x := (left+1)*c.size - 1
		for y := a.Y * c.size; y < min((a.Y+1)*c.size, c.grid.Height()); y++ {
			if !c.grid.IsBlocked(geom.Point{X: x, Y: y}) && !c.grid.IsBlocked(geom.Point{X: x + 1, Y: y}) {
				return true
			}
		}
		return false
	}
	top := min(a.Y, b.Y)
	y := (top+1)*c.size - 1
	for x := a.X * c.size; x < min((a.X+1)*c.size, c.grid.Width()); x++ {
		if !c.grid.IsBlocked(geom.Point{X: x, Y: y}) && !c.grid.IsBlocked(geom.Point{X: x, Y: y + 1}) {
			return true
		}
	}
	return false
}

type clusterNode struct {
	pos    geom.Point
	g, f   int
	seq    int
	parent *clusterNode
}

// route runs A* over the cluster graph with unit edge costs.
func (c *clusters) route(from, to geom.Point) []geom.Point {
	open := pqueue.New(func(a, b *clusterNode) bool {
		if a.f != b.f {
			return a.f < b.f
		}
		return a.seq < b.seq
	})
	nodes := map[geom.Point]*clusterNode{}
	closed := map[geom.Point]bool{}

	start := &clusterNode{pos: from, f: from.Manhattan(to)}
	nodes[from] = start
	open.Enqueue(start)
	seq := 0

	for open.Len() > 0 {
		cur, _ := open.Dequeue()
		if cur.pos == to {
			var out []geom.Point
			for n := cur; n != nil; n = n.parent {
				out = append(out, n.pos)
			}
			return out
		}
		closed[cur.pos] = true

		for _, next := range cur.pos.Neighbors4() {
			if closed[next] || !c.linked(cur.pos, next) {
				continue
			}
			g := cur.g + 1
			n, seen := nodes[next]
			if seen && g >= n.g {
				continue
			}
			if !seen {
				seq++
				n = &clusterNode{pos: next, seq: seq}
				nodes[next] = n
			}
			n.g = g
			n.f = g + next.Manhattan(to)
			n.parent = cur
			open.Enqueue(n)
		}
	}
	return nil
}

func (pf *Pathfinder) useHierarchical(grid *Grid) bool {
	t := pf.cfg.HierarchicalThreshold
	return t > 0 && grid.Width()*grid.Height() >= t
}

// findHierarchical routes over clusters first, then refines with A*
// restricted to the clusters on that route. A failed refinement falls back
// to a full-grid search.
func (pf *Pathfinder) findHierarchical(start, end geom.Point, grid *Grid, costs *CostGrid) *Result {
	full := &searchSpec{
		grid:      grid,
		costs:     costs,
		start:     start,
		goal:      func(p geom.Point) bool { return p == end },
		heuristic: func(p geom.Point) float64 { return pf.cfg.Heuristic.Estimate(p, end) },
		diagonal:  pf.cfg.AllowDiagonal,
	}

	cl := newClusters(grid, pf.cfg.ClusterSize)
	route := cl.route(cl.of(start), cl.of(end))
	if route == nil {
		return pf.search(full)
	}

	pf.stats.HierarchicalSearches++
	pf.logger.Debug("hierarchical search",
		"start", start,
		"end", end,
		"clusters", len(route),
		"cluster_size", cl.size)

	corridor := make(map[geom.Point]struct{}, len(route))
	for _, p := range route {
		corridor[p] = struct{}{}
	}
	refined := *full
	refined.allowed = func(p geom.Point) bool {
		_, ok := corridor[cl.of(p)]
		return ok
	}

	res := pf.search(&refined)
	if res.Found {
		res.Hierarchical = true
		return res
	}
	expanded := res.Expanded
	res = pf.search(full)
	res.Expanded += expanded
	return res
}
