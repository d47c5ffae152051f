package pathfind

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
)

// neighbours returns the moves allowed from p under the session's movement
// rules, in search order.
func (pf *Pathfinder) neighbours(p geom.Point, grid *Grid) []geom.Point {
	moves := steps[:4]
	if pf.cfg.AllowDiagonal {
		moves = steps[:]
	}
	out := make([]geom.Point, 0, len(moves))
	for _, d := range moves {
		np := p.Add(d)
		if grid.IsBlocked(np) {
			continue
		}
		if d.X != 0 && d.Y != 0 &&
			(grid.IsBlocked(geom.Point{X: np.X, Y: p.Y}) || grid.IsBlocked(geom.Point{X: p.X, Y: np.Y})) {
			continue
		}
		out = append(out, np)
	}
	return out
}

// PathExists reports whether end can be reached from start. It runs a
// breadth-first search without cost tracking.
func (pf *Pathfinder) PathExists(start, end geom.Point, grid *Grid) bool {
	if grid.Empty() || grid.IsBlocked(start) || grid.IsBlocked(end) {
		return false
	}
	if start == end {
		return true
	}

	visited := mapset.New[geom.Point]()
	visited.Put(start)
	queue := []geom.Point{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range pf.neighbours(current, grid) {
			if next == end {
				return true
			}
			if visited.Has(next) {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}
	return false
}

// GetReachablePositions floods from start and returns every reachable cell
// within maxDistance steps, start included, in discovery order. A negative
// maxDistance means unlimited.
func (pf *Pathfinder) GetReachablePositions(start geom.Point, grid *Grid, maxDistance int) []geom.Point {
	if grid.Empty() || grid.IsBlocked(start) {
		return nil
	}

	dist := map[geom.Point]int{start: 0}
	out := []geom.Point{start}
	queue := []geom.Point{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if maxDistance >= 0 && dist[current] >= maxDistance {
			continue
		}
		for _, next := range pf.neighbours(current, grid) {
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[current] + 1
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

// line returns the cells between a and b under the session's movement rules:
// 4-connected when diagonals are disallowed.
func (pf *Pathfinder) line(a, b geom.Point) []geom.Point {
	if pf.cfg.AllowDiagonal {
		return geom.Line(a, b)
	}
	return geom.Line4(a, b)
}

// HasLineOfSight reports whether every cell on the line from a to b is clear.
func (pf *Pathfinder) HasLineOfSight(a, b geom.Point, grid *Grid) bool {
	for _, p := range pf.line(a, b) {
		if grid.IsBlocked(p) {
			return false
		}
	}
	return true
}

// OptimizePath drops waypoints that can be skipped: from each kept point
// it jumps to the furthest later point in clear line of sight.
func (pf *Pathfinder) OptimizePath(path []geom.Point, grid *Grid) []geom.Point {
	if len(path) <= 2 {
		return append([]geom.Point(nil), path...)
	}

	out := []geom.Point{path[0]}
	i := 0
	for i < len(path)-1 {
		next := i + 1
		for j := len(path) - 1; j > i+1; j-- {
			if pf.HasLineOfSight(path[i], path[j], grid) {
				next = j
				break
			}
		}
		out = append(out, path[next])
		i = next
	}
	return out
}

// CalculatePathCost sums the step costs of path: 1 for a cardinal step, √2
// for a diagonal one and the Euclidean length for longer jumps, each scaled
// by the destination cell multiplier.
func CalculatePathCost(path []geom.Point, costs *CostGrid) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		dx, dy := geom.Abs(b.X-a.X), geom.Abs(b.Y-a.Y)
		var step float64
		switch {
		case dx+dy == 1:
			step = 1
		case dx == 1 && dy == 1:
			step = math.Sqrt2
		default:
			step = a.Euclidean(b)
		}
		total += step * costs.At(b)
	}
	return total
}

// CalculatePathCost is the session form of the package function.
func (pf *Pathfinder) CalculatePathCost(path []geom.Point, costs *CostGrid) float64 {
	return CalculatePathCost(path, costs)
}
