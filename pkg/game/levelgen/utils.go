package levelgen

import (
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/collision"
	"mapforge/pkg/engine/geom"
	"mapforge/pkg/game/level"
)

// blockedTiles returns the room tiles covered by movement blockers, plus
// the tiles of extra.
func blockedTiles(room *level.Room, det *collision.Detector, extra geom.Rect) mapset.Set[geom.Point] {
	blocked := mapset.New[geom.Point]()
	for _, p := range room.Bounds.Points() {
		if extra.Contains(p) || det.BlocksMovementAt(p) {
			blocked.Put(p)
		}
	}
	return blocked
}

// reachableFloor walks 4-connected room tiles from start, avoiding blocked.
func reachableFloor(room *level.Room, start geom.Point, blocked mapset.Set[geom.Point]) mapset.Set[geom.Point] {
	visited := mapset.New[geom.Point]()
	queue := []geom.Point{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if !room.Bounds.Contains(current) || blocked.Has(current) || visited.Has(current) {
			continue
		}
		visited.Put(current)
		for _, n := range current.Neighbors4() {
			if !visited.Has(n) {
				queue = append(queue, n)
			}
		}
	}
	return visited
}

// roomStillConnected reports whether, with fp treated as blocked on top of
// the movement blockers already placed, every doorway stays open and all
// remaining free floor is one 4-connected region. A piece that seals a
// doorway or cuts off a pocket of floor is rejected.
func roomStillConnected(room *level.Room, det *collision.Detector, fp geom.Rect) bool {
	blocked := blockedTiles(room, det, fp)
	free := room.Area - blocked.Size()
	if free <= 0 {
		return false
	}

	var start geom.Point
	found := false
	for _, d := range room.Doorways {
		if blocked.Has(d.Position) {
			return false
		}
		if !found {
			start, found = d.Position, true
		}
	}
	if !found {
		for _, p := range room.Bounds.Points() {
			if !blocked.Has(p) {
				start, found = p, true
				break
			}
		}
	}
	return reachableFloor(room, start, blocked).Size() == free
}

// touchesEdge reports whether fp shares at least one side with the room's
// border, and which wall it is against first (N, E, S, W order).
func touchesEdge(room geom.Rect, fp geom.Rect) (geom.Direction, bool) {
	switch {
	case fp.Y == room.Y:
		return geom.North, true
	case fp.Right() == room.Right():
		return geom.East, true
	case fp.Bottom() == room.Bottom():
		return geom.South, true
	case fp.X == room.X:
		return geom.West, true
	}
	return geom.North, false
}

// nearestCornerDistance is the Manhattan distance from p to the closest
// corner tile of r.
func nearestCornerDistance(r geom.Rect, p geom.Point) int {
	best := -1
	for _, c := range r.Corners() {
		if d := p.Manhattan(c); best < 0 || d < best {
			best = d
		}
	}
	return best
}

// sortByDistance orders points by dist, then row, then column.
func sortByDistance(points []geom.Point, dist func(geom.Point) int) {
	sort.SliceStable(points, func(i, j int) bool {
		di, dj := dist(points[i]), dist(points[j])
		if di != dj {
			return di < dj
		}
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})
}

func shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}
