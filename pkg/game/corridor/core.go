package corridor

import (
	"math"
	"sort"

	"mapforge/pkg/game/level"
)

// selectCoreRooms picks ceil(fraction·n) rooms, largest first, skipping
// rooms whose centre is closer than spacing to an already chosen core. If
// spacing leaves the selection short, skipped rooms are admitted in the
// same order. The result is sorted by id.
func selectCoreRooms(rooms []*level.Room, fraction, spacing float64) []int {
	if len(rooms) == 0 {
		return nil
	}
	want := max(1, int(math.Ceil(fraction*float64(len(rooms)))))
	want = min(want, len(rooms))

	order := make([]*level.Room, len(rooms))
	copy(order, rooms)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Area != order[j].Area {
			return order[i].Area > order[j].Area
		}
		return order[i].ID < order[j].ID
	})

	var chosen, skipped []*level.Room
	for _, room := range order {
		if len(chosen) == want {
			break
		}
		tooClose := false
		for _, c := range chosen {
			if room.Center.Euclidean(c.Center) < spacing {
				tooClose = true
				break
			}
		}
		if tooClose {
			skipped = append(skipped, room)
			continue
		}
		chosen = append(chosen, room)
	}
	for _, room := range skipped {
		if len(chosen) == want {
			break
		}
		chosen = append(chosen, room)
	}

	ids := make([]int, len(chosen))
	for i, room := range chosen {
		ids[i] = room.ID
	}
	sort.Ints(ids)
	return ids
}

// unionFind is a disjoint-set forest over room ids.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges the sets of a and b and reports whether they were separate.
func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
	return true
}
