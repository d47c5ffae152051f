package corridor

import (
	"math"

	"mapforge/pkg/engine/pqueue"
	"mapforge/pkg/game/level"
)

type distItem struct {
	id   int
	dist float64
}

// ComputeDistances runs Dijkstra over the room graph from the spawn room.
// An edge costs the length of the shortest corridor between the two rooms
// plus one. It sets DistanceFromSpawn (-1 for unreachable rooms), marks the
// rooms on the shortest path to the farthest room as the critical path, and
// returns that path from the spawn room outward.
func ComputeDistances(m *level.Map) []int {
	for _, room := range m.Rooms {
		room.DistanceFromSpawn = -1
		room.IsOnCriticalPath = false
	}
	spawn := m.SpawnRoom()
	if spawn == nil {
		return nil
	}

	weight := make(map[[2]int]float64)
	for _, c := range m.Corridors {
		if c.RoomA == c.RoomB {
			continue
		}
		key := [2]int{min(c.RoomA, c.RoomB), max(c.RoomA, c.RoomB)}
		w := float64(c.Length() + 1)
		if old, ok := weight[key]; !ok || w < old {
			weight[key] = w
		}
	}
	edgeWeight := func(a, b int) float64 {
		if w, ok := weight[[2]int{min(a, b), max(a, b)}]; ok {
			return w
		}
		return 1
	}

	dist := make([]float64, len(m.Rooms))
	prev := make([]int, len(m.Rooms))
	items := make([]*distItem, len(m.Rooms))
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = level.NoRoom
	}

	open := pqueue.New(func(a, b *distItem) bool {
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		return a.id < b.id
	})
	dist[spawn.ID] = 0
	items[spawn.ID] = &distItem{id: spawn.ID}
	open.Enqueue(items[spawn.ID])

	done := make([]bool, len(m.Rooms))
	for open.Len() > 0 {
		cur, _ := open.Dequeue()
		if done[cur.id] {
			continue
		}
		done[cur.id] = true
		for _, next := range m.Rooms[cur.id].Connections {
			if next < 0 || next >= len(m.Rooms) || done[next] {
				continue
			}
			d := dist[cur.id] + edgeWeight(cur.id, next)
			if d >= dist[next] {
				continue
			}
			dist[next] = d
			prev[next] = cur.id
			if items[next] == nil {
				items[next] = &distItem{id: next}
			}
			items[next].dist = d
			open.Enqueue(items[next])
		}
	}

	far := spawn.ID
	for id, d := range dist {
		if math.IsInf(d, 1) {
			continue
		}
		m.Rooms[id].DistanceFromSpawn = d
		if d > dist[far] {
			far = id
		}
	}

	var path []int
	for id := far; id != level.NoRoom; id = prev[id] {
		path = append(path, id)
		m.Rooms[id].IsOnCriticalPath = true
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
