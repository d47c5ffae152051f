package levelgen

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/game/level"
)

// Count returns the number of spawn points for a room of the given area:
// round(base × area/ref × modifier × (1 + variance·(2u−1))), then clamped to
// [Min, Max]. u is drawn even when Variance is zero.
func (p SpawnProfile) Count(area int, u float64) int {
	ref := float64(p.ReferenceArea)
	if ref <= 0 {
		ref = float64(area)
	}
	scale := 0.0
	if ref > 0 {
		scale = float64(area) / ref
	}
	n := int(math.Round(p.BaseDensity * scale * p.Modifier * (1 + p.Variance*(2*u-1))))
	if n > p.Max {
		n = p.Max
	}
	return max(n, p.Min)
}

// SpawnPointManager places enemy spawn points at strategic tiles.
type SpawnPointManager struct {
	table SpawnTable
}

func NewSpawnPointManager(table SpawnTable) *SpawnPointManager {
	return &SpawnPointManager{table: table}
}

type spawnCandidate struct {
	pos      geom.Point
	category SpawnCategory
}

// DefaultSpawnSpacing matches the distance below which level validation
// reports spawn points as clustered.
const DefaultSpawnSpacing = 2

// PlaceRoom places the room's spawn points. Candidates come from the
// profile's categories in priority order; a tile closer than
// s.SpawnSpacing to a spawn point already placed in the room is passed
// over, and each shortfall is reported as a Failed event.
func (sm *SpawnPointManager) PlaceRoom(s *Session, room *level.Room) error {
	profile, ok := sm.table[room.Classification]
	if !ok {
		s.emit(Event{Kind: Skipped, Category: CategorySpawn, RoomID: room.ID, ObjectID: NoObject, Reason: "no spawn profile for " + room.Classification.String()})
		return nil
	}

	n := profile.Count(room.Area, s.Rand.Float64())
	rule := room.Classification.String()
	if n == 0 {
		s.emit(Event{Kind: Skipped, Category: CategorySpawn, RoomID: room.ID, ObjectID: NoObject, Rule: rule, Reason: "no instances drawn"})
		return nil
	}

	var chosen []geom.Point
	for _, c := range sm.candidates(s, room, profile) {
		if len(chosen) == n {
			break
		}
		if tooClose(c.pos, chosen, s.SpawnSpacing) || s.Collisions.IsOccupied(geom.RectAt(c.pos, geom.Sz(1, 1))) {
			continue
		}

		sp := &level.SpawnPoint{
			PlacedObject: level.PlacedObject{
				ID:       s.Map.NextObjectID(),
				RoomID:   room.ID,
				Position: c.pos,
				Size:     geom.Sz(1, 1),
			},
			EnemyType:  pickAsset(profile.Enemies, s.Rand),
			Asset:      profile.Marker,
			SpawnDelay: profile.MinDelay + s.Rand.Float64()*math.Max(0, profile.MaxDelay-profile.MinDelay),
			Category:   c.category.String(),
		}
		if err := s.register(sp.PlacedObject); err != nil {
			return err
		}
		s.Map.SpawnPoints = append(s.Map.SpawnPoints, sp)
		chosen = append(chosen, c.pos)
		s.emit(Event{Kind: Placed, Category: CategorySpawn, RoomID: room.ID, ObjectID: sp.ID, Rule: rule, Position: c.pos})
	}

	for i := len(chosen); i < n; i++ {
		s.emit(Event{Kind: Failed, Category: CategorySpawn, RoomID: room.ID, ObjectID: NoObject, Rule: rule, Reason: "no valid position"})
	}
	return nil
}

func tooClose(p geom.Point, chosen []geom.Point, spacing int) bool {
	for _, q := range chosen {
		if p.Chebyshev(q) < spacing {
			return true
		}
	}
	return false
}

// candidates concatenates each category's valid tiles, shuffled within the
// category, keeping the first occurrence of every tile. Random is appended
// as a last resort when the profile does not list it.
func (sm *SpawnPointManager) candidates(s *Session, room *level.Room, profile SpawnProfile) []spawnCandidate {
	cats := profile.Categories
	hasRandom := false
	for _, c := range cats {
		hasRandom = hasRandom || c == SpawnRandom
	}
	if !hasRandom {
		cats = append(append([]SpawnCategory(nil), cats...), SpawnRandom)
	}

	seen := mapset.New[geom.Point]()
	var out []spawnCandidate
	for _, cat := range cats {
		tiles := sm.categoryTiles(s, room, cat)
		shuffle(s.Rand, tiles)
		for _, p := range tiles {
			if seen.Has(p) || !validSpawnTile(s, room, p) {
				continue
			}
			seen.Put(p)
			out = append(out, spawnCandidate{pos: p, category: cat})
		}
	}
	return out
}

// validSpawnTile: inside the room, at least two tiles from every doorway,
// and not covered by any object.
func validSpawnTile(s *Session, room *level.Room, p geom.Point) bool {
	if !room.Bounds.Contains(p) {
		return false
	}
	if d := room.DoorwayDistance(p); d >= 0 && d < 2 {
		return false
	}
	return !s.Collisions.IsOccupied(geom.RectAt(p, geom.Sz(1, 1)))
}

func (sm *SpawnPointManager) categoryTiles(s *Session, room *level.Room, cat SpawnCategory) []geom.Point {
	b := room.Bounds
	var out []geom.Point
	switch cat {
	case SpawnCorner:
		c := b.Corners()
		return c[:]
	case SpawnNearDoorway:
		for _, p := range b.Points() {
			if d := room.DoorwayDistance(p); d >= 2 && d <= 3 {
				out = append(out, p)
			}
		}
	case SpawnCover:
		for _, p := range b.Points() {
			for _, n := range p.Neighbors4() {
				if s.Collisions.BlocksSightAt(n) || (s.CoverIncludesMovementBlockers && s.Collisions.BlocksMovementAt(n)) {
					out = append(out, p)
					break
				}
			}
		}
	case SpawnCenter:
		radius := max(1, min(b.Width, b.Height)/4)
		for _, p := range b.Points() {
			if p.Chebyshev(room.Center) <= radius {
				out = append(out, p)
			}
		}
	case SpawnPerimeter:
		for _, p := range b.Points() {
			if b.OnEdge(p) {
				out = append(out, p)
			}
		}
	default:
		out = b.Points()
	}
	return out
}
