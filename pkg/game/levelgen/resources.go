package levelgen

import (
	"math"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/game/difficulty"
	"mapforge/pkg/game/level"
)

// ResourceDistributor places pickups and scales them for difficulty.
type ResourceDistributor struct {
	table ResourceTable
}

func NewResourceDistributor(table ResourceTable) *ResourceDistributor {
	return &ResourceDistributor{table: table}
}

// PlaceRoom runs the rules for the room's type in table order.
func (d *ResourceDistributor) PlaceRoom(s *Session, room *level.Room) error {
	rules := d.table[room.Classification]
	if len(rules) == 0 {
		s.emit(Event{Kind: Skipped, Category: CategoryResource, RoomID: room.ID, ObjectID: NoObject, Reason: "no resource rules for " + room.Classification.String()})
		return nil
	}

	for _, rule := range rules {
		name := rule.Type.String()
		n := rule.count(room.Area, s.Rand)
		if n == 0 {
			s.emit(Event{Kind: Skipped, Category: CategoryResource, RoomID: room.ID, ObjectID: NoObject, Rule: name, Reason: "no instances drawn"})
			continue
		}

		cands := d.candidates(s, room, rule.Preference)
		mult := difficulty.For(rule.Type, s.Difficulty)
		next := 0
		for i := 0; i < n; i++ {
			asset := pickAsset(rule.Assets, s.Rand)
			for next < len(cands) && s.Collisions.IsOccupied(geom.RectAt(cands[next], geom.Sz(1, 1))) {
				next++
			}
			if next == len(cands) {
				s.emit(Event{Kind: Failed, Category: CategoryResource, RoomID: room.ID, ObjectID: NoObject, Rule: name, Reason: "no valid position"})
				continue
			}
			pos := cands[next]
			next++

			qty := max(1, rule.QuantityMin)
			if rule.QuantityMax > qty {
				qty += s.Rand.Intn(rule.QuantityMax - qty + 1)
			}
			r := &level.Resource{
				PlacedObject: level.PlacedObject{
					ID:       s.Map.NextObjectID(),
					RoomID:   room.ID,
					Position: pos,
					Size:     geom.Sz(1, 1),
				},
				Type:        rule.Type,
				Asset:       asset,
				Quantity:    max(1, int(math.Round(float64(qty)*mult.Quantity))),
				RespawnTime: rule.RespawnTime,
				Consumable:  rule.Consumable,
				Value:       rule.BaseValue * mult.Value,
			}
			if rule.Effect != nil {
				effect := *rule.Effect
				r.Effect = &effect
			}
			if err := s.register(r.PlacedObject); err != nil {
				return err
			}
			s.Map.Resources = append(s.Map.Resources, r)
			s.emit(Event{Kind: Placed, Category: CategoryResource, RoomID: room.ID, ObjectID: r.ID, Rule: name, Position: pos})
		}
	}
	return nil
}

// candidates lists the free floor tiles of the room, minus the tiles next
// to a doorway, in the order the preference asks for.
func (d *ResourceDistributor) candidates(s *Session, room *level.Room, pref ResourcePreference) []geom.Point {
	var out []geom.Point
	for _, p := range s.Collisions.FindFreePositions(room.Bounds, geom.Sz(1, 1), 0) {
		if dist := room.DoorwayDistance(p); dist >= 0 && dist <= 1 {
			continue
		}
		out = append(out, p)
	}

	switch pref {
	case PreferCorner:
		sortByDistance(out, func(p geom.Point) int { return nearestCornerDistance(room.Bounds, p) })
	case PreferCenter:
		sortByDistance(out, func(p geom.Point) int { return p.Manhattan(room.Center) })
	default:
		shuffle(s.Rand, out)
	}
	return out
}
