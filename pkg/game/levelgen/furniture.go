// Package levelgen fills classified rooms with content: furniture first,
// then enemy spawn points, then resources. All three engines read and
// update one collision grid, so later placements see earlier ones.
package levelgen

import (
	"mapforge/pkg/engine/geom"
	"mapforge/pkg/game/level"
)

// FurniturePlacer places furniture from a rule table keyed by room type.
type FurniturePlacer struct {
	table FurnitureTable
}

func NewFurniturePlacer(table FurnitureTable) *FurniturePlacer {
	return &FurniturePlacer{table: table}
}

// PlaceRoom runs the rules for the room's type in table order.
func (p *FurniturePlacer) PlaceRoom(s *Session, room *level.Room) error {
	rules := p.table[room.Classification]
	if len(rules) == 0 {
		s.emit(Event{Kind: Skipped, Category: CategoryFurniture, RoomID: room.ID, ObjectID: NoObject, Reason: "no furniture rules for " + room.Classification.String()})
		return nil
	}

	for _, rule := range rules {
		n := rule.count(room.Area, s.Rand)
		if n == 0 {
			s.emit(Event{Kind: Skipped, Category: CategoryFurniture, RoomID: room.ID, ObjectID: NoObject, Rule: rule.Type, Reason: "no instances drawn"})
			continue
		}
		for i := 0; i < n; i++ {
			if err := p.placeOne(s, room, rule); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *FurniturePlacer) placeOne(s *Session, room *level.Room, rule FurnitureRule) error {
	asset := pickAsset(rule.Assets, s.Rand)
	size := rule.Size
	if !size.Valid() {
		size = geom.Sz(1, 1)
	}

	pos, ok := p.choose(s, room, rule, size)
	if !ok {
		s.emit(Event{Kind: Failed, Category: CategoryFurniture, RoomID: room.ID, ObjectID: NoObject, Rule: rule.Type, Reason: "no valid position"})
		return nil
	}

	f := &level.Furniture{
		PlacedObject: level.PlacedObject{
			ID:             s.Map.NextObjectID(),
			RoomID:         room.ID,
			Position:       pos,
			Size:           size,
			BlocksMovement: rule.BlocksMovement,
			BlocksSight:    rule.BlocksSight,
		},
		Type:   rule.Type,
		Asset:  asset,
		Health: rule.Health,
	}

	// Rotation 0 faces south and grows clockwise, so a piece against a
	// wall faces into the room.
	if wall, against := touchesEdge(room.Bounds, f.Footprint()); rule.Positioning == AgainstWall && against {
		f.Rotation = 90 * int(wall)
	} else if rule.AllowRotation {
		if size.W == size.H {
			f.Rotation = 90 * s.Rand.Intn(4)
		} else {
			f.Rotation = 180 * s.Rand.Intn(2)
		}
	}
	if rule.AllowFlip {
		f.Flipped = s.Rand.Intn(2) == 1
	}
	if rule.Variants > 1 {
		f.Variant = s.Rand.Intn(rule.Variants)
	}

	if err := s.register(f.PlacedObject); err != nil {
		return err
	}
	s.Map.Furniture = append(s.Map.Furniture, f)
	s.emit(Event{Kind: Placed, Category: CategoryFurniture, RoomID: room.ID, ObjectID: f.ID, Rule: rule.Type, Position: pos})
	return nil
}

// choose returns the first candidate that keeps its distance from the
// doorways and, for movement blockers, leaves the room passable.
func (p *FurniturePlacer) choose(s *Session, room *level.Room, rule FurnitureRule, size geom.Size) (geom.Point, bool) {
	for _, pos := range p.candidates(s, room, rule, size) {
		fp := geom.RectAt(pos, size)
		if rule.MinDoorDistance > 0 {
			if d := room.FootprintDoorwayDistance(fp); d >= 0 && d < rule.MinDoorDistance {
				continue
			}
		}
		if rule.BlocksMovement && !roomStillConnected(room, s.Collisions, fp) {
			continue
		}
		return pos, true
	}
	return geom.Point{}, false
}

// candidates lists top-left positions in the order the rule's positioning
// prefers. Movement blockers may sit on decor that does not block; other
// pieces may not overlap anything.
func (p *FurniturePlacer) candidates(s *Session, room *level.Room, rule FurnitureRule, size geom.Size) []geom.Point {
	var pts []geom.Point
	if rule.BlocksMovement {
		pts = s.Collisions.FindValidPositions(room.Bounds, size, 0)
	} else {
		pts = s.Collisions.FindFreePositions(room.Bounds, size, 0)
	}

	switch rule.Positioning {
	case AgainstWall:
		wall := pts[:0]
		for _, pos := range pts {
			if _, ok := touchesEdge(room.Bounds, geom.RectAt(pos, size)); ok {
				wall = append(wall, pos)
			}
		}
		pts = wall
		shuffle(s.Rand, pts)
	case Center:
		// Doubled coordinates keep footprint centres integral.
		cx, cy := 2*room.Center.X+1, 2*room.Center.Y+1
		sortByDistance(pts, func(pos geom.Point) int {
			return geom.Abs(2*pos.X+size.W-cx) + geom.Abs(2*pos.Y+size.H-cy)
		})
	default:
		shuffle(s.Rand, pts)
	}
	return pts
}
