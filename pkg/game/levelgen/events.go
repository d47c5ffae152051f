package levelgen

import (
	"fmt"

	"mapforge/pkg/engine/geom"
)

// EventKind is the outcome of one placement instance.
type EventKind int

const (
	Placed  EventKind = iota
	Failed            // no candidate position was left
	Skipped           // the rule produced no instance, or the room has no rule
)

func (k EventKind) String() string {
	switch k {
	case Placed:
		return "placed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("event_%d", int(k))
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Category names the engine that produced an event.
type Category string

const (
	CategoryFurniture Category = "furniture"
	CategorySpawn     Category = "spawn_point"
	CategoryResource  Category = "resource"
)

// NoObject is the ObjectID of events that did not place anything.
const NoObject = -1

// Event records one placement decision.
type Event struct {
	Kind     EventKind  `json:"kind"`
	Category Category   `json:"category"`
	RoomID   int        `json:"room_id"`
	ObjectID int        `json:"object_id"`
	Rule     string     `json:"rule"`
	Reason   string     `json:"reason,omitempty"`
	Position geom.Point `json:"position"`
}

func (e Event) String() string {
	s := fmt.Sprintf("%s %s %q in room %d", e.Kind, e.Category, e.Rule, e.RoomID)
	if e.Kind == Placed {
		s += " at " + e.Position.String()
	}
	if e.Reason != "" {
		s += ": " + e.Reason
	}
	return s
}
