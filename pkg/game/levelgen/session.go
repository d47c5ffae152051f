package levelgen

import (
	"math/rand"

	"mapforge/pkg/engine/collision"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/level"
)

// Session is the state shared by the placement engines during one
// population run: the map being filled, the collision grid every engine
// reads and updates, the single rng, and the event log.
type Session struct {
	Map        *level.Map
	Collisions *collision.Detector
	Rand       *rand.Rand
	Difficulty int

	// CoverIncludesMovementBlockers lets furniture that only blocks
	// movement count as cover for spawn points.
	CoverIncludesMovementBlockers bool

	// SpawnSpacing is the minimum distance between spawn points of a room.
	SpawnSpacing int

	events   []Event
	observer func(Event)
}

// NewSession seeds a collision detector from the objects already in m.
func NewSession(m *level.Map, rng *rand.Rand, difficulty int, observer func(Event)) (*Session, error) {
	if m == nil || rng == nil {
		return nil, errors.InvalidArgument("map and rng are required")
	}
	det := collision.New(m.Bounds())
	for _, o := range m.Objects() {
		if err := det.Add(o.Body()); err != nil {
			return nil, errors.Wrapf(err, "seed collision grid with object %d", o.ID)
		}
	}
	return &Session{
		Map:        m,
		Collisions: det,
		Rand:       rng,
		Difficulty: difficulty,
		observer:   observer,
	}, nil
}

// Events returns every event emitted so far, in order.
func (s *Session) Events() []Event {
	return s.events
}

func (s *Session) emit(e Event) {
	s.events = append(s.events, e)
	if s.observer != nil {
		s.observer(e)
	}
}

// register adds a placed object to the collision grid.
func (s *Session) register(o level.PlacedObject) error {
	if err := s.Collisions.Add(o.Body()); err != nil {
		return errors.Wrapf(err, "register object %d", o.ID)
	}
	return nil
}
