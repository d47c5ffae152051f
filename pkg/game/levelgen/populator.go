package levelgen

import (
	"log/slog"
	"math/rand"

	"mapforge/pkg/engine/collision"
	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/difficulty"
	"mapforge/pkg/game/level"
)

// playerBodyID marks the player's start tile in the collision grid while
// content is placed. It is never stored on the map.
const playerBodyID = -1

// Options configures a Populator.
type Options struct {
	Furniture  FurnitureTable
	Spawns     SpawnTable
	Resources  ResourceTable
	Difficulty int

	CoverIncludesMovementBlockers bool

	// SafeSpawnRoom keeps enemy spawn points out of the player's start room.
	SafeSpawnRoom bool

	// SpawnSpacing is the minimum Chebyshev distance between two spawn
	// points of one room. Zero or one places them on any free tiles.
	SpawnSpacing int

	OnEvent func(Event)
	Logger  *slog.Logger
}

// DefaultOptions returns the built-in rule tables at normal difficulty.
func DefaultOptions() Options {
	return Options{
		Furniture:     DefaultFurniture(),
		Spawns:        DefaultSpawns(),
		Resources:     DefaultResources(),
		Difficulty:    5,
		SafeSpawnRoom: true,
		SpawnSpacing:  DefaultSpawnSpacing,
	}
}

// Result summarises one population run.
type Result struct {
	Furniture   int
	SpawnPoints int
	Resources   int
	Failed      int
	Skipped     int
	Events      []Event
}

// Populator runs the furniture, spawn and resource engines over a map.
type Populator struct {
	opts      Options
	furniture *FurniturePlacer
	spawns    *SpawnPointManager
	resources *ResourceDistributor
	logger    *slog.Logger
}

func NewPopulator(opts Options) *Populator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Populator{
		opts:      opts,
		furniture: NewFurniturePlacer(opts.Furniture),
		spawns:    NewSpawnPointManager(opts.Spawns),
		resources: NewResourceDistributor(opts.Resources),
		logger:    logger,
	}
}

// Populate places furniture in every room, then spawn points in every
// room, then resources in every room, each pass in room-id order.
func (p *Populator) Populate(m *level.Map, rng *rand.Rand) (*Result, error) {
	if m == nil || rng == nil {
		return nil, errors.InvalidArgument("map and rng are required")
	}

	s, err := NewSession(m, rng, int(difficulty.Clamp(p.opts.Difficulty)), p.opts.OnEvent)
	if err != nil {
		return nil, err
	}
	s.CoverIncludesMovementBlockers = p.opts.CoverIncludesMovementBlockers
	s.SpawnSpacing = p.opts.SpawnSpacing

	spawnRoom := m.SpawnRoom()
	if spawnRoom != nil {
		player := collision.Body{ID: playerBodyID, Bounds: geom.RectAt(m.PlayerSpawn, geom.Sz(1, 1)), BlocksMovement: true}
		if err := s.Collisions.Add(player); err != nil {
			return nil, errors.Wrap(err, "reserve player start")
		}
		defer s.Collisions.Remove(playerBodyID)
	}

	for _, room := range m.Rooms {
		if err := p.furniture.PlaceRoom(s, room); err != nil {
			return nil, errors.Wrapf(err, "furniture in room %d", room.ID)
		}
	}
	for _, room := range m.Rooms {
		if p.opts.SafeSpawnRoom && spawnRoom != nil && room.ID == spawnRoom.ID {
			s.emit(Event{Kind: Skipped, Category: CategorySpawn, RoomID: room.ID, ObjectID: NoObject, Reason: "player start room"})
			continue
		}
		if err := p.spawns.PlaceRoom(s, room); err != nil {
			return nil, errors.Wrapf(err, "spawn points in room %d", room.ID)
		}
	}
	for _, room := range m.Rooms {
		if err := p.resources.PlaceRoom(s, room); err != nil {
			return nil, errors.Wrapf(err, "resources in room %d", room.ID)
		}
	}

	res := &Result{Events: s.Events()}
	for _, e := range res.Events {
		switch e.Kind {
		case Failed:
			res.Failed++
		case Skipped:
			res.Skipped++
		case Placed:
			switch e.Category {
			case CategoryFurniture:
				res.Furniture++
			case CategorySpawn:
				res.SpawnPoints++
			case CategoryResource:
				res.Resources++
			}
		}
	}

	p.logger.Debug("populated map",
		"rooms", len(m.Rooms),
		"furniture", res.Furniture,
		"spawn_points", res.SpawnPoints,
		"resources", res.Resources,
		"failed", res.Failed,
	)
	return res, nil
}
