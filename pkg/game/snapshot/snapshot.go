// Package snapshot stores generated maps as flat, versioned JSON records.
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/level"
)

// CurrentVersion is the record layout written by Encode.
const CurrentVersion = 1

// Snapshot is a map without its partition tree.
type Snapshot struct {
	Version     int       `json:"version"`
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	GeneratedAt time.Time `json:"generated_at"`

	Seed       int64 `json:"seed"`
	Width      int   `json:"width"`
	Height     int   `json:"height"`
	Difficulty int   `json:"difficulty"`

	SpawnRoomID int        `json:"spawn_room_id"`
	PlayerSpawn geom.Point `json:"player_spawn"`

	Rooms       []*level.Room       `json:"rooms"`
	Corridors   []*level.Corridor   `json:"corridors"`
	Furniture   []*level.Furniture  `json:"furniture"`
	SpawnPoints []*level.SpawnPoint `json:"spawn_points"`
	Resources   []*level.Resource   `json:"resources"`
}

// NewID returns a fresh snapshot id.
func NewID() string {
	return uuid.NewString()
}

// FromMap captures m. The snapshot shares room, corridor and object values
// with the map.
func FromMap(id string, m *level.Map, now time.Time) *Snapshot {
	return &Snapshot{
		Version:     CurrentVersion,
		ID:          id,
		CreatedAt:   now,
		GeneratedAt: m.Metadata.GeneratedAt,
		Seed:        m.Metadata.Seed,
		Width:       m.Width,
		Height:      m.Height,
		Difficulty:  m.Metadata.Difficulty,
		SpawnRoomID: m.SpawnRoomID,
		PlayerSpawn: m.PlayerSpawn,
		Rooms:       m.Rooms,
		Corridors:   m.Corridors,
		Furniture:   m.Furniture,
		SpawnPoints: m.SpawnPoints,
		Resources:   m.Resources,
	}
}

// ToMap rebuilds a map. The object id counter resumes after the highest
// stored id.
func (s *Snapshot) ToMap() *level.Map {
	m := level.NewMap(s.Width, s.Height)
	m.Rooms = s.Rooms
	m.Corridors = s.Corridors
	m.Furniture = s.Furniture
	m.SpawnPoints = s.SpawnPoints
	m.Resources = s.Resources
	m.SpawnRoomID = s.SpawnRoomID
	m.PlayerSpawn = s.PlayerSpawn
	m.Metadata = level.Metadata{
		Seed:        s.Seed,
		Width:       s.Width,
		Height:      s.Height,
		Difficulty:  s.Difficulty,
		GeneratedAt: s.GeneratedAt,
	}

	next := 0
	for _, o := range m.Objects() {
		next = max(next, o.ID+1)
	}
	m.SetNextObjectID(next)
	return m
}

func Encode(s *Snapshot) ([]byte, error) {
	if s == nil {
		return nil, errors.InvalidArgument("snapshot is required")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal snapshot")
	}
	return data, nil
}

// Decode parses a record written by Encode. A record of another version is
// refused with FailedPrecondition.
func Decode(data []byte) (*Snapshot, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to unmarshal snapshot")
	}
	if probe.Version != CurrentVersion {
		return nil, errors.FailedPreconditionf("unsupported snapshot version %d, want %d", probe.Version, CurrentVersion)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to unmarshal snapshot")
	}
	return &s, nil
}
