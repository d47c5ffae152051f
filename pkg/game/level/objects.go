package level

import (
	"fmt"
	"strings"

	"github.com/leonelquinteros/gotext"

	"mapforge/pkg/engine/collision"
	"mapforge/pkg/engine/geom"
)

// PlacedObject is the part shared by furniture, spawn points and resources.
type PlacedObject struct {
	ID             int        `json:"id"`
	RoomID         int        `json:"room_id"`
	Position       geom.Point `json:"position"` // top-left tile of the footprint
	Size           geom.Size  `json:"size"`
	BlocksMovement bool       `json:"blocks_movement"`
	BlocksSight    bool       `json:"blocks_sight"`
}

// Footprint returns the tiles covered by the object.
func (o PlacedObject) Footprint() geom.Rect {
	return geom.RectAt(o.Position, o.Size)
}

// Body returns the collision view of the object.
func (o PlacedObject) Body() collision.Body {
	return collision.Body{
		ID:             o.ID,
		Bounds:         o.Footprint(),
		BlocksMovement: o.BlocksMovement,
		BlocksSight:    o.BlocksSight,
	}
}

// Furniture is a decorative or obstructing piece inside a room.
type Furniture struct {
	PlacedObject
	Type     string `json:"type"`
	Asset    string `json:"asset"`
	Rotation int    `json:"rotation"` // degrees, multiple of 90
	Flipped  bool   `json:"flipped"`
	Variant  int    `json:"variant"`
	Health   int    `json:"health"`
}

// SpawnPoint is where an enemy appears.
type SpawnPoint struct {
	PlacedObject
	EnemyType  string  `json:"enemy_type"`
	Asset      string  `json:"asset"`
	SpawnDelay float64 `json:"spawn_delay"`
	Category   string  `json:"category"`
}

// TimedEffect is a temporary modifier granted by a resource.
type TimedEffect struct {
	Name      string  `json:"name" yaml:"name"`
	Duration  float64 `json:"duration" yaml:"duration"`
	Magnitude float64 `json:"magnitude" yaml:"magnitude"`
}

// Resource is a pickup.
type Resource struct {
	PlacedObject
	Type        ResourceType `json:"type"`
	Asset       string       `json:"asset"`
	Quantity    int          `json:"quantity"`
	RespawnTime float64      `json:"respawn_time"`
	Consumable  bool         `json:"consumable"`
	Value       float64      `json:"value"`
	Effect      *TimedEffect `json:"effect,omitempty"`
}

// ResourceType tags what a resource provides.
type ResourceType int

const (
	Health ResourceType = iota
	Ammo
	Weapon
	Armor
	Food
	Key
	Currency
)

// AllResourceTypes lists the resource types in declaration order.
func AllResourceTypes() []ResourceType {
	return []ResourceType{Health, Ammo, Weapon, Armor, Food, Key, Currency}
}

var resourceTypeNames = map[ResourceType]string{
	Health:   "Health",
	Ammo:     "Ammo",
	Weapon:   "Weapon",
	Armor:    "Armor",
	Food:     "Food",
	Key:      "Key",
	Currency: "Currency",
}

func (t ResourceType) String() string {
	if name, ok := resourceTypeNames[t]; ok {
		return strings.ToLower(name)
	}
	return fmt.Sprintf("resource_%d", int(t))
}

// DisplayName returns the translated name.
func (t ResourceType) DisplayName() string {
	if name, ok := resourceTypeNames[t]; ok {
		return gotext.Get(name)
	}
	return t.String()
}

func ParseResourceType(s string) (ResourceType, error) {
	for _, t := range AllResourceTypes() {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown resource type %q", s)
}

func (t ResourceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ResourceType) UnmarshalText(text []byte) error {
	v, err := ParseResourceType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
