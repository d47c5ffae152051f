package levelgen

import (
	"fmt"
	"math/rand"
	"strings"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/game/level"
)

// Positioning selects how furniture candidates are generated.
type Positioning int

const (
	AgainstWall Positioning = iota // footprint touches a room edge
	Center                         // closest to the room centre first
	Anywhere                       // full scan, shuffled
)

var positioningNames = []string{"against_wall", "center", "anywhere"}

func (p Positioning) String() string {
	if p >= 0 && int(p) < len(positioningNames) {
		return positioningNames[p]
	}
	return fmt.Sprintf("positioning_%d", int(p))
}

func (p Positioning) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Positioning) UnmarshalText(text []byte) error {
	i, err := parseName(positioningNames, "positioning", string(text))
	if err != nil {
		return err
	}
	*p = Positioning(i)
	return nil
}

// SpawnCategory is a kind of strategic spawn location.
type SpawnCategory int

const (
	SpawnCorner SpawnCategory = iota
	SpawnNearDoorway
	SpawnCover // next to furniture that blocks sight
	SpawnCenter
	SpawnPerimeter
	SpawnRandom
)

var spawnCategoryNames = []string{"corner", "near_doorway", "cover", "center", "perimeter", "random"}

func (c SpawnCategory) String() string {
	if c >= 0 && int(c) < len(spawnCategoryNames) {
		return spawnCategoryNames[c]
	}
	return fmt.Sprintf("spawn_category_%d", int(c))
}

func (c SpawnCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *SpawnCategory) UnmarshalText(text []byte) error {
	i, err := parseName(spawnCategoryNames, "spawn category", string(text))
	if err != nil {
		return err
	}
	*c = SpawnCategory(i)
	return nil
}

// ResourcePreference orders resource candidates.
type ResourcePreference int

const (
	PreferCorner ResourcePreference = iota
	PreferCenter
	PreferRandom
)

var preferenceNames = []string{"corner", "center", "random"}

func (p ResourcePreference) String() string {
	if p >= 0 && int(p) < len(preferenceNames) {
		return preferenceNames[p]
	}
	return fmt.Sprintf("preference_%d", int(p))
}

func (p ResourcePreference) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *ResourcePreference) UnmarshalText(text []byte) error {
	i, err := parseName(preferenceNames, "resource preference", string(text))
	if err != nil {
		return err
	}
	*p = ResourcePreference(i)
	return nil
}

func parseName(names []string, kind, s string) (int, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if norm == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

// WeightedAsset is an opaque asset id with a relative selection weight.
type WeightedAsset struct {
	ID     string  `yaml:"id" json:"id"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// pickAsset draws one asset id by weight. Non-positive weights count as 1.
// It always draws once so the rng sequence does not depend on the weights.
func pickAsset(assets []WeightedAsset, rng *rand.Rand) string {
	u := rng.Float64()
	if len(assets) == 0 {
		return ""
	}
	total := 0.0
	for _, a := range assets {
		total += weight(a)
	}
	target := u * total
	for _, a := range assets {
		target -= weight(a)
		if target < 0 {
			return a.ID
		}
	}
	return assets[len(assets)-1].ID
}

func weight(a WeightedAsset) float64 {
	if a.Weight <= 0 {
		return 1
	}
	return a.Weight
}

// Amount is the instance count part shared by furniture and resource rules.
type Amount struct {
	Probability   float64 `yaml:"probability"`
	Min           int     `yaml:"min"`
	Max           int     `yaml:"max"`
	ScaleWithArea bool    `yaml:"scale_with_area"`
	ReferenceArea int     `yaml:"reference_area"`
}

// count draws how many instances to place in a room of the given area:
// the probability gate, then a count in [Min, Max], then optional area
// scaling. A scaled count never drops below 1 once the gate has passed.
func (a Amount) count(area int, rng *rand.Rand) int {
	if rng.Float64() >= a.Probability {
		return 0
	}
	n := a.Min
	if a.Max > a.Min {
		n += rng.Intn(a.Max - a.Min + 1)
	}
	if a.ScaleWithArea && a.ReferenceArea > 0 {
		n = max(1, int(float64(n)*float64(area)/float64(a.ReferenceArea)+0.5))
	}
	return n
}

// FurnitureRule places one kind of furniture.
type FurnitureRule struct {
	Type   string          `yaml:"type"`
	Assets []WeightedAsset `yaml:"assets"`
	Amount `yaml:",inline"`

	Size            geom.Size   `yaml:"size"`
	Positioning     Positioning `yaml:"positioning"`
	MinDoorDistance int         `yaml:"min_door_distance"`
	BlocksMovement  bool        `yaml:"blocks_movement"`
	BlocksSight     bool        `yaml:"blocks_sight"`
	AllowRotation   bool        `yaml:"allow_rotation"`
	AllowFlip       bool        `yaml:"allow_flip"`
	Variants        int         `yaml:"variants"`
	Health          int         `yaml:"health"`
}

// SpawnProfile says how many enemies a room type holds and where.
type SpawnProfile struct {
	BaseDensity   float64         `yaml:"base_density"`
	ReferenceArea int             `yaml:"reference_area"`
	Modifier      float64         `yaml:"modifier"`
	Variance      float64         `yaml:"variance"`
	Min           int             `yaml:"min"`
	Max           int             `yaml:"max"`
	Categories    []SpawnCategory `yaml:"categories"` // priority order
	Enemies       []WeightedAsset `yaml:"enemies"`
	Marker        string          `yaml:"marker"`
	MinDelay      float64         `yaml:"min_delay"`
	MaxDelay      float64         `yaml:"max_delay"`
}

// ResourceRule places one kind of pickup.
type ResourceRule struct {
	Type   level.ResourceType `yaml:"type"`
	Assets []WeightedAsset    `yaml:"assets"`
	Amount `yaml:",inline"`

	Preference  ResourcePreference `yaml:"preference"`
	BaseValue   float64            `yaml:"base_value"`
	QuantityMin int                `yaml:"quantity_min"`
	QuantityMax int                `yaml:"quantity_max"`
	RespawnTime float64            `yaml:"respawn_time"`
	Consumable  bool               `yaml:"consumable"`
	Effect      *level.TimedEffect `yaml:"effect,omitempty"`
}

type (
	FurnitureTable map[level.RoomType][]FurnitureRule
	SpawnTable     map[level.RoomType]SpawnProfile
	ResourceTable  map[level.RoomType][]ResourceRule
)
