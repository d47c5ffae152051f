// Package config loads the generation settings from YAML. Every field has
// a built-in default; a document only needs the values it changes.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"mapforge/pkg/engine/clock"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/bsp"
	"mapforge/pkg/game/classify"
	"mapforge/pkg/game/corridor"
	"mapforge/pkg/game/difficulty"
	"mapforge/pkg/game/level"
	"mapforge/pkg/game/levelgen"
	"mapforge/pkg/game/pathfind"
)

const (
	MinMapSize = 8
	MaxMapSize = 1024
)

// Config is the whole generation document.
type Config struct {
	Seed       int64 `yaml:"seed"`
	Width      int   `yaml:"width"`
	Height     int   `yaml:"height"`
	Difficulty int   `yaml:"difficulty"`

	BSP            bsp.Params      `yaml:"bsp"`
	Rooms          bsp.RoomParams  `yaml:"rooms"`
	Corridors      Corridors       `yaml:"corridors"`
	Pathfinding    Pathfinding     `yaml:"pathfinding"`
	Classification classify.Config `yaml:"classification"`
	Content        Content         `yaml:"content"`
}

// Corridors is the corridor section.
type Corridors struct {
	MinWidth         int     `yaml:"min_width"`
	MaxWidth         int     `yaml:"max_width"`
	PrimaryWidth     int     `yaml:"primary_width"`
	SecondaryWidth   int     `yaml:"secondary_width"`
	CoreRoomFraction float64 `yaml:"core_room_fraction"`
	MinCoreSpacing   float64 `yaml:"min_core_spacing"`
	Smoothness       float64 `yaml:"smoothness"`
	AutoWidth        bool    `yaml:"auto_width"`
}

// Pathfinding is the search session section.
type Pathfinding struct {
	Heuristic             pathfind.Heuristic `yaml:"heuristic"`
	AllowDiagonal         bool               `yaml:"allow_diagonal"`
	CacheTTL              time.Duration      `yaml:"cache_ttl"`
	CacheSize             int                `yaml:"cache_size"`
	HierarchicalThreshold int                `yaml:"hierarchical_threshold"`
	ClusterSize           int                `yaml:"cluster_size"`
}

// Content is the placement section. A table given in YAML replaces the
// built-in rules of the room types it names and keeps the others.
type Content struct {
	CoverIncludesMovementBlockers bool                    `yaml:"cover_includes_movement_blockers"`
	SafeSpawnRoom                 bool                    `yaml:"safe_spawn_room"`
	SpawnSpacing                  int                     `yaml:"spawn_spacing"`
	Furniture                     levelgen.FurnitureTable `yaml:"furniture"`
	Spawns                        levelgen.SpawnTable     `yaml:"spawns"`
	Resources                     levelgen.ResourceTable  `yaml:"resources"`
}

// Default returns the built-in configuration for a 80×50 map.
func Default() *Config {
	cc := corridor.DefaultConfig()
	pc := pathfind.DefaultConfig()
	opts := levelgen.DefaultOptions()
	return &Config{
		Seed:       1,
		Width:      80,
		Height:     50,
		Difficulty: 5,
		BSP:        bsp.DefaultParams(),
		Rooms:      bsp.DefaultRoomParams(),
		Corridors: Corridors{
			MinWidth:         cc.MinWidth,
			MaxWidth:         cc.MaxWidth,
			PrimaryWidth:     cc.PrimaryWidth,
			SecondaryWidth:   cc.SecondaryWidth,
			CoreRoomFraction: cc.CoreRoomFraction,
			MinCoreSpacing:   cc.MinCoreSpacing,
			Smoothness:       cc.Smoothness,
			AutoWidth:        cc.AutoWidth,
		},
		Pathfinding: Pathfinding{
			Heuristic:             pc.Heuristic,
			AllowDiagonal:         pc.AllowDiagonal,
			CacheTTL:              pc.CacheTTL,
			CacheSize:             pc.CacheSize,
			HierarchicalThreshold: pc.HierarchicalThreshold,
			ClusterSize:           pc.ClusterSize,
		},
		Classification: classify.DefaultConfig(),
		Content: Content{
			CoverIncludesMovementBlockers: opts.CoverIncludesMovementBlockers,
			SafeSpawnRoom:                 opts.SafeSpawnRoom,
			SpawnSpacing:                  opts.SpawnSpacing,
			Furniture:                     opts.Furniture,
			Spawns:                        opts.Spawns,
			Resources:                     opts.Resources,
		},
	}
}

// Load reads a YAML file over Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes an in-memory YAML document over Default. It does not
// validate the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// PathfindingConfig converts the pathfinding section.
func (c *Config) PathfindingConfig(clk clock.Clock, logger *slog.Logger) pathfind.Config {
	p := c.Pathfinding
	return pathfind.Config{
		Heuristic:             p.Heuristic,
		AllowDiagonal:         p.AllowDiagonal,
		CacheTTL:              p.CacheTTL,
		CacheSize:             p.CacheSize,
		HierarchicalThreshold: p.HierarchicalThreshold,
		ClusterSize:           p.ClusterSize,
		Clock:                 clk,
		Logger:                logger,
	}
}

// CorridorConfig converts the corridor section. Corridor searches use the
// pathfinding section for their sessions.
func (c *Config) CorridorConfig(clk clock.Clock, logger *slog.Logger) corridor.Config {
	cc := corridor.DefaultConfig()
	s := c.Corridors
	cc.MinWidth = s.MinWidth
	cc.MaxWidth = s.MaxWidth
	cc.PrimaryWidth = s.PrimaryWidth
	cc.SecondaryWidth = s.SecondaryWidth
	cc.CoreRoomFraction = s.CoreRoomFraction
	cc.MinCoreSpacing = s.MinCoreSpacing
	cc.Smoothness = s.Smoothness
	cc.AutoWidth = s.AutoWidth
	cc.Pathfinding = c.PathfindingConfig(clk, logger)
	cc.Logger = logger
	return cc
}

// ClassifyConfig returns the classification section with the logger set.
func (c *Config) ClassifyConfig(logger *slog.Logger) classify.Config {
	cc := c.Classification
	cc.MinRoomDimension = c.Rooms.MinDimension
	cc.Logger = logger
	return cc
}

// PopulatorOptions converts the content section.
func (c *Config) PopulatorOptions(onEvent func(levelgen.Event), logger *slog.Logger) levelgen.Options {
	return levelgen.Options{
		Furniture:                     c.Content.Furniture,
		Spawns:                        c.Content.Spawns,
		Resources:                     c.Content.Resources,
		Difficulty:                    c.Difficulty,
		CoverIncludesMovementBlockers: c.Content.CoverIncludesMovementBlockers,
		SafeSpawnRoom:                 c.Content.SafeSpawnRoom,
		SpawnSpacing:                  c.Content.SpawnSpacing,
		OnEvent:                       onEvent,
		Logger:                        logger,
	}
}

// Validate reports every invalid field at once as an InvalidArgument error
// whose "fields" meta maps field paths to messages.
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	vb.RangeField("width", c.Width, MinMapSize, MaxMapSize)
	vb.RangeField("height", c.Height, MinMapSize, MaxMapSize)
	vb.RangeField("difficulty", c.Difficulty, int(difficulty.MinLevel), int(difficulty.MaxLevel))

	if c.BSP.MinRoomSize < 3 {
		vb.Fieldf("bsp.min_room_size", "must be at least 3, got %d", c.BSP.MinRoomSize)
	}
	vb.RangeField("bsp.max_depth", c.BSP.MaxDepth, 0, 16)
	vb.FloatRangeField("bsp.position_variation", c.BSP.PositionVariation, 0, 1)
	vb.FloatRangeField("bsp.stop_chance", c.BSP.StopChance, 0, 1)
	if _, err := bsp.ParseSplitPreference(c.BSP.Preference.String()); err != nil {
		vb.InvalidField("bsp.split_preference", err.Error())
	}

	if c.Rooms.MinMargin < 0 {
		vb.Fieldf("rooms.min_margin", "must not be negative, got %d", c.Rooms.MinMargin)
	}
	if c.Rooms.MaxMargin < c.Rooms.MinMargin {
		vb.Fieldf("rooms.max_margin", "must be at least min_margin %d, got %d", c.Rooms.MinMargin, c.Rooms.MaxMargin)
	}
	if c.Rooms.MinDimension < 3 {
		vb.Fieldf("rooms.min_room_dimension", "must be at least 3, got %d", c.Rooms.MinDimension)
	}

	cs := c.Corridors
	vb.RangeField("corridors.min_width", cs.MinWidth, level.MinCorridorWidth, level.MaxCorridorWidth)
	vb.RangeField("corridors.max_width", cs.MaxWidth, level.MinCorridorWidth, level.MaxCorridorWidth)
	vb.RangeField("corridors.primary_width", cs.PrimaryWidth, level.MinCorridorWidth, level.MaxCorridorWidth)
	vb.RangeField("corridors.secondary_width", cs.SecondaryWidth, level.MinCorridorWidth, level.MaxCorridorWidth)
	if !(cs.MinWidth <= cs.SecondaryWidth && cs.SecondaryWidth <= cs.PrimaryWidth && cs.PrimaryWidth <= cs.MaxWidth) {
		vb.Fieldf("corridors", "widths must satisfy min ≤ secondary ≤ primary ≤ max, got %d ≤ %d ≤ %d ≤ %d",
			cs.MinWidth, cs.SecondaryWidth, cs.PrimaryWidth, cs.MaxWidth)
	}
	if cs.CoreRoomFraction <= 0 || cs.CoreRoomFraction > 1 {
		vb.Fieldf("corridors.core_room_fraction", "must be in (0, 1], got %g", cs.CoreRoomFraction)
	}
	if cs.MinCoreSpacing < 0 {
		vb.Fieldf("corridors.min_core_spacing", "must not be negative, got %g", cs.MinCoreSpacing)
	}
	vb.FloatRangeField("corridors.smoothness", cs.Smoothness, 0, 1)

	ps := c.Pathfinding
	if _, err := pathfind.ParseHeuristic(ps.Heuristic.String()); err != nil {
		vb.InvalidField("pathfinding.heuristic", err.Error())
	}
	if ps.CacheTTL < 0 {
		vb.Fieldf("pathfinding.cache_ttl", "must not be negative, got %s", ps.CacheTTL)
	}
	if ps.CacheSize < 0 || ps.HierarchicalThreshold < 0 {
		vb.Field("pathfinding", "cache_size and hierarchical_threshold must not be negative")
	}
	if ps.ClusterSize != 0 && ps.ClusterSize < 2 {
		vb.Fieldf("pathfinding.cluster_size", "must be at least 2, got %d", ps.ClusterSize)
	}

	if err := c.ClassifyConfig(nil).Validate(); err != nil {
		mergeFields(vb, err)
	}
	validateContent(vb, c.Content)
	return vb.Build()
}

// mergeFields copies the per-field messages of a nested validation error.
func mergeFields(vb *errors.ValidationBuilder, err error) {
	fields, ok := errors.GetMeta(err)["fields"].(map[string][]string)
	if !ok {
		vb.Field("classification", err.Error())
		return
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, msg := range fields[name] {
			vb.Field(name, msg)
		}
	}
}

func validateAmount(vb *errors.ValidationBuilder, field string, a levelgen.Amount) {
	vb.FloatRangeField(field+".probability", a.Probability, 0, 1)
	if a.Min < 0 || a.Max < a.Min {
		vb.Fieldf(field+".max", "count range must satisfy 0 ≤ min ≤ max, got %d..%d", a.Min, a.Max)
	}
	if a.ScaleWithArea && a.ReferenceArea <= 0 {
		vb.Fieldf(field+".reference_area", "must be positive when scale_with_area is set, got %d", a.ReferenceArea)
	}
}

func validateContent(vb *errors.ValidationBuilder, c Content) {
	if c.SpawnSpacing < 0 {
		vb.Fieldf("content.spawn_spacing", "must not be negative, got %d", c.SpawnSpacing)
	}
	for _, rt := range level.AllRoomTypes() {
		for i, r := range c.Furniture[rt] {
			field := fmt.Sprintf("content.furniture[%s][%d]", rt, i)
			if r.Type == "" {
				vb.RequiredField(field + ".type")
			}
			validateAmount(vb, field, r.Amount)
			if r.Size.W < 0 || r.Size.H < 0 {
				vb.Fieldf(field+".size", "must not be negative, got %dx%d", r.Size.W, r.Size.H)
			}
		}

		if p, ok := c.Spawns[rt]; ok {
			field := fmt.Sprintf("content.spawns[%s]", rt)
			if p.BaseDensity < 0 || p.Modifier < 0 {
				vb.Field(field, "base_density and modifier must not be negative")
			}
			vb.FloatRangeField(field+".variance", p.Variance, 0, 1)
			if p.Min < 0 || p.Max < p.Min {
				vb.Fieldf(field+".max", "count range must satisfy 0 ≤ min ≤ max, got %d..%d", p.Min, p.Max)
			}
			if p.MaxDelay < p.MinDelay {
				vb.Fieldf(field+".max_delay", "must be at least min_delay %g, got %g", p.MinDelay, p.MaxDelay)
			}
		}

		for i, r := range c.Resources[rt] {
			field := fmt.Sprintf("content.resources[%s][%d]", rt, i)
			validateAmount(vb, field, r.Amount)
			if r.QuantityMax < r.QuantityMin {
				vb.Fieldf(field+".quantity_max", "must be at least quantity_min %d, got %d", r.QuantityMin, r.QuantityMax)
			}
		}
	}
	for rt := range c.Furniture {
		if rt == level.Unassigned {
			vb.Field("content.furniture", "rules for unassigned rooms are never used")
		}
	}
}
