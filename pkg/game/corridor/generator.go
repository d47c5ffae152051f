// Package corridor connects the rooms of a map: a spanning tree of wide
// primary corridors between core rooms, narrower secondary corridors from
// every other room to that network, and a forced fallback for any room
// still unreachable from the spawn room.
package corridor

import (
	"log/slog"

	"mapforge/pkg/errors"
	"mapforge/pkg/game/level"
	"mapforge/pkg/game/pathfind"
)

// Config controls corridor generation.
type Config struct {
	MinWidth       int
	MaxWidth       int
	PrimaryWidth   int
	SecondaryWidth int

	// CoreRoomFraction of rooms, largest first, become core rooms.
	CoreRoomFraction float64
	// MinCoreSpacing is the minimum centre distance between core rooms.
	MinCoreSpacing float64

	// Smoothness in [0,1] selects the smoothing passes applied to each path.
	Smoothness float64
	Smoothing  pathfind.SmoothingConfig

	// AutoWidth derives the primary width from the map and room sizes.
	AutoWidth bool

	// Pathfinding configures the search sessions used to route corridors.
	// Diagonal moves are always disabled.
	Pathfinding pathfind.Config

	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		MinWidth:         level.MinCorridorWidth,
		MaxWidth:         level.MaxCorridorWidth,
		PrimaryWidth:     5,
		SecondaryWidth:   3,
		CoreRoomFraction: 0.3,
		MinCoreSpacing:   12,
		Smoothness:       0.3,
		Smoothing:        pathfind.DefaultSmoothingConfig(),
		Pathfinding:      pathfind.DefaultConfig(),
	}
}

// Report summarizes one generation run.
type Report struct {
	CoreRooms      []int    `json:"core_rooms"`
	Primary        int      `json:"primary"`
	Secondary      int      `json:"secondary"`
	Fallback       int      `json:"fallback"`
	Relaxed        int      `json:"relaxed"`
	FallbackRooms  []int    `json:"fallback_rooms,omitempty"`
	FailedAttempts int      `json:"failed_attempts"`
	PrimaryWidth   int      `json:"primary_width"`
	SecondaryWidth int      `json:"secondary_width"`
	WidthWarnings  []string `json:"width_warnings,omitempty"`
}

// Total returns the number of corridors carved.
func (r *Report) Total() int {
	return r.Primary + r.Secondary + r.Fallback
}

// Generator carves corridors into maps. It holds no per-map state and may
// be reused.
type Generator struct {
	cfg       Config
	logger    *slog.Logger
	validator pathfind.WidthValidator
}

func New(cfg Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := pathfind.NewWidthValidator()
	if cfg.MinWidth > 0 {
		v.MinWidth = cfg.MinWidth
	}
	if cfg.MaxWidth > 0 {
		v.MaxWidth = cfg.MaxWidth
	}
	return &Generator{cfg: cfg, logger: logger, validator: v}
}

func (g *Generator) validate() error {
	vb := errors.NewValidationBuilder()
	vb.RangeField("min_width", g.cfg.MinWidth, level.MinCorridorWidth, level.MaxCorridorWidth)
	vb.RangeField("max_width", g.cfg.MaxWidth, g.cfg.MinWidth, level.MaxCorridorWidth)
	vb.RangeField("primary_width", g.cfg.PrimaryWidth, g.cfg.MinWidth, g.cfg.MaxWidth)
	vb.RangeField("secondary_width", g.cfg.SecondaryWidth, g.cfg.MinWidth, g.cfg.PrimaryWidth)
	if g.cfg.CoreRoomFraction <= 0 || g.cfg.CoreRoomFraction > 1 {
		vb.Fieldf("core_room_fraction", "must be in (0, 1], got %g", g.cfg.CoreRoomFraction)
	}
	vb.FloatRangeField("smoothness", g.cfg.Smoothness, 0, 1)
	return vb.Build()
}

// Generate carves corridors until every room is reachable from the spawn
// room. Rooms must already be placed; the spawn room should be chosen.
func (g *Generator) Generate(m *level.Map) (*Report, error) {
	if m == nil {
		return nil, errors.InvalidArgument("map is nil")
	}
	if err := g.validate(); err != nil {
		return nil, err
	}

	r := newRun(g, m)
	if len(m.Rooms) == 0 {
		return r.report, nil
	}

	cores := selectCoreRooms(m.Rooms, g.cfg.CoreRoomFraction, g.cfg.MinCoreSpacing)
	for _, id := range cores {
		m.Rooms[id].IsCore = true
	}
	r.report.CoreRooms = cores

	if err := r.primaryPass(cores); err != nil {
		return r.report, err
	}
	if err := r.secondaryPass(); err != nil {
		return r.report, err
	}
	if err := r.ensureConnectivity(); err != nil {
		return r.report, err
	}

	widths := make([]int, 0, len(m.Corridors))
	for _, c := range m.Corridors {
		widths = append(widths, c.Width)
	}
	r.report.WidthWarnings = g.validator.ValidateSet(widths).Warnings
	return r.report, nil
}
