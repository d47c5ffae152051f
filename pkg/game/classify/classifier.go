// Package classify assigns a room type to every room from its size, its
// position in the map and the depth of the BSP leaf it came from, then
// rebalances the result toward the configured type distribution.
package classify

import (
	"log/slog"
	"math"
	"math/rand"

	"mapforge/pkg/errors"
	"mapforge/pkg/game/bsp"
	"mapforge/pkg/game/level"
)

// Config weights the three fit scores and carries the rule table.
type Config struct {
	Rules          []Rule                 `yaml:"rules"`
	SizeWeight     float64                `yaml:"size_weight"`
	PositionWeight float64                `yaml:"position_weight"`
	DepthWeight    float64                `yaml:"depth_weight"`
	Jitter         float64                `yaml:"jitter"` // amplitude of the random score offset
	FallbackType   level.RoomType         `yaml:"fallback_type"`
	Overrides      map[int]level.RoomType `yaml:"overrides,omitempty"` // room id → type

	// MinRoomDimension is the shortest side a carved room can have. The
	// fallback type must admit a room that small. Values below
	// bsp.SmallestRoom are raised to it.
	MinRoomDimension int `yaml:"-"`

	Logger *slog.Logger `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		Rules:          DefaultRules(),
		SizeWeight:     0.5,
		PositionWeight: 0.3,
		DepthWeight:    0.2,
		Jitter:         0.05,
		FallbackType:   level.Office,
	}
}

// Validate reports every problem in the table at once.
func (c Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if len(c.Rules) == 0 {
		vb.RequiredField("classification.rules")
	}
	if c.SizeWeight < 0 || c.PositionWeight < 0 || c.DepthWeight < 0 {
		vb.Field("classification.weights", "must not be negative")
	}
	if c.Jitter < 0 {
		vb.Fieldf("classification.jitter", "must not be negative, got %g", c.Jitter)
	}
	if c.FallbackType == level.Unassigned {
		vb.RequiredField("classification.fallback_type")
	}
	dim := max(c.MinRoomDimension, bsp.SmallestRoom)
	for _, r := range c.Rules {
		if r.Type == c.FallbackType && (r.MinDimension > dim || r.MinArea > dim*dim) {
			vb.Fieldf("classification.fallback_type",
				"%s needs min_area %d and min_dimension %d, but rooms can be as small as %dx%d",
				r.Type, r.MinArea, r.MinDimension, dim, dim)
		}
	}
	for id, t := range c.Overrides {
		if t == level.Unassigned {
			vb.Fieldf("classification.overrides", "room %d overridden to unassigned", id)
		}
	}

	seen := make(map[level.RoomType]bool, len(c.Rules))
	for i, r := range c.Rules {
		field := func(name string) string { return "classification.rules[" + r.Type.String() + "]." + name }
		if r.Type == level.Unassigned {
			vb.Fieldf("classification.rules", "rule %d has no type", i)
			continue
		}
		if seen[r.Type] {
			vb.Field(field("type"), "duplicate rule")
		}
		seen[r.Type] = true
		if r.MinArea < 0 || r.MinDimension < 0 {
			vb.Field(field("min_area"), "minimums must not be negative")
		}
		if r.PreferredArea < r.MinArea {
			vb.Fieldf(field("preferred_area"), "must be at least min_area %d, got %d", r.MinArea, r.PreferredArea)
		}
		if r.MaxArea > 0 && r.MaxArea < r.PreferredArea {
			vb.Fieldf(field("max_area"), "must be at least preferred_area %d, got %d", r.PreferredArea, r.MaxArea)
		}
		if r.Priority <= 0 {
			vb.Fieldf(field("priority"), "must be positive, got %g", r.Priority)
		}
		vb.FloatRangeField(field("target_percent"), r.TargetPercent, 0, 1)
		vb.FloatRangeField(field("tolerance"), r.Tolerance, 0, 1)
		vb.FloatRangeField(field("max_percent"), r.MaxPercent, 0, 1)
	}
	return vb.Build()
}

// Report describes one classification run.
type Report struct {
	Counts     map[level.RoomType]int `json:"counts"`
	Overridden []int                  `json:"overridden,omitempty"`
	Fallback   []int                  `json:"fallback,omitempty"` // rooms no rule admitted
	Moves      int                    `json:"moves"`              // reassignments made while balancing
}

type Classifier struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config) *Classifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{cfg: cfg, logger: logger}
}

// scoreTable holds the fit of every room for every rule, indexed
// [room][rule]. Ineligible entries are -Inf.
type scoreTable [][]float64

func (s scoreTable) eligible(room, rule int) bool {
	return !math.IsInf(s[room][rule], -1)
}

// Classify sets Classification on every room of m.
//
// One jitter value is drawn for every (room, rule) pair, rooms in id order
// and rules in table order, whether or not the room is eligible, so the
// draw sequence depends only on the room and rule counts.
func (c *Classifier) Classify(m *level.Map, rng *rand.Rand) (*Report, error) {
	if m == nil || rng == nil {
		return nil, errors.InvalidArgument("map and rng are required")
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	report := &Report{Counts: make(map[level.RoomType]int)}
	if len(m.Rooms) == 0 {
		return report, nil
	}

	scores := c.score(m, rng)
	b := newBalancer(c.cfg.Rules, scores)

	for i, room := range m.Rooms {
		if t, ok := c.cfg.Overrides[room.ID]; ok {
			if r := b.ruleIndex(t); r >= 0 && !scores.eligible(i, r) {
				c.logger.Warn("override assigns a type the room is too small for",
					"room_id", room.ID,
					"type", t.String(),
					"area", room.Area)
			}
			b.assign(i, t, true)
			report.Overridden = append(report.Overridden, room.ID)
			continue
		}

		best := -1
		for r := range c.cfg.Rules {
			if scores.eligible(i, r) && (best < 0 || scores[i][r] > scores[i][best]) {
				best = r
			}
		}
		if best < 0 {
			if r := b.ruleIndex(c.cfg.FallbackType); r >= 0 && !c.cfg.Rules[r].Eligible(room) {
				return nil, errors.FailedPreconditionf("room %d (%dx%d) is below the minimum size of every type, fallback %s included",
					room.ID, room.Bounds.Width, room.Bounds.Height, c.cfg.FallbackType).WithMeta("room_id", room.ID)
			}
			b.assign(i, c.cfg.FallbackType, false)
			report.Fallback = append(report.Fallback, room.ID)
			continue
		}
		b.assign(i, c.cfg.Rules[best].Type, false)
	}

	report.Moves = b.balance()

	for i, room := range m.Rooms {
		room.Classification = b.types[i]
		report.Counts[b.types[i]]++
	}

	c.logger.Debug("rooms classified",
		"rooms", len(m.Rooms),
		"moves", report.Moves,
		"fallback", len(report.Fallback),
		"overridden", len(report.Overridden))
	return report, nil
}

func (c *Classifier) score(m *level.Map, rng *rand.Rand) scoreTable {
	minDepth, maxDepth := m.Rooms[0].Depth, m.Rooms[0].Depth
	for _, room := range m.Rooms {
		minDepth = min(minDepth, room.Depth)
		maxDepth = max(maxDepth, room.Depth)
	}

	table := make(scoreTable, len(m.Rooms))
	for i, room := range m.Rooms {
		table[i] = make([]float64, len(c.cfg.Rules))
		pl := locate(m, room)
		rd := 0.5
		if maxDepth > minDepth {
			rd = float64(room.Depth-minDepth) / float64(maxDepth-minDepth)
		}

		for r, rule := range c.cfg.Rules {
			jitter := c.cfg.Jitter * (2*rng.Float64() - 1)
			if !rule.Eligible(room) {
				table[i][r] = math.Inf(-1)
				continue
			}
			fit := c.cfg.SizeWeight*sizeScore(rule, room.Area) +
				c.cfg.PositionWeight*positionScore(rule.Position, pl) +
				c.cfg.DepthWeight*depthScore(rule.Depth, rd)
			table[i][r] = rule.Priority*fit + jitter
		}
	}
	return table
}

// sizeScore is 1 at the preferred area, 0.5 at the minimum and maximum,
// and decays past the maximum.
func sizeScore(r Rule, area int) float64 {
	pref := max(r.PreferredArea, r.MinArea)
	switch {
	case area <= pref:
		if pref == r.MinArea {
			return 1
		}
		return 0.5 + 0.5*float64(area-r.MinArea)/float64(pref-r.MinArea)
	case r.MaxArea <= 0:
		return 1
	case area <= r.MaxArea:
		if r.MaxArea == pref {
			return 1
		}
		return 1 - 0.5*float64(area-pref)/float64(r.MaxArea-pref)
	default:
		return 0.5 * float64(r.MaxArea) / float64(area)
	}
}

// placement is where a room sits in its map.
type placement struct {
	class      Position // Center, Edge or Corner
	centrality float64  // 0 at the map centre, 1 at the boundary
}

func locate(m *level.Map, room *level.Room) placement {
	margin := max(2, min(m.Width, m.Height)/8)
	b := room.Bounds
	nearX := b.X-1 <= margin || (m.Width-1)-b.Right() <= margin
	nearY := b.Y-1 <= margin || (m.Height-1)-b.Bottom() <= margin

	pl := placement{class: Center}
	switch {
	case nearX && nearY:
		pl.class = Corner
	case nearX || nearY:
		pl.class = Edge
	}

	hx, hy := float64(m.Width)/2, float64(m.Height)/2
	if hx > 0 && hy > 0 {
		cx, cy := float64(room.Center.X)+0.5, float64(room.Center.Y)+0.5
		pl.centrality = math.Min(1, math.Max(math.Abs(cx-hx)/hx, math.Abs(cy-hy)/hy))
	}
	return pl
}

func positionScore(pref Position, pl placement) float64 {
	switch pref {
	case Center:
		return 1 - pl.centrality
	case Edge:
		switch pl.class {
		case Edge:
			return 1
		case Corner:
			return 0.7
		}
		return 0.5 * pl.centrality
	case Corner:
		switch pl.class {
		case Corner:
			return 1
		case Edge:
			return 0.5
		}
		return 0.25 * pl.centrality
	}
	return 0.5
}

// depthScore takes the room depth scaled to [0,1] over the map's rooms.
func depthScore(pref Depth, rd float64) float64 {
	switch pref {
	case Shallow:
		return 1 - rd
	case Medium:
		return 1 - 2*math.Abs(rd-0.5)
	case Deep:
		return rd
	}
	return 0.5
}
