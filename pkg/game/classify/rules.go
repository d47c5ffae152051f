package classify

import (
	"fmt"
	"strings"

	"mapforge/pkg/game/level"
)

// Position is where in the map a room type prefers to sit.
type Position int

const (
	AnyPosition Position = iota
	Center               // near the middle of the map
	Edge                 // against one side of the map
	Corner               // against two sides
)

var positionNames = map[Position]string{
	AnyPosition: "any",
	Center:      "center",
	Edge:        "edge",
	Corner:      "corner",
}

func (p Position) String() string {
	if name, ok := positionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("position_%d", int(p))
}

func ParsePosition(s string) (Position, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for p, name := range positionNames {
		if norm == name {
			return p, nil
		}
	}
	return AnyPosition, fmt.Errorf("unknown position %q", s)
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	v, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Depth is the BSP depth a room type prefers, relative to the deepest leaf.
type Depth int

const (
	AnyDepth Depth = iota
	Shallow
	Medium
	Deep
)

var depthNames = map[Depth]string{
	AnyDepth: "any",
	Shallow:  "shallow",
	Medium:   "medium",
	Deep:     "deep",
}

func (d Depth) String() string {
	if name, ok := depthNames[d]; ok {
		return name
	}
	return fmt.Sprintf("depth_%d", int(d))
}

func ParseDepth(s string) (Depth, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for d, name := range depthNames {
		if norm == name {
			return d, nil
		}
	}
	return AnyDepth, fmt.Errorf("unknown depth %q", s)
}

func (d Depth) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Depth) UnmarshalText(text []byte) error {
	v, err := ParseDepth(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Rule describes how well a room fits one room type and how common the type
// should be. Percentages are fractions of the room count; zero disables
// the corresponding balancing check.
type Rule struct {
	Type          level.RoomType `yaml:"type"`
	MinArea       int            `yaml:"min_area"`
	PreferredArea int            `yaml:"preferred_area"`
	MaxArea       int            `yaml:"max_area"` // 0 means unbounded
	MinDimension  int            `yaml:"min_dimension"`
	Position      Position       `yaml:"position"`
	Depth         Depth          `yaml:"depth"`
	Priority      float64        `yaml:"priority"`
	TargetPercent float64        `yaml:"target_percent"`
	Tolerance     float64        `yaml:"tolerance"`
	MaxPercent    float64        `yaml:"max_percent"`
}

// Eligible reports whether a room meets the hard size limits of the rule.
func (r Rule) Eligible(room *level.Room) bool {
	return room.Area >= r.MinArea &&
		room.Bounds.Width >= r.MinDimension &&
		room.Bounds.Height >= r.MinDimension
}

// DefaultRules is the office-building table. Order matters: it is the
// tie-break order and the order jitter is drawn in.
func DefaultRules() []Rule {
	return []Rule{
		{Type: level.Lobby, MinArea: 36, PreferredArea: 80, MaxArea: 200, MinDimension: 6, Position: Edge, Depth: Shallow, Priority: 1.2, TargetPercent: 0.05, Tolerance: 0.05, MaxPercent: 0.10},
		{Type: level.Reception, MinArea: 20, PreferredArea: 40, MaxArea: 100, MinDimension: 4, Position: Edge, Depth: Shallow, Priority: 1.0, TargetPercent: 0.05, Tolerance: 0.05, MaxPercent: 0.10},
		{Type: level.Office, MinArea: 9, PreferredArea: 30, MaxArea: 80, MinDimension: 3, Priority: 1.0, TargetPercent: 0.40, Tolerance: 0.10, MaxPercent: 0.60},
		{Type: level.ExecutiveOffice, MinArea: 30, PreferredArea: 60, MaxArea: 120, MinDimension: 5, Depth: Deep, Priority: 0.9, TargetPercent: 0.05, Tolerance: 0.05, MaxPercent: 0.10},
		{Type: level.ConferenceRoom, MinArea: 30, PreferredArea: 60, MaxArea: 150, MinDimension: 5, Position: Center, Depth: Medium, Priority: 0.9, TargetPercent: 0.08, Tolerance: 0.05, MaxPercent: 0.15},
		{Type: level.BreakRoom, MinArea: 16, PreferredArea: 36, MaxArea: 80, MinDimension: 4, Depth: Medium, Priority: 0.9, TargetPercent: 0.08, Tolerance: 0.05, MaxPercent: 0.15},
		{Type: level.Kitchen, MinArea: 16, PreferredArea: 30, MaxArea: 60, MinDimension: 4, Depth: Medium, Priority: 0.7, TargetPercent: 0.04, Tolerance: 0.03, MaxPercent: 0.10},
		{Type: level.Restroom, MinArea: 9, PreferredArea: 16, MaxArea: 30, MinDimension: 3, Priority: 0.8, TargetPercent: 0.06, Tolerance: 0.04, MaxPercent: 0.12},
		{Type: level.StorageRoom, MinArea: 9, PreferredArea: 20, MaxArea: 50, MinDimension: 3, Position: Corner, Priority: 0.8, TargetPercent: 0.06, Tolerance: 0.04, MaxPercent: 0.12},
		{Type: level.ServerRoom, MinArea: 16, PreferredArea: 36, MaxArea: 80, MinDimension: 4, Position: Center, Depth: Deep, Priority: 0.8, TargetPercent: 0.04, Tolerance: 0.03, MaxPercent: 0.10},
		{Type: level.Laboratory, MinArea: 25, PreferredArea: 50, MaxArea: 120, MinDimension: 5, Depth: Deep, Priority: 0.8, TargetPercent: 0.05, Tolerance: 0.03, MaxPercent: 0.10},
		{Type: level.SecurityRoom, MinArea: 12, PreferredArea: 25, MaxArea: 50, MinDimension: 3, Position: Edge, Depth: Shallow, Priority: 0.8, TargetPercent: 0.04, Tolerance: 0.03, MaxPercent: 0.10},
		{Type: level.MedicalBay, MinArea: 16, PreferredArea: 36, MaxArea: 80, MinDimension: 4, Depth: Medium, Priority: 0.8, TargetPercent: 0.04, Tolerance: 0.03, MaxPercent: 0.10},
		{Type: level.Armory, MinArea: 12, PreferredArea: 25, MaxArea: 60, MinDimension: 3, Position: Corner, Depth: Deep, Priority: 0.7, TargetPercent: 0.03, Tolerance: 0.02, MaxPercent: 0.08},
		{Type: level.Library, MinArea: 25, PreferredArea: 50, MaxArea: 120, MinDimension: 5, Position: Center, Priority: 0.7, TargetPercent: 0.03, Tolerance: 0.02, MaxPercent: 0.08},
		{Type: level.Workshop, MinArea: 16, PreferredArea: 36, MaxArea: 80, MinDimension: 4, Position: Edge, Priority: 0.7, TargetPercent: 0.04, Tolerance: 0.03, MaxPercent: 0.10},
		{Type: level.MaintenanceRoom, MinArea: 9, PreferredArea: 16, MaxArea: 40, MinDimension: 3, Position: Corner, Priority: 0.7, TargetPercent: 0.04, Tolerance: 0.03, MaxPercent: 0.10},
		{Type: level.BossRoom, MinArea: 100, PreferredArea: 160, MaxArea: 400, MinDimension: 8, Depth: Deep, Priority: 1.3, TargetPercent: 0.02, Tolerance: 0.02, MaxPercent: 0.05},
	}
}
