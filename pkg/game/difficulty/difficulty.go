// Package difficulty maps a difficulty level to named bands and to the
// multipliers applied to resource value and quantity.
package difficulty

import (
	"github.com/leonelquinteros/gotext"

	"mapforge/pkg/game/level"
)

// Level is a difficulty from MinLevel (easiest) to MaxLevel.
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 10
)

// Clamp turns any integer into a valid level.
func Clamp(v int) Level {
	switch {
	case v < int(MinLevel):
		return MinLevel
	case v > int(MaxLevel):
		return MaxLevel
	}
	return Level(v)
}

// Band groups levels for display.
type Band int

const (
	Easy      Band = iota // levels 1-3
	Normal                // levels 4-6
	Hard                  // levels 7-8
	Nightmare             // levels 9-10
)

// Band returns the band of l after clamping.
func (l Level) Band() Band {
	switch c := Clamp(int(l)); {
	case c <= 3:
		return Easy
	case c <= 6:
		return Normal
	case c <= 8:
		return Hard
	default:
		return Nightmare
	}
}

// Key returns the gettext message key for the band.
func (b Band) Key() string {
	switch b {
	case Normal:
		return "DIFFICULTY_NORMAL"
	case Hard:
		return "DIFFICULTY_HARD"
	case Nightmare:
		return "DIFFICULTY_NIGHTMARE"
	default:
		return "DIFFICULTY_EASY"
	}
}

func (b Band) String() string {
	switch b {
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	case Nightmare:
		return "nightmare"
	default:
		return "easy"
	}
}

// DisplayName returns the translated band name. Uses gotext.Get with
// constant keys to satisfy vet.
func (b Band) DisplayName() string {
	switch b {
	case Normal:
		return gotext.Get("DIFFICULTY_NORMAL")
	case Hard:
		return gotext.Get("DIFFICULTY_HARD")
	case Nightmare:
		return gotext.Get("DIFFICULTY_NIGHTMARE")
	default:
		return gotext.Get("DIFFICULTY_EASY")
	}
}

// Multipliers scale a resource's value and quantity.
type Multipliers struct {
	Value    float64 `json:"value"`
	Quantity float64 `json:"quantity"`
}

// curve holds the multipliers at MinLevel and MaxLevel; levels in between
// are interpolated linearly.
type curve struct {
	easy, hard Multipliers
}

var table = map[level.ResourceType]curve{
	level.Health:   {easy: Multipliers{1.5, 1.3}, hard: Multipliers{0.6, 0.7}},
	level.Ammo:     {easy: Multipliers{0.8, 0.8}, hard: Multipliers{1.6, 1.5}},
	level.Weapon:   {easy: Multipliers{0.8, 0.9}, hard: Multipliers{1.6, 1.3}},
	level.Armor:    {easy: Multipliers{1, 1}, hard: Multipliers{1, 1}},
	level.Food:     {easy: Multipliers{1.1, 1.1}, hard: Multipliers{0.9, 0.9}},
	level.Key:      {easy: Multipliers{1, 1}, hard: Multipliers{1, 1}},
	level.Currency: {easy: Multipliers{1, 1}, hard: Multipliers{1.3, 1.2}},
}

// For returns the multipliers for resources of type t at difficulty l.
// Unknown types are not scaled.
func For(t level.ResourceType, l int) Multipliers {
	c, ok := table[t]
	if !ok {
		return Multipliers{Value: 1, Quantity: 1}
	}
	f := float64(Clamp(l)-MinLevel) / float64(MaxLevel-MinLevel)
	return Multipliers{
		Value:    c.easy.Value + f*(c.hard.Value-c.easy.Value),
		Quantity: c.easy.Quantity + f*(c.hard.Quantity-c.easy.Quantity),
	}
}
