package bsp

import (
	"math/rand"

	"mapforge/pkg/engine/geom"
)

// RoomParams controls how far a room is inset from its leaf.
type RoomParams struct {
	MinMargin    int `yaml:"min_margin"`
	MaxMargin    int `yaml:"max_margin"`
	MinDimension int `yaml:"min_room_dimension"`
}

func DefaultRoomParams() RoomParams {
	return RoomParams{MinMargin: 1, MaxMargin: 3, MinDimension: 3}
}

// SmallestRoom is the hard floor for room dimensions.
const SmallestRoom = 3

// CarveRooms attaches a room to every leaf large enough to host one and
// returns how many rooms were carved.
//
// The left and top margins are never below one tile while the right and
// bottom margins may be zero, so rooms in neighbouring leaves never touch.
// Margins shrink, right/bottom first, until the room meets MinDimension.
func CarveRooms(root *Node, p RoomParams, rng *rand.Rand) int {
	minDim := max(p.MinDimension, SmallestRoom)
	carved := 0
	for _, leaf := range root.Leaves() {
		b := leaf.Bounds
		if b.Width < minDim+1 || b.Height < minDim+1 {
			leaf.Room = nil
			continue
		}

		left := between(rng, max(p.MinMargin, 1), p.MaxMargin)
		right := between(rng, max(p.MinMargin, 0), p.MaxMargin)
		top := between(rng, max(p.MinMargin, 1), p.MaxMargin)
		bottom := between(rng, max(p.MinMargin, 0), p.MaxMargin)

		left, right = fitMargins(b.Width, minDim, left, right)
		top, bottom = fitMargins(b.Height, minDim, top, bottom)

		room := geom.Rect{
			X:      b.X + left,
			Y:      b.Y + top,
			Width:  b.Width - left - right,
			Height: b.Height - top - bottom,
		}
		leaf.Room = &room
		carved++
	}
	return carved
}

func fitMargins(length, minDim, lead, trail int) (int, int) {
	for length-lead-trail < minDim && trail > 0 {
		trail--
	}
	for length-lead-trail < minDim && lead > 1 {
		lead--
	}
	return lead, trail
}

// between draws an int in [lo, hi]; it returns lo without drawing when the
// range is empty.
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
