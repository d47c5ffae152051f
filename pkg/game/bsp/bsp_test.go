// Package bsp tests partitioning: the tree invariants, determinism for a
// fixed seed, split preferences and room carving.
package bsp

import (
	"math/rand"
	"testing"

	"mapforge/pkg/engine/geom"
)

func TestSplitFailsWithoutMutation(t *testing.T) {
	p := Params{MinRoomSize: 4, MaxDepth: 3}
	rng := rand.New(rand.NewSource(1))

	small := NewRoot(geom.R(0, 0, 7, 7))
	if Split(small, p, rng) {
		t.Fatal("Split on 7x7 with min 4 = true, want false")
	}
	if !small.IsLeaf() || small.SplitAxis != NoAxis {
		t.Errorf("failed split mutated node: %+v", small)
	}

	deep := &Node{Bounds: geom.R(0, 0, 40, 40), Depth: 3}
	if Split(deep, p, rng) {
		t.Error("Split at max depth = true, want false")
	}

	internal := NewRoot(geom.R(0, 0, 40, 40))
	if !Split(internal, p, rng) {
		t.Fatal("Split on 40x40 = false, want true")
	}
	if Split(internal, p, rng) {
		t.Error("Split on internal node = true, want false")
	}
}

func TestSplitForcedAxis(t *testing.T) {
	p := Params{MinRoomSize: 4, MaxDepth: 4, Preference: PreferVertical}
	n := NewRoot(geom.R(0, 0, 6, 20))

	if !Split(n, p, rand.New(rand.NewSource(3))) {
		t.Fatal("Split = false, want true")
	}
	if n.SplitAxis != Horizontal {
		t.Errorf("SplitAxis = %v, want horizontal (only legal axis)", n.SplitAxis)
	}
}

func TestSplitPreferences(t *testing.T) {
	tests := []struct {
		name   string
		pref   SplitPreference
		bounds geom.Rect
		want   Axis
	}{
		{"alternate root is vertical", Alternate, geom.R(0, 0, 30, 30), Vertical},
		{"fixed horizontal", PreferHorizontal, geom.R(0, 0, 30, 30), Horizontal},
		{"fixed vertical", PreferVertical, geom.R(0, 0, 30, 30), Vertical},
		{"balanced tall", Balanced, geom.R(0, 0, 20, 40), Horizontal},
		{"balanced wide", Balanced, geom.R(0, 0, 40, 20), Vertical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewRoot(tt.bounds)
			Split(n, Params{MinRoomSize: 4, MaxDepth: 2, Preference: tt.pref}, rand.New(rand.NewSource(1)))
			if n.SplitAxis != tt.want {
				t.Errorf("SplitAxis = %v, want %v", n.SplitAxis, tt.want)
			}
		})
	}
}

func TestSplitPositionVariationStaysLegal(t *testing.T) {
	p := Params{MinRoomSize: 5, MaxDepth: 1, Preference: PreferVertical, PositionVariation: 1}
	for seed := int64(0); seed < 200; seed++ {
		n := NewRoot(geom.R(2, 0, 17, 10))
		if !Split(n, p, rand.New(rand.NewSource(seed))) {
			t.Fatalf("seed %d: Split = false", seed)
		}
		if n.Left.Bounds.Width < 5 || n.Right.Bounds.Width < 5 {
			t.Fatalf("seed %d: children %s %s violate min size", seed, n.Left.Bounds, n.Right.Bounds)
		}
		if n.SplitPosition != n.Left.Bounds.Right() {
			t.Fatalf("seed %d: SplitPosition = %d, want %d", seed, n.SplitPosition, n.Left.Bounds.Right())
		}
	}
}

func TestBuildSeed42Scenario(t *testing.T) {
	mapBounds := geom.R(0, 0, 20, 20)
	root := Build(mapBounds, Params{MinRoomSize: 4, MaxDepth: 4, Preference: Balanced, PositionVariation: 0.5}, rand.New(rand.NewSource(42)))

	leaves := root.Leaves()
	if len(leaves) < 1 {
		t.Fatal("expected at least one leaf")
	}
	for _, leaf := range leaves {
		if !mapBounds.ContainsRect(leaf.Bounds) {
			t.Errorf("leaf %s outside map %s", leaf.Bounds, mapBounds)
		}
	}
	if err := Validate(root); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	p := DefaultParams()
	bounds := geom.R(1, 1, 78, 58)

	for _, seed := range []int64{1, 7, 42, 1234} {
		a := Build(bounds, p, rand.New(rand.NewSource(seed)))
		b := Build(bounds, p, rand.New(rand.NewSource(seed)))
		CarveRooms(a, DefaultRoomParams(), rand.New(rand.NewSource(seed)))
		CarveRooms(b, DefaultRoomParams(), rand.New(rand.NewSource(seed)))

		if a.String() != b.String() {
			t.Errorf("seed %d: trees differ\n%s\nvs\n%s", seed, a, b)
		}
	}
}

func TestTreeInvariantsAcrossSeeds(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		root := Build(geom.R(1, 1, 62, 46), Params{MinRoomSize: 5, MaxDepth: 6, Preference: Random, PositionVariation: 0.8, StopChance: 0.2}, rng)
		CarveRooms(root, DefaultRoomParams(), rng)

		if err := Validate(root); err != nil {
			t.Fatalf("seed %d: Validate() = %v", seed, err)
		}
		if root.MaxDepth() > 6 {
			t.Errorf("seed %d: depth %d exceeds max", seed, root.MaxDepth())
		}
	}
}

func TestCarveRoomsKeepsRoomsApart(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		rng := rand.New(rand.NewSource(seed))
		root := Build(geom.R(1, 1, 48, 48), Params{MinRoomSize: 4, MaxDepth: 6, Preference: Alternate, PositionVariation: 0.5}, rng)
		CarveRooms(root, RoomParams{MinMargin: 0, MaxMargin: 2, MinDimension: 3}, rng)

		rooms := root.Rooms()
		for i, a := range rooms {
			if a.Width < 3 || a.Height < 3 {
				t.Errorf("seed %d: room %s smaller than 3x3", seed, a)
			}
			for _, b := range rooms[i+1:] {
				if a.Expand(1).Intersects(b) {
					t.Errorf("seed %d: rooms %s and %s touch", seed, a, b)
				}
			}
		}
	}
}

func TestCarveRoomsSkipsTinyLeaves(t *testing.T) {
	root := NewRoot(geom.R(0, 0, 3, 3))
	if n := CarveRooms(root, DefaultRoomParams(), rand.New(rand.NewSource(1))); n != 0 {
		t.Errorf("CarveRooms = %d, want 0", n)
	}
	if root.Room != nil {
		t.Errorf("tiny leaf got room %s", *root.Room)
	}
}

func TestValidateReportsBrokenTree(t *testing.T) {
	root := NewRoot(geom.R(0, 0, 20, 20))
	Split(root, Params{MinRoomSize: 4, MaxDepth: 2, Preference: PreferVertical}, rand.New(rand.NewSource(1)))
	root.SplitPosition = 0
	bad := geom.R(50, 50, 3, 3)
	root.Left.Room = &bad

	if err := Validate(root); err == nil {
		t.Error("Validate() = nil, want errors")
	}
}

func TestParseSplitPreference(t *testing.T) {
	for _, p := range []SplitPreference{Alternate, PreferHorizontal, PreferVertical, Random, Balanced} {
		got, err := ParseSplitPreference(p.String())
		if err != nil || got != p {
			t.Errorf("ParseSplitPreference(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseSplitPreference("diagonal"); err == nil {
		t.Error("expected error for unknown preference")
	}
}
