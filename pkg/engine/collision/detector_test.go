package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
)

func newTestDetector(t *testing.T, bodies ...Body) *Detector {
	t.Helper()
	d := New(geom.R(0, 0, 20, 20))
	for _, b := range bodies {
		require.NoError(t, d.Add(b))
	}
	return d
}

func TestAddRejectsBadBodies(t *testing.T) {
	d := newTestDetector(t, Body{ID: 1, Bounds: geom.R(2, 2, 1, 1)})

	tests := []struct {
		name string
		body Body
	}{
		{"empty footprint", Body{ID: 2, Bounds: geom.R(3, 3, 0, 1)}},
		{"outside bounds", Body{ID: 3, Bounds: geom.R(19, 19, 2, 2)}},
		{"duplicate id", Body{ID: 1, Bounds: geom.R(5, 5, 1, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Add(tt.body)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestHasCollisionOnlyCountsMovementBlockers(t *testing.T) {
	d := newTestDetector(t,
		Body{ID: 1, Bounds: geom.R(2, 2, 2, 2), BlocksMovement: true},
		Body{ID: 2, Bounds: geom.R(8, 8, 1, 1), BlocksSight: true},
	)

	assert.True(t, d.HasCollision(Body{ID: 9, Bounds: geom.R(3, 3, 1, 1)}))
	assert.False(t, d.HasCollision(Body{ID: 9, Bounds: geom.R(8, 8, 1, 1)}))
	assert.True(t, d.HasSightBlocker(geom.R(8, 8, 1, 1)))
	assert.True(t, d.IsOccupied(geom.R(8, 8, 1, 1)))
	assert.False(t, d.HasCollision(Body{ID: 1, Bounds: geom.R(2, 2, 1, 1)}), "a body never collides with itself")
}

func TestRemoveClearsCells(t *testing.T) {
	d := newTestDetector(t, Body{ID: 1, Bounds: geom.R(2, 2, 3, 1), BlocksMovement: true})

	require.True(t, d.Remove(1))
	assert.False(t, d.Remove(1))
	assert.False(t, d.IsOccupied(geom.R(2, 2, 3, 1)))
	assert.Zero(t, d.Count())
}

func TestQueryAreaIsUniqueAndOrdered(t *testing.T) {
	d := newTestDetector(t,
		Body{ID: 5, Bounds: geom.R(0, 0, 3, 3)},
		Body{ID: 2, Bounds: geom.R(1, 1, 3, 3)},
		Body{ID: 9, Bounds: geom.R(10, 10, 1, 1)},
	)

	got := d.QueryArea(geom.R(0, 0, 5, 5))
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 5, got[1].ID)
	assert.Len(t, d.ObjectsAt(geom.Pt(1, 1)), 2)
}

func TestFindValidPositions(t *testing.T) {
	room := geom.R(2, 2, 5, 5)
	d := newTestDetector(t, Body{ID: 1, Bounds: geom.R(4, 4, 1, 1), BlocksMovement: true})

	positions := d.FindValidPositions(room, geom.Sz(1, 1), 0)
	assert.Len(t, positions, 24)
	assert.NotContains(t, positions, geom.Pt(4, 4))

	inner := d.FindValidPositions(room, geom.Sz(1, 1), 1)
	assert.Len(t, inner, 8)

	big := d.FindValidPositions(room, geom.Sz(2, 2), 0)
	for _, p := range big {
		assert.False(t, geom.RectAt(p, geom.Sz(2, 2)).Contains(geom.Pt(4, 4)))
	}

	withExtra := d.FindValidPositions(room, geom.Sz(1, 1), 0, Body{ID: 7, Bounds: geom.R(2, 2, 1, 1), BlocksMovement: true})
	assert.Len(t, withExtra, 23)
}

func TestFindFreePositionsAvoidsEverything(t *testing.T) {
	room := geom.R(0, 0, 3, 1)
	d := newTestDetector(t, Body{ID: 1, Bounds: geom.R(1, 0, 1, 1)})

	assert.Len(t, d.FindValidPositions(room, geom.Sz(1, 1), 0), 3)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0)}, d.FindFreePositions(room, geom.Sz(1, 1), 0))
}
