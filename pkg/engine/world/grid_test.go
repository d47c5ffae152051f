package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/pkg/engine/geom"
)

func TestNewGridLinksNeighbours(t *testing.T) {
	g := NewGrid(4, 3)

	c := g.GetCell(1, 1)
	require.NotNil(t, c)
	assert.Equal(t, g.GetCell(1, 0), c.North)
	assert.Equal(t, g.GetCell(2, 1), c.East)
	assert.Equal(t, g.GetCell(1, 2), c.South)
	assert.Equal(t, g.GetCell(0, 1), c.West)

	corner := g.GetCell(0, 0)
	assert.Nil(t, corner.North)
	assert.Nil(t, corner.West)
	assert.Len(t, corner.GetNeighbors(), 2)
	assert.Nil(t, g.GetCell(4, 0))
}

func TestPerimeter(t *testing.T) {
	g := NewGrid(5, 5)

	assert.True(t, g.IsOnPerimeter(0, 2))
	assert.True(t, g.IsOnPerimeter(4, 4))
	assert.False(t, g.IsOnPerimeter(2, 2))
	assert.False(t, g.IsOnPerimeter(9, 9))
}

func TestValidateDetectsIsland(t *testing.T) {
	g := NewGrid(10, 6)
	g.Paint(geom.R(1, 1, 3, 3), Floor)
	g.Paint(geom.R(6, 1, 3, 3), Floor)

	msg := g.Validate(geom.Pt(2, 2))
	assert.Contains(t, msg, "unreachable")

	g.Paint(geom.R(4, 2, 2, 1), Corridor)
	assert.Empty(t, g.Validate(geom.Pt(2, 2)))
	assert.Equal(t, 18, g.Count(Floor))
}

func TestValidateRejectsWalkableBorder(t *testing.T) {
	g := NewGrid(5, 5)
	g.Paint(geom.R(0, 1, 3, 1), Floor)

	assert.Contains(t, g.Validate(geom.Pt(1, 1)), "border")
}
