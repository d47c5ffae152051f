package difficulty

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mapforge/pkg/game/level"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, MinLevel, Clamp(-3))
	assert.Equal(t, Level(5), Clamp(5))
	assert.Equal(t, MaxLevel, Clamp(99))
}

func TestBands(t *testing.T) {
	tests := []struct {
		level int
		want  Band
	}{
		{0, Easy}, {1, Easy}, {3, Easy},
		{4, Normal}, {6, Normal},
		{7, Hard}, {8, Hard},
		{9, Nightmare}, {10, Nightmare}, {42, Nightmare},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.level).Band(), "level %d", tt.level)
	}
	assert.Equal(t, "DIFFICULTY_HARD", Hard.Key())
	assert.Equal(t, "nightmare", Nightmare.String())
	assert.NotEmpty(t, Easy.DisplayName())
}

func TestMultiplierCurves(t *testing.T) {
	assert.InDelta(t, 1.5, For(level.Health, 1).Value, 1e-9)
	assert.InDelta(t, 0.6, For(level.Health, 10).Value, 1e-9)
	assert.InDelta(t, 0.8, For(level.Ammo, 1).Value, 1e-9)
	assert.InDelta(t, 1.6, For(level.Ammo, 10).Value, 1e-9)
	assert.InDelta(t, 1.6, For(level.Weapon, 20).Value, 1e-9)

	for l := 1; l < 10; l++ {
		assert.GreaterOrEqual(t, For(level.Health, l).Value, For(level.Health, l+1).Value)
		assert.LessOrEqual(t, For(level.Ammo, l).Value, For(level.Ammo, l+1).Value)
		assert.GreaterOrEqual(t, For(level.Food, l).Value, For(level.Food, l+1).Value)
		assert.LessOrEqual(t, For(level.Currency, l).Value, For(level.Currency, l+1).Value)
		assert.Equal(t, Multipliers{1, 1}, For(level.Key, l))
		assert.Equal(t, Multipliers{1, 1}, For(level.Armor, l))
	}
	assert.Equal(t, Multipliers{1, 1}, For(level.ResourceType(99), 5))
}
