package pathfind

import (
	"fmt"
	"math"
	"sort"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/level"
)

// WidthValidator checks corridor widths against the allowed range and the
// obstacle grid.
type WidthValidator struct {
	MinWidth         int
	MaxWidth         int
	RecommendedWidth int
}

func NewWidthValidator() WidthValidator {
	return WidthValidator{
		MinWidth:         level.MinCorridorWidth,
		MaxWidth:         level.MaxCorridorWidth,
		RecommendedWidth: level.RecommendedCorridorWidth,
	}
}

// WidthReport separates hard failures from advice.
type WidthReport struct {
	Errors   []string
	Warnings []string
}

func (r WidthReport) Valid() bool {
	return len(r.Errors) == 0
}

func (v WidthValidator) ValidateWidth(width int) error {
	if width < v.MinWidth || width > v.MaxWidth {
		return errors.OutOfRangef("corridor width %d not in [%d,%d]", width, v.MinWidth, v.MaxWidth).
			WithMeta("width", width)
	}
	return nil
}

// ValidateCorridor checks that every tile within width/2 of every path tile
// is inside the grid and unblocked. Each offending tile is reported once.
func (v WidthValidator) ValidateCorridor(path []geom.Point, width int, grid *Grid) WidthReport {
	var r WidthReport
	if err := v.ValidateWidth(width); err != nil {
		r.Errors = append(r.Errors, err.Error())
		return r
	}
	if width < v.RecommendedWidth {
		r.Warnings = append(r.Warnings, fmt.Sprintf("corridor width %d below recommended %d", width, v.RecommendedWidth))
	}

	radius := width / 2
	reported := make(map[geom.Point]bool)
	for _, p := range path {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				q := geom.Point{X: p.X + dx, Y: p.Y + dy}
				if reported[q] {
					continue
				}
				switch {
				case !grid.InBounds(q):
					reported[q] = true
					r.Errors = append(r.Errors, fmt.Sprintf("tile %s around %s outside map bounds", q, p))
				case grid.IsBlocked(q):
					reported[q] = true
					r.Errors = append(r.Errors, fmt.Sprintf("obstacle at %s within width of %s", q, p))
				}
			}
		}
	}
	return r
}

// ValidateSet checks a set of corridor widths: each must be in range, and
// widths further apart than two tiles are flagged as inconsistent.
func (v WidthValidator) ValidateSet(widths []int) WidthReport {
	var r WidthReport
	if len(widths) == 0 {
		return r
	}
	lo, hi := widths[0], widths[0]
	for _, w := range widths {
		if err := v.ValidateWidth(w); err != nil {
			r.Errors = append(r.Errors, err.Error())
		}
		lo, hi = min(lo, w), max(hi, w)
	}
	if hi-lo > 2 {
		distinct := map[int]bool{}
		for _, w := range widths {
			distinct[w] = true
		}
		var ws []int
		for w := range distinct {
			ws = append(ws, w)
		}
		sort.Ints(ws)
		r.Warnings = append(r.Warnings, fmt.Sprintf("inconsistent corridor widths %v", ws))
	}
	return r
}

// RecommendWidth derives a corridor width from the map size and the average
// room area. Larger maps and larger rooms get wider corridors.
func (v WidthValidator) RecommendWidth(mapWidth, mapHeight int, avgRoomArea float64) int {
	side := math.Sqrt(float64(max(mapWidth, 0) * max(mapHeight, 0)))
	w := 1 + int(side/40) + int(math.Max(avgRoomArea, 0)/60)
	return max(v.MinWidth, min(w, v.MaxWidth))
}
