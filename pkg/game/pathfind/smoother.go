package pathfind

import (
	"math"

	"mapforge/pkg/engine/geom"
)

// Smoothness thresholds at which the composite smoother layers in the
// angular and spline passes.
const (
	angularThreshold = 0.34
	splineThreshold  = 0.67
)

// SmoothingConfig tunes the individual smoothing passes.
type SmoothingConfig struct {
	MaxAngle      float64 // degrees; sharper turns are candidates for angular smoothing
	SearchRadius  int     // how far from a corner a replacement point may sit
	SplineSamples int     // points sampled per Catmull-Rom segment
}

func DefaultSmoothingConfig() SmoothingConfig {
	return SmoothingConfig{MaxAngle: 45, SearchRadius: 2, SplineSamples: 4}
}

// Smoother post-processes pathfinder output. Line-of-sight checks follow the
// movement rules of the pathfinder it wraps.
type Smoother struct {
	pf  *Pathfinder
	cfg SmoothingConfig
}

func NewSmoother(pf *Pathfinder, cfg SmoothingConfig) *Smoother {
	if cfg.SplineSamples < 1 {
		cfg.SplineSamples = 1
	}
	if cfg.SearchRadius < 1 {
		cfg.SearchRadius = 1
	}
	return &Smoother{pf: pf, cfg: cfg}
}

// LineOfSight keeps only the waypoints needed to stay in clear sight.
func (s *Smoother) LineOfSight(path []geom.Point, grid *Grid) []geom.Point {
	return s.pf.OptimizePath(path, grid)
}

// CatmullRom resamples path along a Catmull-Rom spline through its
// waypoints. Samples are rounded to the grid; samples on obstacles and
// repeats of the previous point are dropped. Endpoints are kept.
func (s *Smoother) CatmullRom(path []geom.Point, grid *Grid) []geom.Point {
	if len(path) < 3 {
		return append([]geom.Point(nil), path...)
	}

	at := func(i int) geom.Point {
		return path[max(0, min(i, len(path)-1))]
	}
	out := []geom.Point{path[0]}
	push := func(p geom.Point) {
		if p == out[len(out)-1] || grid.IsBlocked(p) {
			return
		}
		out = append(out, p)
	}

	for i := 0; i < len(path)-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		for k := 1; k < s.cfg.SplineSamples; k++ {
			t := float64(k) / float64(s.cfg.SplineSamples)
			push(catmullRom(p0, p1, p2, p3, t))
		}
		push(p2)
	}
	if last := path[len(path)-1]; out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}

func catmullRom(p0, p1, p2, p3 geom.Point, t float64) geom.Point {
	t2, t3 := t*t, t*t*t
	f := func(a, b, c, d int) int {
		v := 0.5 * (2*float64(b) +
			(-float64(a)+float64(c))*t +
			(2*float64(a)-5*float64(b)+4*float64(c)-float64(d))*t2 +
			(-float64(a)+3*float64(b)-3*float64(c)+float64(d))*t3)
		return int(math.Round(v))
	}
	return geom.Point{X: f(p0.X, p1.X, p2.X, p3.X), Y: f(p0.Y, p1.Y, p2.Y, p3.Y)}
}

// Angular softens corners sharper than MaxAngle. For each such corner it
// looks along the inner bisector for a clear point within SearchRadius that
// keeps both legs in sight and turns by at most MaxAngle, and replaces the
// corner with it. Corners with no such point are kept.
func (s *Smoother) Angular(path []geom.Point, grid *Grid) []geom.Point {
	if len(path) < 3 {
		return append([]geom.Point(nil), path...)
	}

	out := []geom.Point{path[0]}
	for i := 1; i < len(path)-1; i++ {
		a, b, c := out[len(out)-1], path[i], path[i+1]
		if turnAngle(a, b, c) <= s.cfg.MaxAngle {
			out = append(out, b)
			continue
		}
		out = append(out, s.softenCorner(a, b, c, grid))
	}
	return append(out, path[len(path)-1])
}

func (s *Smoother) softenCorner(a, b, c geom.Point, grid *Grid) geom.Point {
	ux, uy := unit(a.X-b.X, a.Y-b.Y)
	vx, vy := unit(c.X-b.X, c.Y-b.Y)
	bx, by := unit2(ux+vx, uy+vy)
	if bx == 0 && by == 0 {
		return b
	}
	for r := 1; r <= s.cfg.SearchRadius; r++ {
		q := geom.Point{
			X: b.X + int(math.Round(bx*float64(r))),
			Y: b.Y + int(math.Round(by*float64(r))),
		}
		if q == a || q == c || q == b || grid.IsBlocked(q) {
			continue
		}
		if turnAngle(a, q, c) > s.cfg.MaxAngle {
			continue
		}
		if s.pf.HasLineOfSight(a, q, grid) && s.pf.HasLineOfSight(q, c, grid) {
			return q
		}
	}
	return b
}

// turnAngle returns the heading change in degrees at b when travelling a→b→c.
func turnAngle(a, b, c geom.Point) float64 {
	x1, y1 := float64(b.X-a.X), float64(b.Y-a.Y)
	x2, y2 := float64(c.X-b.X), float64(c.Y-b.Y)
	n1, n2 := math.Hypot(x1, y1), math.Hypot(x2, y2)
	if n1 == 0 || n2 == 0 {
		return 0
	}
	cos := (x1*x2 + y1*y2) / (n1 * n2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

func unit(dx, dy int) (float64, float64) {
	return unit2(float64(dx), float64(dy))
}

func unit2(x, y float64) (float64, float64) {
	n := math.Hypot(x, y)
	if n < 1e-9 {
		return 0, 0
	}
	return x / n, y / n
}

// Smooth is the weighted composite: line of sight always, angular from
// smoothness 0.34 and the spline from 0.67. The result is not guaranteed to
// be continuous; run EnsureContinuity before carving it.
func (s *Smoother) Smooth(path []geom.Point, grid *Grid, smoothness float64) []geom.Point {
	out := s.LineOfSight(path, grid)
	if smoothness >= angularThreshold {
		out = s.Angular(out, grid)
	}
	if smoothness >= splineThreshold {
		out = s.CatmullRom(out, grid)
	}
	return out
}

// EnsureContinuity rewrites path so consecutive points are 4-neighbours.
// Gaps are filled with a local 4-way search; if that fails a 4-connected
// line is used. Repeated points are removed by cutting the loop they close.
func (s *Smoother) EnsureContinuity(path []geom.Point, grid *Grid) []geom.Point {
	if len(path) == 0 {
		return nil
	}

	out := []geom.Point{path[0]}
	index := map[geom.Point]int{path[0]: 0}
	push := func(p geom.Point) {
		if i, seen := index[p]; seen {
			for _, q := range out[i+1:] {
				delete(index, q)
			}
			out = out[:i+1]
			return
		}
		index[p] = len(out)
		out = append(out, p)
	}

	for _, p := range path[1:] {
		last := out[len(out)-1]
		switch d := last.Manhattan(p); {
		case d == 0:
			continue
		case d == 1:
			push(p)
		default:
			for _, q := range s.bridge(last, p, grid)[1:] {
				push(q)
			}
		}
	}
	return out
}

// bridge joins a and b with 4-connected steps: a search boxed around the
// pair first, then an unrestricted one, then a straight 4-connected line.
func (s *Smoother) bridge(a, b geom.Point, grid *Grid) []geom.Point {
	margin := max(2, s.cfg.SearchRadius)
	box := geom.Rect{
		X:      min(a.X, b.X) - margin,
		Y:      min(a.Y, b.Y) - margin,
		Width:  geom.Abs(a.X-b.X) + 2*margin + 1,
		Height: geom.Abs(a.Y-b.Y) + 2*margin + 1,
	}
	if grid.InBounds(a) && grid.InBounds(b) && !grid.IsBlocked(a) && !grid.IsBlocked(b) {
		res := s.pf.search(&searchSpec{
			grid:      grid,
			start:     a,
			goal:      func(p geom.Point) bool { return p == b },
			heuristic: func(p geom.Point) float64 { return float64(p.Manhattan(b)) },
			allowed:   box.Contains,
		})
		if res.Found {
			return res.Path
		}
		res = s.pf.search(&searchSpec{
			grid:      grid,
			start:     a,
			goal:      func(p geom.Point) bool { return p == b },
			heuristic: func(p geom.Point) float64 { return float64(p.Manhattan(b)) },
		})
		if res.Found {
			return res.Path
		}
	}
	return geom.Line4(a, b)
}
