package geom

// Line returns the Bresenham line from a to b, both endpoints included.
// Consecutive points may be diagonal neighbours.
func Line(a, b Point) []Point {
	dx := Abs(b.X - a.X)
	dy := -Abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	pts := make([]Point, 0, max(dx, -dy)+1)
	x, y := a.X, a.Y
	e := dx + dy
	for {
		pts = append(pts, Point{X: x, Y: y})
		if x == b.X && y == b.Y {
			return pts
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// Line4 returns a 4-connected line from a to b: every diagonal step of the
// Bresenham line is split into a horizontal step followed by a vertical one.
func Line4(a, b Point) []Point {
	line := Line(a, b)
	pts := make([]Point, 0, len(line)*2)
	for i, p := range line {
		if i > 0 {
			prev := pts[len(pts)-1]
			if prev.X != p.X && prev.Y != p.Y {
				pts = append(pts, Point{X: p.X, Y: prev.Y})
			}
		}
		pts = append(pts, p)
	}
	return pts
}
