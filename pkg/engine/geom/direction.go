package geom

// Direction is a cardinal direction on the tile grid. Y grows southward.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// AllDirections returns the cardinal directions in clockwise order starting at North.
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// IsValid reports whether d is one of the four cardinal directions.
func (d Direction) IsValid() bool {
	return d >= North && d <= West
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return d
	}
}

// Delta returns the x and y offsets of one step in this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// Step returns the point one tile away from p in direction d.
func (d Direction) Step(p Point) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// DirectionBetween returns the cardinal direction from a to an orthogonally
// adjacent b. ok is false when the points are not 4-neighbours.
func DirectionBetween(a, b Point) (d Direction, ok bool) {
	for _, dir := range AllDirections() {
		if dir.Step(a) == b {
			return dir, true
		}
	}
	return North, false
}
