package pathfind

import (
	"fmt"
	"strings"

	"mapforge/pkg/engine/geom"
)

// Heuristic selects the distance estimate used by A*.
type Heuristic int

const (
	Octile    Heuristic = iota // exact for 8-way moves with diagonal cost √2
	Manhattan                  // exact for 4-way moves
	Euclidean
	Chebyshev
)

var heuristicNames = map[Heuristic]string{
	Octile:    "octile",
	Manhattan: "manhattan",
	Euclidean: "euclidean",
	Chebyshev: "chebyshev",
}

func (h Heuristic) String() string {
	if s, ok := heuristicNames[h]; ok {
		return s
	}
	return fmt.Sprintf("heuristic_%d", int(h))
}

// Estimate returns the heuristic distance from a to b.
func (h Heuristic) Estimate(a, b geom.Point) float64 {
	switch h {
	case Manhattan:
		return float64(a.Manhattan(b))
	case Euclidean:
		return a.Euclidean(b)
	case Chebyshev:
		return float64(a.Chebyshev(b))
	default:
		return a.Octile(b)
	}
}

func ParseHeuristic(s string) (Heuristic, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for h, name := range heuristicNames {
		if name == norm {
			return h, nil
		}
	}
	return Octile, fmt.Errorf("unknown heuristic %q", s)
}

func (h Heuristic) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Heuristic) UnmarshalText(text []byte) error {
	v, err := ParseHeuristic(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}
