// Package collision maintains a cell-to-object spatial hash used when
// packing placed objects into rooms.
package collision

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/errors"
)

// Body is the collision view of a placed object.
type Body struct {
	ID             int
	Bounds         geom.Rect
	BlocksMovement bool
	BlocksSight    bool
}

// Detector maps every grid cell to the ids of the bodies covering it. One
// body may cover many cells and one cell may hold many non-blocking bodies.
type Detector struct {
	bounds geom.Rect
	cells  map[geom.Point]mapset.Set[int]
	bodies map[int]Body
}

// New returns an empty detector accepting bodies inside bounds.
func New(bounds geom.Rect) *Detector {
	return &Detector{
		bounds: bounds,
		cells:  make(map[geom.Point]mapset.Set[int]),
		bodies: make(map[int]Body),
	}
}

// Bounds is the area the detector accepts bodies in.
func (d *Detector) Bounds() geom.Rect {
	return d.bounds
}

// Add registers b in every cell of its footprint.
func (d *Detector) Add(b Body) error {
	if !b.Bounds.Valid() {
		return errors.InvalidArgumentf("body %d has empty footprint %s", b.ID, b.Bounds)
	}
	if !d.bounds.ContainsRect(b.Bounds) {
		return errors.InvalidArgumentf("body %d footprint %s outside %s", b.ID, b.Bounds, d.bounds)
	}
	if _, exists := d.bodies[b.ID]; exists {
		return errors.InvalidArgumentf("body %d already registered", b.ID)
	}

	d.bodies[b.ID] = b
	for _, p := range b.Bounds.Points() {
		set, ok := d.cells[p]
		if !ok {
			set = mapset.New[int]()
			d.cells[p] = set
		}
		set.Put(b.ID)
	}
	return nil
}

// Remove unregisters the body with the given id.
func (d *Detector) Remove(id int) bool {
	b, ok := d.bodies[id]
	if !ok {
		return false
	}
	delete(d.bodies, id)
	for _, p := range b.Bounds.Points() {
		set, ok := d.cells[p]
		if !ok {
			continue
		}
		set.Remove(id)
		if set.Size() == 0 {
			delete(d.cells, p)
		}
	}
	return true
}

// Get returns the body registered under id.
func (d *Detector) Get(id int) (Body, bool) {
	b, ok := d.bodies[id]
	return b, ok
}

func (d *Detector) Count() int {
	return len(d.bodies)
}

func (d *Detector) Clear() {
	clear(d.cells)
	clear(d.bodies)
}

// HasCollision reports whether any other movement-blocking body covers a
// cell of the candidate's footprint. Sight-only blockers never collide.
func (d *Detector) HasCollision(candidate Body) bool {
	return d.any(candidate.Bounds, candidate.ID, func(b Body) bool { return b.BlocksMovement })
}

// IsOccupied reports whether any body at all covers a cell of r.
func (d *Detector) IsOccupied(r geom.Rect) bool {
	return d.any(r, noID, func(Body) bool { return true })
}

// HasSightBlocker reports whether a sight-blocking body covers a cell of r.
func (d *Detector) HasSightBlocker(r geom.Rect) bool {
	return d.any(r, noID, func(b Body) bool { return b.BlocksSight })
}

// BlocksSightAt reports whether p is covered by a sight-blocking body.
func (d *Detector) BlocksSightAt(p geom.Point) bool {
	return d.HasSightBlocker(geom.Rect{X: p.X, Y: p.Y, Width: 1, Height: 1})
}

// BlocksMovementAt reports whether p is covered by a movement-blocking body.
func (d *Detector) BlocksMovementAt(p geom.Point) bool {
	return d.any(geom.Rect{X: p.X, Y: p.Y, Width: 1, Height: 1}, noID, func(b Body) bool { return b.BlocksMovement })
}

// ObjectsAt returns the bodies covering p ordered by id.
func (d *Detector) ObjectsAt(p geom.Point) []Body {
	set, ok := d.cells[p]
	if !ok {
		return nil
	}
	return d.sorted(set)
}

// QueryArea returns every body touching r once, ordered by id.
func (d *Detector) QueryArea(r geom.Rect) []Body {
	found := mapset.New[int]()
	for _, p := range r.Points() {
		if set, ok := d.cells[p]; ok {
			set.Each(func(id int) { found.Put(id) })
		}
	}
	return d.sorted(found)
}

// FindValidPositions scans room row by row and returns every top-left
// position where a body of the given size would not collide with a movement
// blocker. The scan keeps minDistance tiles between the footprint and the
// room edge. existing bodies are treated as registered for this query only.
func (d *Detector) FindValidPositions(room geom.Rect, size geom.Size, minDistance int, existing ...Body) []geom.Point {
	return d.scan(room, size, minDistance, existing, func(c Body, extra []Body) bool {
		if d.HasCollision(c) {
			return false
		}
		for _, e := range extra {
			if e.BlocksMovement && e.ID != c.ID && e.Bounds.Intersects(c.Bounds) {
				return false
			}
		}
		return true
	})
}

// FindFreePositions is FindValidPositions with the stricter rule that the
// footprint may not overlap any body, blocking or not.
func (d *Detector) FindFreePositions(room geom.Rect, size geom.Size, minDistance int, existing ...Body) []geom.Point {
	return d.scan(room, size, minDistance, existing, func(c Body, extra []Body) bool {
		if d.IsOccupied(c.Bounds) {
			return false
		}
		for _, e := range extra {
			if e.Bounds.Intersects(c.Bounds) {
				return false
			}
		}
		return true
	})
}

const noID = -1 << 31

func (d *Detector) scan(room geom.Rect, size geom.Size, minDistance int, extra []Body, ok func(Body, []Body) bool) []geom.Point {
	if !size.Valid() || minDistance < 0 {
		return nil
	}
	area := room.Inset(minDistance)
	if !area.Valid() {
		return nil
	}

	var out []geom.Point
	for y := area.Y; y+size.H <= area.Bottom(); y++ {
		for x := area.X; x+size.W <= area.Right(); x++ {
			probe := Body{ID: noID, Bounds: geom.Rect{X: x, Y: y, Width: size.W, Height: size.H}, BlocksMovement: true}
			if !d.bounds.ContainsRect(probe.Bounds) {
				continue
			}
			if ok(probe, extra) {
				out = append(out, geom.Point{X: x, Y: y})
			}
		}
	}
	return out
}

func (d *Detector) any(r geom.Rect, skip int, match func(Body) bool) bool {
	for _, p := range r.Points() {
		set, ok := d.cells[p]
		if !ok {
			continue
		}
		hit := false
		set.Each(func(id int) {
			if hit || id == skip {
				return
			}
			if match(d.bodies[id]) {
				hit = true
			}
		})
		if hit {
			return true
		}
	}
	return false
}

func (d *Detector) sorted(ids mapset.Set[int]) []Body {
	out := make([]Body, 0, ids.Size())
	ids.Each(func(id int) { out = append(out, d.bodies[id]) })
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
