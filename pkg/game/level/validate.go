package level

import (
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
)

// Severity separates fatal problems from advisory ones.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue codes.
const (
	IssueRoomBounds         = "room_bounds"
	IssueRoomTooSmall       = "room_too_small"
	IssueRoomCache          = "room_cache"
	IssueDuplicateID        = "duplicate_id"
	IssueAsymmetricLink     = "asymmetric_connection"
	IssueUnreachableRoom    = "unreachable_room"
	IssueNoSpawnRoom        = "no_spawn_room"
	IssueSpawnOutside       = "spawn_outside_room"
	IssueCorridorGap        = "corridor_discontinuity"
	IssueCorridorEndpoint   = "corridor_endpoint"
	IssueCorridorBounds     = "corridor_bounds"
	IssueCorridorWidth      = "corridor_width"
	IssueCorridorClearance  = "corridor_clearance"
	IssueCorridorNarrow     = "corridor_narrow"
	IssueCorridorRelaxed    = "corridor_relaxed"
	IssueDoorwayBounds      = "doorway_bounds"
	IssueDoorwayWidth       = "doorway_width"
	IssueNoDoorways         = "room_without_doorways"
	IssueObjectOutsideRoom  = "object_outside_room"
	IssueBlockingOverlap    = "blocking_overlap"
	IssueSpawnPointsClumped = "spawn_points_clustered"
	IssueUnreachableFloor   = "unreachable_floor"
)

// Issue is one finding of the validation pass.
type Issue struct {
	Severity   Severity `json:"severity"`
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	RoomID     int      `json:"room_id"`
	CorridorID int      `json:"corridor_id"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s] %s", i.Severity, i.Code, i.Message)
}

// ValidationResult collects every issue found in a map.
type ValidationResult struct {
	Issues []Issue `json:"issues"`
}

func (v *ValidationResult) add(sev Severity, code string, room, corridor int, format string, args ...any) {
	v.Issues = append(v.Issues, Issue{
		Severity:   sev,
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		RoomID:     room,
		CorridorID: corridor,
	})
}

// Errors returns the issues with error severity.
func (v *ValidationResult) Errors() []Issue {
	return v.filter(SeverityError)
}

// Warnings returns the advisory issues.
func (v *ValidationResult) Warnings() []Issue {
	return v.filter(SeverityWarning)
}

func (v *ValidationResult) HasErrors() bool {
	return len(v.Errors()) > 0
}

// IsValid reports whether the map is usable.
func (v *ValidationResult) IsValid() bool {
	return !v.HasErrors()
}

// Has reports whether any issue carries code.
func (v *ValidationResult) Has(code string) bool {
	for _, i := range v.Issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

// Summary joins the error messages on one line.
func (v *ValidationResult) Summary() string {
	errs := v.Errors()
	if len(errs) == 0 {
		return fmt.Sprintf("valid (%d warnings)", len(v.Warnings()))
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

func (v *ValidationResult) filter(sev Severity) []Issue {
	var out []Issue
	for _, i := range v.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks the structural invariants of a generated map.
func Validate(m *Map) *ValidationResult {
	v := &ValidationResult{}
	if m == nil {
		v.add(SeverityError, IssueRoomBounds, NoRoom, NoCorridor, "map is nil")
		return v
	}

	validateRooms(m, v)
	validateConnectivity(m, v)
	validateCorridors(m, v)
	validateObjects(m, v)
	validateRaster(m, v)
	return v
}

func validateRooms(m *Map, v *ValidationResult) {
	interior := m.Interior()
	ids := mapset.New[int]()
	for i, r := range m.Rooms {
		if ids.Has(r.ID) {
			v.add(SeverityError, IssueDuplicateID, r.ID, NoCorridor, "room id %d used twice", r.ID)
		}
		ids.Put(r.ID)
		if r.ID != i {
			v.add(SeverityError, IssueDuplicateID, r.ID, NoCorridor, "room at index %d has id %d", i, r.ID)
		}
		if !interior.ContainsRect(r.Bounds) {
			v.add(SeverityError, IssueRoomBounds, r.ID, NoCorridor, "room %d bounds %s outside map interior %s", r.ID, r.Bounds, interior)
		}
		if r.Bounds.Width < 3 || r.Bounds.Height < 3 {
			v.add(SeverityError, IssueRoomTooSmall, r.ID, NoCorridor, "room %d is %dx%d, minimum is 3x3", r.ID, r.Bounds.Width, r.Bounds.Height)
		}
		if r.Center != r.Bounds.Center() || r.Area != r.Bounds.Area() {
			v.add(SeverityError, IssueRoomCache, r.ID, NoCorridor, "room %d cached centre/area out of date", r.ID)
		}
		for _, other := range r.Connections {
			o := m.Room(other)
			if o == nil || !o.IsConnectedTo(r.ID) {
				v.add(SeverityError, IssueAsymmetricLink, r.ID, NoCorridor, "room %d lists %d but not the reverse", r.ID, other)
			}
		}
		for _, d := range r.Doorways {
			if !m.Bounds().Contains(d.Position) {
				v.add(SeverityError, IssueDoorwayBounds, r.ID, NoCorridor, "room %d doorway %s outside map", r.ID, d.Position)
			}
			if d.Width < 1 || d.Width > 3 {
				v.add(SeverityError, IssueDoorwayWidth, r.ID, NoCorridor, "room %d doorway width %d not in [1,3]", r.ID, d.Width)
			}
		}
		if len(m.Rooms) > 1 && len(r.Doorways) == 0 {
			v.add(SeverityWarning, IssueNoDoorways, r.ID, NoCorridor, "room %d has no doorways", r.ID)
		}
	}
}

func validateConnectivity(m *Map, v *ValidationResult) {
	if len(m.Rooms) == 0 {
		return
	}
	spawn := m.SpawnRoom()
	if spawn == nil {
		v.add(SeverityError, IssueNoSpawnRoom, NoRoom, NoCorridor, "spawn room %d does not exist", m.SpawnRoomID)
		return
	}
	if !spawn.Bounds.Contains(m.PlayerSpawn) {
		v.add(SeverityError, IssueSpawnOutside, spawn.ID, NoCorridor, "player spawn %s not inside spawn room %d", m.PlayerSpawn, spawn.ID)
	}

	reached := mapset.New[int]()
	for _, id := range m.ReachableRooms(spawn.ID) {
		reached.Put(id)
	}
	for _, r := range m.Rooms {
		if !reached.Has(r.ID) {
			v.add(SeverityError, IssueUnreachableRoom, r.ID, NoCorridor, "room %d unreachable from spawn room %d", r.ID, spawn.ID)
		}
	}
}

func validateCorridors(m *Map, v *ValidationResult) {
	bounds := m.Bounds()
	interior := m.Interior()
	for i, c := range m.Corridors {
		if c.ID != i {
			v.add(SeverityError, IssueDuplicateID, NoRoom, c.ID, "corridor at index %d has id %d", i, c.ID)
		}
		if len(c.Path) == 0 {
			v.add(SeverityError, IssueCorridorEndpoint, NoRoom, c.ID, "corridor %d has no path", c.ID)
			continue
		}
		if c.Path[0] != c.Start || c.Path[len(c.Path)-1] != c.End {
			v.add(SeverityError, IssueCorridorEndpoint, NoRoom, c.ID, "corridor %d endpoints do not match its path", c.ID)
		}
		for j, p := range c.Path {
			if !bounds.Contains(p) {
				v.add(SeverityError, IssueCorridorBounds, NoRoom, c.ID, "corridor %d tile %s outside map", c.ID, p)
			}
			if j > 0 && p.Manhattan(c.Path[j-1]) != 1 {
				v.add(SeverityError, IssueCorridorGap, NoRoom, c.ID, "corridor %d jumps from %s to %s", c.ID, c.Path[j-1], p)
			}
		}
		if c.Width < MinCorridorWidth || c.Width > MaxCorridorWidth {
			v.add(SeverityError, IssueCorridorWidth, NoRoom, c.ID, "corridor %d width %d not in [%d,%d]", c.ID, c.Width, MinCorridorWidth, MaxCorridorWidth)
			continue
		}
		if c.Width < RecommendedCorridorWidth {
			v.add(SeverityWarning, IssueCorridorNarrow, NoRoom, c.ID, "corridor %d width %d below recommended %d", c.ID, c.Width, RecommendedCorridorWidth)
		}
		if c.Relaxed {
			v.add(SeverityWarning, IssueCorridorRelaxed, NoRoom, c.ID, "corridor %d was carved with relaxed constraints", c.ID)
		}
		if bad, ok := firstClearanceViolation(m, c, interior); !ok {
			sev := SeverityError
			if c.Relaxed {
				sev = SeverityWarning
			}
			v.add(sev, IssueCorridorClearance, NoRoom, c.ID, "corridor %d width %d clearance violated at %s", c.ID, c.Width, bad)
		}
	}
}

// firstClearanceViolation checks that every tile within Width/2 of the path
// is inside the map interior and not inside a room other than the
// corridor's own endpoints.
func firstClearanceViolation(m *Map, c *Corridor, interior geom.Rect) (geom.Point, bool) {
	r := c.Width / 2
	for _, p := range c.Path {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				q := geom.Point{X: p.X + dx, Y: p.Y + dy}
				if !interior.Contains(q) {
					return q, false
				}
				if room := m.RoomAt(q); room != nil && room.ID != c.RoomA && room.ID != c.RoomB {
					return q, false
				}
			}
		}
	}
	return geom.Point{}, true
}

func validateObjects(m *Map, v *ValidationResult) {
	objects := m.Objects()
	ids := mapset.New[int]()
	for _, o := range objects {
		if ids.Has(o.ID) {
			v.add(SeverityError, IssueDuplicateID, o.RoomID, NoCorridor, "object id %d used twice", o.ID)
		}
		ids.Put(o.ID)
		room := m.Room(o.RoomID)
		if room == nil || !room.Bounds.ContainsRect(o.Footprint()) {
			v.add(SeverityError, IssueObjectOutsideRoom, o.RoomID, NoCorridor, "object %d footprint %s outside room %d", o.ID, o.Footprint(), o.RoomID)
		}
	}

	for i, a := range objects {
		if !a.BlocksMovement {
			continue
		}
		for _, b := range objects[i+1:] {
			if b.BlocksMovement && a.Footprint().Intersects(b.Footprint()) {
				v.add(SeverityError, IssueBlockingOverlap, a.RoomID, NoCorridor, "blocking objects %d and %d overlap", a.ID, b.ID)
			}
		}
	}

	for i, a := range m.SpawnPoints {
		for _, b := range m.SpawnPoints[i+1:] {
			if a.RoomID == b.RoomID && a.Position.Chebyshev(b.Position) < 2 {
				v.add(SeverityWarning, IssueSpawnPointsClumped, a.RoomID, NoCorridor, "spawn points %d and %d are adjacent", a.ID, b.ID)
			}
		}
	}
}

func validateRaster(m *Map, v *ValidationResult) {
	if len(m.Rooms) == 0 || m.SpawnRoom() == nil || m.Width <= 0 || m.Height <= 0 {
		return
	}
	if msg := Rasterize(m).Validate(m.PlayerSpawn); msg != "" {
		v.add(SeverityError, IssueUnreachableFloor, m.SpawnRoomID, NoCorridor, "tile raster: %s", msg)
	}
}
