package classify

import (
	"fmt"
	"math/rand"

	"mapforge/pkg/game/level"
)

// adjectives are shared by every room type.
var adjectives = []string{
	"Abandoned", "Cluttered", "Dim", "Flooded",
	"Flickering", "Locked", "Ransacked", "Sealed",
}

var baseNames = map[level.RoomType][]string{
	level.Lobby:           {"Lobby", "Atrium", "Entrance Hall", "Foyer"},
	level.Reception:       {"Reception", "Front Desk", "Visitor Check-in", "Waiting Area"},
	level.Office:          {"Office", "Cubicle Farm", "Open Plan", "Admin Office", "Records Office"},
	level.ExecutiveOffice: {"Executive Office", "Corner Office", "Director's Suite", "Board Office"},
	level.ConferenceRoom:  {"Conference Room", "Meeting Room", "Briefing Room", "Boardroom"},
	level.BreakRoom:       {"Break Room", "Staff Lounge", "Coffee Corner", "Rest Area"},
	level.Kitchen:         {"Kitchen", "Canteen", "Galley", "Pantry"},
	level.Restroom:        {"Restroom", "Washroom", "Locker Room", "Showers"},
	level.StorageRoom:     {"Storage Room", "Supply Closet", "Stock Room", "Archive Store"},
	level.ServerRoom:      {"Server Room", "Data Center", "Network Closet", "Comms Room"},
	level.Laboratory:      {"Laboratory", "Test Lab", "Clean Room", "Sample Lab"},
	level.SecurityRoom:    {"Security Room", "Guard Post", "Monitoring Station", "Checkpoint"},
	level.MedicalBay:      {"Medical Bay", "First Aid Room", "Infirmary", "Clinic"},
	level.Armory:          {"Armory", "Weapons Locker", "Gun Cage", "Evidence Lockup"},
	level.Library:         {"Library", "Reading Room", "Archive", "Records Hall"},
	level.Workshop:        {"Workshop", "Repair Bay", "Fabrication Shop", "Tool Room"},
	level.MaintenanceRoom: {"Maintenance Room", "Boiler Room", "Plant Room", "Utility Room"},
	level.BossRoom:        {"Penthouse", "Vault", "Control Center", "Executive Floor"},
}

// NamesForType returns the base names for t and the shared adjectives.
func NamesForType(t level.RoomType) (bases []string, adj []string) {
	bases, ok := baseNames[t]
	if !ok {
		bases = []string{"Room"}
	}
	return bases, adjectives
}

// Name draws an adjective, then a base name, e.g. "Flooded Server Room".
func Name(room *level.Room, rng *rand.Rand) string {
	bases, adj := NamesForType(room.Classification)
	a := adj[rng.Intn(len(adj))]
	b := bases[rng.Intn(len(bases))]
	return fmt.Sprintf("%s %s", a, b)
}

// NameRooms names every room in id order. A repeated name gets a number
// suffix so names stay unique within the map.
func NameRooms(m *level.Map, rng *rand.Rand) {
	used := make(map[string]int, len(m.Rooms))
	for _, room := range m.Rooms {
		name := Name(room, rng)
		used[name]++
		if n := used[name]; n > 1 {
			name = fmt.Sprintf("%s %d", name, n)
		}
		room.Name = name
	}
}
