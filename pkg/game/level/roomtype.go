package level

import (
	"fmt"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// RoomType is the functional classification of a room.
type RoomType int

const (
	Unassigned      RoomType = iota
	Lobby                    // entrance hall, preferred spawn room
	Reception                // front desk next to the entrance
	Office                   // the bulk of any floor
	ExecutiveOffice          // large, deep offices
	ConferenceRoom           // meeting rooms near the core
	BreakRoom                // food and rest
	Kitchen                  // food preparation
	Restroom                 // small utility rooms
	StorageRoom              // supply closets and stock rooms
	ServerRoom               // racks, deep in the building
	Laboratory               // research spaces
	SecurityRoom             // guard posts, edge of the floor
	MedicalBay               // first aid
	Armory                   // weapons lockers
	Library                  // archives and reading rooms
	Workshop                 // repair benches
	MaintenanceRoom          // plant and utilities
	BossRoom                 // the largest, deepest room
)

// AllRoomTypes lists the assignable types in declaration order. Unassigned
// is not included.
func AllRoomTypes() []RoomType {
	types := make([]RoomType, 0, int(BossRoom))
	for t := Lobby; t <= BossRoom; t++ {
		types = append(types, t)
	}
	return types
}

var roomTypeKeys = map[RoomType]string{
	Unassigned:      "unassigned",
	Lobby:           "lobby",
	Reception:       "reception",
	Office:          "office",
	ExecutiveOffice: "executive_office",
	ConferenceRoom:  "conference_room",
	BreakRoom:       "break_room",
	Kitchen:         "kitchen",
	Restroom:        "restroom",
	StorageRoom:     "storage_room",
	ServerRoom:      "server_room",
	Laboratory:      "laboratory",
	SecurityRoom:    "security_room",
	MedicalBay:      "medical_bay",
	Armory:          "armory",
	Library:         "library",
	Workshop:        "workshop",
	MaintenanceRoom: "maintenance_room",
	BossRoom:        "boss_room",
}

var roomTypeNames = map[RoomType]string{
	Unassigned:      "Unassigned",
	Lobby:           "Lobby",
	Reception:       "Reception",
	Office:          "Office",
	ExecutiveOffice: "Executive Office",
	ConferenceRoom:  "Conference Room",
	BreakRoom:       "Break Room",
	Kitchen:         "Kitchen",
	Restroom:        "Restroom",
	StorageRoom:     "Storage Room",
	ServerRoom:      "Server Room",
	Laboratory:      "Laboratory",
	SecurityRoom:    "Security Room",
	MedicalBay:      "Medical Bay",
	Armory:          "Armory",
	Library:         "Library",
	Workshop:        "Workshop",
	MaintenanceRoom: "Maintenance Room",
	BossRoom:        "Boss Room",
}

// String returns the stable snake_case key used in config files.
func (t RoomType) String() string {
	if key, ok := roomTypeKeys[t]; ok {
		return key
	}
	return fmt.Sprintf("room_type_%d", int(t))
}

// DisplayName returns the translated, human-readable name.
func (t RoomType) DisplayName() string {
	if name, ok := roomTypeNames[t]; ok {
		return gotext.Get(name)
	}
	return t.String()
}

// ParseRoomType accepts the config key ("break_room") or the English
// display name ("Break Room"), case-insensitively.
func ParseRoomType(s string) (RoomType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for t := Unassigned; t <= BossRoom; t++ {
		if norm == roomTypeKeys[t] || norm == strings.ToLower(roomTypeNames[t]) {
			return t, nil
		}
	}
	return Unassigned, fmt.Errorf("unknown room type %q", s)
}

func (t RoomType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *RoomType) UnmarshalText(text []byte) error {
	v, err := ParseRoomType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
