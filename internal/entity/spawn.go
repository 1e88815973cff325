package entity

import "github.com/samdwyer/dungeonrooms/internal/world"

// Spawn is one freshly instantiated entity of a room. IDs are stable per room
// layout so that persisted state can be matched on re-entry.
type Spawn struct {
	ID    int
	Role  Role
	Tag   string           // Door name for spawn markers, free-form otherwise
	Pos   world.Coordinate // Position inside the room
	Enemy *Enemy           // Stat block for hostiles, nil otherwise
}
