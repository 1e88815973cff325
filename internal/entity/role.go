// Package entity describes the room content handed to room-entry reconciliation.
package entity

import "fmt"

// Role decides how persisted state applies to an entity.
type Role int

const (
	RoleHostile Role = iota
	RoleTrap
	RoleItem
	RoleContainer // Chests and NPCs
	RoleSpawnMarker
)

// String returns the role name used in layout data.
func (r Role) String() string {
	switch r {
	case RoleHostile:
		return "hostile"
	case RoleTrap:
		return "trap"
	case RoleItem:
		return "item"
	case RoleContainer:
		return "container"
	case RoleSpawnMarker:
		return "spawn_marker"
	default:
		return "unknown"
	}
}

// IsValid returns true for the five known roles.
func (r Role) IsValid() bool {
	return r >= RoleHostile && r <= RoleSpawnMarker
}

// ParseRole converts a layout role name into a Role.
func ParseRole(name string) (Role, error) {
	for r := RoleHostile; r <= RoleSpawnMarker; r++ {
		if r.String() == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown entity role %q", name)
}
