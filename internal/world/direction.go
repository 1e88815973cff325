package world

import "fmt"

// Direction is one of the four door directions of a room.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// AllDirections returns the directions in the fixed order used for frontier expansion
// and linking: north, east, south, west.
func AllDirections() [4]Direction {
	return [4]Direction{North, East, South, West}
}

// ParseDirection converts a name such as "north" into a Direction.
func ParseDirection(name string) (Direction, error) {
	switch name {
	case "north", "n":
		return North, nil
	case "east", "e":
		return East, nil
	case "south", "s":
		return South, nil
	case "west", "w":
		return West, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", name)
	}
}

// IsValid returns true for the four cardinal directions.
func (d Direction) IsValid() bool {
	return d >= North && d <= West
}

// String returns a human-readable direction name.
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

// Opposite returns the direction pointing back. Panics on an invalid direction.
func (d Direction) Opposite() Direction {
	d.mustBeValid()
	return (d + 2) % 4
}

// Delta returns the grid offset for one step. North is -y, matching screen rows.
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
	}
	panic(fmt.Sprintf("world: invalid direction %d", int(d)))
}

func (d Direction) mustBeValid() {
	if !d.IsValid() {
		panic(fmt.Sprintf("world: invalid direction %d", int(d)))
	}
}
