// Package world provides the room graph of a dungeon and the per-room entity state that
// survives leaving and re-entering a room.
package world

import "fmt"

// Coordinate is a position on the room grid. The origin room sits at (0, 0).
type Coordinate struct {
	X, Y int
}

// Origin is the coordinate of the initial room.
var Origin = Coordinate{}

// NewCoordinate returns the coordinate (x, y).
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// DistanceToOrigin returns the Manhattan distance |x|+|y|.
func (c Coordinate) DistanceToOrigin() int {
	return abs(c.X) + abs(c.Y)
}

// Offset returns the coordinate shifted by (dx, dy).
func (c Coordinate) Offset(dx, dy int) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// Step returns the adjacent coordinate in the given direction.
func (c Coordinate) Step(d Direction) Coordinate {
	dx, dy := d.Delta()
	return c.Offset(dx, dy)
}

// Adjacent returns the four coordinates at distance 1, ordered north, east, south, west.
func (c Coordinate) Adjacent() [4]Coordinate {
	var out [4]Coordinate
	for i, d := range AllDirections() {
		out[i] = c.Step(d)
	}
	return out
}

// String implements fmt.Stringer.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
