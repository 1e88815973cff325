package world

import "fmt"

// Room categories the graph itself assigns. Every other category is an opaque label
// handed to the room-content loader.
const (
	CategoryInitial        = "initial"
	CategoryBoss           = "boss"
	CategoryChallenge      = "challenge"
	CategoryToBeDetermined = "to_be_determined"
	// CategoryDefault is used when generation is given an empty category pool.
	CategoryDefault = "standard"
)

// IsSpecialCategory reports whether the category is one the generator places itself.
func IsSpecialCategory(category string) bool {
	return category == CategoryInitial || category == CategoryBoss || category == CategoryChallenge
}

// Room is a node of the dungeon graph. The Dungeon owns every Room; neighbor links are
// plain references into that arena.
type Room struct {
	coord     Coordinate
	category  string
	visited   bool
	neighbors [4]*Room
	tables    [numTables]stateTable
}

// NewRoom creates a room at the given coordinate.
func NewRoom(coord Coordinate, category string) *Room {
	r := &Room{coord: coord, category: category}
	for i := range r.tables {
		r.tables[i] = make(stateTable)
	}
	return r
}

// Coordinate returns the room's fixed grid position.
func (r *Room) Coordinate() Coordinate { return r.coord }

// Category returns the room's content label.
func (r *Room) Category() string { return r.category }

// SetCategory replaces the content label.
func (r *Room) SetCategory(category string) { r.category = category }

// Visited returns true once the room has been entered.
func (r *Room) Visited() bool { return r.visited }

// MarkVisited records the first entry. It never reverts.
func (r *Room) MarkVisited() { r.visited = true }

// DistanceFromOrigin returns the Manhattan distance of the room to (0, 0).
func (r *Room) DistanceFromOrigin() int { return r.coord.DistanceToOrigin() }

// AdjacentCoordinates returns the four neighboring grid positions, ordered
// north, east, south, west.
func (r *Room) AdjacentCoordinates() [4]Coordinate { return r.coord.Adjacent() }

// Neighbor returns the room behind the door in direction d, or nil.
func (r *Room) Neighbor(d Direction) *Room {
	d.mustBeValid()
	return r.neighbors[d]
}

// SetNeighbor sets the room behind the door in direction d. It does not touch the
// other room; use Dungeon.Connect for symmetric links.
func (r *Room) SetNeighbor(d Direction, other *Room) {
	d.mustBeValid()
	r.neighbors[d] = other
}

// DoorCount returns the number of linked neighbors.
func (r *Room) DoorCount() int {
	n := 0
	for _, nb := range r.neighbors {
		if nb != nil {
			n++
		}
	}
	return n
}

// Doors returns the directions that have a linked neighbor, in fixed order.
func (r *Room) Doors() []Direction {
	doors := make([]Direction, 0, 4)
	for _, d := range AllDirections() {
		if r.neighbors[d] != nil {
			doors = append(doors, d)
		}
	}
	return doors
}

// State returns a persisted value, or 0 when nothing was recorded.
func (r *Room) State(t Table, id int, p Property) int {
	t.mustBeValid()
	p.mustBeValid()
	mustBeValidID(id)
	v, _ := r.tables[t].get(id, p)
	return v
}

// HasState reports whether a value was ever recorded for the entity property.
func (r *Room) HasState(t Table, id int, p Property) bool {
	t.mustBeValid()
	p.mustBeValid()
	mustBeValidID(id)
	_, ok := r.tables[t].get(id, p)
	return ok
}

// SetState records a value. Gameplay systems call this when a hostile dies, a trap
// fires, an item is picked up or a container is used.
func (r *Room) SetState(t Table, id int, p Property, value int) {
	t.mustBeValid()
	p.mustBeValid()
	mustBeValidID(id)
	r.tables[t].set(id, p, value)
}

func mustBeValidID(id int) {
	if id < 0 {
		panic(fmt.Sprintf("world: negative entity id %d", id))
	}
}

// StateByName is the string-keyed accessor for content tooling.
func (r *Room) StateByName(table string, id int, property string) (int, error) {
	t, p, err := parseStateKey(table, id, property)
	if err != nil {
		return 0, err
	}
	return r.State(t, id, p), nil
}

// SetStateByName is the string-keyed mutator for content tooling.
func (r *Room) SetStateByName(table string, id int, property string, value int) error {
	t, p, err := parseStateKey(table, id, property)
	if err != nil {
		return err
	}
	r.SetState(t, id, p, value)
	return nil
}

func parseStateKey(table string, id int, property string) (Table, Property, error) {
	if id < 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidEntityID, id)
	}
	t, err := ParseTable(table)
	if err != nil {
		return 0, 0, err
	}
	p, err := ParseProperty(property)
	if err != nil {
		return 0, 0, err
	}
	return t, p, nil
}

// AllClearedIn reports whether every entity with property p recorded in table t holds 0.
// A table where nothing ever recorded p is not cleared; callers rely on this so that rooms
// that never spawned a hostile do not count as cleared.
func (r *Room) AllClearedIn(t Table, p Property) bool {
	t.mustBeValid()
	p.mustBeValid()
	seen := false
	for _, props := range r.tables[t] {
		v, ok := props[p]
		if !ok {
			continue
		}
		if v != 0 {
			return false
		}
		seen = true
	}
	return seen
}

// AllHostilesCleared is true once at least one hostile was registered and all registered
// hostiles are dead.
func (r *Room) AllHostilesCleared() bool {
	return r.AllClearedIn(GeneralState, PropAlive)
}
