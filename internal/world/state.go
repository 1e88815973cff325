package world

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTable is returned when a state table name is not recognised.
	ErrUnknownTable = errors.New("unknown state table")
	// ErrUnknownProperty is returned when a property name is not recognised.
	ErrUnknownProperty = errors.New("unknown state property")
	// ErrInvalidEntityID is returned for negative entity ids.
	ErrInvalidEntityID = errors.New("invalid entity id")
)

// Table selects one of the three independent per-room state tables.
type Table int

const (
	// GeneralState holds hostile and trap state.
	GeneralState Table = iota
	// DroppedItemState holds loose item state.
	DroppedItemState
	// ContainerState holds chest and NPC state.
	ContainerState

	numTables
)

// String returns the table name used by content tooling.
func (t Table) String() string {
	switch t {
	case GeneralState:
		return "generalState"
	case DroppedItemState:
		return "droppedItemState"
	case ContainerState:
		return "containerState"
	default:
		return "unknown"
	}
}

// ParseTable converts a content-tooling table name into a Table.
func ParseTable(name string) (Table, error) {
	for t := GeneralState; t < numTables; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

func (t Table) mustBeValid() {
	if t < GeneralState || t >= numTables {
		panic(fmt.Sprintf("world: invalid state table %d", int(t)))
	}
}

// Property is a persisted per-entity flag.
type Property int

const (
	// PropAlive is 1 while a hostile lives, 0 once it has died.
	PropAlive Property = iota
	// PropTriggered is 1 once a trap has fired.
	PropTriggered
	// PropPicked is 1 once a dropped item has been taken.
	PropPicked
	// PropInteracted is 1 once a chest or NPC has been used.
	PropInteracted
	// PropElite is 1 for hostiles upgraded to their elite variant.
	PropElite

	numProperties
)

// String returns the property name used by content tooling.
func (p Property) String() string {
	switch p {
	case PropAlive:
		return "isAlive"
	case PropTriggered:
		return "triggered"
	case PropPicked:
		return "picked"
	case PropInteracted:
		return "hasInteracted"
	case PropElite:
		return "isElite"
	default:
		return "unknown"
	}
}

// ParseProperty converts a content-tooling property name into a Property.
func ParseProperty(name string) (Property, error) {
	for p := PropAlive; p < numProperties; p++ {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}

func (p Property) mustBeValid() {
	if p < PropAlive || p >= numProperties {
		panic(fmt.Sprintf("world: invalid state property %d", int(p)))
	}
}

// stateTable maps entity id to its recorded properties. Entries are never deleted.
type stateTable map[int]map[Property]int

func (st stateTable) get(id int, p Property) (int, bool) {
	props, ok := st[id]
	if !ok {
		return 0, false
	}
	v, ok := props[p]
	return v, ok
}

func (st stateTable) set(id int, p Property, value int) {
	props, ok := st[id]
	if !ok {
		props = make(map[Property]int, 1)
		st[id] = props
	}
	props[p] = value
}
