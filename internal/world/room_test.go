package world

import (
	"errors"
	"testing"
)

func TestCoordinate(t *testing.T) {
	tests := []struct {
		c    Coordinate
		dist int
	}{
		{Origin, 0},
		{NewCoordinate(3, 0), 3},
		{NewCoordinate(-2, 5), 7},
		{NewCoordinate(-4, -4), 8},
	}
	for _, tt := range tests {
		if got := tt.c.DistanceToOrigin(); got != tt.dist {
			t.Errorf("%v.DistanceToOrigin() = %d, want %d", tt.c, got, tt.dist)
		}
	}

	if NewCoordinate(1, 2) != NewCoordinate(1, 2) {
		t.Error("coordinates must compare by value")
	}
	m := map[Coordinate]int{NewCoordinate(1, 2): 7}
	if m[NewCoordinate(1, 2)] != 7 {
		t.Error("coordinates must hash by value")
	}
	if got := NewCoordinate(1, 2).Offset(-3, 4); got != NewCoordinate(-2, 6) {
		t.Errorf("Offset = %v, want (-2,6)", got)
	}
}

func TestAdjacentOrder(t *testing.T) {
	got := NewCoordinate(2, 2).Adjacent()
	want := [4]Coordinate{{2, 1}, {3, 2}, {2, 3}, {1, 2}}
	if got != want {
		t.Errorf("Adjacent() = %v, want %v", got, want)
	}
	room := NewRoom(NewCoordinate(2, 2), CategoryToBeDetermined)
	if room.AdjacentCoordinates() != want {
		t.Error("Room.AdjacentCoordinates must match Coordinate.Adjacent")
	}
}

func TestDirection(t *testing.T) {
	for _, d := range AllDirections() {
		if d.Opposite().Opposite() != d {
			t.Errorf("%s opposite is not an involution", d)
		}
		if Origin.Step(d).Step(d.Opposite()) != Origin {
			t.Errorf("stepping %s and back does not return", d)
		}
		parsed, err := ParseDirection(d.String())
		if err != nil || parsed != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), parsed, err)
		}
	}
	if North.Opposite() != South || East.Opposite() != West {
		t.Error("wrong opposites")
	}
	if _, err := ParseDirection("up"); err == nil {
		t.Error("ParseDirection(up) should fail")
	}
}

func TestInvalidDirectionPanics(t *testing.T) {
	room := NewRoom(Origin, CategoryInitial)
	defer func() {
		if recover() == nil {
			t.Error("SetNeighbor with an invalid direction should panic")
		}
	}()
	room.SetNeighbor(Direction(7), nil)
}

func TestNegativeEntityIDPanics(t *testing.T) {
	room := NewRoom(Origin, CategoryInitial)
	tests := []struct {
		name string
		fn   func()
	}{
		{"State", func() { room.State(GeneralState, -1, PropAlive) }},
		{"HasState", func() { room.HasState(GeneralState, -1, PropAlive) }},
		{"SetState", func() { room.SetState(GeneralState, -1, PropAlive, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s with a negative id should panic", tt.name)
				}
			}()
			tt.fn()
		})
	}
}

func TestRoomNeighborsAndDoors(t *testing.T) {
	a := NewRoom(Origin, CategoryInitial)
	b := NewRoom(NewCoordinate(0, -1), "x")
	c := NewRoom(NewCoordinate(-1, 0), "y")

	a.SetNeighbor(West, c)
	a.SetNeighbor(North, b)

	if a.Neighbor(North) != b || a.Neighbor(West) != c || a.Neighbor(East) != nil {
		t.Error("neighbor accessors returned the wrong rooms")
	}
	if a.DoorCount() != 2 {
		t.Errorf("DoorCount() = %d, want 2", a.DoorCount())
	}
	doors := a.Doors()
	if len(doors) != 2 || doors[0] != North || doors[1] != West {
		t.Errorf("Doors() = %v, want [north west]", doors)
	}
	if b.Neighbor(South) != nil {
		t.Error("SetNeighbor must not link the other side")
	}
}

func TestVisitedIsMonotonic(t *testing.T) {
	room := NewRoom(Origin, CategoryInitial)
	if room.Visited() {
		t.Error("new room already visited")
	}
	room.MarkVisited()
	room.MarkVisited()
	if !room.Visited() {
		t.Error("MarkVisited did not stick")
	}
}

func TestStateDefaultsToZero(t *testing.T) {
	room := NewRoom(Origin, CategoryInitial)

	if got := room.State(GeneralState, 999, PropAlive); got != 0 {
		t.Errorf("State(unknown) = %d, want 0", got)
	}
	if room.HasState(ContainerState, 1, PropInteracted) {
		t.Error("HasState reported a value that was never written")
	}
	got, err := room.StateByName("droppedItemState", 12345, "picked")
	if err != nil || got != 0 {
		t.Errorf("StateByName(unknown id) = %d, %v; want 0, nil", got, err)
	}
}

func TestStateTablesAreIndependent(t *testing.T) {
	room := NewRoom(Origin, CategoryInitial)
	room.SetState(GeneralState, 1, PropAlive, 1)
	room.SetState(DroppedItemState, 1, PropPicked, 1)

	if room.State(ContainerState, 1, PropInteracted) != 0 {
		t.Error("container table saw writes to other tables")
	}
	if room.State(GeneralState, 1, PropPicked) != 0 {
		t.Error("general table saw item writes")
	}

	room.SetState(GeneralState, 1, PropAlive, 0)
	if room.State(GeneralState, 1, PropAlive) != 0 {
		t.Error("overwrite did not take")
	}
	if !room.HasState(GeneralState, 1, PropAlive) {
		t.Error("overwritten entry must remain recorded")
	}
}

func TestStateByName(t *testing.T) {
	room := NewRoom(Origin, CategoryInitial)

	if err := room.SetStateByName("containerState", 4, "hasInteracted", 1); err != nil {
		t.Fatalf("SetStateByName error: %v", err)
	}
	if room.State(ContainerState, 4, PropInteracted) != 1 {
		t.Error("string accessor did not reach the typed table")
	}

	tests := []struct {
		table, prop string
		id          int
		want        error
	}{
		{"bogus", "isAlive", 1, ErrUnknownTable},
		{"generalState", "bogus", 1, ErrUnknownProperty},
		{"generalState", "isAlive", -1, ErrInvalidEntityID},
	}
	for _, tt := range tests {
		if _, err := room.StateByName(tt.table, tt.id, tt.prop); !errors.Is(err, tt.want) {
			t.Errorf("StateByName(%q, %d, %q) error = %v, want %v", tt.table, tt.id, tt.prop, err, tt.want)
		}
		if err := room.SetStateByName(tt.table, tt.id, tt.prop, 1); !errors.Is(err, tt.want) {
			t.Errorf("SetStateByName(%q, %d, %q) error = %v, want %v", tt.table, tt.id, tt.prop, err, tt.want)
		}
	}
}

func TestAllClearedIn(t *testing.T) {
	room := NewRoom(NewCoordinate(1, 0), CategoryChallenge)

	if room.AllClearedIn(GeneralState, PropAlive) {
		t.Error("empty table must not count as cleared")
	}

	room.SetState(GeneralState, 1, PropTriggered, 0)
	if room.AllHostilesCleared() {
		t.Error("a trap entry must not make the room cleared")
	}

	room.SetState(GeneralState, 2, PropAlive, 1)
	room.SetState(GeneralState, 3, PropAlive, 1)
	if room.AllHostilesCleared() {
		t.Error("cleared with living hostiles")
	}

	room.SetState(GeneralState, 2, PropAlive, 0)
	room.SetState(GeneralState, 3, PropAlive, 0)
	if !room.AllHostilesCleared() {
		t.Error("not cleared after every hostile died")
	}
}

func TestTableAndPropertyNames(t *testing.T) {
	for _, name := range []string{"generalState", "droppedItemState", "containerState"} {
		tbl, err := ParseTable(name)
		if err != nil || tbl.String() != name {
			t.Errorf("ParseTable(%q) = %v, %v", name, tbl, err)
		}
	}
	for _, name := range []string{"isAlive", "triggered", "picked", "hasInteracted", "isElite"} {
		p, err := ParseProperty(name)
		if err != nil || p.String() != name {
			t.Errorf("ParseProperty(%q) = %v, %v", name, p, err)
		}
	}
}
