package reconcile

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/samdwyer/dungeonrooms/internal/entity"
	"github.com/samdwyer/dungeonrooms/internal/gamedata"
	"github.com/samdwyer/dungeonrooms/internal/world"
)

func newReconciler(eliteChance float64) *Reconciler {
	return New(rand.New(rand.NewSource(42)), eliteChance, nil)
}

func hostiles(ids ...int) []entity.Spawn {
	out := make([]entity.Spawn, len(ids))
	for i, id := range ids {
		out[i] = entity.Spawn{ID: id, Role: entity.RoleHostile}
	}
	return out
}

func mixedRoomSpawns() []entity.Spawn {
	return []entity.Spawn{
		{ID: 0, Role: entity.RoleSpawnMarker, Tag: "north", Pos: world.NewCoordinate(5, 1)},
		{ID: 1, Role: entity.RoleSpawnMarker, Tag: "south", Pos: world.NewCoordinate(5, 7)},
		{ID: 2, Role: entity.RoleHostile},
		{ID: 3, Role: entity.RoleHostile},
		{ID: 4, Role: entity.RoleTrap},
		{ID: 5, Role: entity.RoleItem},
		{ID: 6, Role: entity.RoleContainer},
	}
}

func TestFirstVisitRegistersState(t *testing.T) {
	ctx := context.Background()
	room := world.NewRoom(world.NewCoordinate(1, 0), "combat")
	r := newReconciler(0)

	res, err := r.Enter(ctx, room, mixedRoomSpawns(), "south")
	if err != nil {
		t.Fatalf("Enter error: %v", err)
	}

	if !res.FirstVisit {
		t.Error("FirstVisit = false on first entry")
	}
	if !room.Visited() {
		t.Error("room not marked visited")
	}
	if len(res.DespawnIDs)+len(res.TriggerIDs)+len(res.DisableInteractionIDs) != 0 {
		t.Errorf("first visit should not instruct anything, got %+v", res)
	}
	if res.SpawnPosition == nil || *res.SpawnPosition != world.NewCoordinate(5, 7) {
		t.Errorf("SpawnPosition = %v, want (5,7)", res.SpawnPosition)
	}

	checks := []struct {
		table world.Table
		id    int
		prop  world.Property
		want  int
	}{
		{world.GeneralState, 2, world.PropAlive, 1},
		{world.GeneralState, 3, world.PropAlive, 1},
		{world.GeneralState, 4, world.PropTriggered, 0},
		{world.DroppedItemState, 5, world.PropPicked, 0},
		{world.ContainerState, 6, world.PropInteracted, 0},
	}
	for _, c := range checks {
		if !room.HasState(c.table, c.id, c.prop) {
			t.Errorf("%s[%d][%s] not registered", c.table, c.id, c.prop)
		}
		if got := room.State(c.table, c.id, c.prop); got != c.want {
			t.Errorf("%s[%d][%s] = %d, want %d", c.table, c.id, c.prop, got, c.want)
		}
	}
}

func TestRepeatVisitAppliesState(t *testing.T) {
	ctx := context.Background()
	room := world.NewRoom(world.NewCoordinate(0, 2), "combat")
	r := newReconciler(0)

	if _, err := r.Enter(ctx, room, mixedRoomSpawns(), "north"); err != nil {
		t.Fatal(err)
	}

	// Gameplay systems mutate state while the player is inside
	room.SetState(world.GeneralState, 3, world.PropAlive, 0)
	room.SetState(world.GeneralState, 4, world.PropTriggered, 1)
	room.SetState(world.DroppedItemState, 5, world.PropPicked, 1)
	room.SetState(world.ContainerState, 6, world.PropInteracted, 1)

	res, err := r.Enter(ctx, room, mixedRoomSpawns(), "north")
	if err != nil {
		t.Fatal(err)
	}

	if res.FirstVisit {
		t.Error("FirstVisit = true on second entry")
	}
	if want := []int{3, 5}; !reflect.DeepEqual(res.DespawnIDs, want) {
		t.Errorf("DespawnIDs = %v, want %v", res.DespawnIDs, want)
	}
	if want := []int{4}; !reflect.DeepEqual(res.TriggerIDs, want) {
		t.Errorf("TriggerIDs = %v, want %v", res.TriggerIDs, want)
	}
	if want := []int{6}; !reflect.DeepEqual(res.DisableInteractionIDs, want) {
		t.Errorf("DisableInteractionIDs = %v, want %v", res.DisableInteractionIDs, want)
	}
	if res.SpawnPosition == nil || *res.SpawnPosition != world.NewCoordinate(5, 1) {
		t.Errorf("SpawnPosition = %v, want (5,1)", res.SpawnPosition)
	}
}

func TestDeadHostileDespawnsOnReentry(t *testing.T) {
	ctx := context.Background()
	room := world.NewRoom(world.NewCoordinate(2, 0), "combat")
	r := newReconciler(0)

	if _, err := r.Enter(ctx, room, hostiles(7), ""); err != nil {
		t.Fatal(err)
	}
	room.SetState(world.GeneralState, 7, world.PropAlive, 0)

	res, err := r.Enter(ctx, room, hostiles(7), "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.DespawnIDs, []int{7}) {
		t.Errorf("DespawnIDs = %v, want [7]", res.DespawnIDs)
	}
}

func TestReentryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	room := world.NewRoom(world.NewCoordinate(0, -1), "trap")
	r := newReconciler(0.5)

	if _, err := r.Enter(ctx, room, mixedRoomSpawns(), "north"); err != nil {
		t.Fatal(err)
	}
	room.SetState(world.GeneralState, 2, world.PropAlive, 0)
	room.SetState(world.GeneralState, 4, world.PropTriggered, 1)

	first, err := r.Enter(ctx, room, mixedRoomSpawns(), "north")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Enter(ctx, room, mixedRoomSpawns(), "north")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results drifted between visits:\n%+v\n%+v", first, second)
	}
}

func TestAllHostilesCleared(t *testing.T) {
	ctx := context.Background()
	room := world.NewRoom(world.NewCoordinate(3, 0), world.CategoryChallenge)
	r := newReconciler(0)

	if room.AllHostilesCleared() {
		t.Error("room with no registered hostiles must not count as cleared")
	}

	if _, err := r.Enter(ctx, room, hostiles(1, 2, 3), ""); err != nil {
		t.Fatal(err)
	}
	if room.AllHostilesCleared() {
		t.Error("AllHostilesCleared() = true with three living hostiles")
	}

	for _, id := range []int{1, 2} {
		room.SetState(world.GeneralState, id, world.PropAlive, 0)
	}
	if room.AllHostilesCleared() {
		t.Error("AllHostilesCleared() = true with one hostile left")
	}

	room.SetState(world.GeneralState, 3, world.PropAlive, 0)
	if !room.AllHostilesCleared() {
		t.Error("AllHostilesCleared() = false after all hostiles died")
	}
}

func TestTrapsDoNotCountAsHostiles(t *testing.T) {
	ctx := context.Background()
	room := world.NewRoom(world.NewCoordinate(1, 1), "trap")
	r := newReconciler(0)

	spawns := []entity.Spawn{{ID: 1, Role: entity.RoleTrap}, {ID: 2, Role: entity.RoleItem}}
	if _, err := r.Enter(ctx, room, spawns, ""); err != nil {
		t.Fatal(err)
	}
	if room.AllHostilesCleared() {
		t.Error("a room without hostiles must not report cleared")
	}
}

func TestEliteUpgradeOnlyBeforeFirstVisit(t *testing.T) {
	ctx := context.Background()
	def := &gamedata.EnemyDef{ID: "goblin", Name: "Goblin", HP: 8, Attack: 3}
	room := world.NewRoom(world.NewCoordinate(0, 3), "combat")
	r := newReconciler(1) // always upgrade on the first visit

	spawns := []entity.Spawn{{ID: 1, Role: entity.RoleHostile, Enemy: entity.NewEnemy(def, 1)}}
	res, err := r.Enter(ctx, room, spawns, "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.EliteIDs, []int{1}) {
		t.Fatalf("EliteIDs = %v, want [1]", res.EliteIDs)
	}
	if !spawns[0].Enemy.Elite {
		t.Error("enemy instance was not promoted")
	}

	// A fresh instance on re-entry is promoted again from persisted state
	again := []entity.Spawn{
		{ID: 1, Role: entity.RoleHostile, Enemy: entity.NewEnemy(def, 1)},
		{ID: 2, Role: entity.RoleHostile, Enemy: entity.NewEnemy(def, 1)},
	}
	res, err = r.Enter(ctx, room, again, "")
	if err != nil {
		t.Fatal(err)
	}
	if !again[0].Enemy.Elite {
		t.Error("persisted elite was not reproduced on re-entry")
	}
	if again[1].Enemy.Elite {
		t.Error("hostile first seen on a repeat visit must not be upgraded")
	}
	if !reflect.DeepEqual(res.EliteIDs, []int{1}) {
		t.Errorf("EliteIDs on re-entry = %v, want [1]", res.EliteIDs)
	}
	if room.State(world.GeneralState, 2, world.PropAlive) != 1 || room.State(world.GeneralState, 2, world.PropElite) != 0 {
		t.Error("late hostile should be registered alive and not elite")
	}

	never := New(rand.New(rand.NewSource(1)), 0, nil)
	plain := world.NewRoom(world.NewCoordinate(4, 0), "combat")
	res, err = never.Enter(ctx, plain, hostiles(1, 2, 3), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.EliteIDs) != 0 {
		t.Errorf("elite chance 0 produced elites %v", res.EliteIDs)
	}
}

func TestHostileAddedAfterEmptyFirstVisitIsPlain(t *testing.T) {
	ctx := context.Background()
	room := world.NewRoom(world.NewCoordinate(2, 0), "combat")
	r := newReconciler(1)

	if _, err := r.Enter(ctx, room, nil, ""); err != nil {
		t.Fatal(err)
	}
	res, err := r.Enter(ctx, room, hostiles(7), "")
	if err != nil {
		t.Fatal(err)
	}
	if res.FirstVisit {
		t.Error("second entry reported as first visit")
	}
	if len(res.EliteIDs) != 0 {
		t.Errorf("EliteIDs = %v, want none", res.EliteIDs)
	}
	if room.State(world.GeneralState, 7, world.PropElite) != 0 {
		t.Error("isElite recorded for a hostile first seen on a repeat visit")
	}
	if room.State(world.GeneralState, 7, world.PropAlive) != 1 {
		t.Error("late hostile should be registered alive")
	}
}

func TestEnterRejectsInvalidSpawns(t *testing.T) {
	ctx := context.Background()
	r := newReconciler(0)

	room := world.NewRoom(world.NewCoordinate(1, 0), "combat")
	_, err := r.Enter(ctx, room, []entity.Spawn{{ID: 1, Role: entity.RoleHostile}, {ID: 2, Role: entity.Role(42)}}, "")
	if !errors.Is(err, ErrUnknownRole) {
		t.Errorf("error = %v, want ErrUnknownRole", err)
	}
	if room.Visited() || room.HasState(world.GeneralState, 1, world.PropAlive) {
		t.Error("rejected entry must not touch room state")
	}

	_, err = r.Enter(ctx, room, []entity.Spawn{{ID: -1, Role: entity.RoleItem}}, "")
	if !errors.Is(err, world.ErrInvalidEntityID) {
		t.Errorf("error = %v, want ErrInvalidEntityID", err)
	}
}

func TestSpawnMarkerWithoutMatch(t *testing.T) {
	ctx := context.Background()
	room := world.NewRoom(world.NewCoordinate(1, 0), "standard")
	res, err := newReconciler(0).Enter(ctx, room, mixedRoomSpawns(), "east")
	if err != nil {
		t.Fatal(err)
	}
	if res.SpawnPosition != nil {
		t.Errorf("SpawnPosition = %v, want nil", *res.SpawnPosition)
	}
}
