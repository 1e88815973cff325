// Package reconcile aligns freshly instantiated room content with the state persisted
// in a Room, so that a room looks exactly as the player left it.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonrooms/internal/entity"
	"github.com/samdwyer/dungeonrooms/internal/logging"
	"github.com/samdwyer/dungeonrooms/internal/telemetry"
	"github.com/samdwyer/dungeonrooms/internal/world"
)

// DefaultEliteChance is the probability a hostile is upgraded on the first visit.
const DefaultEliteChance = 0.1

// ErrUnknownRole is returned for spawns whose role is outside the known set.
var ErrUnknownRole = errors.New("unknown entity role")

// Result tells the content layer what to do with the instances it just created.
type Result struct {
	DespawnIDs            []int             // Dead hostiles and picked-up items
	TriggerIDs            []int             // Traps to show in their fired state
	DisableInteractionIDs []int             // Used chests and NPCs
	EliteIDs              []int             // Hostiles to present as their elite variant
	SpawnPosition         *world.Coordinate // Marker matching the spawn tag, if any
	FirstVisit            bool
}

// Reconciler runs the room-entry protocol.
type Reconciler struct {
	rng         *rand.Rand
	eliteChance float64
	log         logrus.FieldLogger
}

// New creates a reconciler. eliteChance <= 0 disables elite upgrades.
func New(rng *rand.Rand, eliteChance float64, log logrus.FieldLogger) *Reconciler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Reconciler{rng: rng, eliteChance: eliteChance, log: log}
}

// Enter is called whenever room content is (re)instantiated. On the first visit it
// registers every entity; on later visits it reports which instances must be removed,
// fired or disabled. The room is marked visited afterwards.
//
// Invalid spawns are rejected before any state is touched.
func (r *Reconciler) Enter(ctx context.Context, room *world.Room, spawns []entity.Spawn, spawnTag string) (Result, error) {
	for _, s := range spawns {
		if !s.Role.IsValid() {
			return Result{}, fmt.Errorf("%w: %d (entity %d)", ErrUnknownRole, int(s.Role), s.ID)
		}
		if s.ID < 0 {
			return Result{}, fmt.Errorf("%w: %d", world.ErrInvalidEntityID, s.ID)
		}
	}

	tracer := telemetry.Tracer("reconcile")
	_, span := tracer.Start(ctx, "room.enter")
	defer span.End()

	res := Result{FirstVisit: !room.Visited()}

	for i := range spawns {
		s := &spawns[i]
		switch s.Role {
		case entity.RoleHostile:
			r.hostile(room, s, &res)
		case entity.RoleTrap:
			if check(room, world.GeneralState, s.ID, world.PropTriggered) {
				res.TriggerIDs = append(res.TriggerIDs, s.ID)
			}
		case entity.RoleItem:
			if check(room, world.DroppedItemState, s.ID, world.PropPicked) {
				res.DespawnIDs = append(res.DespawnIDs, s.ID)
			}
		case entity.RoleContainer:
			if check(room, world.ContainerState, s.ID, world.PropInteracted) {
				res.DisableInteractionIDs = append(res.DisableInteractionIDs, s.ID)
			}
		case entity.RoleSpawnMarker:
			if s.Tag == spawnTag && res.SpawnPosition == nil {
				pos := s.Pos
				res.SpawnPosition = &pos
			}
		}
	}

	room.MarkVisited()

	span.SetAttributes(
		attribute.String("room.coordinate", room.Coordinate().String()),
		attribute.String("room.category", room.Category()),
		attribute.Bool("room.first_visit", res.FirstVisit),
		attribute.Int("room.spawns", len(spawns)),
		attribute.Int("room.despawned", len(res.DespawnIDs)),
		attribute.Int("room.triggered", len(res.TriggerIDs)),
		attribute.Int("room.disabled", len(res.DisableInteractionIDs)),
	)
	r.log.WithFields(logrus.Fields{
		"room":        room.Coordinate().String(),
		"first_visit": res.FirstVisit,
		"despawned":   len(res.DespawnIDs),
		"triggered":   len(res.TriggerIDs),
	}).Debug("room entered")

	return res, nil
}

// check registers property p as 0 when it was never recorded and otherwise reports
// whether it is set to 1.
func check(room *world.Room, t world.Table, id int, p world.Property) bool {
	if !room.HasState(t, id, p) {
		room.SetState(t, id, p, 0)
		return false
	}
	return room.State(t, id, p) == 1
}

func (r *Reconciler) hostile(room *world.Room, s *entity.Spawn, res *Result) {
	if !room.HasState(world.GeneralState, s.ID, world.PropAlive) {
		// Only hostiles registered on the first visit can be upgraded. Ones that show
		// up later are registered plain.
		if res.FirstVisit && r.eliteChance > 0 && r.rng.Float64() < r.eliteChance {
			room.SetState(world.GeneralState, s.ID, world.PropElite, 1)
		}
		room.SetState(world.GeneralState, s.ID, world.PropAlive, 1)
	}

	if room.State(world.GeneralState, s.ID, world.PropAlive) == 0 {
		res.DespawnIDs = append(res.DespawnIDs, s.ID)
		return
	}
	if room.State(world.GeneralState, s.ID, world.PropElite) == 1 {
		if s.Enemy != nil {
			s.Enemy.Promote()
		}
		res.EliteIDs = append(res.EliteIDs, s.ID)
	}
}
