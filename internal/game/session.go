package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonrooms/internal/difficulty"
	"github.com/samdwyer/dungeonrooms/internal/entity"
	"github.com/samdwyer/dungeonrooms/internal/gamedata"
	"github.com/samdwyer/dungeonrooms/internal/logging"
	"github.com/samdwyer/dungeonrooms/internal/reconcile"
	"github.com/samdwyer/dungeonrooms/internal/telemetry"
	"github.com/samdwyer/dungeonrooms/internal/world"
)

var (
	// ErrNoDoor is returned when travelling through a wall.
	ErrNoDoor = errors.New("no door in that direction")
	// ErrNoRoom is returned when entering a coordinate that holds no room.
	ErrNoRoom = errors.New("no room at coordinate")
	// ErrNoEntity is returned when an id does not name a live entity of the expected role.
	ErrNoEntity = errors.New("no such entity in current room")
	// ErrAlreadyResolved is returned for traps already fired and containers already used.
	ErrAlreadyResolved = errors.New("entity already resolved")
	// ErrLocked is returned when opening a challenge reward before the room is cleared.
	ErrLocked = errors.New("reward locked until all hostiles are defeated")
)

// roomCenter is where the party stands when no spawn marker matches.
var roomCenter = world.NewCoordinate(5, 4)

// Deps are the collaborators of a session. Zero values load the embedded data.
type Deps struct {
	Log        logrus.FieldLogger
	Categories *gamedata.CategoryRegistry
	Themes     *gamedata.ThemeRegistry
	Loader     ContentLoader
}

// Report describes the room the party just entered.
type Report struct {
	Room   *world.Room
	Name   string
	Result reconcile.Result
	Spawns []entity.Spawn // Instances still present after reconciliation
}

// Session is one run through a generated dungeon.
type Session struct {
	seed       int64
	rng        *rand.Rand
	log        logrus.FieldLogger
	dungeon    *world.Dungeon
	model      *difficulty.Model
	reconciler *reconcile.Reconciler
	loader     ContentLoader
	party      *entity.Party

	current *world.Room
	live    []entity.Spawn

	progress difficulty.Progress
	cleared  mapset.Set[world.Coordinate] // Rooms whose hostiles were all defeated
	rewards  int
	state    State
}

// NewSession generates a dungeon from cfg and enters its initial room.
func NewSession(ctx context.Context, cfg Config, deps Deps) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := deps.Log
	if log == nil {
		log = logging.Discard()
	}
	categories := deps.Categories
	if categories == nil {
		var err error
		if categories, err = gamedata.LoadCategoryRegistry(); err != nil {
			return nil, fmt.Errorf("failed to load categories: %w", err)
		}
	}
	themes := deps.Themes
	if themes == nil {
		var err error
		if themes, err = gamedata.LoadThemeRegistry(); err != nil {
			return nil, fmt.Errorf("failed to load themes: %w", err)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	model := difficulty.NewModel(categories, themes, rng, log)
	if err := model.SelectTheme(cfg.Theme); err != nil {
		return nil, err
	}

	dungeon := world.NewDungeon(rng, log)
	opts := cfg.Options()
	opts.CategoryPool = categories.Pool()
	opts.Picker = model
	if err := dungeon.Generate(ctx, opts); err != nil {
		return nil, err
	}

	if cfg.Reseed {
		// Generation is reproducible from the seed; what follows need not be.
		rng.Seed(time.Now().UnixNano())
	}

	loader := deps.Loader
	if loader == nil {
		l, err := LoadLayoutLoader(model, seed)
		if err != nil {
			return nil, fmt.Errorf("failed to load layouts: %w", err)
		}
		loader = l
	}

	s := &Session{
		seed:       seed,
		rng:        rng,
		log:        log,
		dungeon:    dungeon,
		model:      model,
		reconciler: reconcile.New(rng, cfg.EliteChance, log),
		loader:     loader,
		party:      entity.NewParty(world.Origin),
		cleared:    mapset.New[world.Coordinate](),
	}

	log.WithFields(logrus.Fields{
		"seed":  seed,
		"rooms": dungeon.RoomCount(),
		"theme": model.Theme().ID,
		"boss":  dungeon.BossRoom().Coordinate().String(),
	}).Info("session started")

	if _, err := s.enter(ctx, dungeon.InitialRoom(), "start"); err != nil {
		return nil, err
	}
	return s, nil
}

// Seed returns the seed the dungeon was generated from.
func (s *Session) Seed() int64 { return s.seed }

// Dungeon returns the generated dungeon.
func (s *Session) Dungeon() *world.Dungeon { return s.dungeon }

// Model returns the difficulty model.
func (s *Session) Model() *difficulty.Model { return s.model }

// Current returns the room the party is in.
func (s *Session) Current() *world.Room { return s.current }

// Party returns the player's party.
func (s *Session) Party() *entity.Party { return s.party }

// Progress returns the progress signals gathered so far.
func (s *Session) Progress() difficulty.Progress { return s.progress }

// State returns the session state.
func (s *Session) State() State { return s.state }

// Rewards returns the number of challenge rewards unlocked.
func (s *Session) Rewards() int { return s.rewards }

// Cleared reports whether every hostile of the room at c has been defeated in this session.
func (s *Session) Cleared(c world.Coordinate) bool { return s.cleared.Has(c) }

// Spawns returns a copy of the live entities of the current room.
func (s *Session) Spawns() []entity.Spawn {
	out := make([]entity.Spawn, len(s.live))
	copy(out, s.live)
	return out
}

// SetPlayerLevel records the party level used by the difficulty model on the next
// room transition.
func (s *Session) SetPlayerLevel(level int) {
	s.progress.PlayerLevel = level
}

// Travel moves the party through the door in direction dir. Difficulty is refreshed
// and unvisited rooms re-drawn before the next room is entered.
func (s *Session) Travel(ctx context.Context, dir world.Direction) (Report, error) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "session.travel")
	defer span.End()

	next := s.current.Neighbor(dir)
	if next == nil {
		return Report{}, fmt.Errorf("%w: %s of %s", ErrNoDoor, dir, s.current.Coordinate())
	}
	span.SetAttributes(
		attribute.String("travel.from", s.current.Coordinate().String()),
		attribute.String("travel.to", next.Coordinate().String()),
	)

	s.refreshDifficulty(ctx)
	// Arriving from the north means walking in through the room's south door.
	return s.enter(ctx, next, dir.Opposite().String())
}

// EnterRoom places the party in the room at c, using the spawn marker named tag.
func (s *Session) EnterRoom(ctx context.Context, c world.Coordinate, tag string) (Report, error) {
	room, ok := s.dungeon.Room(c)
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", ErrNoRoom, c)
	}
	s.refreshDifficulty(ctx)
	return s.enter(ctx, room, tag)
}

func (s *Session) refreshDifficulty(ctx context.Context) {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "difficulty.update_progress")
	defer span.End()

	s.model.UpdateProgress(s.progress)
	changed := s.dungeon.Reweight(s.model)

	span.SetAttributes(
		attribute.Float64("difficulty.multiplier", s.model.Multiplier()),
		attribute.Int("difficulty.reweighted", changed),
	)
}

func (s *Session) enter(ctx context.Context, room *world.Room, tag string) (Report, error) {
	spawns, err := s.loader.Load(room)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load room %s: %w", room.Coordinate(), err)
	}
	res, err := s.reconciler.Enter(ctx, room, spawns, tag)
	if err != nil {
		return Report{}, err
	}

	gone := mapset.New[int]()
	for _, id := range res.DespawnIDs {
		gone.Put(id)
	}
	live := make([]entity.Spawn, 0, len(spawns))
	for _, sp := range spawns {
		if !gone.Has(sp.ID) {
			live = append(live, sp)
		}
	}

	pos := roomCenter
	if res.SpawnPosition != nil {
		pos = *res.SpawnPosition
	}
	s.party.MoveTo(room.Coordinate(), pos)
	s.current = room
	s.live = live
	s.checkEmptyBossRoom(room, spawns)

	s.log.WithFields(logrus.Fields{
		"room":     room.Coordinate().String(),
		"category": room.Category(),
		"first":    res.FirstVisit,
		"live":     len(live),
	}).Info("entered room")

	return Report{
		Room:   room,
		Name:   s.model.NameFor(room.Category()),
		Result: res,
		Spawns: s.Spawns(),
	}, nil
}

// DefeatHostile marks a live hostile of the current room dead.
func (s *Session) DefeatHostile(id int) error {
	if _, err := s.find(id, entity.RoleHostile); err != nil {
		return err
	}
	s.current.SetState(world.GeneralState, id, world.PropAlive, 0)
	s.remove(id)
	s.progress.EnemiesDefeated++
	s.checkCleared()
	return nil
}

// DefeatAll kills every live hostile of the current room and returns how many died.
func (s *Session) DefeatAll() int {
	var ids []int
	for _, sp := range s.live {
		if sp.Role == entity.RoleHostile {
			ids = append(ids, sp.ID)
		}
	}
	for _, id := range ids {
		// ids come from the live list, so this cannot fail.
		_ = s.DefeatHostile(id)
	}
	return len(ids)
}

// TriggerTrap fires a trap of the current room.
func (s *Session) TriggerTrap(id int) error {
	if _, err := s.find(id, entity.RoleTrap); err != nil {
		return err
	}
	if s.current.State(world.GeneralState, id, world.PropTriggered) == 1 {
		return fmt.Errorf("%w: trap %d", ErrAlreadyResolved, id)
	}
	s.current.SetState(world.GeneralState, id, world.PropTriggered, 1)
	return nil
}

// PickUpItem removes an item from the current room for good.
func (s *Session) PickUpItem(id int) error {
	if _, err := s.find(id, entity.RoleItem); err != nil {
		return err
	}
	s.current.SetState(world.DroppedItemState, id, world.PropPicked, 1)
	s.remove(id)
	return nil
}

// Interact uses a container of the current room. Containers of a challenge room stay
// locked until its hostiles are defeated.
func (s *Session) Interact(id int) error {
	if _, err := s.find(id, entity.RoleContainer); err != nil {
		return err
	}
	if s.current.State(world.ContainerState, id, world.PropInteracted) == 1 {
		return fmt.Errorf("%w: container %d", ErrAlreadyResolved, id)
	}
	if s.current.Category() == world.CategoryChallenge && !s.current.AllHostilesCleared() {
		return ErrLocked
	}
	s.current.SetState(world.ContainerState, id, world.PropInteracted, 1)
	return nil
}

func (s *Session) find(id int, role entity.Role) (*entity.Spawn, error) {
	for i := range s.live {
		if s.live[i].ID == id {
			if s.live[i].Role != role {
				return nil, fmt.Errorf("%w: %d is a %s, not a %s", ErrNoEntity, id, s.live[i].Role, role)
			}
			return &s.live[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s %d", ErrNoEntity, role, id)
}

func (s *Session) remove(id int) {
	for i := range s.live {
		if s.live[i].ID == id {
			s.live = append(s.live[:i], s.live[i+1:]...)
			return
		}
	}
}

// checkCleared credits a room once, the first time its last hostile dies.
func (s *Session) checkCleared() {
	room := s.current
	if !room.AllHostilesCleared() || s.cleared.Has(room.Coordinate()) {
		return
	}
	s.cleared.Put(room.Coordinate())
	s.progress.RoomsCompleted++

	entry := s.log.WithField("room", room.Coordinate().String())
	switch {
	case room == s.dungeon.BossRoom():
		s.state = StateVictory
		entry.Info("boss defeated")
	case room.Category() == world.CategoryChallenge:
		s.rewards++
		entry.Info("challenge reward unlocked")
	default:
		entry.Debug("room cleared")
	}
}

// checkEmptyBossRoom wins the session when the boss room holds no hostiles at all.
// This happens in a one-room dungeon, where the origin doubles as the boss room and
// keeps its initial content.
func (s *Session) checkEmptyBossRoom(room *world.Room, spawns []entity.Spawn) {
	if room != s.dungeon.BossRoom() || s.state == StateVictory {
		return
	}
	for _, sp := range spawns {
		if sp.Role == entity.RoleHostile {
			return
		}
	}
	s.state = StateVictory
	s.log.WithField("room", room.Coordinate().String()).Info("boss room has no hostiles")
}
