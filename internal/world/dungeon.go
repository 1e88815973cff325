package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonrooms/internal/logging"
	"github.com/samdwyer/dungeonrooms/internal/telemetry"
)

const (
	// Default generation parameters
	DefaultRoomCount       = 12
	DefaultMinBossDistance = 5

	// MaxChallengeAssignmentAttempts caps the re-rolls spent placing one challenge room.
	// It only matters for degenerate graphs where almost every room is already special.
	MaxChallengeAssignmentAttempts = 100

	// frontierBatch is the candidate count after which a frontier rebuild stops scanning.
	frontierBatch = 2
)

var (
	// ErrInvalidOptions is returned for generation options that indicate a caller bug.
	ErrInvalidOptions = errors.New("invalid generation options")
	// ErrAlreadyGenerated is returned when Generate is called twice on one Dungeon.
	ErrAlreadyGenerated = errors.New("dungeon already generated")
)

// CategoryPicker chooses a content category for a regular room from the pool.
// difficulty.Model implements it.
type CategoryPicker interface {
	PickCategory(room *Room, pool []string) string
}

// Options controls a generation pass.
type Options struct {
	RoomCount       int      // Target room count, origin included (>= 1)
	MinBossDistance int      // Manhattan distance the boss room should reach
	CategoryPool    []string // Labels for regular rooms; empty means CategoryDefault
	ChallengeMin    int      // Inclusive lower bound of challenge rooms
	ChallengeMax    int      // Inclusive upper bound of challenge rooms

	// Picker draws regular room categories. When nil they are drawn uniformly from the pool.
	Picker CategoryPicker
}

// DefaultOptions returns options for a medium-sized dungeon.
func DefaultOptions() Options {
	return Options{
		RoomCount:       DefaultRoomCount,
		MinBossDistance: DefaultMinBossDistance,
		ChallengeMin:    1,
		ChallengeMax:    2,
	}
}

// Validate reports caller bugs such as negative counts or an inverted range.
func (o Options) Validate() error {
	switch {
	case o.RoomCount < 1:
		return fmt.Errorf("%w: room count %d < 1", ErrInvalidOptions, o.RoomCount)
	case o.MinBossDistance < 0:
		return fmt.Errorf("%w: negative boss distance %d", ErrInvalidOptions, o.MinBossDistance)
	case o.ChallengeMin < 0 || o.ChallengeMax < 0:
		return fmt.Errorf("%w: negative challenge range (%d,%d)", ErrInvalidOptions, o.ChallengeMin, o.ChallengeMax)
	case o.ChallengeMin > o.ChallengeMax:
		return fmt.Errorf("%w: challenge range (%d,%d) is inverted", ErrInvalidOptions, o.ChallengeMin, o.ChallengeMax)
	}
	return nil
}

// Bounds is the inclusive bounding box of all room coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY int
}

// Width returns the number of grid columns covered.
func (b Bounds) Width() int { return b.MaxX - b.MinX + 1 }

// Height returns the number of grid rows covered.
func (b Bounds) Height() int { return b.MaxY - b.MinY + 1 }

func (b *Bounds) include(c Coordinate) {
	b.MinX = min(b.MinX, c.X)
	b.MinY = min(b.MinY, c.Y)
	b.MaxX = max(b.MaxX, c.X)
	b.MaxY = max(b.MaxY, c.Y)
}

// Dungeon is the room graph of one session. It owns every Room and is discarded when
// the session ends.
type Dungeon struct {
	rooms     map[Coordinate]*Room
	order     []*Room // insertion order; every scan over rooms uses it
	initial   *Room
	boss      *Room
	pool      []string
	bounds    Bounds
	generated bool
	rng       *rand.Rand
	log       logrus.FieldLogger
}

// NewDungeon creates an empty dungeon. A nil rng is replaced by a time-seeded one,
// a nil logger by one that discards everything.
func NewDungeon(rng *rand.Rand, log logrus.FieldLogger) *Dungeon {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Dungeon{
		rooms: make(map[Coordinate]*Room),
		rng:   rng,
		log:   log,
	}
}

// Generate builds the full room graph. It may only be called once per Dungeon.
// A dungeon smaller than requested is not an error.
func (d *Dungeon) Generate(ctx context.Context, opts Options) error {
	if d.generated {
		return ErrAlreadyGenerated
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()
	d.generated = true

	d.pool = opts.CategoryPool
	if len(d.pool) == 0 {
		d.log.WithField("category", CategoryDefault).Info("empty category pool, using default category")
		d.pool = []string{CategoryDefault}
	}

	d.grow(opts.RoomCount, opts.MinBossDistance)
	d.ConnectAll()
	d.placeBoss(opts.MinBossDistance)
	challenges := d.placeChallengeRooms(opts.ChallengeMin, opts.ChallengeMax)
	d.assignPoolCategories(opts.Picker)

	if len(d.order) < opts.RoomCount {
		d.log.WithFields(logrus.Fields{
			"requested": opts.RoomCount,
			"generated": len(d.order),
		}).Info("dungeon generated under budget")
	}

	span.SetAttributes(
		attribute.Int("dungeon.room_target", opts.RoomCount),
		attribute.Int("dungeon.room_count", len(d.order)),
		attribute.Int("dungeon.boss_distance", d.boss.DistanceFromOrigin()),
		attribute.Int("dungeon.challenge_count", challenges),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}

// grow places the origin, its forced first ring and then expands a random frontier
// until the room budget is spent or a room reaches minBoss.
func (d *Dungeon) grow(target, minBoss int) {
	d.initial = d.addRoom(Origin, CategoryInitial)

	maxDist := 0
	track := func(r *Room) {
		if dist := r.DistanceFromOrigin(); dist > maxDist {
			maxDist = dist
			d.boss = r
		}
	}

	for _, c := range d.initial.AdjacentCoordinates() {
		if len(d.order) >= target {
			break
		}
		track(d.addRoom(c, CategoryToBeDetermined))
	}

	f := newFrontier()
	for len(d.order) < target && maxDist < minBoss {
		if f.empty() {
			d.rebuildFrontier(f)
		}
		if f.empty() {
			break
		}

		c := f.pop(d.rng)
		if _, taken := d.rooms[c]; taken {
			continue
		}
		room := d.addRoom(c, CategoryToBeDetermined)
		track(room)
		d.extendFrontier(room, f)
	}
}

// rebuildFrontier collects free coordinates next to existing rooms, scanning rooms in
// insertion order and stopping once the batch is larger than frontierBatch.
func (d *Dungeon) rebuildFrontier(f *frontier) {
	for _, room := range d.order {
		for _, c := range room.AdjacentCoordinates() {
			if _, taken := d.rooms[c]; taken {
				continue
			}
			f.push(c)
			if f.size() > frontierBatch {
				return
			}
		}
	}
}

// extendFrontier adds a random subset of the room's free neighbors to the frontier.
func (d *Dungeon) extendFrontier(room *Room, f *frontier) {
	free := make([]Coordinate, 0, 4)
	for _, c := range room.AdjacentCoordinates() {
		if _, taken := d.rooms[c]; !taken {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return
	}

	chosen := d.rng.Intn(len(free) + 1)
	for _, i := range d.rng.Perm(len(free))[:chosen] {
		f.push(free[i])
	}
}

func (d *Dungeon) addRoom(c Coordinate, category string) *Room {
	room := NewRoom(c, category)
	d.rooms[c] = room
	d.order = append(d.order, room)
	if len(d.order) == 1 {
		d.bounds = Bounds{MinX: c.X, MinY: c.Y, MaxX: c.X, MaxY: c.Y}
	} else {
		d.bounds.include(c)
	}
	return room
}

// Connect links room to whatever room lies in direction dir, on both sides.
// It returns false when no room exists there.
func (d *Dungeon) Connect(room *Room, dir Direction) bool {
	other, ok := d.rooms[room.coord.Step(dir)]
	if !ok {
		return false
	}
	room.SetNeighbor(dir, other)
	other.SetNeighbor(dir.Opposite(), room)
	return true
}

// ConnectAll links every pair of grid-adjacent rooms. Running it again changes nothing.
func (d *Dungeon) ConnectAll() {
	for _, room := range d.order {
		for _, dir := range AllDirections() {
			d.Connect(room, dir)
		}
	}
}

// placeBoss labels the origin and the boss room. When generation never flagged a boss
// candidate the farthest room is used, which is the origin for a single-room dungeon.
func (d *Dungeon) placeBoss(minBoss int) {
	d.initial.SetCategory(CategoryInitial)

	if d.boss == nil {
		d.boss = d.farthestRoom()
	}
	if dist := d.boss.DistanceFromOrigin(); dist < minBoss {
		d.log.WithFields(logrus.Fields{
			"boss_distance": dist,
			"min_distance":  minBoss,
		}).Info("boss distance below target, using farthest room")
	}
	if d.boss != d.initial {
		d.boss.SetCategory(CategoryBoss)
	}
}

// farthestRoom returns the first room, in insertion order, at the maximum distance.
func (d *Dungeon) farthestRoom() *Room {
	best := d.order[0]
	for _, room := range d.order[1:] {
		if room.DistanceFromOrigin() > best.DistanceFromOrigin() {
			best = room
		}
	}
	return best
}

// placeChallengeRooms flags a random number of regular rooms in [lo, hi] as challenge
// rooms and returns how many it managed to place.
func (d *Dungeon) placeChallengeRooms(lo, hi int) int {
	want := lo + d.rng.Intn(hi-lo+1)
	placed := 0
	for i := 0; i < want; i++ {
		for attempt := 0; attempt < MaxChallengeAssignmentAttempts; attempt++ {
			room := d.order[d.rng.Intn(len(d.order))]
			if IsSpecialCategory(room.category) {
				continue
			}
			room.SetCategory(CategoryChallenge)
			placed++
			break
		}
	}
	if placed < want {
		d.log.WithFields(logrus.Fields{
			"requested": want,
			"placed":    placed,
		}).Info("not enough rooms for challenge placement")
	}
	return placed
}

func (d *Dungeon) assignPoolCategories(picker CategoryPicker) {
	for _, room := range d.order {
		if room.category == CategoryToBeDetermined {
			room.SetCategory(d.pickCategory(room, picker))
		}
	}
}

func (d *Dungeon) pickCategory(room *Room, picker CategoryPicker) string {
	if picker != nil {
		if c := picker.PickCategory(room, d.pool); c != "" && !IsSpecialCategory(c) {
			return c
		}
	}
	return d.pool[d.rng.Intn(len(d.pool))]
}

// Reweight redraws the category of every regular room the player has not entered yet.
// It is meant to be called between room transitions after the difficulty model changed.
// Returns the number of rooms whose category changed.
func (d *Dungeon) Reweight(picker CategoryPicker) int {
	changed := 0
	for _, room := range d.order {
		if room.visited || IsSpecialCategory(room.category) {
			continue
		}
		next := d.pickCategory(room, picker)
		if next != room.category {
			room.SetCategory(next)
			changed++
		}
	}
	return changed
}

// Room returns the room at c.
func (d *Dungeon) Room(c Coordinate) (*Room, bool) {
	room, ok := d.rooms[c]
	return room, ok
}

// InitialRoom returns the origin room.
func (d *Dungeon) InitialRoom() *Room { return d.initial }

// BossRoom returns the boss room. For a single-room dungeon this is the origin.
func (d *Dungeon) BossRoom() *Room { return d.boss }

// Rooms returns all rooms in generation order. The slice is a copy; the rooms are not.
func (d *Dungeon) Rooms() []*Room {
	out := make([]*Room, len(d.order))
	copy(out, d.order)
	return out
}

// RoomCount returns the number of generated rooms.
func (d *Dungeon) RoomCount() int { return len(d.order) }

// RoomsInCategory returns the rooms carrying the given label, in generation order.
func (d *Dungeon) RoomsInCategory(category string) []*Room {
	var out []*Room
	for _, room := range d.order {
		if room.category == category {
			out = append(out, room)
		}
	}
	return out
}

// CategoryPool returns the pool regular rooms are drawn from.
func (d *Dungeon) CategoryPool() []string { return d.pool }

// Bounds returns the bounding box of all rooms.
func (d *Dungeon) Bounds() Bounds { return d.bounds }

// frontier is an ordered candidate list with set membership for de-duplication.
type frontier struct {
	items []Coordinate
	seen  mapset.Set[Coordinate]
}

func newFrontier() *frontier {
	return &frontier{seen: mapset.New[Coordinate]()}
}

func (f *frontier) push(c Coordinate) {
	if f.seen.Has(c) {
		return
	}
	f.seen.Put(c)
	f.items = append(f.items, c)
}

// pop removes and returns a uniformly random candidate.
func (f *frontier) pop(rng *rand.Rand) Coordinate {
	i := rng.Intn(len(f.items))
	c := f.items[i]
	f.items = append(f.items[:i], f.items[i+1:]...)
	f.seen.Remove(c)
	return c
}

func (f *frontier) size() int   { return len(f.items) }
func (f *frontier) empty() bool { return len(f.items) == 0 }
