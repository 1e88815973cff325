package game

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"

	"github.com/cespare/xxhash/v2"

	"github.com/samdwyer/dungeonrooms/internal/entity"
	"github.com/samdwyer/dungeonrooms/internal/gamedata"
	"github.com/samdwyer/dungeonrooms/internal/world"
)

// ErrNoEnemies is returned when a layout asks for a hostile but no enemy can be picked.
var ErrNoEnemies = errors.New("no enemy definition available")

// ContentLoader instantiates the entities of a room. It must return the same ids and
// roles every time it is called for the same room, since persisted state is keyed by id.
type ContentLoader interface {
	Load(room *world.Room) ([]entity.Spawn, error)
}

// DifficultySource supplies the stat multiplier for a room category.
type DifficultySource interface {
	DifficultyFor(category string) float64
}

// LayoutLoader builds spawns from the embedded layouts.json. Spawn ids are the index
// of the entry in the layout.
type LayoutLoader struct {
	layouts    map[string]gamedata.LayoutDef
	fallback   gamedata.LayoutDef
	enemies    *gamedata.EnemyRegistry
	difficulty DifficultySource
	seed       int64
}

// NewLayoutLoader creates a loader. Rooms pick enemies with an rng derived from seed
// and their coordinate, so the same room always holds the same enemy types.
func NewLayoutLoader(file *gamedata.LayoutsFile, enemies *gamedata.EnemyRegistry, difficulty DifficultySource, seed int64) *LayoutLoader {
	l := &LayoutLoader{
		layouts:    make(map[string]gamedata.LayoutDef, len(file.Layouts)),
		fallback:   file.Fallback,
		enemies:    enemies,
		difficulty: difficulty,
		seed:       seed,
	}
	for _, layout := range file.Layouts {
		l.layouts[layout.Category] = layout
	}
	return l
}

// LoadLayoutLoader creates a loader from the embedded layouts and enemies.
func LoadLayoutLoader(difficulty DifficultySource, seed int64) (*LayoutLoader, error) {
	layouts, err := gamedata.LoadLayouts()
	if err != nil {
		return nil, err
	}
	enemies, err := gamedata.LoadEnemyRegistry()
	if err != nil {
		return nil, err
	}
	return NewLayoutLoader(layouts, enemies, difficulty, seed), nil
}

// Layout returns the layout used for a category.
func (l *LayoutLoader) Layout(category string) gamedata.LayoutDef {
	if layout, ok := l.layouts[category]; ok {
		return layout
	}
	return l.fallback
}

// Load implements ContentLoader.
func (l *LayoutLoader) Load(room *world.Room) ([]entity.Spawn, error) {
	layout := l.Layout(room.Category())
	rng := rand.New(rand.NewSource(l.roomSeed(room.Coordinate())))
	difficulty := 1.0
	if l.difficulty != nil {
		difficulty = l.difficulty.DifficultyFor(room.Category())
	}

	spawns := make([]entity.Spawn, 0, len(layout.Spawns))
	for i, def := range layout.Spawns {
		role, err := entity.ParseRole(def.Role)
		if err != nil {
			return nil, fmt.Errorf("layout %q entry %d: %w", layout.Category, i, err)
		}

		s := entity.Spawn{
			ID:   i,
			Role: role,
			Tag:  def.Tag,
			Pos:  world.NewCoordinate(def.X, def.Y),
		}
		if role == entity.RoleHostile {
			enemy, err := l.enemy(def.Enemy, rng)
			if err != nil {
				return nil, fmt.Errorf("layout %q entry %d: %w", layout.Category, i, err)
			}
			s.Enemy = entity.NewEnemy(enemy, difficulty)
		}
		spawns = append(spawns, s)
	}
	return spawns, nil
}

func (l *LayoutLoader) enemy(id string, rng *rand.Rand) (*gamedata.EnemyDef, error) {
	if l.enemies == nil {
		return nil, ErrNoEnemies
	}
	if id != "" {
		def := l.enemies.GetByID(id)
		if def == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoEnemies, id)
		}
		return def, nil
	}
	def := l.enemies.SpawnRandom(rng)
	if def == nil {
		return nil, ErrNoEnemies
	}
	return def, nil
}

func (l *LayoutLoader) roomSeed(c world.Coordinate) int64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(l.seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(c.X)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(c.Y)))
	return int64(xxhash.Sum64(buf[:]))
}
