// Package difficulty biases room categories, enemy strength and room names according to
// how far the player has progressed and which theme the dungeon uses.
package difficulty

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/dungeonrooms/internal/gamedata"
	"github.com/samdwyer/dungeonrooms/internal/logging"
	"github.com/samdwyer/dungeonrooms/internal/world"
)

const (
	// Per-signal growth of the difficulty multiplier
	levelGrowth = 0.1
	roomGrowth  = 0.05
	enemyGrowth = 0.001

	// depthGrowth raises the multiplier for rooms far from the entrance.
	depthGrowth = 0.05

	// Below starterLevel a random theme comes from the starter set with starterBias odds.
	starterLevel = 5
	starterBias  = 0.75
)

// ErrUnknownTheme is returned by SelectTheme for an id not in the registry.
var ErrUnknownTheme = errors.New("unknown theme")

// neutralTheme is used when no themes are loaded.
var neutralTheme = gamedata.ThemeDef{ID: "neutral", Name: "Dungeon", EnemyDifficulty: 1}

// Progress is the set of external signals the model reacts to.
type Progress struct {
	PlayerLevel     int
	RoomsCompleted  int
	EnemiesDefeated int
}

// Multiplier returns the product of the per-signal growth factors.
func (p Progress) Multiplier() float64 {
	return (1 + float64(p.PlayerLevel)*levelGrowth) *
		(1 + float64(p.RoomsCompleted)*roomGrowth) *
		(1 + float64(p.EnemiesDefeated)*enemyGrowth)
}

func (p Progress) clamped() Progress {
	return Progress{
		PlayerLevel:     max(p.PlayerLevel, 0),
		RoomsCompleted:  max(p.RoomsCompleted, 0),
		EnemiesDefeated: max(p.EnemiesDefeated, 0),
	}
}

// Model is the progressive difficulty policy. It keeps only the last progress, the
// multiplier computed from it and the active theme, so it is safe to refresh on every
// room transition.
type Model struct {
	categories *gamedata.CategoryRegistry
	themes     *gamedata.ThemeRegistry
	theme      *gamedata.ThemeDef
	progress   Progress
	multiplier float64
	rng        *rand.Rand
	log        logrus.FieldLogger
}

// NewModel creates a model at zero progress using the first theme of the registry.
// Either registry may be nil.
func NewModel(categories *gamedata.CategoryRegistry, themes *gamedata.ThemeRegistry, rng *rand.Rand, log logrus.FieldLogger) *Model {
	if categories == nil {
		categories = gamedata.NewCategoryRegistry(nil)
	}
	if themes == nil {
		themes = gamedata.NewThemeRegistry(nil)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = logging.Discard()
	}

	m := &Model{
		categories: categories,
		themes:     themes,
		theme:      &neutralTheme,
		multiplier: 1,
		rng:        rng,
		log:        log,
	}
	if all := themes.All(); len(all) > 0 {
		m.theme = all[0]
	}
	return m
}

// UpdateProgress records new progress signals and recomputes the multiplier.
// Negative inputs are treated as zero.
func (m *Model) UpdateProgress(p Progress) {
	m.progress = p.clamped()
	m.multiplier = m.progress.Multiplier()
}

// Progress returns the last recorded signals.
func (m *Model) Progress() Progress { return m.progress }

// Multiplier returns the current difficulty multiplier.
func (m *Model) Multiplier() float64 { return m.multiplier }

// Theme returns the active theme.
func (m *Model) Theme() *gamedata.ThemeDef { return m.theme }

// SelectTheme activates the theme with the given id. An empty id picks one at random,
// favouring starter themes while the player level is low.
func (m *Model) SelectTheme(id string) error {
	if id != "" {
		theme := m.themes.GetByID(id)
		if theme == nil {
			return fmt.Errorf("%w: %q", ErrUnknownTheme, id)
		}
		m.theme = theme
		m.log.WithField("theme", id).Debug("theme selected")
		return nil
	}

	candidates := m.themes.All()
	if starters := m.themes.Starters(); len(starters) > 0 &&
		m.progress.PlayerLevel < starterLevel && m.rng.Float64() < starterBias {
		candidates = starters
	}
	if len(candidates) == 0 {
		m.theme = &neutralTheme
		return nil
	}

	m.theme = candidates[m.rng.Intn(len(candidates))]
	m.log.WithFields(logrus.Fields{
		"theme":        m.theme.ID,
		"player_level": m.progress.PlayerLevel,
	}).Debug("random theme selected")
	return nil
}

// Weight returns the draw weight of category for room under the current progress and
// theme. room may be nil.
func (m *Model) Weight(category string, room *world.Room) float64 {
	base, affinity := 1.0, 0.0
	if def := m.categories.GetByID(category); def != nil {
		base, affinity = def.Weight, def.Affinity
	}

	effective := m.multiplier
	if room != nil {
		effective *= 1 + float64(room.DistanceFromOrigin())*depthGrowth
	}

	return base * m.theme.Bias(category) * (1 + (effective-1)*affinity)
}

// slots is the number of pool entries a weight occupies; at least one.
func slots(weight float64) int {
	return int(math.Round(math.Max(1, weight)))
}

// WeightedCategory draws a category from pool. Each category occupies
// round(max(1, weight)) slots and one slot is drawn uniformly, so zero or negative
// weights still leave every category reachable. An empty pool yields the default
// category.
func (m *Model) WeightedCategory(room *world.Room, pool []string) string {
	if len(pool) == 0 {
		return world.CategoryDefault
	}

	counts := make([]int, len(pool))
	total := 0
	for i, category := range pool {
		counts[i] = slots(m.Weight(category, room))
		total += counts[i]
	}

	roll := m.rng.Intn(total)
	cumulative := 0
	for i, n := range counts {
		cumulative += n
		if roll < cumulative {
			return pool[i]
		}
	}
	return pool[len(pool)-1]
}

// PickCategory implements world.CategoryPicker.
func (m *Model) PickCategory(room *world.Room, pool []string) string {
	return m.WeightedCategory(room, pool)
}

// DifficultyFor returns the stat multiplier the enemy spawner applies in rooms of the
// given category.
func (m *Model) DifficultyFor(category string) float64 {
	categoryFactor := 1.0
	if def := m.categories.GetByID(category); def != nil {
		categoryFactor = def.Difficulty
	}
	themeFactor := m.theme.EnemyDifficulty
	if themeFactor == 0 {
		themeFactor = 1
	}
	return m.multiplier * categoryFactor * themeFactor
}

// NameFor returns the themed display name of a category, e.g. "Dusty Treasure Vault of
// Bones". The same theme and category always give the same name.
func (m *Model) NameFor(category string) string {
	display := category
	if def := m.categories.GetByID(category); def != nil && def.Name != "" {
		display = def.Name
	}

	h := xxhash.Sum64String(m.theme.ID + ":" + category)
	parts := make([]string, 0, 3)
	if n := len(m.theme.Prefixes); n > 0 {
		parts = append(parts, m.theme.Prefixes[h%uint64(n)])
	}
	parts = append(parts, display)
	if n := len(m.theme.Suffixes); n > 0 {
		parts = append(parts, m.theme.Suffixes[(h>>32)%uint64(n)])
	}
	return strings.Join(parts, " ")
}
