package gamedata

import (
	"errors"
	"math/rand"
)

// EnemyRegistry holds loaded enemy definitions and provides spawning utilities.
type EnemyRegistry struct {
	enemies     []EnemyDef
	totalWeight int
}

// NewEnemyRegistry creates a registry from loaded enemy definitions.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	totalWeight := 0
	for _, e := range enemies {
		totalWeight += e.SpawnWeight
	}
	return &EnemyRegistry{
		enemies:     enemies,
		totalWeight: totalWeight,
	}
}

// LoadEnemyRegistry loads and creates a registry from the embedded enemies.json.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	enemies, err := LoadEnemies()
	if err != nil {
		return nil, err
	}
	if len(enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewEnemyRegistry(enemies), nil
}

// SpawnRandom selects a random enemy definition using weighted probability.
func (r *EnemyRegistry) SpawnRandom(rng *rand.Rand) *EnemyDef {
	if r.totalWeight <= 0 || len(r.enemies) == 0 {
		return nil
	}

	roll := rng.Intn(r.totalWeight)
	cumulative := 0
	for i := range r.enemies {
		cumulative += r.enemies[i].SpawnWeight
		if roll < cumulative {
			return &r.enemies[i]
		}
	}
	return &r.enemies[0]
}

// GetByID returns the enemy definition with the given ID, or nil if not found.
func (r *EnemyRegistry) GetByID(id string) *EnemyDef {
	for i := range r.enemies {
		if r.enemies[i].ID == id {
			return &r.enemies[i]
		}
	}
	return nil
}

// Count returns the number of enemy types in the registry.
func (r *EnemyRegistry) Count() int {
	return len(r.enemies)
}

// =============================================================================
// CategoryRegistry
// =============================================================================

// CategoryRegistry indexes category definitions by id.
type CategoryRegistry struct {
	byID map[string]*CategoryDef
	all  []CategoryDef
}

// NewCategoryRegistry creates a registry from loaded category definitions.
func NewCategoryRegistry(categories []CategoryDef) *CategoryRegistry {
	registry := &CategoryRegistry{
		byID: make(map[string]*CategoryDef, len(categories)),
		all:  categories,
	}
	for i := range categories {
		registry.byID[categories[i].ID] = &categories[i]
	}
	return registry
}

// LoadCategoryRegistry loads and creates a registry from the embedded categories.json.
func LoadCategoryRegistry() (*CategoryRegistry, error) {
	categories, err := LoadCategories()
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, errors.New("no categories loaded from categories.json")
	}
	return NewCategoryRegistry(categories), nil
}

// MustLoadCategoryRegistry loads a registry, panicking on error.
func MustLoadCategoryRegistry() *CategoryRegistry {
	registry, err := LoadCategoryRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the category definition with the given ID, or nil if not found.
func (r *CategoryRegistry) GetByID(id string) *CategoryDef {
	return r.byID[id]
}

// Pool returns the ids of all non-special categories, in file order.
func (r *CategoryRegistry) Pool() []string {
	pool := make([]string, 0, len(r.all))
	for _, c := range r.all {
		if !c.Special {
			pool = append(pool, c.ID)
		}
	}
	return pool
}

// All returns all category definitions.
func (r *CategoryRegistry) All() []CategoryDef {
	return r.all
}

// =============================================================================
// ThemeRegistry
// =============================================================================

// ThemeRegistry holds loaded themes in file order.
type ThemeRegistry struct {
	themes []ThemeDef
}

// NewThemeRegistry creates a registry from loaded theme definitions.
func NewThemeRegistry(themes []ThemeDef) *ThemeRegistry {
	return &ThemeRegistry{themes: themes}
}

// LoadThemeRegistry loads and creates a registry from the embedded themes.json.
func LoadThemeRegistry() (*ThemeRegistry, error) {
	themes, err := LoadThemes()
	if err != nil {
		return nil, err
	}
	if len(themes) == 0 {
		return nil, errors.New("no themes loaded from themes.json")
	}
	return NewThemeRegistry(themes), nil
}

// MustLoadThemeRegistry loads a registry, panicking on error.
func MustLoadThemeRegistry() *ThemeRegistry {
	registry, err := LoadThemeRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the theme with the given ID, or nil if not found.
func (r *ThemeRegistry) GetByID(id string) *ThemeDef {
	for i := range r.themes {
		if r.themes[i].ID == id {
			return &r.themes[i]
		}
	}
	return nil
}

// Starters returns the themes flagged for early-game use.
func (r *ThemeRegistry) Starters() []*ThemeDef {
	var out []*ThemeDef
	for i := range r.themes {
		if r.themes[i].Starter {
			out = append(out, &r.themes[i])
		}
	}
	return out
}

// All returns pointers to every theme, in file order.
func (r *ThemeRegistry) All() []*ThemeDef {
	out := make([]*ThemeDef, len(r.themes))
	for i := range r.themes {
		out[i] = &r.themes[i]
	}
	return out
}

// Count returns the number of themes in the registry.
func (r *ThemeRegistry) Count() int {
	return len(r.themes)
}
