package entity

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonrooms/internal/gamedata"
)

const (
	// Elite variants get this much more HP and attack.
	eliteHPFactor     = 1.5
	eliteAttackFactor = 1.25
)

// Enemy is the stat block of a hostile, scaled for the room it appears in.
type Enemy struct {
	Def     *gamedata.EnemyDef // Definition the stats were derived from
	Name    string             // Display name (e.g., "Goblin", "Elite Goblin")
	Symbol  rune               // Display symbol
	HP      int
	MaxHP   int
	Attack  int
	Defense int
	Elite   bool
}

// NewEnemy scales a definition by a difficulty multiplier. Stats never drop below 1.
func NewEnemy(def *gamedata.EnemyDef, difficulty float64) *Enemy {
	hp := scale(def.HP, difficulty)
	return &Enemy{
		Def:     def,
		Name:    def.Name,
		Symbol:  def.GlyphRune(),
		HP:      hp,
		MaxHP:   hp,
		Attack:  scale(def.Attack, difficulty),
		Defense: scale(def.Defense, difficulty),
	}
}

// Promote upgrades the enemy to its elite variant. Promoting twice has no further effect.
func (e *Enemy) Promote() {
	if e.Elite {
		return
	}
	e.Elite = true
	e.Name = "Elite " + e.Name
	e.MaxHP = scale(e.MaxHP, eliteHPFactor)
	e.HP = e.MaxHP
	e.Attack = scale(e.Attack, eliteAttackFactor)
}

// Color returns the tcell color for this enemy.
func (e *Enemy) Color() tcell.Color {
	if e.Def == nil {
		return tcell.ColorPurple
	}
	return e.Def.TCellColor()
}

func scale(v int, f float64) int {
	return max(1, int(math.Round(float64(v)*f)))
}
