package ui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samdwyer/dungeonrooms/internal/world"
)

const (
	// Each room takes "[x]" plus one column for an east door, and one row below
	// it for a south door.
	cellWidth  = 4
	cellHeight = 2
)

// CellKind tells renderers how to style a map cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellWall
	CellRoom
	CellDoor
)

// Cell is one character of the room map.
type Cell struct {
	Rune     rune
	Kind     CellKind
	Category string // Category of the room this cell belongs to, if any
	Current  bool   // Part of the room the party is in
	Visited  bool
}

// MapGrid is a rendered overview of the room graph.
type MapGrid struct {
	Width  int
	Height int
	cells  []Cell
}

// At returns the cell at x, y. Out-of-range positions are empty.
func (g MapGrid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return Cell{Rune: ' '}
	}
	return g.cells[y*g.Width+x]
}

func (g MapGrid) set(x, y int, c Cell) {
	g.cells[y*g.Width+x] = c
}

// Lines returns the grid as plain text, one string per row.
func (g MapGrid) Lines() []string {
	lines := make([]string, g.Height)
	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		b.Reset()
		for x := 0; x < g.Width; x++ {
			b.WriteRune(g.At(x, y).Rune)
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

// categoryGlyphs maps known categories to map symbols.
var categoryGlyphs = map[string]rune{
	world.CategoryInitial:   'I',
	world.CategoryBoss:      'B',
	world.CategoryChallenge: '!',
	world.CategoryDefault:   '.',
	"combat":                'x',
	"treasure":              '$',
	"shop":                  's',
	"trap":                  '^',
	"shrine":                '+',
}

// Glyph returns the map symbol for a category.
func Glyph(category string) rune {
	if r, ok := categoryGlyphs[category]; ok {
		return r
	}
	if r, _ := utf8.DecodeRuneInString(category); r != utf8.RuneError {
		return unicode.ToLower(r)
	}
	return '?'
}

// hidden reports whether a room cell must not reveal its category.
func hidden(cell Cell) bool {
	return !cell.Visited && !cell.Current && cell.Category != world.CategoryBoss
}

// BuildMap lays the dungeon out on a character grid. Unvisited rooms other than
// the boss room show as '?', since their category may still change.
func BuildMap(d *world.Dungeon, current world.Coordinate) MapGrid {
	b := d.Bounds()
	g := MapGrid{
		Width:  b.Width()*cellWidth - 1,
		Height: b.Height()*cellHeight - 1,
	}
	g.cells = make([]Cell, g.Width*g.Height)
	for i := range g.cells {
		g.cells[i] = Cell{Rune: ' '}
	}

	for _, room := range d.Rooms() {
		c := room.Coordinate()
		col := (c.X - b.MinX) * cellWidth
		row := (c.Y - b.MinY) * cellHeight

		base := Cell{
			Kind:     CellWall,
			Category: room.Category(),
			Current:  c == current,
			Visited:  room.Visited(),
		}

		glyph := '?'
		switch {
		case c == current:
			glyph = '@'
		case room.Visited() || room.Category() == world.CategoryBoss:
			glyph = Glyph(room.Category())
		}

		left, mid, right := base, base, base
		left.Rune, right.Rune = '[', ']'
		mid.Rune, mid.Kind = glyph, CellRoom
		g.set(col, row, left)
		g.set(col+1, row, mid)
		g.set(col+2, row, right)

		if room.Neighbor(world.East) != nil {
			g.set(col+3, row, Cell{Rune: '-', Kind: CellDoor})
		}
		if room.Neighbor(world.South) != nil {
			g.set(col+1, row+1, Cell{Rune: '|', Kind: CellDoor})
		}
	}
	return g
}
