package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonrooms/internal/entity"
	"github.com/samdwyer/dungeonrooms/internal/gamedata"
)

// Renderer handles drawing the room map to the screen.
type Renderer struct {
	screen     *Screen
	categories *gamedata.CategoryRegistry
}

// NewRenderer creates a new renderer for the given screen. categories supplies room
// colors and may be nil.
func NewRenderer(screen *Screen, categories *gamedata.CategoryRegistry) *Renderer {
	return &Renderer{screen: screen, categories: categories}
}

// Room interiors are drawn in a box this size; layout positions fall inside the walls.
const (
	roomWidth  = 11
	roomHeight = 9
)

// RoomView is the inside of the room the party is in.
type RoomView struct {
	Spawns []entity.Spawn
	Party  *entity.Party
}

// Render draws the map, the current room to its right and status lines below both.
func (r *Renderer) Render(grid MapGrid, room RoomView, status []string) {
	r.screen.Clear()

	const ox, oy = 1, 1
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			cell := grid.At(x, y)
			r.screen.SetContent(ox+x, oy+y, cell.Rune, r.cellStyle(cell))
		}
	}

	rx := ox + grid.Width + 3
	r.renderRoom(rx, oy, room)

	textStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	top := oy + max(grid.Height, roomHeight) + 1
	for i, line := range status {
		r.screen.DrawText(ox, top+i, line, textStyle)
	}

	r.screen.Show()
}

func (r *Renderer) renderRoom(ox, oy int, room RoomView) {
	wall := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	floor := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for y := 0; y < roomHeight; y++ {
		for x := 0; x < roomWidth; x++ {
			if x == 0 || y == 0 || x == roomWidth-1 || y == roomHeight-1 {
				r.screen.SetContent(ox+x, oy+y, '#', wall)
			} else {
				r.screen.SetContent(ox+x, oy+y, '.', floor)
			}
		}
	}

	for _, s := range room.Spawns {
		ch, style, ok := spawnStyle(s)
		if !ok || !insideRoom(s.Pos.X, s.Pos.Y) {
			continue
		}
		r.screen.SetContent(ox+s.Pos.X, oy+s.Pos.Y, ch, style)
	}

	if p := room.Party; p != nil && insideRoom(p.Pos.X, p.Pos.Y) {
		style := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
		r.screen.SetContent(ox+p.Pos.X, oy+p.Pos.Y, p.Symbol, style)
	}
}

func insideRoom(x, y int) bool {
	return x > 0 && y > 0 && x < roomWidth-1 && y < roomHeight-1
}

// spawnStyle returns how an entity is drawn. Spawn markers are not drawn.
func spawnStyle(s entity.Spawn) (rune, tcell.Style, bool) {
	switch s.Role {
	case entity.RoleHostile:
		if s.Enemy == nil {
			return 'h', tcell.StyleDefault.Foreground(tcell.ColorRed), true
		}
		style := tcell.StyleDefault.Foreground(s.Enemy.Color())
		if s.Enemy.Elite {
			style = style.Bold(true)
		}
		return s.Enemy.Symbol, style, true
	case entity.RoleTrap:
		return '^', tcell.StyleDefault.Foreground(tcell.ColorDarkRed), true
	case entity.RoleItem:
		return '*', tcell.StyleDefault.Foreground(tcell.ColorGold), true
	case entity.RoleContainer:
		return '=', tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown), true
	default:
		return 0, tcell.StyleDefault, false
	}
}

// cellStyle returns the style for a map cell. Unvisited rooms other than the boss
// room are drawn neutral so their category is not given away.
func (r *Renderer) cellStyle(cell Cell) tcell.Style {
	switch cell.Kind {
	case CellDoor:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case CellWall, CellRoom:
		if cell.Current {
			return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
		}
		if hidden(cell) {
			return tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true)
		}
		return tcell.StyleDefault.Foreground(r.categoryColor(cell.Category))
	default:
		return tcell.StyleDefault
	}
}

func (r *Renderer) categoryColor(category string) tcell.Color {
	if r.categories == nil {
		return tcell.ColorGray
	}
	def := r.categories.GetByID(category)
	if def == nil {
		return tcell.ColorGray
	}
	return gamedata.ColorOr(def.Color, tcell.ColorGray)
}

// RenderMessage displays a message at the given row, on top of what Render drew.
func (r *Renderer) RenderMessage(msg string, y int) {
	r.screen.DrawText(0, y, msg, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	r.screen.Show()
}
