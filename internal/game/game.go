package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonrooms/internal/gamedata"
	"github.com/samdwyer/dungeonrooms/internal/ui"
	"github.com/samdwyer/dungeonrooms/internal/world"
)

// Game is the interactive terminal viewer for a session.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	message  string
	running  bool
}

// New creates a viewer over session.
func New(session *Session, categories *gamedata.CategoryRegistry) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen, categories),
		session:  session,
		message:  "Arrows travel, x defeats hostiles, q quits.",
		running:  true,
	}, nil
}

// Run executes the main loop until the player quits.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	for g.running {
		g.render()
		g.handleInput(ctx)
	}
	return nil
}

func (g *Game) render() {
	grid := ui.BuildMap(g.session.Dungeon(), g.session.Current().Coordinate())
	room := ui.RoomView{Spawns: g.session.Spawns(), Party: g.session.Party()}
	g.renderer.Render(grid, room, Status(g.session))

	_, h := g.screen.Size()
	g.renderer.RenderMessage(g.message, h-1)
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.travel(ctx, world.North)
	case tcell.KeyDown:
		g.travel(ctx, world.South)
	case tcell.KeyLeft:
		g.travel(ctx, world.West)
	case tcell.KeyRight:
		g.travel(ctx, world.East)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'x', 'X':
			n := g.session.DefeatAll()
			g.message = fmt.Sprintf("Defeated %d hostiles.", n)
		}
	}
}

func (g *Game) travel(ctx context.Context, dir world.Direction) {
	report, err := g.session.Travel(ctx, dir)
	switch {
	case errors.Is(err, ErrNoDoor):
		g.message = fmt.Sprintf("No door to the %s.", dir)
	case err != nil:
		g.message = err.Error()
	default:
		g.message = Describe(report)
	}
}

// Describe summarizes a room entry in one line.
func Describe(r Report) string {
	visit := "returned to"
	if r.Result.FirstVisit {
		visit = "entered"
	}
	hostiles := 0
	for _, s := range r.Spawns {
		if s.Enemy != nil {
			hostiles++
		}
	}
	msg := fmt.Sprintf("You %s %s: %d hostiles", visit, r.Name, hostiles)
	if n := len(r.Result.EliteIDs); n > 0 {
		msg += fmt.Sprintf(" (%d elite)", n)
	}
	return msg + "."
}

// Status returns the lines shown under the map.
func Status(s *Session) []string {
	room := s.Current()
	p := s.Progress()
	doors := make([]string, 0, 4)
	for _, d := range room.Doors() {
		doors = append(doors, d.String())
	}

	return []string{
		fmt.Sprintf("Room %s  %s  doors: %s", room.Coordinate(), s.Model().NameFor(room.Category()), strings.Join(doors, ", ")),
		fmt.Sprintf("Theme %s  difficulty x%.2f  cleared %d  defeated %d  rewards %d",
			s.Model().Theme().Name, s.Model().Multiplier(), p.RoomsCompleted, p.EnemiesDefeated, s.Rewards()),
		fmt.Sprintf("Seed %d  state %s", s.Seed(), s.State()),
	}
}
