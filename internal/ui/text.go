package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/samdwyer/dungeonrooms/internal/gamedata"
)

var (
	colorCurrent = color.Style{color.FgYellow, color.OpBold}
	colorDoor    = color.Style{color.FgGray}
	colorStatus  = color.Style{color.FgWhite}
)

// WriteText prints the map and status lines as colored text.
func WriteText(w io.Writer, grid MapGrid, categories *gamedata.CategoryRegistry, status []string) error {
	var b strings.Builder
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			b.WriteString(textCell(grid.At(x, y), categories))
		}
		b.WriteByte('\n')
	}
	for _, line := range status {
		b.WriteString(colorStatus.Sprint(line))
		b.WriteByte('\n')
	}
	_, err := fmt.Fprint(w, b.String())
	return err
}

func textCell(cell Cell, categories *gamedata.CategoryRegistry) string {
	s := string(cell.Rune)
	switch cell.Kind {
	case CellDoor:
		return colorDoor.Sprint(s)
	case CellWall, CellRoom:
		if cell.Current {
			return colorCurrent.Sprint(s)
		}
		if hidden(cell) {
			return s
		}
		if categories != nil {
			if def := categories.GetByID(cell.Category); def != nil && def.Color != "" {
				return color.HEX(def.Color).Sprint(s)
			}
		}
		return s
	default:
		return s
	}
}
