// Package render draws minigrid environments as text or images
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samuelfneumann/gominigrid/minigrid"
)

var objectRunes = map[minigrid.ObjectType]rune{
	minigrid.Wall:  '#',
	minigrid.Floor: '_',
	minigrid.Door:  'D',
	minigrid.Key:   'k',
	minigrid.Ball:  'o',
	minigrid.Box:   'b',
	minigrid.Goal:  'G',
	minigrid.Lava:  '~',
}

const emptyRune = '.'

// Runes returns one rune per cell of the grid of e, indexed [y][x]. The
// agent is drawn as an arrow pointing in the direction it faces.
func Runes(e *minigrid.Env) [][]rune {
	g := e.Grid()
	rows := make([][]rune, g.Height())
	for y := range rows {
		rows[y] = make([]rune, g.Width())
		for x := range rows[y] {
			rows[y][x] = emptyRune
			if o := g.Get(x, y); o != nil {
				if r, ok := objectRunes[o.Type()]; ok {
					rows[y][x] = r
				}
			}
		}
	}

	a := e.AgentPos()
	if g.InBounds(a.X, a.Y) {
		rows[a.Y][a.X] = e.AgentDir().Arrow()
	}
	return rows
}

// style returns the lipgloss style of a cell drawn in colour c
func style(c minigrid.Color) lipgloss.Style {
	r, g, b := c.RGB()
	return lipgloss.NewStyle().Foreground(lipgloss.Color(
		fmt.Sprintf("#%02x%02x%02x", r, g, b)))
}

// Text renders e as coloured text, one line per grid row. Adjacent cells
// with the same colour share one style run.
func Text(e *minigrid.Env) string {
	g := e.Grid()
	rows := Runes(e)
	a := e.AgentPos()
	plain := lipgloss.NewStyle()

	colorAt := func(x, y int) (minigrid.Color, bool) {
		if x == a.X && y == a.Y {
			return e.AgentColor(), true
		}
		if o := g.Get(x, y); o != nil {
			return o.Color(), true
		}
		return 0, false
	}

	var sb strings.Builder
	for y, row := range rows {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < len(row) {
			c, ok := colorAt(x, y)

			var run strings.Builder
			for x < len(row) {
				c2, ok2 := colorAt(x, y)
				if ok2 != ok || c2 != c {
					break
				}
				run.WriteRune(row[x])
				x++
			}

			if ok {
				sb.WriteString(style(c).Render(run.String()))
			} else {
				sb.WriteString(plain.Render(run.String()))
			}
		}
	}
	return sb.String()
}

// Header returns a one line summary of the episode state of e
func Header(e *minigrid.Env) string {
	return lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf(
		"step %d/%d  %s", e.StepCount(), e.MaxSteps(), e.Mission()))
}
