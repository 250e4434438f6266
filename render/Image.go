package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/gominigrid/minigrid"
)

// DefaultTile is the default size of a cell in pixels
const DefaultTile = 32

var (
	background = color.RGBA{0, 0, 0, 255}
	gridLine   = color.RGBA{100, 100, 100, 255}
	shade      = color.RGBA{0, 0, 0, 128}
)

func rgb(c minigrid.Color) color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{r, g, b, 255}
}

// Image draws e with tile x tile pixel cells. Cells the agent cannot
// see are shaded.
func Image(e *minigrid.Env, tile int) (image.Image, error) {
	if tile < 4 {
		return nil, fmt.Errorf("image: tile size must be at least 4 but "+
			"got %v", tile)
	}

	g := e.Grid()
	t := float64(tile)
	dc := gg.NewContext(g.Width()*tile, g.Height()*tile)
	dc.SetColor(background)
	dc.Clear()

	_, vis := e.ViewGrid()
	a := e.AgentPos()

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			px, py := float64(x)*t, float64(y)*t

			if o := g.Get(x, y); o != nil {
				drawObject(dc, o, px, py, t)
			}
			if x == a.X && y == a.Y {
				drawAgent(dc, e.AgentDir(), e.AgentColor(), px, py, t)
			}

			dc.SetColor(gridLine)
			dc.SetLineWidth(1)
			dc.DrawRectangle(px, py, t, t)
			dc.Stroke()

			v, ok := e.RelativeCoords(x, y)
			if !ok || !vis[v.X][v.Y] {
				dc.SetColor(shade)
				dc.DrawRectangle(px, py, t, t)
				dc.Fill()
			}
		}
	}

	return dc.Image(), nil
}

// SavePNG draws e and saves the image as a PNG file at path
func SavePNG(e *minigrid.Env, tile int, path string) error {
	img, err := Image(e, tile)
	if err != nil {
		return fmt.Errorf("savePNG: %v", err)
	}
	return gg.SavePNG(path, img)
}

func drawObject(dc *gg.Context, o *minigrid.Object, px, py, t float64) {
	c := rgb(o.Color())
	dc.SetColor(c)

	switch o.Type() {
	case minigrid.Wall, minigrid.Goal:
		dc.DrawRectangle(px, py, t, t)
		dc.Fill()

	case minigrid.Floor:
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 128)
		dc.DrawRectangle(px+1, py+1, t-2, t-2)
		dc.Fill()

	case minigrid.Lava:
		dc.SetColor(rgb(minigrid.Orange))
		dc.DrawRectangle(px, py, t, t)
		dc.Fill()

	case minigrid.Ball:
		dc.DrawCircle(px+t/2, py+t/2, t*0.31)
		dc.Fill()

	case minigrid.Key:
		dc.DrawCircle(px+t*0.56, py+t*0.28, t*0.19)
		dc.Fill()
		dc.DrawRectangle(px+t*0.5, py+t*0.31, t*0.13, t*0.57)
		dc.Fill()
		dc.DrawRectangle(px+t*0.38, py+t*0.59, t*0.12, t*0.07)
		dc.DrawRectangle(px+t*0.38, py+t*0.81, t*0.12, t*0.07)
		dc.Fill()

	case minigrid.Box:
		dc.SetLineWidth(t * 0.06)
		dc.DrawRectangle(px+t*0.12, py+t*0.12, t*0.76, t*0.76)
		dc.Stroke()
		dc.DrawLine(px+t*0.12, py+t/2, px+t*0.88, py+t/2)
		dc.Stroke()

	case minigrid.Door:
		dc.SetLineWidth(t * 0.06)
		dc.DrawRectangle(px+t*0.04, py+t*0.04, t*0.92, t*0.92)
		dc.Stroke()
	}
}

// drawAgent draws the agent as a triangle pointing in direction d
func drawAgent(dc *gg.Context, d minigrid.Direction, c minigrid.Color,
	px, py, t float64) {
	cx, cy := px+t/2, py+t/2
	angle := float64(d) * math.Pi / 2

	dc.Push()
	dc.RotateAbout(angle, cx, cy)
	dc.MoveTo(px+t*0.12, py+t*0.19)
	dc.LineTo(px+t*0.87, py+t*0.5)
	dc.LineTo(px+t*0.12, py+t*0.81)
	dc.ClosePath()
	dc.SetColor(rgb(c))
	dc.Fill()
	dc.Pop()
}
