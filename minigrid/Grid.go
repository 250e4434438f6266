package minigrid

import (
	"fmt"
	"image"
)

// Mask is a visibility mask indexed as mask[x][y]
type Mask [][]bool

// NewMask returns a width x height mask with every cell set to v
func NewMask(width, height int, v bool) Mask {
	m := make(Mask, width)
	for i := range m {
		m[i] = make([]bool, height)
		if v {
			for j := range m[i] {
				m[i][j] = true
			}
		}
	}
	return m
}

// Grid is a rectangular array of cells, each of which is either empty
// (nil) or holds exactly one Object
type Grid struct {
	width, height int
	cells         []*Object
}

// NewGrid returns a new empty grid. NewGrid panics if either dimension
// is smaller than 1.
func NewGrid(width, height int) *Grid {
	if width < 1 || height < 1 {
		panic(fmt.Sprintf("newGrid: illegal grid size (%d, %d)", width,
			height))
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]*Object, width*height),
	}
}

// Width returns the width of the grid
func (g *Grid) Width() int { return g.width }

// Height returns the height of the grid
func (g *Grid) Height() int { return g.height }

// InBounds returns whether (x, y) lies inside the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("grid: position (%d, %d) out of bounds for "+
			"grid of size (%d, %d)", x, y, g.width, g.height))
	}
	return y*g.width + x
}

// Get returns the object at (x, y), or nil if the cell is empty. Get
// panics if (x, y) is out of bounds.
func (g *Grid) Get(x, y int) *Object {
	return g.cells[g.index(x, y)]
}

// Set places o at (x, y). A nil o clears the cell. Set panics if (x, y)
// is out of bounds.
func (g *Grid) Set(x, y int, o *Object) {
	g.cells[g.index(x, y)] = o
}

// At returns the object at p
func (g *Grid) At(p image.Point) *Object {
	return g.Get(p.X, p.Y)
}

// HorzWall draws a horizontal wall of the given length starting at
// (x, y). If length is not positive, the wall extends to the right
// edge of the grid.
func (g *Grid) HorzWall(x, y, length int) {
	if length <= 0 {
		length = g.width - x
	}
	for i := 0; i < length; i++ {
		g.Set(x+i, y, NewWall())
	}
}

// VertWall draws a vertical wall of the given length starting at
// (x, y). If length is not positive, the wall extends to the bottom
// edge of the grid.
func (g *Grid) VertWall(x, y, length int) {
	if length <= 0 {
		length = g.height - y
	}
	for j := 0; j < length; j++ {
		g.Set(x, y+j, NewWall())
	}
}

// WallRect draws the outline of a w x h rectangle of walls with top
// left corner (x, y)
func (g *Grid) WallRect(x, y, w, h int) {
	g.HorzWall(x, y, w)
	g.HorzWall(x, y+h-1, w)
	g.VertWall(x, y, h)
	g.VertWall(x+w-1, y, h)
}

// Slice returns the w x h subgrid with top left corner (topX, topY).
// Cells of the subgrid that fall outside of g are walls. The returned
// grid shares objects with g.
func (g *Grid) Slice(topX, topY, w, h int) *Grid {
	s := NewGrid(w, h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			x, y := topX+i, topY+j
			if g.InBounds(x, y) {
				s.Set(i, j, g.Get(x, y))
			} else {
				s.Set(i, j, NewWall())
			}
		}
	}
	return s
}

// RotateLeft returns a copy of g rotated 90 degrees counter-clockwise
func (g *Grid) RotateLeft() *Grid {
	r := NewGrid(g.height, g.width)
	for i := 0; i < g.width; i++ {
		for j := 0; j < g.height; j++ {
			r.Set(j, r.height-1-i, g.Get(i, j))
		}
	}
	return r
}

// ProcessVis computes which cells are visible from (agentX, agentY)
// assuming the agent looks towards the top of the grid. Cells that
// are not visible are cleared from g.
func (g *Grid) ProcessVis(agentX, agentY int) Mask {
	mask := NewMask(g.width, g.height, false)
	mask[agentX][agentY] = true

	for j := g.height - 1; j >= 0; j-- {
		for i := 0; i < g.width-1; i++ {
			if !mask[i][j] {
				continue
			}
			if cell := g.Get(i, j); cell != nil && !cell.SeeBehind() {
				continue
			}
			mask[i+1][j] = true
			if j > 0 {
				mask[i+1][j-1] = true
				mask[i][j-1] = true
			}
		}

		for i := g.width - 1; i > 0; i-- {
			if !mask[i][j] {
				continue
			}
			if cell := g.Get(i, j); cell != nil && !cell.SeeBehind() {
				continue
			}
			mask[i-1][j] = true
			if j > 0 {
				mask[i-1][j-1] = true
				mask[i][j-1] = true
			}
		}
	}

	for j := 0; j < g.height; j++ {
		for i := 0; i < g.width; i++ {
			if !mask[i][j] {
				g.Set(i, j, nil)
			}
		}
	}
	return mask
}

// Encode returns the (type, colour, state) encoding of every cell of g
// flattened in x-major order, so that the encoding of cell (x, y)
// starts at index (x*height+y)*3. Cells hidden by vis are encoded as
// zeros and empty visible cells as (Empty, 0, 0). A nil vis marks
// every cell visible.
func (g *Grid) Encode(vis Mask) []float64 {
	enc := make([]float64, g.width*g.height*3)
	for i := 0; i < g.width; i++ {
		for j := 0; j < g.height; j++ {
			if vis != nil && !vis[i][j] {
				continue
			}
			k := (i*g.height + j) * 3
			cell := g.Get(i, j)
			if cell == nil {
				enc[k] = float64(Empty)
				continue
			}
			code := cell.Encode()
			enc[k], enc[k+1], enc[k+2] = float64(code[0]),
				float64(code[1]), float64(code[2])
		}
	}
	return enc
}

// Clone returns a copy of g. Objects are shared between g and the clone.
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.width, g.height)
	copy(c.cells, g.cells)
	return c
}

// Count returns the number of objects in g for which match returns true
func (g *Grid) Count(match func(*Object) bool) int {
	n := 0
	for _, o := range g.cells {
		if o != nil && match(o) {
			n++
		}
	}
	return n
}

// Objects returns every object on the grid in row-major order
func (g *Grid) Objects() []*Object {
	objs := make([]*Object, 0, len(g.cells))
	for _, o := range g.cells {
		if o != nil {
			objs = append(objs, o)
		}
	}
	return objs
}

// EmptyCells returns the positions of all empty cells in the w x h
// region with top left corner top, ordered column by column
func (g *Grid) EmptyCells(top image.Point, w, h int) []image.Point {
	var cells []image.Point
	for x := top.X; x < top.X+w; x++ {
		for y := top.Y; y < top.Y+h; y++ {
			if g.InBounds(x, y) && g.Get(x, y) == nil {
				cells = append(cells, image.Pt(x, y))
			}
		}
	}
	return cells
}
