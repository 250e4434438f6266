package minigrid

import (
	"image"

	"github.com/samuelfneumann/gominigrid/environment"
	"gonum.org/v1/gonum/mat"
)

// viewExts returns the top left corner of the agent view in grid
// coordinates
func (e *Env) viewExts() image.Point {
	vs := e.config.ViewSize
	a := e.agentPos

	switch e.agentDir {
	case East:
		return image.Pt(a.X, a.Y-vs/2)
	case South:
		return image.Pt(a.X-vs/2, a.Y)
	case West:
		return image.Pt(a.X-vs+1, a.Y-vs/2)
	default:
		return image.Pt(a.X-vs/2, a.Y-vs+1)
	}
}

// ViewGrid returns the grid as seen by the agent, rotated so that the
// agent sits at (vs/2, vs-1) facing the top of the view, together with
// its visibility mask
func (e *Env) ViewGrid() (*Grid, Mask) {
	vs := e.config.ViewSize
	top := e.viewExts()

	g := e.grid.Slice(top.X, top.Y, vs, vs)
	for i := 0; i < int(e.agentDir)+1; i++ {
		g = g.RotateLeft()
	}

	var vis Mask
	if e.config.SeeThroughWalls {
		vis = NewMask(vs, vs, true)
	} else {
		vis = g.ProcessVis(vs/2, vs-1)
	}

	// The agent sees what it carries in its own cell
	g.Set(vs/2, vs-1, e.carrying)

	return g, vis
}

// Observe returns the encoding of the agent view
func (e *Env) Observe() *mat.VecDense {
	g, vis := e.ViewGrid()
	vs := e.config.ViewSize
	return mat.NewVecDense(vs*vs*3, g.Encode(vis))
}

// ViewCoords returns the coordinates of grid cell (x, y) in the agent
// view. The coordinates may fall outside the view.
func (e *Env) ViewCoords(x, y int) image.Point {
	vs := e.config.ViewSize
	d := e.agentDir.Vec()
	r := e.agentDir.RightVec()

	// Top left corner of the view in grid coordinates
	tx := e.agentPos.X + d.X*(vs-1) - r.X*(vs/2)
	ty := e.agentPos.Y + d.Y*(vs-1) - r.Y*(vs/2)

	lx, ly := x-tx, y-ty
	return image.Pt(r.X*lx+r.Y*ly, -(d.X*lx + d.Y*ly))
}

// RelativeCoords returns the coordinates of grid cell (x, y) in the
// agent view and whether the cell lies inside the view
func (e *Env) RelativeCoords(x, y int) (image.Point, bool) {
	v := e.ViewCoords(x, y)
	vs := e.config.ViewSize
	if v.X < 0 || v.Y < 0 || v.X >= vs || v.Y >= vs {
		return image.Point{}, false
	}
	return v, true
}

// InView returns whether grid cell (x, y) lies inside the agent view
func (e *Env) InView(x, y int) bool {
	_, ok := e.RelativeCoords(x, y)
	return ok
}

// AgentSees returns whether the agent can see grid cell (x, y), taking
// walls into account
func (e *Env) AgentSees(x, y int) bool {
	v, ok := e.RelativeCoords(x, y)
	if !ok {
		return false
	}
	_, vis := e.ViewGrid()
	return vis[v.X][v.Y]
}

// ActionSpec returns the action specification of the Env
func (e *Env) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{float64(NumActions - 1)})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// ObservationSpec returns the observation specification of the Env
func (e *Env) ObservationSpec() environment.Spec {
	vs := e.config.ViewSize
	return EncodingSpec(vs * vs)
}

// EncodingSpec returns the observation specification of a grid encoding
// of the given number of cells
func EncodingSpec(cells int) environment.Spec {
	shape := mat.NewVecDense(cells*3, nil)
	lower := mat.NewVecDense(cells*3, nil)
	upper := mat.NewVecDense(cells*3, nil)
	for i := 0; i < cells; i++ {
		upper.SetVec(i*3, float64(NumObjectTypes-1))
		upper.SetVec(i*3+1, float64(NumColors-1))
		upper.SetVec(i*3+2, float64(NumDirections-1))
	}

	return environment.NewSpec(shape, environment.Observation, lower,
		upper, environment.Discrete)
}

// RewardSpec returns the reward specification of the Env
func (e *Env) RewardSpec() environment.Spec {
	r := e.task.RewardRange()
	shape := mat.NewVecDense(1, nil)
	min := mat.NewVecDense(1, []float64{r.Min})
	max := mat.NewVecDense(1, []float64{r.Max})

	return environment.NewSpec(shape, environment.Reward, min, max,
		environment.Continuous)
}

// DiscountSpec returns the discount specification of the Env
func (e *Env) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{e.config.Discount})
	upperBound := mat.NewVecDense(1, []float64{e.config.Discount})

	return environment.NewSpec(shape, environment.Discount, lowerBound,
		upperBound, environment.Continuous)
}
