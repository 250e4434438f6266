package wrappers

import (
	"fmt"

	env "github.com/samuelfneumann/gominigrid/environment"
	"github.com/samuelfneumann/gominigrid/minigrid"
	ts "github.com/samuelfneumann/gominigrid/timestep"
	"gonum.org/v1/gonum/mat"
)

// XY replaces the observations of a minigrid.Env with the pose of the
// agent: its (x, y) == (col, row) coordinates and the direction it
// faces.
type XY struct {
	*minigrid.Env

	currentTimeStep ts.TimeStep
}

// NewXY returns a new XY environment wrapper
func NewXY(e *minigrid.Env) *XY {
	x := &XY{Env: e}
	step := e.CurrentTimeStep()
	step.Observation = x.getObs()
	x.currentTimeStep = step
	return x
}

// Reset resets the environment to some starting state
func (x *XY) Reset() (ts.TimeStep, error) {
	step, err := x.Env.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	step.Observation = x.getObs()
	x.currentTimeStep = step
	return step, nil
}

// Step takes one environmental step given some action
func (x *XY) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	// step will be the TimeStep with S_{t+1} and R_{t} for action A_{t}
	step, _, err := x.Env.Step(action)
	if err != nil {
		return ts.TimeStep{}, true, err
	}

	step.Observation = x.getObs()
	x.currentTimeStep = step
	return step, step.Last(), nil
}

// StepAction takes one environmental step with action a
func (x *XY) StepAction(a minigrid.Action) (ts.TimeStep, bool, error) {
	return x.Step(mat.NewVecDense(1, []float64{float64(a)}))
}

// CurrentTimeStep returns the current time step in the environment
func (x *XY) CurrentTimeStep() ts.TimeStep {
	return x.currentTimeStep
}

func (x *XY) getObs() *mat.VecDense {
	p := x.AgentPos()
	return mat.NewVecDense(3, []float64{
		float64(p.X),
		float64(p.Y),
		float64(x.AgentDir()),
	})
}

// ObservationSpec returns the observation specification of the
// environment. Coordinates are bounded by the current grid, which some
// tasks replace during an episode.
func (x *XY) ObservationSpec() env.Spec {
	g := x.Grid()
	shape := mat.NewVecDense(3, nil)
	low := mat.NewVecDense(3, []float64{0, 0, 0})
	high := mat.NewVecDense(3, []float64{
		float64(g.Width() - 1),
		float64(g.Height() - 1),
		float64(minigrid.NumDirections - 1),
	})

	return env.NewSpec(shape, env.Observation, low, high, env.Discrete)
}

// String returns the string representation of the environment
func (x *XY) String() string {
	return fmt.Sprintf("XY: %v", x.Env)
}
